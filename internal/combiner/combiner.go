// Package combiner merges several recipes, each with its own multiplier,
// into one consolidated ingredient list.
package combiner

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/ingredient"
	"github.com/hammamikhairi/recipro/internal/logger"
)

// Option configures a Session.
type Option func(*Session)

// WithStrictOrdering makes the most recent call for a recipe win even when
// an earlier AddRecipe's store fetch resolves later. Without it the last
// fetch to resolve wins.
func WithStrictOrdering() Option {
	return func(s *Session) {
		s.strict = true
	}
}

// WithLanguage sets the collation language used to sort ingredient names.
func WithLanguage(tag language.Tag) Option {
	return func(s *Session) {
		s.lang = tag
	}
}

// entry is one selected recipe. The recipe is a snapshot taken at add time.
type entry struct {
	recipe     *domain.Recipe
	multiplier float64
}

// Session owns one combination of recipes. Every change rebuilds the
// consolidated list from scratch. A Session is safe for concurrent use;
// store fetches run outside the lock.
type Session struct {
	store domain.RecipeStore
	log   *logger.Logger

	mu           sync.Mutex
	order        []string
	selected     map[string]*entry
	consolidated map[string]*domain.ConsolidatedIngredient
	keyOrder     []string

	strict  bool
	seq     uint64
	tickets map[string]uint64

	lang     language.Tag
	collator *collate.Collator
}

// New creates an empty combination session backed by store.
func New(store domain.RecipeStore, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		store:        store,
		log:          log,
		selected:     make(map[string]*entry),
		consolidated: make(map[string]*domain.ConsolidatedIngredient),
		tickets:      make(map[string]uint64),
		lang:         language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.collator = collate.New(s.lang, collate.IgnoreCase)
	return s
}

func validMultiplier(m float64) error {
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return fmt.Errorf("%w: multiplier must be a positive number, got %v", domain.ErrValidation, m)
	}
	return nil
}

// AddRecipe fetches id from the store and selects it with the given
// multiplier. Re-adding an id overwrites its multiplier and snapshot in
// place. A failed fetch leaves the session untouched.
func (s *Session) AddRecipe(ctx context.Context, id string, multiplier float64) error {
	if err := validMultiplier(multiplier); err != nil {
		return err
	}

	ticket := s.issueTicket(id)

	r, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("getting recipe %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.strict && s.tickets[id] != ticket {
		s.log.Debug("discarding stale add for %s (ticket %d, current %d)", id, ticket, s.tickets[id])
		return nil
	}

	if e, ok := s.selected[id]; ok {
		e.recipe = r
		e.multiplier = multiplier
	} else {
		s.selected[id] = &entry{recipe: r, multiplier: multiplier}
		s.order = append(s.order, id)
	}
	s.rebuild()
	s.log.Info("combination: added %q x%v (%d recipes)", r.Title, multiplier, len(s.order))
	return nil
}

// issueTicket records a new call for id. Only meaningful in strict mode.
func (s *Session) issueTicket(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.strict {
		return 0
	}
	s.seq++
	s.tickets[id] = s.seq
	return s.seq
}

// RemoveRecipe deselects id. It reports whether anything was removed.
func (s *Session) RemoveRecipe(id string) bool {
	s.issueTicket(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; !ok {
		return false
	}
	delete(s.selected, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.rebuild()
	s.log.Info("combination: removed %s (%d recipes)", id, len(s.order))
	return true
}

// UpdateMultiplier changes the multiplier of a selected recipe. It returns
// false, nil when id is not selected.
func (s *Session) UpdateMultiplier(id string, multiplier float64) (bool, error) {
	if err := validMultiplier(multiplier); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.selected[id]
	if !ok {
		return false, nil
	}
	e.multiplier = multiplier
	s.rebuild()
	s.log.Debug("combination: %s multiplier now %v", id, multiplier)
	return true, nil
}

// Clear empties the selection and the consolidated list.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.selected = make(map[string]*entry)
	s.consolidated = make(map[string]*domain.ConsolidatedIngredient)
	s.keyOrder = nil
	s.log.Debug("combination cleared")
}

// Len returns the number of selected recipes.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Selection returns the selected recipes in the order they were added.
func (s *Session) Selection() []domain.SelectedRecipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Session) selectionLocked() []domain.SelectedRecipe {
	out := make([]domain.SelectedRecipe, 0, len(s.order))
	for _, id := range s.order {
		e := s.selected[id]
		out = append(out, domain.SelectedRecipe{
			ID:               id,
			Title:            e.recipe.Title,
			Multiplier:       e.multiplier,
			OriginalServings: e.recipe.Servings,
			AdjustedServings: float64(e.recipe.Servings) * e.multiplier,
		})
	}
	return out
}

// Consolidated returns the merged ingredients: quantified entries first,
// then by name using case-insensitive collation. Entries are copies.
func (s *Session) Consolidated() []domain.ConsolidatedIngredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consolidatedLocked()
}

func (s *Session) consolidatedLocked() []domain.ConsolidatedIngredient {
	out := make([]domain.ConsolidatedIngredient, 0, len(s.keyOrder))
	for _, k := range s.keyOrder {
		c := *s.consolidated[k]
		c.Sources = append([]domain.Source(nil), c.Sources...)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HasQuantity != out[j].HasQuantity {
			return out[i].HasQuantity
		}
		return s.collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Summary totals the current combination.
func (s *Session) Summary() domain.CombinationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selectionLocked()
	ings := s.consolidatedLocked()

	sum := domain.CombinationSummary{
		TotalRecipes:     len(sel),
		TotalIngredients: len(ings),
		Recipes:          sel,
	}
	for _, r := range sel {
		sum.TotalServings += r.AdjustedServings
	}
	for _, ing := range ings {
		if ing.HasQuantity {
			sum.QuantifiedIngredients++
		} else {
			sum.NonQuantifiedIngredients++
		}
	}
	return sum
}

// rebuild recomputes the consolidated map from the selection. Callers
// hold s.mu.
func (s *Session) rebuild() {
	s.consolidated = make(map[string]*domain.ConsolidatedIngredient)
	s.keyOrder = s.keyOrder[:0]

	for _, id := range s.order {
		e := s.selected[id]
		for _, line := range e.recipe.Ingredients {
			p := ingredient.Parse(line)
			key := ingredient.Key(p)
			src := domain.Source{
				RecipeTitle:      e.recipe.Title,
				OriginalQuantity: p.Quantity,
				Multiplier:       e.multiplier,
				AdjustedQuantity: p.Quantity * e.multiplier,
				HasQuantity:      p.HasQuantity,
			}

			c, ok := s.consolidated[key]
			if !ok {
				c = &domain.ConsolidatedIngredient{
					Key:  key,
					Name: p.Name,
					Unit: p.Unit,
				}
				s.consolidated[key] = c
				s.keyOrder = append(s.keyOrder, key)
			}
			c.Sources = append(c.Sources, src)
			if p.HasQuantity {
				c.TotalQuantity += src.AdjustedQuantity
				c.HasQuantity = true
			}
		}
	}
}
