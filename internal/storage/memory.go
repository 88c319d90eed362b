// Package storage provides recipe store implementations.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.RecipeStore    = (*MemoryStore)(nil)
	_ domain.RecipeSearcher = (*MemoryStore)(nil)
	_ domain.StatsProvider  = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory recipe store. Safe for concurrent access.
// Recipes are copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory recipe store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
		now:     time.Now,
	}
}

// Get returns a recipe by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	return r.Clone(), nil
}

// GetAll returns every recipe ordered by title.
func (s *MemoryStore) GetAll(ctx context.Context) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Clone())
	}
	sortByTitle(out)
	s.log.Debug("listing all recipes, count=%d", len(out))
	return out, nil
}

// Add stores a new recipe. It fails with ErrAlreadyExists when the ID is
// taken. Version starts at 1 and both timestamps are set to now.
func (s *MemoryStore) Add(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if recipe.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; ok {
		return nil, fmt.Errorf("recipe %s: %w", recipe.ID, domain.ErrAlreadyExists)
	}

	stored := recipe.Clone()
	now := s.now()
	stored.DateCreated = now
	stored.DateModified = now
	stored.Version = 1
	s.recipes[stored.ID] = stored
	s.log.Info("recipe added: %s (%s)", stored.Title, stored.ID)
	return stored.Clone(), nil
}

// Update upserts a recipe, bumping its version and modification time.
// DateCreated is preserved for existing records.
func (s *MemoryStore) Update(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if recipe.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := recipe.Clone()
	now := s.now()
	if prev, ok := s.recipes[recipe.ID]; ok {
		stored.DateCreated = prev.DateCreated
		stored.Version = prev.Version + 1
	} else {
		if stored.DateCreated.IsZero() {
			stored.DateCreated = now
		}
		stored.Version = recipe.Version + 1
	}
	stored.DateModified = now
	s.recipes[stored.ID] = stored
	s.log.Info("recipe updated: %s (v%d)", stored.Title, stored.Version)
	return stored.Clone(), nil
}

// Delete removes a recipe, reporting whether it existed.
func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return false, nil
	}
	delete(s.recipes, id)
	s.log.Debug("deleted recipe %s", id)
	return true, nil
}

// Clear removes every recipe.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.recipes)
	s.recipes = make(map[string]*domain.Recipe)
	s.log.Info("cleared %d recipes", n)
	return nil
}

// SearchByTitle returns recipes whose title contains query, ignoring case.
func (s *MemoryStore) SearchByTitle(ctx context.Context, query string) ([]*domain.Recipe, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Recipe
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r.Clone())
		}
	}
	sortByTitle(out)
	return out, nil
}

// ByCategory returns recipes in the given category, ignoring case.
func (s *MemoryStore) ByCategory(ctx context.Context, category string) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Recipe
	for _, r := range s.recipes {
		if strings.EqualFold(r.Category, category) {
			out = append(out, r.Clone())
		}
	}
	sortByTitle(out)
	return out, nil
}

// Stats summarises the store.
func (s *MemoryStore) Stats(ctx context.Context) (*domain.RecipeStats, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStats(all), nil
}

// recentLimit caps the recently added/modified lists in stats.
const recentLimit = 5

// BuildStats computes category counts and the most recent recipes.
func BuildStats(all []*domain.Recipe) *domain.RecipeStats {
	st := &domain.RecipeStats{
		Total:      len(all),
		Categories: make(map[string]int),
	}
	for _, r := range all {
		st.Categories[r.Category]++
	}

	byCreated := append([]*domain.Recipe(nil), all...)
	sort.SliceStable(byCreated, func(i, j int) bool {
		return byCreated[i].DateCreated.After(byCreated[j].DateCreated)
	})
	st.RecentlyAdded = head(byCreated, recentLimit)

	byModified := append([]*domain.Recipe(nil), all...)
	sort.SliceStable(byModified, func(i, j int) bool {
		return byModified[i].DateModified.After(byModified[j].DateModified)
	})
	st.RecentlyModified = head(byModified, recentLimit)
	return st
}

func head(rs []*domain.Recipe, n int) []*domain.Recipe {
	if len(rs) > n {
		return rs[:n]
	}
	return rs
}

func sortByTitle(rs []*domain.Recipe) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Title != rs[j].Title {
			return rs[i].Title < rs[j].Title
		}
		return rs[i].ID < rs[j].ID
	})
}
