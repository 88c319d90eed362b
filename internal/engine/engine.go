// Package engine drives an interactive recipe workspace: browsing the
// store, scaling a recipe for a class and building a combined shopping
// list. The REPL and the one-shot commands both go through it.
package engine

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/recipro/internal/auth"
	"github.com/hammamikhairi/recipro/internal/backup"
	"github.com/hammamikhairi/recipro/internal/combiner"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/ingredient"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/scaler"
	"github.com/hammamikhairi/recipro/internal/shopping"
)

// Option configures the engine.
type Option func(*Engine)

// WithClock replaces time.Now for exports and shopping list footers.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithCombinerOptions passes options through to the combination session.
func WithCombinerOptions(opts ...combiner.Option) Option {
	return func(e *Engine) {
		e.comboOpts = append(e.comboOpts, opts...)
	}
}

// Engine holds one user's workspace. It depends only on interfaces and
// is fully testable with the in-memory store.
type Engine struct {
	store     domain.RecipeStore
	users     domain.UserProvider
	log       *logger.Logger
	now       func() time.Time
	comboOpts []combiner.Option
	combo     *combiner.Session

	mu      sync.Mutex
	listing []string // IDs from the last listing, for numeric references
}

// New creates an engine with the given dependencies and options.
func New(store domain.RecipeStore, users domain.UserProvider, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		users: users,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.combo = combiner.New(store, log, e.comboOpts...)
	return e
}

// Combination exposes the combination session, e.g. for a status bar.
func (e *Engine) Combination() *combiner.Session {
	return e.combo
}

// ListRecipes returns every recipe and remembers the order so later
// commands can refer to them by number.
func (e *Engine) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	recipes, err := e.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	e.remember(recipes)
	return recipes, nil
}

// Search returns recipes whose title contains query and remembers them
// as the current listing.
func (e *Engine) Search(ctx context.Context, query string) ([]*domain.Recipe, error) {
	var (
		recipes []*domain.Recipe
		err     error
	)
	if searcher, ok := e.store.(domain.RecipeSearcher); ok {
		recipes, err = searcher.SearchByTitle(ctx, query)
	} else {
		recipes, err = e.filterAll(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("searching recipes: %w", err)
	}
	e.remember(recipes)
	return recipes, nil
}

func (e *Engine) filterAll(ctx context.Context, query string) ([]*domain.Recipe, error) {
	all, err := e.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []*domain.Recipe
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (e *Engine) remember(recipes []*domain.Recipe) {
	ids := make([]string, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	e.mu.Lock()
	e.listing = ids
	e.mu.Unlock()
}

// Resolve turns a reference into a recipe. A number is a 1-based index
// into the last listing; anything else is a recipe ID.
func (e *Engine) Resolve(ctx context.Context, ref string) (*domain.Recipe, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		e.mu.Lock()
		listing := e.listing
		e.mu.Unlock()
		if n < 1 || n > len(listing) {
			return nil, fmt.Errorf("recipe #%d: %w (list has %d recipes)", n, domain.ErrNotFound, len(listing))
		}
		ref = listing[n-1]
	}
	return e.store.Get(ctx, ref)
}

// Scale renders a recipe for students, clamped to the allowed range.
func (e *Engine) Scale(ctx context.Context, ref string, students int) (scaler.Scaled, error) {
	r, err := e.Resolve(ctx, ref)
	if err != nil {
		return scaler.Scaled{}, err
	}
	clamped := scaler.ClampStudents(students)
	if clamped != students {
		e.log.Debug("student count %d clamped to %d", students, clamped)
	}
	return scaler.ScaleRecipe(r, clamped), nil
}

// ParseMultiplier reads "2", "1.5", "1/2" or "1 1/2". Empty means 1.
func ParseMultiplier(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	m, ok := ingredient.ParseQuantity(s)
	if !ok || m <= 0 {
		return 0, fmt.Errorf("%w: %q is not a positive multiplier", domain.ErrValidation, s)
	}
	return m, nil
}

// AddToCombo adds (or re-adds) a recipe to the combination.
func (e *Engine) AddToCombo(ctx context.Context, ref string, multiplier float64) (*domain.Recipe, error) {
	r, err := e.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := e.combo.AddRecipe(ctx, r.ID, multiplier); err != nil {
		return nil, err
	}
	return r, nil
}

// RemoveFromCombo drops a recipe from the combination.
func (e *Engine) RemoveFromCombo(ctx context.Context, ref string) (*domain.Recipe, bool, error) {
	r, err := e.Resolve(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	return r, e.combo.RemoveRecipe(r.ID), nil
}

// SetMultiplier changes the multiplier of a combined recipe.
func (e *Engine) SetMultiplier(ctx context.Context, ref string, multiplier float64) (*domain.Recipe, bool, error) {
	r, err := e.Resolve(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	ok, err := e.combo.UpdateMultiplier(r.ID, multiplier)
	return r, ok, err
}

// ClearCombo empties the combination.
func (e *Engine) ClearCombo() {
	e.combo.Clear()
}

func (e *Engine) generator() *shopping.Generator {
	return shopping.New(shopping.WithClock(e.now))
}

func (e *Engine) requireCombination() error {
	if e.combo.Len() == 0 {
		return fmt.Errorf("%w: no recipes combined yet", domain.ErrValidation)
	}
	return nil
}

// ShoppingList renders the combined shopping list.
func (e *Engine) ShoppingList() (string, error) {
	if err := e.requireCombination(); err != nil {
		return "", err
	}
	return e.generator().Generate(e.combo.Selection(), e.combo.Consolidated()), nil
}

// Breakdown renders the per-source ingredient breakdown.
func (e *Engine) Breakdown() (string, error) {
	if err := e.requireCombination(); err != nil {
		return "", err
	}
	return e.generator().DetailedBreakdown(e.combo.Consolidated()), nil
}

// ExportShoppingList writes the shopping list with its summary block.
func (e *Engine) ExportShoppingList(w io.Writer) error {
	if err := e.requireCombination(); err != nil {
		return err
	}
	text := e.generator().ExportText(e.combo.Selection(), e.combo.Consolidated(), e.combo.Summary())
	if _, err := io.WriteString(w, text+"\n"); err != nil {
		return fmt.Errorf("writing shopping list: %w", err)
	}
	return nil
}

// Stats summarises the store, when the store supports it.
func (e *Engine) Stats(ctx context.Context) (*domain.RecipeStats, error) {
	sp, ok := e.store.(domain.StatsProvider)
	if !ok {
		return nil, fmt.Errorf("store does not report statistics")
	}
	return sp.Stats(ctx)
}

// Export writes every recipe as a JSON bundle. Admin only.
func (e *Engine) Export(ctx context.Context, w io.Writer) (*backup.Bundle, error) {
	if err := auth.RequireAdmin(ctx, e.users); err != nil {
		return nil, err
	}
	bundle, err := backup.Export(ctx, e.store, e.now())
	if err != nil {
		return nil, err
	}
	if err := bundle.Write(w); err != nil {
		return nil, err
	}
	e.log.Info("exported %d recipes", bundle.TotalRecipes)
	return bundle, nil
}

// Import loads a JSON bundle. Admin only.
func (e *Engine) Import(ctx context.Context, r io.Reader) (backup.Result, error) {
	if err := auth.RequireAdmin(ctx, e.users); err != nil {
		return backup.Result{}, err
	}
	return backup.Import(ctx, e.store, r, e.log)
}

// CurrentUser reports who is operating the workspace.
func (e *Engine) CurrentUser(ctx context.Context) (domain.User, error) {
	return e.users.CurrentUser(ctx)
}
