package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/recipro/internal/auth"
	"github.com/hammamikhairi/recipro/internal/backup"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/recipe"
	"github.com/hammamikhairi/recipro/internal/storage"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
}

func setupEngine(t *testing.T, user string) (*Engine, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()
	if _, err := backup.SeedDefaults(ctx, store, log); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	eng := New(store, auth.NewStaticProvider(user), log, WithClock(fixedClock))
	return eng, ctx
}

func TestResolve(t *testing.T) {
	eng, ctx := setupEngine(t, "guest")

	// Numbers need a listing first.
	if _, err := eng.Resolve(ctx, "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before listing, got %v", err)
	}

	recipes, err := eng.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"1", recipes[0].ID, nil},
		{"3", recipes[2].ID, nil},
		{recipe.GrilledSalmonID, recipe.GrilledSalmonID, nil},
		{"0", "", domain.ErrNotFound},
		{"4", "", domain.ErrNotFound},
		{"nonexistent", "", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r, err := eng.Resolve(ctx, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.ID != tt.wantID {
				t.Fatalf("expected ID %s, got %s", tt.wantID, r.ID)
			}
		})
	}
}

func TestSearchUpdatesListing(t *testing.T) {
	eng, ctx := setupEngine(t, "guest")

	found, err := eng.Search(ctx, "lava")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 result, got %d", len(found))
	}
	r, err := eng.Resolve(ctx, "1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.ID != recipe.ChocolateLavaCakeID {
		t.Fatalf("expected lava cake, got %s", r.ID)
	}
}

func TestScaleClamps(t *testing.T) {
	eng, ctx := setupEngine(t, "guest")

	tests := []struct {
		students   int
		wantFactor int
	}{
		{3, 3},
		{0, 1},
		{-5, 1},
		{250, 100},
	}
	for _, tt := range tests {
		s, err := eng.Scale(ctx, recipe.MargheritaPizzaID, tt.students)
		if err != nil {
			t.Fatalf("scale: %v", err)
		}
		if s.ScaleFactor != tt.wantFactor {
			t.Errorf("students=%d: factor %d, want %d", tt.students, s.ScaleFactor, tt.wantFactor)
		}
	}
}

func TestParseMultiplier(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 1, false},
		{"2", 2, false},
		{"1.5", 1.5, false},
		{"1/2", 0.5, false},
		{"1 1/2", 1.5, false},
		{"0", 0, true},
		{"lots", 0, true},
		{"1/0", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMultiplier(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ParseMultiplier(%q): expected validation error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMultiplier(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestCombinationFlow(t *testing.T) {
	eng, ctx := setupEngine(t, "guest")

	if _, err := eng.ShoppingList(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty combination, got %v", err)
	}

	if _, err := eng.AddToCombo(ctx, recipe.MargheritaPizzaID, 1); err != nil {
		t.Fatalf("add pizza: %v", err)
	}
	if _, err := eng.AddToCombo(ctx, recipe.GrilledSalmonID, 2); err != nil {
		t.Fatalf("add salmon: %v", err)
	}
	if _, err := eng.AddToCombo(ctx, recipe.GrilledSalmonID, -1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	list, err := eng.ShoppingList()
	if err != nil {
		t.Fatalf("shopping list: %v", err)
	}
	if !strings.Contains(list, "☐ 6 tbsp olive oil") {
		t.Fatalf("olive oil not consolidated:\n%s", list)
	}

	if _, ok, err := eng.SetMultiplier(ctx, recipe.GrilledSalmonID, 1); err != nil || !ok {
		t.Fatalf("set multiplier: ok=%v err=%v", ok, err)
	}
	list, _ = eng.ShoppingList()
	if !strings.Contains(list, "☐ 4 tbsp olive oil") {
		t.Fatalf("multiplier change not applied:\n%s", list)
	}

	if _, ok, err := eng.SetMultiplier(ctx, recipe.ChocolateLavaCakeID, 2); err != nil || ok {
		t.Fatalf("multiplier on uncombined recipe: ok=%v err=%v", ok, err)
	}

	breakdown, err := eng.Breakdown()
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if !strings.Contains(breakdown, "🔸 OLIVE OIL") {
		t.Fatalf("breakdown missing olive oil:\n%s", breakdown)
	}

	var buf bytes.Buffer
	if err := eng.ExportShoppingList(&buf); err != nil {
		t.Fatalf("export list: %v", err)
	}
	if !strings.Contains(buf.String(), "SUMMARY") {
		t.Fatalf("export missing summary:\n%s", buf.String())
	}

	if _, ok, err := eng.RemoveFromCombo(ctx, recipe.MargheritaPizzaID); err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if got := eng.Combination().Len(); got != 1 {
		t.Fatalf("expected 1 combined recipe, got %d", got)
	}

	eng.ClearCombo()
	if got := eng.Combination().Len(); got != 0 {
		t.Fatalf("expected empty combination, got %d", got)
	}
}

func TestExportImportRequireAdmin(t *testing.T) {
	guest, ctx := setupEngine(t, "guest")

	var buf bytes.Buffer
	if _, err := guest.Export(ctx, &buf); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := guest.Import(ctx, strings.NewReader(`{"recipes": []}`)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	chef, ctx := setupEngine(t, "Chef Anna")
	bundle, err := chef.Export(ctx, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if bundle.TotalRecipes != 3 {
		t.Fatalf("expected 3 exported recipes, got %d", bundle.TotalRecipes)
	}

	res, err := chef.Import(ctx, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Successful != 3 || res.Failed != 0 {
		t.Fatalf("unexpected import result: %+v", res)
	}
}

func TestStats(t *testing.T) {
	eng, ctx := setupEngine(t, "guest")
	st, err := eng.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 3 || st.Categories["Dessert"] != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}
