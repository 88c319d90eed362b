package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/recipe"
	"github.com/hammamikhairi/recipro/internal/storage"
)

func newStore() *storage.MemoryStore {
	return storage.NewMemoryStore(logger.New(logger.LevelOff, nil))
}

func quietLog() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	res, err := SeedDefaults(ctx, store, quietLog())
	require.NoError(t, err)
	assert.Equal(t, Result{Successful: 3, Total: 3}, res)

	// Seeding again updates instead of failing.
	res, err = SeedDefaults(ctx, store, quietLog())
	require.NoError(t, err)
	assert.Equal(t, Result{Successful: 3, Total: 3}, res)

	got, err := store.Get(ctx, recipe.GrilledSalmonID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newStore()
	_, err := SeedDefaults(ctx, src, quietLog())
	require.NoError(t, err)

	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	bundle, err := Export(ctx, src, now)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, bundle.Version)
	assert.Equal(t, 3, bundle.TotalRecipes)
	assert.True(t, bundle.ExportDate.Equal(now))

	var buf bytes.Buffer
	require.NoError(t, bundle.Write(&buf))
	assert.Contains(t, buf.String(), `"exportDate": "2026-05-01T09:30:00Z"`)

	dst := newStore()
	res, err := Import(ctx, dst, &buf, quietLog())
	require.NoError(t, err)
	assert.Equal(t, Result{Successful: 3, Total: 3}, res)

	all, err := dst.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	want, err := src.Get(ctx, recipe.ChocolateLavaCakeID)
	require.NoError(t, err)
	got, err := dst.Get(ctx, recipe.ChocolateLavaCakeID)
	require.NoError(t, err)
	assert.Equal(t, want.Ingredients, got.Ingredients)
	assert.Equal(t, want.Title, got.Title)
}

func TestExportEmptyStore(t *testing.T) {
	bundle, err := Export(context.Background(), newStore(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, bundle.TotalRecipes)

	var buf bytes.Buffer
	require.NoError(t, bundle.Write(&buf))
	assert.Contains(t, buf.String(), `"recipes": []`)
}

func TestImportFallsBackToUpdate(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	_, err := store.Add(ctx, &domain.Recipe{ID: "tacos", Title: "Tacos", Servings: 2})
	require.NoError(t, err)

	doc := `{"recipes": [{"id": "tacos", "title": "Better Tacos", "servings": "6", "ingredients": ["8 tortillas"]}]}`
	res, err := Import(ctx, store, strings.NewReader(doc), quietLog())
	require.NoError(t, err)
	assert.Equal(t, Result{Successful: 1, Total: 1}, res)

	got, err := store.Get(ctx, "tacos")
	require.NoError(t, err)
	assert.Equal(t, "Better Tacos", got.Title)
	assert.Equal(t, 6, got.Servings)
	assert.Equal(t, 2, got.Version)
}

func TestImportTalliesFailures(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	doc := `{"recipes": [
		{"title": "Soup", "servings": 4},
		{"id": "x", "title": ""},
		{"id": "y", "title": "Bad", "servings": "lots"},
		"not an object"
	]}`
	res, err := Import(ctx, store, strings.NewReader(doc), quietLog())
	require.NoError(t, err)
	assert.Equal(t, Result{Successful: 1, Failed: 3, Total: 4}, res)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Soup", all[0].Title)
	assert.True(t, strings.HasPrefix(all[0].ID, "soup-"))
}

func TestImportKeepsSameTitledRecipesApart(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	doc := `{"recipes": [
		{"title": "Soup", "servings": 4, "ingredients": ["1 onion"]},
		{"title": "Soup", "servings": 2, "ingredients": ["2 leeks"]},
		{"title": "Soup", "servings": 6}
	]}`
	res, err := Import(ctx, store, strings.NewReader(doc), quietLog())
	require.NoError(t, err)
	assert.Equal(t, Result{Successful: 3, Total: 3}, res)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	ids := map[string]bool{}
	for _, r := range all {
		ids[r.ID] = true
		assert.Equal(t, 1, r.Version, "%s was overwritten", r.ID)
	}
	assert.Len(t, ids, 3)
}

func TestUniqueID(t *testing.T) {
	taken := map[string]bool{}
	assert.Equal(t, "soup-1", uniqueID("soup-1", taken))
	assert.Equal(t, "soup-1-2", uniqueID("soup-1", taken))
	assert.Equal(t, "soup-1-3", uniqueID("soup-1", taken))
	assert.Equal(t, "stew-1", uniqueID("stew-1", taken))
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `recipes please`},
		{"missing recipes", `{"version": 1}`},
		{"recipes not array", `{"recipes": {"id": "a"}}`},
		{"null recipes", `{"recipes": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(context.Background(), newStore(), strings.NewReader(tt.doc), quietLog())
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBundleJSONFieldNames(t *testing.T) {
	bundle := &Bundle{Version: 1, Recipes: []*domain.Recipe{}}
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	for _, field := range []string{"exportDate", "version", "totalRecipes", "recipes"} {
		assert.Contains(t, string(data), `"`+field+`"`)
	}
}
