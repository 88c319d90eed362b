package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
)

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type storeUnderTest interface {
	domain.RecipeStore
	domain.RecipeSearcher
	domain.StatsProvider
}

func forEachStore(t *testing.T, fn func(t *testing.T, s storeUnderTest)) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)

	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore(log)
		s.now = steppingClock()
		fn(t, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "recipes.db"), log)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		s.now = steppingClock()
		fn(t, s)
	})
}

func pizza() *domain.Recipe {
	return &domain.Recipe{
		ID:           "margherita-pizza",
		Title:        "Margherita Pizza",
		Category:     "Main Course",
		Servings:     4,
		Ingredients:  []string{"1 pizza dough", "1/2 cup tomato sauce", "8 oz fresh mozzarella"},
		Instructions: []string{"Preheat oven to 475F.", "Assemble and bake."},
		Tips:         "Use a pizza stone.",
	}
}

func cake() *domain.Recipe {
	return &domain.Recipe{
		ID:          "lava-cake",
		Title:       "Chocolate Lava Cake",
		Category:    "Dessert",
		Servings:    4,
		Ingredients: []string{"4 oz dark chocolate", "2 eggs"},
	}
}

func TestStoreAddAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()

		added, err := s.Add(ctx, pizza())
		require.NoError(t, err)
		assert.Equal(t, 1, added.Version)
		assert.False(t, added.DateCreated.IsZero())
		assert.True(t, added.DateCreated.Equal(added.DateModified))

		got, err := s.Get(ctx, "margherita-pizza")
		require.NoError(t, err)
		assert.Equal(t, "Margherita Pizza", got.Title)
		assert.Equal(t, 4, got.Servings)
		assert.Equal(t, pizza().Ingredients, got.Ingredients)
		assert.Equal(t, pizza().Instructions, got.Instructions)
		assert.Equal(t, "Use a pizza stone.", got.Tips)
		assert.True(t, got.DateCreated.Equal(added.DateCreated))
	})
}

func TestStoreAddDuplicate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		_, err := s.Add(ctx, pizza())
		require.NoError(t, err)

		_, err = s.Add(ctx, pizza())
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})
}

func TestStoreAddValidation(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()

		noTitle := pizza()
		noTitle.Title = "  "
		_, err := s.Add(ctx, noTitle)
		assert.ErrorIs(t, err, domain.ErrValidation)

		noID := pizza()
		noID.ID = ""
		_, err = s.Add(ctx, noID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestStoreGetMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		_, err := s.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStoreReturnsCopies(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		_, err := s.Add(ctx, pizza())
		require.NoError(t, err)

		got, err := s.Get(ctx, "margherita-pizza")
		require.NoError(t, err)
		got.Title = "Changed"
		got.Ingredients[0] = "changed"

		again, err := s.Get(ctx, "margherita-pizza")
		require.NoError(t, err)
		assert.Equal(t, "Margherita Pizza", again.Title)
		assert.Equal(t, "1 pizza dough", again.Ingredients[0])
	})
}

func TestStoreUpdate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		added, err := s.Add(ctx, pizza())
		require.NoError(t, err)

		edit := pizza()
		edit.Servings = 6
		edit.Ingredients = []string{"2 pizza dough"}
		updated, err := s.Update(ctx, edit)
		require.NoError(t, err)

		assert.Equal(t, 2, updated.Version)
		assert.True(t, updated.DateCreated.Equal(added.DateCreated))
		assert.True(t, updated.DateModified.After(added.DateModified))

		got, err := s.Get(ctx, "margherita-pizza")
		require.NoError(t, err)
		assert.Equal(t, 6, got.Servings)
		assert.Equal(t, []string{"2 pizza dough"}, got.Ingredients)
		assert.Equal(t, 2, got.Version)
	})
}

func TestStoreUpdateUpserts(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		updated, err := s.Update(ctx, cake())
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Version)

		got, err := s.Get(ctx, "lava-cake")
		require.NoError(t, err)
		assert.Equal(t, "Chocolate Lava Cake", got.Title)
	})
}

func TestStoreDeleteAndClear(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		_, err := s.Add(ctx, pizza())
		require.NoError(t, err)
		_, err = s.Add(ctx, cake())
		require.NoError(t, err)

		ok, err := s.Delete(ctx, "margherita-pizza")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, "margherita-pizza")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Get(ctx, "margherita-pizza")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, s.Clear(ctx))
		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestStoreGetAllSortedByTitle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		_, err := s.Add(ctx, pizza())
		require.NoError(t, err)
		_, err = s.Add(ctx, cake())
		require.NoError(t, err)

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Chocolate Lava Cake", all[0].Title)
		assert.Equal(t, "Margherita Pizza", all[1].Title)
	})
}

func TestStoreSearch(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		_, err := s.Add(ctx, pizza())
		require.NoError(t, err)
		_, err = s.Add(ctx, cake())
		require.NoError(t, err)

		found, err := s.SearchByTitle(ctx, "PIZZA")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "margherita-pizza", found[0].ID)

		found, err = s.SearchByTitle(ctx, "soup")
		require.NoError(t, err)
		assert.Empty(t, found)

		desserts, err := s.ByCategory(ctx, "dessert")
		require.NoError(t, err)
		require.Len(t, desserts, 1)
		assert.Equal(t, "lava-cake", desserts[0].ID)
	})
}

func TestStoreStats(t *testing.T) {
	forEachStore(t, func(t *testing.T, s storeUnderTest) {
		ctx := context.Background()
		_, err := s.Add(ctx, pizza())
		require.NoError(t, err)
		_, err = s.Add(ctx, cake())
		require.NoError(t, err)
		_, err = s.Update(ctx, pizza())
		require.NoError(t, err)

		st, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, st.Total)
		assert.Equal(t, map[string]int{"Main Course": 1, "Dessert": 1}, st.Categories)
		require.Len(t, st.RecentlyAdded, 2)
		assert.Equal(t, "lava-cake", st.RecentlyAdded[0].ID)
		require.Len(t, st.RecentlyModified, 2)
		assert.Equal(t, "margherita-pizza", st.RecentlyModified[0].ID)
	})
}

func TestBuildStatsCapsRecentLists(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var all []*domain.Recipe
	for i := 0; i < 8; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		all = append(all, &domain.Recipe{ID: string(rune('a' + i)), Title: "r", DateCreated: ts, DateModified: ts})
	}

	st := BuildStats(all)
	assert.Equal(t, 8, st.Total)
	assert.Len(t, st.RecentlyAdded, recentLimit)
	assert.Equal(t, "h", st.RecentlyAdded[0].ID)
	assert.Equal(t, 8, st.Categories[""])
}
