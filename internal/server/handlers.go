package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hammamikhairi/recipro/internal/auth"
	"github.com/hammamikhairi/recipro/internal/backup"
	"github.com/hammamikhairi/recipro/internal/combiner"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/recipe"
	"github.com/hammamikhairi/recipro/internal/scaler"
	"github.com/hammamikhairi/recipro/internal/shopping"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// RecipeChoice picks one recipe for a combination. A zero multiplier
// means 1.
type RecipeChoice struct {
	ID         string  `json:"id"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// ShoppingListRequest is the body for POST /api/v1/shopping-list.
type ShoppingListRequest struct {
	Recipes []RecipeChoice `json:"recipes"`
}

// CategoryGroup is one aisle of the shopping list.
type CategoryGroup struct {
	Category shopping.Category `json:"category"`
	Items    []string          `json:"items"`
}

// ShoppingListResponse carries both structured and rendered output.
type ShoppingListResponse struct {
	Recipes     []domain.SelectedRecipe         `json:"recipes"`
	Ingredients []domain.ConsolidatedIngredient `json:"ingredients"`
	Categories  []CategoryGroup                 `json:"categories"`
	Summary     domain.CombinationSummary       `json:"summary"`
	Text        string                          `json:"text"`
	Breakdown   string                          `json:"breakdown"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleListRecipes lists recipes, optionally filtered by ?q= (title
// substring) and ?category=.
func (s *Server) handleListRecipes(c echo.Context) error {
	recipes, err := s.findRecipes(c.Request().Context(), c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, recipes)
}

func (s *Server) findRecipes(ctx context.Context, query, category string) ([]*domain.Recipe, error) {
	var (
		recipes []*domain.Recipe
		err     error
	)
	searcher, canSearch := s.store.(domain.RecipeSearcher)
	switch {
	case query != "" && canSearch:
		recipes, err = searcher.SearchByTitle(ctx, query)
	case category != "" && canSearch:
		recipes, err = searcher.ByCategory(ctx, category)
	default:
		recipes, err = s.store.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	// Apply whichever filters the store did not.
	out := make([]*domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) {
			continue
		}
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Server) handleGetRecipe(c echo.Context) error {
	r, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleCreateRecipe(c echo.Context) error {
	var r domain.Recipe
	if err := c.Bind(&r); err != nil {
		s.zap.Warn("invalid recipe body", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if r.ID == "" {
		r.ID = recipe.NewID(r.Title, s.now())
	}

	added, err := s.store.Add(c.Request().Context(), &r)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, added)
}

func (s *Server) handleUpdateRecipe(c echo.Context) error {
	var r domain.Recipe
	if err := c.Bind(&r); err != nil {
		s.zap.Warn("invalid recipe body", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// The ID is immutable; the path wins.
	r.ID = c.Param("id")

	updated, err := s.store.Update(c.Request().Context(), &r)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteRecipe(c echo.Context) error {
	id := c.Param("id")
	ok, err := s.store.Delete(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("recipe %s not found", id))
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleClearRecipes(c echo.Context) error {
	ctx := c.Request().Context()
	if err := auth.RequireAdmin(ctx, s.users); err != nil {
		return httpError(err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleScaleRecipe scales for ?students=N, clamped to [1, 100].
func (s *Server) handleScaleRecipe(c echo.Context) error {
	students := scaler.MinStudents
	if v := c.QueryParam("students"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "students must be an integer")
		}
		students = n
	}

	r, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, scaler.ScaleRecipe(r, scaler.ClampStudents(students)))
}

func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()
	if sp, ok := s.store.(domain.StatsProvider); ok {
		st, err := sp.Stats(ctx)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, st)
	}
	return echo.NewHTTPError(http.StatusNotImplemented, "store does not report statistics")
}

func (s *Server) handleShoppingList(c echo.Context) error {
	var req ShoppingListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := s.buildShoppingList(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// buildShoppingList combines the chosen recipes in a fresh session.
func (s *Server) buildShoppingList(ctx context.Context, req ShoppingListRequest) (*ShoppingListResponse, error) {
	if len(req.Recipes) == 0 {
		return nil, fmt.Errorf("%w: at least one recipe is required", domain.ErrValidation)
	}

	session := combiner.New(s.store, s.log)
	for _, choice := range req.Recipes {
		m := choice.Multiplier
		if m == 0 {
			m = 1
		}
		if err := session.AddRecipe(ctx, choice.ID, m); err != nil {
			return nil, err
		}
	}

	selection := session.Selection()
	consolidated := session.Consolidated()
	gen := s.shoppingGenerator()

	groups := shopping.Group(consolidated)
	var cats []CategoryGroup
	for _, cat := range shopping.Categories {
		items := groups[cat]
		if len(items) == 0 {
			continue
		}
		g := CategoryGroup{Category: cat}
		for _, it := range items {
			g.Items = append(g.Items, it.Text)
		}
		cats = append(cats, g)
	}

	s.metrics.shoppingLists.Inc()
	return &ShoppingListResponse{
		Recipes:     selection,
		Ingredients: consolidated,
		Categories:  cats,
		Summary:     session.Summary(),
		Text:        gen.Generate(selection, consolidated),
		Breakdown:   gen.DetailedBreakdown(consolidated),
	}, nil
}

func (s *Server) handleExport(c echo.Context) error {
	ctx := c.Request().Context()
	if err := auth.RequireAdmin(ctx, s.users); err != nil {
		return httpError(err)
	}
	bundle, err := backup.Export(ctx, s.store, s.now())
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="recipes-backup-%s.json"`, s.now().Format("2006-01-02")))
	return c.JSON(http.StatusOK, bundle)
}

func (s *Server) handleImport(c echo.Context) error {
	ctx := c.Request().Context()
	if err := auth.RequireAdmin(ctx, s.users); err != nil {
		return httpError(err)
	}
	res, err := backup.Import(ctx, s.store, c.Request().Body, s.log)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// categoryCounts is used by the MCP list tool to report what's in the store.
func categoryCounts(recipes []*domain.Recipe) []string {
	counts := make(map[string]int)
	for _, r := range recipes {
		counts[r.Category]++
	}
	out := make([]string, 0, len(counts))
	for cat, n := range counts {
		out = append(out, fmt.Sprintf("%s (%d)", cat, n))
	}
	sort.Strings(out)
	return out
}
