package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hammamikhairi/recipro/internal/auth"
	"github.com/hammamikhairi/recipro/internal/backup"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/scaler"
)

// ServerInfo identifies the tool endpoint.
var ServerInfo = protocol.Implementation{
	Name:    "recipro",
	Version: "1.0.0",
}

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// ListRecipesParams filters list_recipes.
type ListRecipesParams struct {
	Query    string `json:"query,omitempty" description:"Title substring to search for"`
	Category string `json:"category,omitempty" description:"Only recipes in this category"`
}

// GetRecipeParams selects a recipe.
type GetRecipeParams struct {
	ID string `json:"id" description:"Recipe ID"`
}

// ScaleRecipeParams scales a recipe for a class.
type ScaleRecipeParams struct {
	ID       string `json:"id" description:"Recipe ID"`
	Students int    `json:"students" description:"Number of students (1-100)"`
}

// RecipeSummary is the compact listing returned by list_recipes.
type RecipeSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Servings int    `json:"servings"`
}

func (s *Server) tools() map[string]toolHandler {
	return map[string]toolHandler{
		"list_recipes":   s.toolListRecipes,
		"get_recipe":     s.toolGetRecipe,
		"scale_recipe":   s.toolScaleRecipe,
		"shopping_list":  s.toolShoppingList,
		"export_recipes": s.toolExportRecipes,
	}
}

// ToolNames lists the registered tools in name order.
func (s *Server) ToolNames() []string {
	tools := s.tools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) handleMCPInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"server": ServerInfo,
		"tools":  s.ToolNames(),
	})
}

// handleMCP decodes a tool call and routes it by name.
func (s *Server) handleMCP(c echo.Context) error {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
	}

	handler, ok := s.tools()[request.Name]
	if !ok {
		s.metrics.toolCall("unknown", domain.ErrNotFound)
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown tool: %s", request.Name))
	}

	result, err := handler(c.Request().Context(), &request)
	s.metrics.toolCall(request.Name, err)
	if err != nil {
		s.zap.Warn("tool call failed", zap.String("tool", request.Name), zap.Error(err))
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// extractParams converts the argument map into a typed params struct.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: marshalling arguments: %v", domain.ErrValidation, err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: invalid arguments: %v", domain.ErrValidation, err)
	}
	return nil
}

func createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshalling response: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}

func createTextResponse(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func (s *Server) toolListRecipes(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListRecipesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	recipes, err := s.findRecipes(ctx, params.Query, params.Category)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, RecipeSummary{ID: r.ID, Title: r.Title, Category: r.Category, Servings: r.Servings})
	}
	return createJSONResponse(map[string]interface{}{
		"count":      len(summaries),
		"categories": categoryCounts(recipes),
		"recipes":    summaries,
	})
}

func (s *Server) toolGetRecipe(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetRecipeParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	r, err := s.store.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(r)
}

func (s *Server) toolScaleRecipe(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ScaleRecipeParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	r, err := s.store.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(scaler.ScaleRecipe(r, scaler.ClampStudents(params.Students)))
}

func (s *Server) toolShoppingList(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ShoppingListRequest
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	resp, err := s.buildShoppingList(ctx, params)
	if err != nil {
		return nil, err
	}
	return createTextResponse(resp.Text), nil
}

func (s *Server) toolExportRecipes(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	if err := auth.RequireAdmin(ctx, s.users); err != nil {
		return nil, err
	}
	bundle, err := backup.Export(ctx, s.store, s.now())
	if err != nil {
		return nil, err
	}
	return createJSONResponse(bundle)
}
