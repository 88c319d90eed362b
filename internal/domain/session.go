package domain

// ParsedIngredient is one ingredient line broken into parts. It is never
// persisted; callers re-parse whenever they need it.
//
// When HasQuantity is false, Quantity is 0 and Unit is empty.
type ParsedIngredient struct {
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Name        string  `json:"ingredientName"`
	Original    string  `json:"original"`
	HasQuantity bool    `json:"hasQuantity"`
}

// Source records one recipe's contribution to a consolidated ingredient.
type Source struct {
	RecipeTitle      string  `json:"recipeTitle"`
	OriginalQuantity float64 `json:"originalQuantity"`
	Multiplier       float64 `json:"multiplier"`
	AdjustedQuantity float64 `json:"adjustedQuantity"`
	HasQuantity      bool    `json:"hasQuantity"`
}

// ConsolidatedIngredient merges every line sharing a consolidation key.
// TotalQuantity is meaningful only when HasQuantity is true.
type ConsolidatedIngredient struct {
	Key           string   `json:"key"`
	Name          string   `json:"ingredientName"`
	Unit          string   `json:"unit"`
	TotalQuantity float64  `json:"totalQuantity"`
	HasQuantity   bool     `json:"hasQuantity"`
	Sources       []Source `json:"sources"`
}

// SelectedRecipe is the read-only view of one entry in a combination.
type SelectedRecipe struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Multiplier       float64 `json:"multiplier"`
	OriginalServings int     `json:"originalServings"`
	AdjustedServings float64 `json:"adjustedServings"`
}

// CombinationSummary totals a combination for display.
type CombinationSummary struct {
	TotalRecipes             int              `json:"totalRecipes"`
	TotalServings            float64          `json:"totalServings"`
	TotalIngredients         int              `json:"totalIngredients"`
	QuantifiedIngredients    int              `json:"quantifiedIngredients"`
	NonQuantifiedIngredients int              `json:"nonQuantifiedIngredients"`
	Recipes                  []SelectedRecipe `json:"recipes"`
}
