// Package scaler scales a single recipe for a class of students.
//
// The scale factor is the student count itself: one student cooks one
// batch of the base recipe. The recipe's Servings field only feeds the
// displayed total and never enters the multiplication.
package scaler

import (
	"math"
	"strconv"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/ingredient"
)

// Student count bounds callers are expected to enforce.
const (
	MinStudents = 1
	MaxStudents = 100
)

// Scaled is a recipe rendered for a given student count.
type Scaled struct {
	RecipeID      string   `json:"recipeId"`
	Title         string   `json:"title"`
	ScaleFactor   int      `json:"scaleFactor"`
	BaseServings  int      `json:"baseServings"`
	TotalServings int      `json:"totalServings"`
	Lines         []string `json:"ingredients"`
}

// ClampStudents bounds n to [MinStudents, MaxStudents].
func ClampStudents(n int) int {
	if n < MinStudents {
		return MinStudents
	}
	if n > MaxStudents {
		return MaxStudents
	}
	return n
}

// ScaleRecipe multiplies every quantified ingredient by students.
// Lines without a quantity pass through untouched. The caller clamps
// students with ClampStudents; ScaleRecipe does not.
func ScaleRecipe(r *domain.Recipe, students int) Scaled {
	out := Scaled{
		RecipeID:      r.ID,
		Title:         r.Title,
		ScaleFactor:   students,
		BaseServings:  r.Servings,
		TotalServings: r.Servings * students,
		Lines:         make([]string, 0, len(r.Ingredients)),
	}
	for _, line := range r.Ingredients {
		out.Lines = append(out.Lines, ScaleLine(ingredient.Parse(line), float64(students)))
	}
	return out
}

// ScaleLine renders one parsed ingredient multiplied by factor.
func ScaleLine(p domain.ParsedIngredient, factor float64) string {
	if !p.HasQuantity {
		return p.Original
	}
	qty := formatScaled(p.Quantity * factor)
	if p.Unit != "" {
		return qty + " " + p.Unit + " " + p.Name
	}
	return qty + " " + p.Name
}

// formatScaled renders amounts below one as fractions, whole numbers
// as integers and everything else with up to two decimals.
func formatScaled(q float64) string {
	switch {
	case q > 0 && q < 1:
		return ingredient.ToFraction(q)
	case q == math.Trunc(q):
		return strconv.FormatFloat(q, 'f', 0, 64)
	default:
		return ingredient.TrimDecimal(strconv.FormatFloat(q, 'f', 2, 64))
	}
}
