// Package shopping renders consolidated ingredients as printable text:
// a categorized shopping list and a per-source breakdown.
package shopping

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/ingredient"
)

const (
	listRuleWidth      = 50
	breakdownRuleWidth = 60
)

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator renders shopping lists. It holds no state besides its clock.
type Generator struct {
	now func() time.Time
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Item is one rendered shopping list line with its category.
type Item struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Group buckets consolidated ingredients into categories, keeping the
// input order inside each bucket. Empty categories are absent.
func Group(consolidated []domain.ConsolidatedIngredient) map[Category][]Item {
	out := make(map[Category][]Item)
	for _, c := range consolidated {
		cat := Categorize(c.Name)
		out[cat] = append(out[cat], Item{Category: cat, Text: ItemText(c)})
	}
	return out
}

// ItemText renders "qty unit name", or just the name when unquantified.
func ItemText(c domain.ConsolidatedIngredient) string {
	if !c.HasQuantity {
		return c.Name
	}
	qty := strings.TrimSpace(ingredient.FormatQuantity(c.TotalQuantity) + " " + c.Unit)
	if qty == "" {
		return c.Name
	}
	return qty + " " + c.Name
}

// Generate renders the full shopping list.
func (g *Generator) Generate(selection []domain.SelectedRecipe, consolidated []domain.ConsolidatedIngredient) string {
	var b strings.Builder

	b.WriteString("🛒 SHOPPING LIST\n")
	b.WriteString(strings.Repeat("═", listRuleWidth) + "\n\n")

	b.WriteString("📋 RECIPES INCLUDED:\n")
	for _, r := range selection {
		b.WriteString("• " + r.Title)
		if r.Multiplier != 1 {
			b.WriteString(" (×" + formatNumber(r.Multiplier) + ")")
		}
		b.WriteString(" - " + formatNumber(r.AdjustedServings) + " servings\n")
	}
	b.WriteString("\n")

	groups := Group(consolidated)
	for _, cat := range Categories {
		items := groups[cat]
		if len(items) == 0 {
			continue
		}
		name := string(cat)
		b.WriteString("\n" + strings.ToUpper(name) + ":\n")
		b.WriteString(strings.Repeat("─", len([]rune(name))+1) + "\n")
		for _, it := range items {
			b.WriteString("☐ " + it.Text + "\n")
		}
	}

	now := g.now()
	b.WriteString("\n" + strings.Repeat("═", listRuleWidth) + "\n")
	fmt.Fprintf(&b, "Generated on %s at %s\n", now.Format("1/2/2006"), now.Format("3:04:05 PM"))
	fmt.Fprintf(&b, "Total recipes: %d | Total ingredients: %d", len(selection), len(consolidated))
	return b.String()
}

// DetailedBreakdown lists each ingredient with its total and the
// arithmetic behind every contributing recipe.
func (g *Generator) DetailedBreakdown(consolidated []domain.ConsolidatedIngredient) string {
	var b strings.Builder

	b.WriteString("📊 DETAILED INGREDIENT BREAKDOWN\n")
	b.WriteString(strings.Repeat("═", breakdownRuleWidth) + "\n\n")

	for _, c := range consolidated {
		b.WriteString("🔸 " + strings.ToUpper(c.Name) + "\n")
		if c.HasQuantity {
			b.WriteString("   Total needed: " + withUnit(ingredient.FormatQuantity(c.TotalQuantity), c.Unit) + "\n")
		}
		b.WriteString("   Used in:\n")
		for _, src := range c.Sources {
			if !c.HasQuantity || !src.HasQuantity {
				b.WriteString("   • " + src.RecipeTitle + "\n")
				continue
			}
			b.WriteString("   • " + src.RecipeTitle + ": " + withUnit(ingredient.FormatQuantity(src.OriginalQuantity), c.Unit))
			if src.Multiplier != 1 {
				b.WriteString(" × " + formatNumber(src.Multiplier) + " = " + withUnit(ingredient.FormatQuantity(src.AdjustedQuantity), c.Unit))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ExportText is the shopping list followed by a summary block, suitable
// for saving to a file.
func (g *Generator) ExportText(selection []domain.SelectedRecipe, consolidated []domain.ConsolidatedIngredient, sum domain.CombinationSummary) string {
	var b strings.Builder
	b.WriteString(g.Generate(selection, consolidated))
	b.WriteString("\n\n")
	b.WriteString(Summarize(sum))
	return b.String()
}

// Summarize renders combination totals.
func Summarize(sum domain.CombinationSummary) string {
	var b strings.Builder
	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("─", 8) + "\n")
	fmt.Fprintf(&b, "Recipes: %d\n", sum.TotalRecipes)
	fmt.Fprintf(&b, "Servings: %s\n", formatNumber(sum.TotalServings))
	fmt.Fprintf(&b, "Ingredients: %d (%d measured, %d unmeasured)\n",
		sum.TotalIngredients, sum.QuantifiedIngredients, sum.NonQuantifiedIngredients)
	return b.String()
}

func withUnit(qty, unit string) string {
	return strings.TrimSpace(qty + " " + unit)
}

// formatNumber prints multipliers and servings without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
