// Package recipe holds the built-in recipes and recipe ID generation.
package recipe

import "github.com/hammamikhairi/recipro/internal/domain"

// Built-in recipe IDs.
const (
	MargheritaPizzaID   = "margherita-pizza"
	GrilledSalmonID     = "grilled-salmon"
	ChocolateLavaCakeID = "chocolate-lava-cake"
)

// DefaultIDs lists the built-in recipe IDs in seeding order.
var DefaultIDs = []string{MargheritaPizzaID, GrilledSalmonID, ChocolateLavaCakeID}

// IsDefault reports whether id belongs to a built-in recipe.
func IsDefault(id string) bool {
	for _, d := range DefaultIDs {
		if d == id {
			return true
		}
	}
	return false
}

// Defaults returns fresh copies of the built-in recipes.
func Defaults() []*domain.Recipe {
	return []*domain.Recipe{
		margheritaPizza(),
		grilledSalmon(),
		chocolateLavaCake(),
	}
}

func margheritaPizza() *domain.Recipe {
	return &domain.Recipe{
		ID:       MargheritaPizzaID,
		Title:    "Classic Margherita Pizza",
		Category: "Main Course",
		Servings: 4,
		Ingredients: []string{
			"1 lb pizza dough",
			"1/2 cup tomato sauce",
			"8 oz fresh mozzarella, sliced",
			"2 tbsp olive oil",
			"1 bunch fresh basil",
			"2 cloves garlic, minced",
			"1/2 tsp salt",
			"cornmeal for dusting",
		},
		Instructions: []string{
			"Preheat the oven to 475°F with a pizza stone inside for at least 30 minutes.",
			"Stretch the dough on a surface dusted with cornmeal to a 12 inch round.",
			"Mix the garlic into the tomato sauce and spread it thinly over the dough.",
			"Lay the mozzarella slices evenly and drizzle with olive oil.",
			"Bake for 10 to 12 minutes until the crust is golden and the cheese bubbles.",
			"Top with torn basil leaves and a pinch of salt before slicing.",
		},
		Tips: "Pat the mozzarella dry so the pizza doesn't go soggy.",
	}
}

func grilledSalmon() *domain.Recipe {
	return &domain.Recipe{
		ID:       GrilledSalmonID,
		Title:    "Herb-Crusted Grilled Salmon",
		Category: "Main Course",
		Servings: 4,
		Ingredients: []string{
			"4 salmon fillets (6 oz each)",
			"2 tbsp olive oil",
			"1 lemon, zested and juiced",
			"3 cloves garlic, minced",
			"2 tbsp fresh dill, chopped",
			"1 tbsp fresh parsley, chopped",
			"1 tsp salt",
			"1/2 tsp black pepper",
		},
		Instructions: []string{
			"Heat the grill to medium-high and oil the grates.",
			"Whisk olive oil, lemon zest, lemon juice, garlic, dill and parsley.",
			"Season the fillets with salt and pepper, then brush with the herb mixture.",
			"Grill skin-side down for 4 to 5 minutes, flip and cook 3 minutes more.",
			"Rest for 2 minutes and serve with the remaining herb mixture.",
		},
		Tips: "The salmon is done when it flakes easily and reads 145°F inside.",
	}
}

func chocolateLavaCake() *domain.Recipe {
	return &domain.Recipe{
		ID:       ChocolateLavaCakeID,
		Title:    "Molten Chocolate Lava Cake",
		Category: "Dessert",
		Servings: 4,
		Ingredients: []string{
			"4 oz dark chocolate, chopped",
			"1/2 cup unsalted butter",
			"2 eggs",
			"2 egg yolks",
			"1/4 cup sugar",
			"2 tbsp all-purpose flour",
			"1 tsp vanilla extract",
			"pinch of salt",
		},
		Instructions: []string{
			"Preheat the oven to 425°F and butter four ramekins.",
			"Melt the chocolate and butter together, then let it cool slightly.",
			"Whisk eggs, yolks and sugar until pale, then fold in the chocolate.",
			"Fold in flour, vanilla and salt until just combined.",
			"Divide into the ramekins and bake 12 to 14 minutes until the edges are set.",
			"Rest 1 minute, run a knife around the edge and invert onto plates.",
		},
		Tips: "The centre should still wobble when you take them out.",
	}
}
