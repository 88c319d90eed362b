package shopping

import "strings"

// Category is a shopping list aisle.
type Category string

const (
	Produce Category = "Produce"
	Meat    Category = "Meat & Seafood"
	Dairy   Category = "Dairy & Eggs"
	Pantry  Category = "Pantry & Dry Goods"
	Spices  Category = "Spices & Seasonings"
	Other   Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{Produce, Meat, Dairy, Pantry, Spices, Other}

var (
	produceKeywords = []string{
		"tomato", "onion", "garlic", "basil", "parsley", "dill", "chives",
		"lemon", "lime", "carrot", "celery", "potato", "lettuce", "spinach",
		"bell pepper", "mushroom", "avocado", "cucumber", "berries", "apple", "banana",
	}
	meatKeywords = []string{
		"chicken", "beef", "pork", "salmon", "fish", "turkey", "lamb", "shrimp", "crab", "lobster",
	}
	dairyKeywords = []string{
		"milk", "cream", "butter", "cheese", "mozzarella", "parmesan", "cheddar", "yogurt", "sour cream", "egg",
	}
	spiceKeywords = []string{
		"salt", "pepper", "oregano", "thyme", "rosemary", "paprika", "cumin", "cinnamon", "vanilla", "mustard",
	}
	pantryKeywords = []string{"flour", "sugar", "oil", "vinegar"}
)

// classifier pairs a category with the substrings that select it.
type classifier struct {
	category Category
	keywords []string
}

// Checked in order; first match wins.
var classifiers = []classifier{
	{Produce, produceKeywords},
	{Meat, meatKeywords},
	{Dairy, dairyKeywords},
	{Spices, spiceKeywords},
	{Pantry, pantryKeywords},
}

// Categorize buckets an ingredient name by substring match.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, c := range classifiers {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return Other
}
