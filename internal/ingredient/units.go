package ingredient

import "strings"

// unitSynonyms maps every accepted spelling to one canonical token per unit.
var unitSynonyms = map[string]string{
	// Volume
	"cup": "cup", "cups": "cup", "c": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbs": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp",
	"fluid ounce": "fl oz", "fluid ounces": "fl oz", "fl oz": "fl oz",
	"pint": "pint", "pints": "pint", "pt": "pint",
	"quart": "quart", "quarts": "quart", "qt": "quart",
	"gallon": "gallon", "gallons": "gallon", "gal": "gallon",
	"liter": "liter", "liters": "liter", "l": "liter",
	"milliliter": "ml", "milliliters": "ml", "ml": "ml",

	// Weight
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"gram": "g", "grams": "g", "g": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg",

	// Count
	"piece": "piece", "pieces": "piece",
	"slice": "slice", "slices": "slice",
	"clove": "clove", "cloves": "clove",
	"head": "head", "heads": "head",
	"bunch": "bunch", "bunches": "bunch",
	"package": "package", "packages": "package", "pkg": "package",
	"can": "can", "cans": "can",
	"jar": "jar", "jars": "jar",
	"bottle": "bottle", "bottles": "bottle",
}

// NormalizeUnit returns the canonical token for unit. Lookup is
// case-insensitive; unknown units come back lowercased and trimmed.
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canon, ok := unitSynonyms[u]; ok {
		return canon
	}
	return u
}

// IsUnit reports whether word (case-insensitive) is a known unit spelling.
func IsUnit(word string) bool {
	_, ok := unitSynonyms[strings.ToLower(strings.TrimSpace(word))]
	return ok
}
