package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentListRecipes
	IntentShowRecipe
	IntentScale
	IntentAddToCombo // add a recipe to the combination, optional multiplier
	IntentRemoveFromCombo
	IntentMultiplier
	IntentSelection
	IntentShoppingList
	IntentBreakdown
	IntentClearCombo
	IntentSearch
	IntentExport // write the bundle to a file
	IntentImport
	IntentStats
	IntentQuit
	IntentHelp
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentListRecipes:
		return "list_recipes"
	case IntentShowRecipe:
		return "show_recipe"
	case IntentScale:
		return "scale"
	case IntentAddToCombo:
		return "add_to_combo"
	case IntentRemoveFromCombo:
		return "remove_from_combo"
	case IntentMultiplier:
		return "multiplier"
	case IntentSelection:
		return "selection"
	case IntentShoppingList:
		return "shopping_list"
	case IntentBreakdown:
		return "breakdown"
	case IntentClearCombo:
		return "clear_combo"
	case IntentSearch:
		return "search"
	case IntentExport:
		return "export"
	case IntentImport:
		return "import"
	case IntentStats:
		return "stats"
	case IntentQuit:
		return "quit"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type IntentType
	// Args holds positional arguments, e.g. recipe reference and multiplier.
	Args []string
}

// Arg returns the i-th argument or "" when absent.
func (in *Intent) Arg(i int) string {
	if i < 0 || i >= len(in.Args) {
		return ""
	}
	return in.Args[i]
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"list_recipes":      IntentListRecipes,
	"show_recipe":       IntentShowRecipe,
	"scale":             IntentScale,
	"add_to_combo":      IntentAddToCombo,
	"remove_from_combo": IntentRemoveFromCombo,
	"multiplier":        IntentMultiplier,
	"selection":         IntentSelection,
	"shopping_list":     IntentShoppingList,
	"breakdown":         IntentBreakdown,
	"clear_combo":       IntentClearCombo,
	"search":            IntentSearch,
	"export":            IntentExport,
	"import":            IntentImport,
	"stats":             IntentStats,
	"quit":              IntentQuit,
	"help":              IntentHelp,
	"unknown":           IntentUnknown,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnknown
}
