package ingredient

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/recipro/internal/domain"
)

// KeySeparator joins name and unit in a consolidation key.
const KeySeparator = "|"

var (
	trailingClause = regexp.MustCompile(`\s*,.*$`)
	parenthetical  = regexp.MustCompile(`\s*\(.*?\)`)
)

// BaseName strips comma clauses and parenthetical notes from a parsed
// name: "onion, diced (about 1 cup)" becomes "onion".
func BaseName(name string) string {
	n := trailingClause.ReplaceAllString(name, "")
	n = parenthetical.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

// Key builds the consolidation key for a parsed ingredient. Lines with the
// same substance but different units get different keys.
func Key(p domain.ParsedIngredient) string {
	return BaseName(p.Name) + KeySeparator + NormalizeUnit(p.Unit)
}

// SplitKey reverses Key.
func SplitKey(key string) (name, unit string) {
	name, unit, _ = strings.Cut(key, KeySeparator)
	return name, unit
}
