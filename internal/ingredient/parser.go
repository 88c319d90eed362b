// Package ingredient parses free-text ingredient lines, normalizes units,
// builds consolidation keys, and formats quantities for display.
package ingredient

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/recipro/internal/domain"
)

// quantityToken matches an integer, decimal, simple fraction or mixed number.
const quantityToken = `\d+(?:\s+\d+/\d+|\.\d+|/\d+)?`

var (
	leadingQuantity = regexp.MustCompile(`^(` + quantityToken + `)\s+(.+)$`)
	twoWordUnit     = regexp.MustCompile(`^(\S+\s+\S+)\s+(.+)$`)
	oneWordUnit     = regexp.MustCompile(`^(\S+)\s+(.+)$`)
)

// rule is one step of the ordered matcher. The first rule that
// returns ok wins.
type rule struct {
	name  string
	match func(line string) (domain.ParsedIngredient, bool)
}

var rules = []rule{
	{"quantity-unit-name", matchWithUnit},
	{"quantity-name", matchWithoutUnit},
	{"name-only", matchNameOnly},
}

// Parse splits an ingredient line into quantity, unit and name. It never
// fails: lines without a usable quantity come back with HasQuantity false
// and the whole trimmed line as the name.
func Parse(line string) domain.ParsedIngredient {
	trimmed := strings.TrimSpace(line)
	for _, r := range rules {
		if p, ok := r.match(trimmed); ok {
			p.Original = line
			return p
		}
	}
	// matchNameOnly always matches; this is unreachable.
	return domain.ParsedIngredient{Name: strings.ToLower(trimmed), Original: line}
}

// RuleFor reports which rule Parse would apply to line.
func RuleFor(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, r := range rules {
		if _, ok := r.match(trimmed); ok {
			return r.name
		}
	}
	return ""
}

func matchWithUnit(line string) (domain.ParsedIngredient, bool) {
	m := leadingQuantity.FindStringSubmatch(line)
	if m == nil {
		return domain.ParsedIngredient{}, false
	}
	qty, ok := ParseQuantity(m[1])
	if !ok {
		return domain.ParsedIngredient{}, false
	}

	// Multi-word units first so "fl oz sauce" doesn't stop at "fl".
	for _, re := range []*regexp.Regexp{twoWordUnit, oneWordUnit} {
		um := re.FindStringSubmatch(m[2])
		if um == nil {
			continue
		}
		unit := strings.Join(strings.Fields(um[1]), " ")
		unit = strings.TrimSuffix(unit, ".")
		if !IsUnit(unit) {
			continue
		}
		return domain.ParsedIngredient{
			Quantity:    qty,
			Unit:        NormalizeUnit(unit),
			Name:        strings.ToLower(strings.TrimSpace(um[2])),
			HasQuantity: true,
		}, true
	}
	return domain.ParsedIngredient{}, false
}

func matchWithoutUnit(line string) (domain.ParsedIngredient, bool) {
	m := leadingQuantity.FindStringSubmatch(line)
	if m == nil || !strings.ContainsAny(m[1], "0123456789") {
		return domain.ParsedIngredient{}, false
	}
	qty, ok := ParseQuantity(m[1])
	if !ok {
		return domain.ParsedIngredient{}, false
	}
	return domain.ParsedIngredient{
		Quantity:    qty,
		Name:        strings.ToLower(strings.TrimSpace(m[2])),
		HasQuantity: true,
	}, true
}

func matchNameOnly(line string) (domain.ParsedIngredient, bool) {
	return domain.ParsedIngredient{Name: strings.ToLower(line)}, true
}

// ParseQuantity converts a quantity token to a number. Mixed numbers
// ("2 1/2") and fractions ("1/2") are split on the slash; anything else
// goes through strconv. A zero denominator is rejected.
func ParseQuantity(tok string) (float64, bool) {
	fields := strings.Fields(tok)
	switch len(fields) {
	case 1:
		if strings.Contains(fields[0], "/") {
			return parseFraction(fields[0])
		}
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case 2:
		whole, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false
		}
		frac, ok := parseFraction(fields[1])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	default:
		return 0, false
	}
}

func parseFraction(s string) (float64, bool) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}
