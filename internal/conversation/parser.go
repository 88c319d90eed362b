// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Capture groups become the intent's arguments.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// A recipe reference is a list number or an ID.
const ref = `(\S+)`

// A multiplier, optionally prefixed with x, × or *.
const multiplier = `[x×*]?(\d+(?:\.\d+)?|\d+/\d+)`

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(?:quit|exit|q|bye)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(?:list|ls|recipes|browse)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`(?i)^(?:shop|shopping|shopping list|list shopping|groceries)$`), domain.IntentShoppingList},
		{regexp.MustCompile(`(?i)^(?:breakdown|details|detail)$`), domain.IntentBreakdown},
		{regexp.MustCompile(`(?i)^(?:combo|selection|selected|status)$`), domain.IntentSelection},
		{regexp.MustCompile(`(?i)^(?:clear|reset)$`), domain.IntentClearCombo},
		{regexp.MustCompile(`(?i)^(?:stats|statistics)$`), domain.IntentStats},
		{regexp.MustCompile(`(?i)^(?:show|view|open)\s+` + ref + `$`), domain.IntentShowRecipe},
		{regexp.MustCompile(`(?i)^scale\s+` + ref + `(?:\s+(?:for\s+)?(-?\d+)(?:\s+students?)?)?$`), domain.IntentScale},
		{regexp.MustCompile(`(?i)^(?:add|combine)\s+` + ref + `(?:\s+` + multiplier + `)?$`), domain.IntentAddToCombo},
		{regexp.MustCompile(`(?i)^(?:remove|rm|drop)\s+` + ref + `$`), domain.IntentRemoveFromCombo},
		{regexp.MustCompile(`(?i)^(?:mult|multiplier|times|set)\s+` + ref + `\s+` + multiplier + `$`), domain.IntentMultiplier},
		{regexp.MustCompile(`(?i)^(?:search|find)\s+(.+)$`), domain.IntentSearch},
		{regexp.MustCompile(`(?i)^export(?:\s+(.+))?$`), domain.IntentExport},
		{regexp.MustCompile(`(?i)^import\s+(.+)$`), domain.IntentImport},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number shows that recipe from the last listing.
	if len(trimmed) <= 3 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentShowRecipe, Args: []string{trimmed}}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		var args []string
		for _, g := range m[1:] {
			if g != "" {
				args = append(args, g)
			}
		}
		return &domain.Intent{Type: rule.intent, Args: args}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Args: []string{trimmed}}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
