package recipe

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxSlugLen = 50

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// NewID derives an immutable recipe ID from its title and creation time:
// a lowercase dash-separated slug of at most 50 characters followed by
// the creation time in unix milliseconds.
func NewID(title string, now time.Time) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "")
	slug = whitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
