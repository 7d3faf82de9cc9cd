package artifacts

import (
	"strings"
	"unicode"
)

// Numeric identifier bases. Location, item and confirmation-location IDs
// live in disjoint ranges so they never collide across namespaces; the
// exact values are part of the wire contract with the Manual framework.
const (
	locationIDBase     = 1_000_000
	itemIDBase         = 2_000_000
	confirmationIDBase = 3_000_000
)

// locationID returns the stable identifier for the challenge at 0-based
// chapter index c and challenge index i within that chapter.
func locationID(c, i int) int {
	return locationIDBase + (c+1)*100 + i
}

// itemID returns the identifier for the n-th emitted item (0-based).
// Items are numbered sequentially with no gaps: progression items first,
// then filler items in category order, then the synthetic default filler.
func itemID(n int) int {
	return itemIDBase + n
}

// confirmationLocationID returns the identifier for the k-th confirmation
// location overall (0-based, category order then item order).
func confirmationLocationID(k int) int {
	return confirmationIDBase + k
}

// Sanitize turns a display name into a region/filename identifier: trims
// surrounding whitespace, drops every rune that is not a letter, digit,
// underscore, hyphen or space, then replaces the remaining spaces with
// underscores. Sanitizing an already-sanitized name returns it unchanged.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
