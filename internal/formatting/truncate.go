package formatting

import (
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultDescriptionMaxLen is the widest description shown in a table cell.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen leaves room for one character plus "...".
const MinTruncateLen = 4

// TruncateDescription collapses s onto one line and cuts it to maxLen runes,
// marking the cut with "...".
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return text.Trim(s, maxLen-3) + "..."
}
