package interpret

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// filterDialable keeps only decimal digits and plus signs.
func filterDialable(text string) string {
	var builder strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) || r == '+' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// plausibleNumber reports whether an already-filtered string looks like a
// dialable number for the configured region. Anything the parser rejects is
// not plausible.
func (i *Interpreter) plausibleNumber(filtered string) bool {
	if filtered == "" {
		return false
	}
	number, err := phonenumbers.Parse(filtered, i.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(number)
}
