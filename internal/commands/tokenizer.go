// Package commands binds the tracker's three logical operations -- track,
// refresh-all, remove -- to free-form argument text arriving from an external
// chat dispatcher, and turns every outcome into plain reply text for the
// originating channel.
package commands

import (
	"strings"

	"forecastbot/internal/types"
)

// SplitArgs tokenizes command argument text with the grammar
// (quoted-string | bare-word)+. Double or single quotes group multi-word
// tokens, so `"New York" 2025-03-24` yields ["New York", "2025-03-24"].
// Quotes inside a bare word are not special; an unterminated quote consumes
// the rest of the input as one token.
func SplitArgs(text string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune // 0 when outside a quoted region
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				flush()
			} else {
				current.WriteRune(r)
			}
		case (r == '"' || r == '\'') && !inToken:
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()

	return tokens
}

// ParseLocationAndDate splits argument text into a location (possibly
// multi-word when quoted) and a trailing date token. Without quotes, the
// last token is the date and everything before it is the location, so bare
// multi-word names still work: `New York 2025-03-24`.
func ParseLocationAndDate(text string) (location, date string, err error) {
	tokens := SplitArgs(text)
	if len(tokens) < 2 {
		return "", "", types.NewAppError(types.ErrCodeValidationArguments,
			`Please provide both a city and a date. Example: "New York" 2025-03-24`, nil)
	}

	date = tokens[len(tokens)-1]
	location = strings.Join(tokens[:len(tokens)-1], " ")
	return location, date, nil
}
