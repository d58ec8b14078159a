package autofill

import (
	"regexp"
	"unicode/utf8"
)

// minGuessLength is the shortest digit run taken as a code when no length
// is known.
const minGuessLength = 4

var (
	tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)
	digitPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ExtractCode finds a code in a free-text message such as an SMS. Tokens are
// maximal runs of ASCII letters and digits. The first all-digit token of
// exactly length runes wins; failing that, the first token of that length.
// With length <= 0 the first all-digit token of at least four runes is used.
func ExtractCode(message string, length int) (string, bool) {
	tokens := tokenPattern.FindAllString(message, -1)

	if length <= 0 {
		for _, tok := range tokens {
			if digitPattern.MatchString(tok) && utf8.RuneCountInString(tok) >= minGuessLength {
				return tok, true
			}
		}
		return "", false
	}

	for _, tok := range tokens {
		if len(tok) == length && digitPattern.MatchString(tok) {
			return tok, true
		}
	}
	for _, tok := range tokens {
		if len(tok) == length {
			return tok, true
		}
	}
	return "", false
}
