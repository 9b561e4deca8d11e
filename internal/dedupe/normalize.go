// internal/dedupe/normalize.go
package dedupe

import "strings"

// NormalizePhone reduces a raw phone string to its digits. Two records match
// on phone when their normalized forms are equal and non-empty. Returns ""
// when the input carries no digits at all.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DigitCount returns how many digits the raw phone string contains.
func DigitCount(raw string) int {
	return len(NormalizePhone(raw))
}
