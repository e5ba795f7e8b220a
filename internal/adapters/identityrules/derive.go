package identityrules

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// AdvisorCodeLen bounds advisors.codigo.
	AdvisorCodeLen = 10
	// MatriculaLen bounds students.matricula.
	MatriculaLen = 15
)

// DeriveCode uppercases the local part of email, strips dots and truncates
// the result to maxLen characters.
func DeriveCode(email string, maxLen int) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	code := strings.ReplaceAll(strings.ToUpper(local), ".", "")
	if maxLen > 0 {
		code = truncateRunes(code, maxLen)
	}
	return code
}

// WithSuffix returns a variant of code that still fits maxLen, used when
// the derived code collides with an existing one. attempt starts at 1.
func WithSuffix(code string, attempt, maxLen int) string {
	suffix := strconv.Itoa(attempt + 1)
	if maxLen > 0 {
		code = truncateRunes(code, max(maxLen-len(suffix), 0))
	}
	return code + suffix
}

// truncateRunes cuts s to at most n runes so multibyte letters stay whole.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// IsCoordinator reports whether the address suggests a coordinator or director.
func IsCoordinator(email string) bool {
	lower := strings.ToLower(email)
	return strings.Contains(lower, "coord") || strings.Contains(lower, "diretor")
}
