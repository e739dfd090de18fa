package service

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 drops invalid byte sequences so text is safe to store in
// PostgreSQL text columns. Model output and extracted document text are
// the usual offenders.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
