package response

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// camelCaser title-cases non-ASCII runes correctly; grounded on the
// teacher's schema/field/internal/gen.go use of x/text/cases for
// generated-code identifier casing. The ASCII fast path below never
// touches it: database column names are overwhelmingly ASCII
// snake_case.
var camelCaser = cases.Title(language.Und, cases.NoLower)

// SnakeToCamel converts a snake_case column name to the camelCase key a
// GraphQL JSON response expects (§4.E). Rewriting happens once, at
// compile time, against the CompiledType's field list -- never per row
// -- so this need not be branch-free, just correct.
func SnakeToCamel(s string) string {
	if !strings.ContainsRune(s, '_') {
		return s
	}
	if isASCII(s) {
		return snakeToCamelASCII(s)
	}
	return snakeToCamelUnicode(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func snakeToCamelASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upperNext = false
		b.WriteByte(c)
	}
	return b.String()
}

func snakeToCamelUnicode(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(camelCaser.String(part))
	}
	return b.String()
}
