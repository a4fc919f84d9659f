package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards for use with ESCAPE '\'.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// ContainsPattern builds a case-folded substring pattern for
// `LOWER(col) LIKE ? ESCAPE '\'`.
func ContainsPattern(value string) string {
	return "%" + EscapeLike(strings.ToLower(value)) + "%"
}
