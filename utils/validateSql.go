package utils

import (
	"regexp"
	"strings"
)

// forbidden matches statements that modify data or schema.
var forbidden = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|ALTER|TRUNCATE|INSERT|CREATE|GRANT)\b`)

// ValidateSQL reports whether query is a single read-only statement.
func ValidateSQL(query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return false
	}
	q = strings.TrimRight(q, "; \t\n")
	if strings.Contains(q, ";") {
		return false
	}
	return !forbidden.MatchString(q)
}
