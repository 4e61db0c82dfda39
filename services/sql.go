package services

import (
	"regexp"
	"strings"
)

var (
	// CTEs are tried first so "WITH x AS (...) SELECT" is not cut at SELECT.
	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\bWITH\s+\w+\s+AS\s*\(.*?;`),
		regexp.MustCompile(`(?is)\bWITH\s+\w+\s+AS\s*\([^;]*`),
		regexp.MustCompile(`(?is)\bSELECT\s.*?;`),
		regexp.MustCompile(`(?is)\bSELECT\s[^;]*`),
	}
	validPrefix = []string{"select", "with"}
)

// cleanSQL strips markdown fences and collapses whitespace.
func cleanSQL(text string) string {
	q := strings.TrimSpace(text)
	q = strings.TrimPrefix(q, "```sql")
	q = strings.TrimPrefix(q, "```")
	q = strings.TrimSuffix(q, "```")
	return strings.Join(strings.Fields(q), " ")
}

// extractSQLQuery pulls the first read query out of free text.
func extractSQLQuery(text string) string {
	for _, re := range sqlPatterns {
		if m := re.FindString(text); m != "" {
			return strings.Trim(cleanSQL(m), "`;\"' ")
		}
	}
	return ""
}

func hasSQLPrefix(q string) bool {
	lower := strings.ToLower(q)
	for _, prefix := range validPrefix {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
