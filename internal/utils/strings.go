// Package utils holds small helpers shared by the repositories.
package utils

import "strings"

// ParseCSV splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input. Stored reports keep their
// symbol list in this form.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// JoinCSV is the inverse of ParseCSV for values without commas
func JoinCSV(values []string) string {
	return strings.Join(values, ",")
}
