// Package util provides common utility functions used across shipwright.
package util

import "strings"

// fileNameReplacer maps characters that are invalid in file names on at
// least one supported platform to underscores.
var fileNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFileName makes a ship or session name safe to use as a file name.
// Invalid characters become underscores; an empty or all-invalid name
// becomes "unnamed".
func SanitizeFileName(name string) string {
	cleaned := fileNameReplacer.Replace(strings.TrimSpace(name))
	cleaned = strings.Trim(cleaned, ". ")
	if strings.Trim(cleaned, "_") == "" {
		return "unnamed"
	}
	return cleaned
}

// Ellipsis shortens s to at most max runes, appending "..." when it was cut.
// Values of max below 4 return the full string unchanged.
func Ellipsis(s string, max int) string {
	if max < 4 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
