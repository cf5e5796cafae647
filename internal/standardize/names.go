package standardize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// CleanString trims and collapses internal whitespace. Returns "" for
// missing input (including sentinel null markers from the extract).
func CleanString(s string) string {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return ""
	}
	return multiSpace.ReplaceAllString(s, " ")
}

// TitleCase cleans the input and capitalizes the first letter of each
// word, lowercasing the rest, matching how names are presented in the
// source extracts ("mArY aNN" -> "Mary Ann").
func TitleCase(s string) string {
	s = CleanString(s)
	if s == "" {
		return ""
	}
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// nullMarkers are literal values that worksheet exports use for absent
// cells. They are coerced to the explicit missing value (""), never
// conflated with a legitimately empty string from a later stage.
var nullMarkers = map[string]bool{
	"null": true,
	"nan":  true,
	"none": true,
	"na":   true,
	"n/a":  true,
}

// IsMissing reports whether a trimmed raw value represents an absent cell.
func IsMissing(s string) bool {
	if s == "" {
		return true
	}
	return nullMarkers[strings.ToLower(s)]
}
