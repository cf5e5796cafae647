package standardize

import "strings"

// NormalizeCode trims and uppercases a diagnosis code for reference
// lookups. Dots and other punctuation are preserved: ICD-10 codes are
// compared as published ("E11.9"), only casing and whitespace vary in
// practice. Returns "" for missing input.
func NormalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return ""
	}
	return strings.ToUpper(s)
}
