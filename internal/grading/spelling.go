package grading

import "strings"

// Punctuation stripped by the spelling normalizer.
const spellingPunct = ".,/#!$%^&*;:{}=-_`~()"

// NormalizeSpelling prepares a string for the strict spelling comparison:
// lowercase, punctuation removed, surrounding whitespace trimmed. Used by the
// spelling-by-ear and writing drills, which accept no typos.
func NormalizeSpelling(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if strings.ContainsRune(spellingPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// GradeSpelling is the binary grader for spelling drills: the normalized
// strings must match exactly.
func GradeSpelling(answer, target string) bool {
	return NormalizeSpelling(answer) == NormalizeSpelling(target)
}
