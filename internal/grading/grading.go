package grading

import "strings"

// Result classifies a free-text answer against its target.
type Result int

const (
	// Wrong means the answer does not match the target.
	Wrong Result = iota
	// Typo means the answer is within the edit-distance tolerance for the
	// target length. Scheduling treats it as correct; the UI flags it.
	Typo
	// Exact means the normalized strings are equal.
	Exact
)

// IsCorrect reports whether the result counts as a correct answer for
// progression purposes.
func (r Result) IsCorrect() bool {
	return r == Exact || r == Typo
}

func (r Result) String() string {
	switch r {
	case Exact:
		return "exact"
	case Typo:
		return "typo"
	default:
		return "wrong"
	}
}

// Grade compares a user's free-text answer with the target string. Both are
// trimmed and lowercased; punctuation is kept. Answers within a small edit
// distance of the target count as typos, with the tolerance growing with the
// target length: none for short words, one edit for 5-8 characters, two
// beyond that.
func Grade(answer, target string) Result {
	a := normalize(answer)
	t := normalize(target)

	if a == t {
		return Exact
	}

	if Levenshtein(a, t) <= typoThreshold(len([]rune(t))) {
		return Typo
	}
	return Wrong
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func typoThreshold(targetLen int) int {
	switch {
	case targetLen <= 4:
		return 0
	case targetLen <= 8:
		return 1
	default:
		return 2
	}
}

// Levenshtein computes the edit distance between two strings with unit cost
// for insertion, deletion and substitution. Comparison is rune-wise.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two-row DP.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
