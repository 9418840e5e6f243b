package grading

import "testing"

func TestGrade_Exact(t *testing.T) {
	cases := []struct {
		answer, target string
	}{
		{"cat", "cat"},
		{"Cat", "cat"},
		{"  cat  ", "cat"},
		{"SERENDIPITY", "serendipity"},
	}
	for _, c := range cases {
		if got := Grade(c.answer, c.target); got != Exact {
			t.Errorf("Grade(%q, %q) = %v, want Exact", c.answer, c.target, got)
		}
	}
}

func TestGrade_ShortTargetsAllowNoTypos(t *testing.T) {
	// Target length 3: threshold 0, so one extra letter is wrong.
	if got := Grade("cats", "cat"); got != Wrong {
		t.Errorf("Grade(cats, cat) = %v, want Wrong", got)
	}
	if got := Grade("dgo", "dog"); got != Wrong {
		t.Errorf("Grade(dgo, dog) = %v, want Wrong", got)
	}
}

func TestGrade_MediumTargetsAllowOneTypo(t *testing.T) {
	// Target length 5-8: threshold 1.
	if got := Grade("aple", "apple"); got != Typo {
		t.Errorf("Grade(aple, apple) = %v, want Typo", got)
	}
	if got := Grade("aplle", "apple"); got != Typo {
		t.Errorf("Grade(aplle, apple) = %v, want Typo", got)
	}
	if got := Grade("apl", "apple"); got != Wrong {
		t.Errorf("Grade(apl, apple) = %v, want Wrong", got)
	}
}

func TestGrade_LongTargetsAllowTwoTypos(t *testing.T) {
	// Target length 11: threshold 2.
	if got := Grade("serndipity", "serendipity"); got != Typo {
		t.Errorf("Grade(serndipity, serendipity) = %v, want Typo", got)
	}
	if got := Grade("serndipty", "serendipity"); got != Typo {
		t.Errorf("Grade(serndipty, serendipity) = %v, want Typo", got)
	}
	if got := Grade("serendipple", "serendipity"); got != Wrong {
		t.Errorf("Grade(serendipple, serendipity) = %v, want Wrong", got)
	}
}

func TestResult_IsCorrect(t *testing.T) {
	if !Exact.IsCorrect() || !Typo.IsCorrect() {
		t.Error("Exact and Typo should count as correct")
	}
	if Wrong.IsCorrect() {
		t.Error("Wrong should not count as correct")
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"gumbo", "gambol", 2},
		{"đường", "đương", 1}, // multi-byte runes count as single edits
	}
	for _, c := range cases {
		if got := Levenshtein(c.a, c.b); got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestNormalizeSpelling(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello!", "hello"},
		{"  self-esteem  ", "selfesteem"},
		{"(check) in;", "check in"},
		{"it's", "it's"}, // apostrophe is not in the stripped set
	}
	for _, c := range cases {
		if got := NormalizeSpelling(c.in); got != c.want {
			t.Errorf("NormalizeSpelling(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGradeSpelling_NoFuzz(t *testing.T) {
	if !GradeSpelling("Check-in!", "check in") {
		t.Error("punctuation and case should be ignored")
	}
	// One character off is wrong: the spelling grader is strict.
	if GradeSpelling("serndipity", "serendipity") {
		t.Error("spelling grader must not tolerate typos")
	}
}
