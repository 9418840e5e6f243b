package quiz

import (
	"math/rand"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// QuestionType represents different kinds of test questions
type QuestionType string

const (
	// MultipleChoice shows the definition and four candidate terms
	MultipleChoice QuestionType = "multiple_choice"
	// TypedAnswer shows the definition and asks the user to type the term
	TypedAnswer QuestionType = "typed_answer"
)

// Question represents a single test question
type Question struct {
	Word         models.WordRecord // the word being tested
	Type         QuestionType
	Options      []string // candidate terms (multiple choice only)
	CorrectIndex int      // index of the correct option
}

// Pair is one card pair for the matching game.
type Pair struct {
	WordID     string
	Term       string
	Definition string
}

// Generator builds test-mode and matching-game questions from a word pool.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewGeneratorWithSource creates a generator with a caller-supplied source.
func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// BuildTest generates up to count questions of the given type from the pool,
// one question per word, in shuffled order.
func (g *Generator) BuildTest(pool []models.WordRecord, count int, qType QuestionType) []Question {
	words := make([]models.WordRecord, len(pool))
	copy(words, pool)
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > count {
		words = words[:count]
	}

	questions := make([]Question, 0, len(words))
	for _, word := range words {
		q := Question{Word: word, Type: qType}
		if qType == MultipleChoice {
			q.Options, q.CorrectIndex = g.BuildOptions(word, pool, 3)
		}
		questions = append(questions, q)
	}
	return questions
}

// BuildOptions assembles the shuffled option list for one multiple-choice
// question: the word's own term plus up to wrongCount distractor terms.
func (g *Generator) BuildOptions(word models.WordRecord, pool []models.WordRecord, wrongCount int) (options []string, correctIndex int) {
	for _, d := range Distractors(g.rnd, pool, word.ID, wrongCount) {
		options = append(options, d.Term)
	}
	options = append(options, word.Term)

	correctIndex = len(options) - 1
	g.rnd.Shuffle(len(options), func(i, j int) {
		switch correctIndex {
		case i:
			correctIndex = j
		case j:
			correctIndex = i
		}
		options[i], options[j] = options[j], options[i]
	})
	return options, correctIndex
}

// BuildPairs picks up to count words for a matching round and returns their
// term/definition pairs.
func (g *Generator) BuildPairs(pool []models.WordRecord, count int) []Pair {
	words := make([]models.WordRecord, len(pool))
	copy(words, pool)
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > count {
		words = words[:count]
	}

	pairs := make([]Pair, 0, len(words))
	for _, w := range words {
		pairs = append(pairs, Pair{WordID: w.ID, Term: w.Term, Definition: w.Definition})
	}
	return pairs
}
