package spaced_repetition

import (
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// AnswerMode identifies how the answer was collected; the learning-status
// transition depends on it.
type AnswerMode string

const (
	// ModeMultipleChoice is the recognition-stage mode (pick the term).
	ModeMultipleChoice AnswerMode = "mcq"
	// ModeWritten is the recall-stage mode (type the term).
	ModeWritten AnswerMode = "written"
)

// AnswerSignal is the input to the interval scheduler: whether the answer was
// correct and how it was collected.
type AnswerSignal struct {
	Correct bool
	Mode    AnswerMode
}

// IntervalScheduler implements the mastery-level schedule used by the learn
// and review flows. Each correct answer raises the mastery level by one, each
// wrong answer lowers it by one, and the next review date is looked up in a
// fixed interval table indexed by the new level.
type IntervalScheduler struct {
	// Days until next review, indexed by mastery level
	Intervals []int
	// Highest reachable mastery level
	MaxMastery int
}

// NewIntervalScheduler returns a scheduler with the default interval table.
func NewIntervalScheduler() *IntervalScheduler {
	return &IntervalScheduler{
		Intervals:  []int{1, 3, 7, 14, 30, 60},
		MaxMastery: 5,
	}
}

// Apply updates the record's counters, mastery level, learning status and
// next review date for one answer, and returns the matching partial update
// for the store. It is a pure function of the record state, the signal and
// the clock value: the same inputs always produce the same transition.
func (s *IntervalScheduler) Apply(rec *models.WordRecord, sig AnswerSignal, now time.Time) models.WordUpdate {
	rec.ReviewCount++

	if sig.Correct {
		rec.CorrectCount++
		if rec.MasteryLevel < s.MaxMastery {
			rec.MasteryLevel++
		}
	} else if rec.MasteryLevel > 0 {
		rec.MasteryLevel--
	}

	// Status only ever advances: a recognition (multiple-choice) success
	// starts the word learning, a recall (written) success finishes it.
	// Wrong answers regress the mastery level but never the status.
	if sig.Correct {
		switch {
		case sig.Mode == ModeMultipleChoice && rec.LearningStatus == models.StatusNotLearned:
			rec.LearningStatus = models.StatusLearning
		case sig.Mode == ModeWritten && rec.LearningStatus == models.StatusLearning:
			rec.LearningStatus = models.StatusLearned
		}
	}

	rec.NextReview = now.AddDate(0, 0, s.interval(rec.MasteryLevel))

	return models.WordUpdate{
		ReviewCount:    &rec.ReviewCount,
		CorrectCount:   &rec.CorrectCount,
		MasteryLevel:   &rec.MasteryLevel,
		LearningStatus: &rec.LearningStatus,
		NextReview:     &rec.NextReview,
	}
}

// interval returns the review interval in days for a mastery level, clamping
// out-of-range levels to the table bounds.
func (s *IntervalScheduler) interval(level int) int {
	if level < 0 {
		level = 0
	}
	if level >= len(s.Intervals) {
		level = len(s.Intervals) - 1
	}
	return s.Intervals[level]
}
