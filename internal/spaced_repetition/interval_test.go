package spaced_repetition

import (
	"math/rand"
	"testing"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

func newTestWord() *models.WordRecord {
	return &models.WordRecord{
		ID:             "w1",
		Term:           "apple",
		Definition:     "táo",
		LearningStatus: models.StatusNotLearned,
		SRSStage:       models.StageNew,
	}
}

func TestIntervalScheduler_MasteryStaysClamped(t *testing.T) {
	s := NewIntervalScheduler()
	rec := newTestWord()
	rnd := rand.New(rand.NewSource(42))
	now := time.Now()

	for i := 0; i < 500; i++ {
		sig := AnswerSignal{Correct: rnd.Intn(2) == 0, Mode: ModeWritten}
		s.Apply(rec, sig, now)
		if rec.MasteryLevel < 0 || rec.MasteryLevel > 5 {
			t.Fatalf("mastery level %d out of [0,5] after %d answers", rec.MasteryLevel, i+1)
		}
	}
	if rec.ReviewCount != 500 {
		t.Errorf("review count = %d, want 500", rec.ReviewCount)
	}
}

func TestIntervalScheduler_IntervalTable(t *testing.T) {
	s := NewIntervalScheduler()
	want := []int{1, 3, 7, 14, 30, 60}
	for i, w := range want {
		if s.Intervals[i] != w {
			t.Errorf("interval[%d] = %d, want %d", i, s.Intervals[i], w)
		}
	}
	// Monotonically non-decreasing
	for i := 1; i < len(s.Intervals); i++ {
		if s.Intervals[i] < s.Intervals[i-1] {
			t.Errorf("interval table decreases at %d", i)
		}
	}
}

func TestIntervalScheduler_CorrectSchedulesFurtherThanWrong(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for level := 0; level <= 5; level++ {
		s := NewIntervalScheduler()

		right := newTestWord()
		right.MasteryLevel = level
		s.Apply(right, AnswerSignal{Correct: true, Mode: ModeWritten}, now)

		wrong := newTestWord()
		wrong.MasteryLevel = level
		s.Apply(wrong, AnswerSignal{Correct: false, Mode: ModeWritten}, now)

		if right.NextReview.Before(wrong.NextReview) {
			t.Errorf("level %d: correct answer scheduled %v before wrong answer %v",
				level, right.NextReview, wrong.NextReview)
		}
	}
}

func TestIntervalScheduler_NextReviewUsesNewLevel(t *testing.T) {
	s := NewIntervalScheduler()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := newTestWord()
	rec.MasteryLevel = 1
	s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeWritten}, now)

	// Level went 1 -> 2, so the interval is 7 days.
	want := now.AddDate(0, 0, 7)
	if !rec.NextReview.Equal(want) {
		t.Errorf("next review = %v, want %v", rec.NextReview, want)
	}
}

func TestIntervalScheduler_StatusAdvancesByMode(t *testing.T) {
	s := NewIntervalScheduler()
	now := time.Now()
	rec := newTestWord()

	// A written success on a not-learned word changes nothing status-wise.
	s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeWritten}, now)
	if rec.LearningStatus != models.StatusNotLearned {
		t.Fatalf("status = %v, want not_learned", rec.LearningStatus)
	}

	// Recognition success starts learning.
	s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeMultipleChoice}, now)
	if rec.LearningStatus != models.StatusLearning {
		t.Fatalf("status = %v, want learning", rec.LearningStatus)
	}

	// A second recognition success does not finish the word.
	s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeMultipleChoice}, now)
	if rec.LearningStatus != models.StatusLearning {
		t.Fatalf("status = %v, want learning", rec.LearningStatus)
	}

	// Recall success finishes it.
	s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeWritten}, now)
	if rec.LearningStatus != models.StatusLearned {
		t.Fatalf("status = %v, want learned", rec.LearningStatus)
	}
}

func TestIntervalScheduler_StatusNeverRegresses(t *testing.T) {
	s := NewIntervalScheduler()
	now := time.Now()
	rec := newTestWord()
	rec.LearningStatus = models.StatusLearned
	rec.MasteryLevel = 5

	for i := 0; i < 10; i++ {
		s.Apply(rec, AnswerSignal{Correct: false, Mode: ModeWritten}, now)
	}
	if rec.LearningStatus != models.StatusLearned {
		t.Errorf("status regressed to %v", rec.LearningStatus)
	}
	if rec.MasteryLevel != 0 {
		t.Errorf("mastery level = %d, want 0 after repeated failures", rec.MasteryLevel)
	}
}

func TestIntervalScheduler_CountersMonotonic(t *testing.T) {
	s := NewIntervalScheduler()
	now := time.Now()
	rec := newTestWord()

	s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeMultipleChoice}, now)
	s.Apply(rec, AnswerSignal{Correct: false, Mode: ModeMultipleChoice}, now)

	if rec.ReviewCount != 2 {
		t.Errorf("review count = %d, want 2", rec.ReviewCount)
	}
	if rec.CorrectCount != 1 {
		t.Errorf("correct count = %d, want 1", rec.CorrectCount)
	}
}

func TestIntervalScheduler_UpdateCarriesNewState(t *testing.T) {
	s := NewIntervalScheduler()
	now := time.Now()
	rec := newTestWord()

	update := s.Apply(rec, AnswerSignal{Correct: true, Mode: ModeMultipleChoice}, now)

	fresh := newTestWord()
	update.ApplyTo(fresh)
	if fresh.MasteryLevel != rec.MasteryLevel ||
		fresh.ReviewCount != rec.ReviewCount ||
		fresh.LearningStatus != rec.LearningStatus ||
		!fresh.NextReview.Equal(rec.NextReview) {
		t.Error("partial update does not reproduce the scheduler's record state")
	}
}
