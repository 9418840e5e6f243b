package spaced_repetition

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// Rating is the self-assessed recall quality submitted in flashcard mode.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// RatingScheduler implements the flashcard schedule: a fixed delay per
// rating, with "again" and "hard" keeping the card in the learning stage and
// "good" and "easy" moving it to review. It is deliberately separate from
// IntervalScheduler - the two policies are driven by different drill modes
// and never share state beyond the word record itself.
type RatingScheduler struct{}

// NewRatingScheduler creates a new rating scheduler.
func NewRatingScheduler() *RatingScheduler {
	return &RatingScheduler{}
}

// Apply computes the new stage and review date for a rating and mutates the
// record accordingly, returning the matching partial update for the store.
func (s *RatingScheduler) Apply(rec *models.WordRecord, rating Rating, now time.Time) (models.WordUpdate, error) {
	var stage models.SRSStage
	var delay time.Duration

	switch rating {
	case RatingAgain:
		stage, delay = models.StageLearning, 10*time.Minute
	case RatingHard:
		stage, delay = models.StageLearning, 24*time.Hour
	case RatingGood:
		stage, delay = models.StageReview, 3*24*time.Hour
	case RatingEasy:
		stage, delay = models.StageReview, 7*24*time.Hour
	default:
		return models.WordUpdate{}, fmt.Errorf("unknown rating: %q", rating)
	}

	rec.SRSStage = stage
	rec.NextReview = now.Add(delay)

	return models.WordUpdate{
		SRSStage:   &rec.SRSStage,
		NextReview: &rec.NextReview,
	}, nil
}

// DueWords filters the words due for review at the given time and orders
// them for presentation: never-scheduled words first, then the most overdue.
// At most limit words are returned; limit <= 0 means no limit.
func DueWords(words []models.WordRecord, now time.Time, limit int) []models.WordRecord {
	var due []models.WordRecord
	for _, w := range words {
		if w.IsDue(now) {
			due = append(due, w)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].NextReview, due[j].NextReview
		if a.IsZero() != b.IsZero() {
			return a.IsZero()
		}
		return a.Before(b)
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}
