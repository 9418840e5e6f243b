package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/pkg/models"
)

func TestRatingScheduler_Table(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		rating    Rating
		wantStage models.SRSStage
		wantDelay time.Duration
	}{
		{RatingAgain, models.StageLearning, 10 * time.Minute},
		{RatingHard, models.StageLearning, 24 * time.Hour},
		{RatingGood, models.StageReview, 3 * 24 * time.Hour},
		{RatingEasy, models.StageReview, 7 * 24 * time.Hour},
	}

	s := NewRatingScheduler()
	for _, c := range cases {
		rec := newTestWord()
		update, err := s.Apply(rec, c.rating, now)
		require.NoError(t, err, "rating %s", c.rating)

		assert.Equal(t, c.wantStage, rec.SRSStage, "stage for %s", c.rating)
		assert.Equal(t, now.Add(c.wantDelay), rec.NextReview, "review date for %s", c.rating)
		require.NotNil(t, update.SRSStage)
		require.NotNil(t, update.NextReview)
	}
}

func TestRatingScheduler_UnknownRating(t *testing.T) {
	s := NewRatingScheduler()
	rec := newTestWord()
	_, err := s.Apply(rec, Rating("great"), time.Now())
	require.Error(t, err)
	assert.Equal(t, models.StageNew, rec.SRSStage, "record must be untouched on error")
}

func TestRatingScheduler_DoesNotTouchMastery(t *testing.T) {
	s := NewRatingScheduler()
	rec := newTestWord()
	rec.MasteryLevel = 3
	rec.LearningStatus = models.StatusLearning

	_, err := s.Apply(rec, RatingGood, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, rec.MasteryLevel)
	assert.Equal(t, models.StatusLearning, rec.LearningStatus)
}

func TestDueWords(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	never := models.WordRecord{ID: "never"}
	overdue := models.WordRecord{ID: "overdue", NextReview: now.Add(-48 * time.Hour)}
	justDue := models.WordRecord{ID: "just", NextReview: now.Add(-time.Minute)}
	future := models.WordRecord{ID: "future", NextReview: now.Add(time.Hour)}

	due := DueWords([]models.WordRecord{future, justDue, never, overdue}, now, 0)

	require.Len(t, due, 3)
	assert.Equal(t, "never", due[0].ID, "never-scheduled words come first")
	assert.Equal(t, "overdue", due[1].ID)
	assert.Equal(t, "just", due[2].ID)
}

func TestDueWords_Limit(t *testing.T) {
	now := time.Now()
	words := []models.WordRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Len(t, DueWords(words, now, 2), 2)
	assert.Len(t, DueWords(words, now, 0), 3)
}
