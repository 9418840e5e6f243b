package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/pkg/models"
)

// setupTestDB swaps the global connection for an in-memory SQLite database.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)

	prev := DB
	DB = db
	require.NoError(t, initializeSchema())
	t.Cleanup(func() {
		db.Close()
		DB = prev
	})
}

func createTestSet(t *testing.T, name string) *models.WordSet {
	t.Helper()
	set := &models.WordSet{Name: name}
	require.NoError(t, NewSetRepository().Create(context.Background(), set))
	return set
}

func TestWordRepository_CreateAndGet(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	set := createTestSet(t, "animals")
	repo := NewWordRepository()

	word := &models.WordRecord{
		SetID:      set.ID,
		Term:       "cat",
		Definition: "mèo",
		Phonetic:   "/kæt/",
	}
	require.NoError(t, repo.Create(ctx, word))
	require.NotEmpty(t, word.ID, "create assigns an ID")

	got, err := repo.GetByID(ctx, word.ID)
	require.NoError(t, err)
	assert.Equal(t, "cat", got.Term)
	assert.Equal(t, models.StatusNotLearned, got.LearningStatus)
	assert.Equal(t, models.StageNew, got.SRSStage)
	assert.True(t, got.NextReview.IsZero(), "new words are unscheduled")
}

func TestWordRepository_CreateRequiresTermAndDefinition(t *testing.T) {
	setupTestDB(t)
	set := createTestSet(t, "empty")
	repo := NewWordRepository()

	err := repo.Create(context.Background(), &models.WordRecord{SetID: set.ID, Term: "cat"})
	require.Error(t, err)
}

func TestWordRepository_PartialUpdate(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	set := createTestSet(t, "animals")
	repo := NewWordRepository()

	word := &models.WordRecord{SetID: set.ID, Term: "dog", Definition: "chó"}
	require.NoError(t, repo.Create(ctx, word))

	mastery := 2
	status := models.StatusLearning
	next := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	updated, err := repo.Update(ctx, word.ID, models.WordUpdate{
		MasteryLevel:   &mastery,
		LearningStatus: &status,
		NextReview:     &next,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.MasteryLevel)
	assert.Equal(t, models.StatusLearning, updated.LearningStatus)
	assert.True(t, updated.NextReview.Equal(next))
	assert.Equal(t, "dog", updated.Term, "untouched fields keep their values")
	assert.Equal(t, "chó", updated.Definition)
}

func TestWordRepository_UpdateMissingWord(t *testing.T) {
	setupTestDB(t)
	repo := NewWordRepository()
	mastery := 1
	_, err := repo.Update(context.Background(), "no-such-id", models.WordUpdate{MasteryLevel: &mastery})
	require.Error(t, err)
}

func TestWordRepository_DueQuery(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	set := createTestSet(t, "due")
	repo := NewWordRepository()
	now := time.Now().UTC()

	unscheduled := &models.WordRecord{SetID: set.ID, Term: "a", Definition: "1"}
	overdue := &models.WordRecord{SetID: set.ID, Term: "b", Definition: "2", NextReview: now.Add(-time.Hour)}
	future := &models.WordRecord{SetID: set.ID, Term: "c", Definition: "3", NextReview: now.Add(time.Hour)}
	for _, w := range []*models.WordRecord{unscheduled, overdue, future} {
		require.NoError(t, repo.Create(ctx, w))
	}

	due, err := repo.GetDueBySet(ctx, set.ID, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].Term, "unscheduled words sort first")
	assert.Equal(t, "b", due[1].Term)
}

func TestSetStore_SatisfiesSessionContract(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	set := createTestSet(t, "contract")
	other := createTestSet(t, "other")
	repo := NewWordRepository()

	require.NoError(t, repo.Create(ctx, &models.WordRecord{SetID: set.ID, Term: "in", Definition: "x"}))
	require.NoError(t, repo.Create(ctx, &models.WordRecord{SetID: other.ID, Term: "out", Definition: "y"}))

	store := repo.ForSet(set.ID)
	candidates, err := store.QueryCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "in", candidates[0].Term)

	count := 5
	updated, err := store.UpdateWord(ctx, candidates[0].ID, models.WordUpdate{ReviewCount: &count})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.ReviewCount)
}

func TestResultRepository_Overview(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	set := createTestSet(t, "stats")
	wordRepo := NewWordRepository()

	learned := &models.WordRecord{SetID: set.ID, Term: "a", Definition: "1", LearningStatus: models.StatusLearned}
	fresh := &models.WordRecord{SetID: set.ID, Term: "b", Definition: "2"}
	require.NoError(t, wordRepo.Create(ctx, learned))
	require.NoError(t, wordRepo.Create(ctx, fresh))

	resultRepo := NewResultRepository()
	require.NoError(t, resultRepo.Create(ctx, &models.SessionResult{
		SetID: set.ID, Mode: "learn", TotalAsked: 8, TotalCorrect: 6,
		Mastered: 3, FinishedAt: time.Now(),
	}))

	overview, err := resultRepo.GetOverview(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalWords)
	assert.Equal(t, 1, overview.LearnedWords)
	assert.Equal(t, 1, overview.Sessions)
	assert.Equal(t, 8, overview.TotalAsked)
	assert.Equal(t, 6, overview.TotalCorrect)
}
