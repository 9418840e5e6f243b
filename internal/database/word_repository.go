package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/vocabtrainer/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

const wordColumns = `id, set_id, term, definition, phonetic, word_type, example,
	synonym, antonym, collocation, note, level, topic, image,
	review_count, correct_count, mastery_level, learning_status, srs_stage,
	next_review, starred, created_at, updated_at`

// GetByID returns a word by ID
func (r *WordRepository) GetByID(ctx context.Context, id string) (*models.WordRecord, error) {
	var word models.WordRecord
	query := DB.Rebind("SELECT " + wordColumns + " FROM words WHERE id = ?")
	if err := DB.GetContext(ctx, &word, query, id); err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %v", err)
	}
	return &word, nil
}

// GetBySet returns all words belonging to a set
func (r *WordRepository) GetBySet(ctx context.Context, setID string) ([]models.WordRecord, error) {
	var words []models.WordRecord
	query := DB.Rebind("SELECT " + wordColumns + " FROM words WHERE set_id = ? ORDER BY term")
	if err := DB.SelectContext(ctx, &words, query, setID); err != nil {
		return nil, fmt.Errorf("failed to get words by set: %v", err)
	}
	return words, nil
}

// GetDueBySet returns the words in a set whose review date has passed. Words
// never scheduled carry the zero timestamp and are therefore always due.
func (r *WordRepository) GetDueBySet(ctx context.Context, setID string, now time.Time) ([]models.WordRecord, error) {
	var words []models.WordRecord
	query := DB.Rebind("SELECT " + wordColumns + ` FROM words
		WHERE set_id = ? AND next_review <= ?
		ORDER BY next_review ASC`)
	if err := DB.SelectContext(ctx, &words, query, setID, now); err != nil {
		return nil, fmt.Errorf("failed to get due words: %v", err)
	}
	return words, nil
}

// Create inserts a new word. An empty ID is replaced with a fresh UUID.
func (r *WordRepository) Create(ctx context.Context, word *models.WordRecord) error {
	if word.Term == "" || word.Definition == "" {
		return fmt.Errorf("term and definition are required")
	}
	if word.ID == "" {
		word.ID = uuid.NewString()
	}
	if word.LearningStatus == "" {
		word.LearningStatus = models.StatusNotLearned
	}
	if word.SRSStage == "" {
		word.SRSStage = models.StageNew
	}

	query := DB.Rebind(`
		INSERT INTO words (
			id, set_id, term, definition, phonetic, word_type, example,
			synonym, antonym, collocation, note, level, topic, image,
			review_count, correct_count, mastery_level, learning_status,
			srs_stage, next_review, starred
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		word.ID, word.SetID, word.Term, word.Definition, word.Phonetic,
		word.WordType, word.Example, word.Synonym, word.Antonym,
		word.Collocation, word.Note, word.Level, word.Topic, word.Image,
		word.ReviewCount, word.CorrectCount, word.MasteryLevel,
		word.LearningStatus, word.SRSStage, word.NextReview, word.Starred,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}
	return nil
}

// Update applies a partial update to a word in a single statement and returns
// the stored record. Only the non-nil fields of the update are written.
func (r *WordRepository) Update(ctx context.Context, id string, update models.WordUpdate) (*models.WordRecord, error) {
	sets, args := updateClauses(update)
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := DB.Rebind("UPDATE words SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update word: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("word not found: %s", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a word
func (r *WordRepository) Delete(ctx context.Context, id string) error {
	query := DB.Rebind("DELETE FROM words WHERE id = ?")
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete word: %v", err)
	}
	return nil
}

// GetByTermAndSet returns the word with the given term within a set
func (r *WordRepository) GetByTermAndSet(ctx context.Context, term, setID string) (*models.WordRecord, error) {
	var word models.WordRecord
	query := DB.Rebind("SELECT " + wordColumns + " FROM words WHERE term = ? AND set_id = ?")
	if err := DB.GetContext(ctx, &word, query, term, setID); err != nil {
		return nil, fmt.Errorf("failed to get word by term: %v", err)
	}
	return &word, nil
}

func updateClauses(u models.WordUpdate) (sets []string, args []interface{}) {
	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if u.Term != nil {
		add("term", *u.Term)
	}
	if u.Definition != nil {
		add("definition", *u.Definition)
	}
	if u.Phonetic != nil {
		add("phonetic", *u.Phonetic)
	}
	if u.WordType != nil {
		add("word_type", *u.WordType)
	}
	if u.Example != nil {
		add("example", *u.Example)
	}
	if u.Synonym != nil {
		add("synonym", *u.Synonym)
	}
	if u.Antonym != nil {
		add("antonym", *u.Antonym)
	}
	if u.Collocation != nil {
		add("collocation", *u.Collocation)
	}
	if u.Note != nil {
		add("note", *u.Note)
	}
	if u.Level != nil {
		add("level", *u.Level)
	}
	if u.Topic != nil {
		add("topic", *u.Topic)
	}
	if u.Image != nil {
		add("image", *u.Image)
	}
	if u.ReviewCount != nil {
		add("review_count", *u.ReviewCount)
	}
	if u.CorrectCount != nil {
		add("correct_count", *u.CorrectCount)
	}
	if u.MasteryLevel != nil {
		add("mastery_level", *u.MasteryLevel)
	}
	if u.LearningStatus != nil {
		add("learning_status", *u.LearningStatus)
	}
	if u.SRSStage != nil {
		add("srs_stage", *u.SRSStage)
	}
	if u.NextReview != nil {
		add("next_review", *u.NextReview)
	}
	if u.Starred != nil {
		add("starred", *u.Starred)
	}
	return sets, args
}

// SetStore binds the repository to one word set, satisfying the session
// engine's store contract.
type SetStore struct {
	repo  *WordRepository
	setID string
}

// ForSet returns a store scoped to the given set.
func (r *WordRepository) ForSet(setID string) *SetStore {
	return &SetStore{repo: r, setID: setID}
}

// QueryCandidates returns all words in the bound set.
func (s *SetStore) QueryCandidates(ctx context.Context) ([]models.WordRecord, error) {
	return s.repo.GetBySet(ctx, s.setID)
}

// QueryDue returns the due words in the bound set.
func (s *SetStore) QueryDue(ctx context.Context) ([]models.WordRecord, error) {
	return s.repo.GetDueBySet(ctx, s.setID, time.Now())
}

// UpdateWord applies a partial update to one word.
func (s *SetStore) UpdateWord(ctx context.Context, id string, update models.WordUpdate) (models.WordRecord, error) {
	word, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return models.WordRecord{}, err
	}
	return *word, nil
}
