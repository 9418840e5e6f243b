package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/vocabtrainer/pkg/models"
)

// ResultRepository handles database operations for session results
type ResultRepository struct{}

// NewResultRepository creates a new repository instance
func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

// Create records a finished session
func (r *ResultRepository) Create(ctx context.Context, result *models.SessionResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	query := DB.Rebind(`
		INSERT INTO session_results (
			id, set_id, mode, total_asked, total_correct, total_typos,
			mastered, duration, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		result.ID, result.SetID, result.Mode, result.TotalAsked,
		result.TotalCorrect, result.TotalTypos, result.Mastered,
		result.Duration, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session result: %v", err)
	}
	return nil
}

// GetRecentBySet returns the latest results for a set, newest first
func (r *ResultRepository) GetRecentBySet(ctx context.Context, setID string, limit int) ([]models.SessionResult, error) {
	var results []models.SessionResult
	query := DB.Rebind(`
		SELECT id, set_id, mode, total_asked, total_correct, total_typos,
		       mastered, duration, finished_at, created_at
		FROM session_results
		WHERE set_id = ?
		ORDER BY finished_at DESC
		LIMIT ?
	`)
	if err := DB.SelectContext(ctx, &results, query, setID, limit); err != nil {
		return nil, fmt.Errorf("failed to get session results: %v", err)
	}
	return results, nil
}

// Overview summarizes a set's learning progress for the stats command.
type Overview struct {
	TotalWords   int `db:"total_words"`
	LearnedWords int `db:"learned_words"`
	Sessions     int `db:"sessions"`
	TotalAsked   int `db:"total_asked"`
	TotalCorrect int `db:"total_correct"`
}

// GetOverview aggregates word and session counters for a set
func (r *ResultRepository) GetOverview(ctx context.Context, setID string) (*Overview, error) {
	var o Overview

	wordQuery := DB.Rebind(`
		SELECT COUNT(*) AS total_words,
		       COUNT(CASE WHEN learning_status = 'learned' THEN 1 END) AS learned_words
		FROM words WHERE set_id = ?
	`)
	if err := DB.GetContext(ctx, &o, wordQuery, setID); err != nil {
		return nil, fmt.Errorf("failed to get word overview: %v", err)
	}

	sessionQuery := DB.Rebind(`
		SELECT COUNT(*) AS sessions,
		       COALESCE(SUM(total_asked), 0) AS total_asked,
		       COALESCE(SUM(total_correct), 0) AS total_correct
		FROM session_results WHERE set_id = ?
	`)
	var s struct {
		Sessions     int `db:"sessions"`
		TotalAsked   int `db:"total_asked"`
		TotalCorrect int `db:"total_correct"`
	}
	if err := DB.GetContext(ctx, &s, sessionQuery, setID); err != nil {
		return nil, fmt.Errorf("failed to get session overview: %v", err)
	}
	o.Sessions = s.Sessions
	o.TotalAsked = s.TotalAsked
	o.TotalCorrect = s.TotalCorrect
	return &o, nil
}
