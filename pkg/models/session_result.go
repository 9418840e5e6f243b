package models

import "time"

// SessionResult records the outcome of a finished study session
type SessionResult struct {
	ID           string    `json:"id" db:"id"`
	SetID        string    `json:"set_id" db:"set_id"`
	Mode         string    `json:"mode" db:"mode"` // e.g. "learn", "flashcards", "test"
	TotalAsked   int       `json:"total_asked" db:"total_asked"`
	TotalCorrect int       `json:"total_correct" db:"total_correct"`
	TotalTypos   int       `json:"total_typos" db:"total_typos"`
	Mastered     int       `json:"mastered" db:"mastered"`
	Duration     int       `json:"duration" db:"duration"` // seconds
	FinishedAt   time.Time `json:"finished_at" db:"finished_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
