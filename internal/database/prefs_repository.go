package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// StudyPrefs represents per-chat study configuration
type StudyPrefs struct {
	ChatID          int64        `db:"chat_id"`
	ActiveSetID     string       `db:"active_set_id"`
	BatchSize       int          `db:"batch_size"`
	LimitType       string       `db:"limit_type"`
	ReminderEnabled bool         `db:"reminder_enabled"`
	ReminderHour    int          `db:"reminder_hour"`
	CreatedAt       sql.NullTime `db:"created_at"`
	UpdatedAt       sql.NullTime `db:"updated_at"`
}

// PrefsRepository handles database operations for study preferences
type PrefsRepository struct{}

// NewPrefsRepository creates a new repository instance
func NewPrefsRepository() *PrefsRepository {
	return &PrefsRepository{}
}

// Get returns the preferences for a chat, creating defaults on first use
func (r *PrefsRepository) Get(ctx context.Context, chatID int64) (*StudyPrefs, error) {
	var prefs StudyPrefs
	query := DB.Rebind("SELECT chat_id, active_set_id, batch_size, limit_type, reminder_enabled, reminder_hour, created_at, updated_at FROM study_prefs WHERE chat_id = ?")
	err := DB.GetContext(ctx, &prefs, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		prefs = StudyPrefs{
			ChatID:          chatID,
			BatchSize:       10,
			LimitType:       "mastery",
			ReminderEnabled: true,
			ReminderHour:    9,
		}
		if err := r.create(ctx, &prefs); err != nil {
			return nil, err
		}
		return &prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get study prefs: %v", err)
	}
	return &prefs, nil
}

func (r *PrefsRepository) create(ctx context.Context, prefs *StudyPrefs) error {
	query := DB.Rebind(`
		INSERT INTO study_prefs (chat_id, active_set_id, batch_size, limit_type, reminder_enabled, reminder_hour)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		prefs.ChatID, prefs.ActiveSetID, prefs.BatchSize,
		prefs.LimitType, prefs.ReminderEnabled, prefs.ReminderHour,
	)
	if err != nil {
		return fmt.Errorf("failed to create study prefs: %v", err)
	}
	return nil
}

// Update saves changed preferences
func (r *PrefsRepository) Update(ctx context.Context, prefs *StudyPrefs) error {
	query := DB.Rebind(`
		UPDATE study_prefs SET
			active_set_id = ?,
			batch_size = ?,
			limit_type = ?,
			reminder_enabled = ?,
			reminder_hour = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE chat_id = ?
	`)
	_, err := DB.ExecContext(ctx, query,
		prefs.ActiveSetID, prefs.BatchSize, prefs.LimitType,
		prefs.ReminderEnabled, prefs.ReminderHour, prefs.ChatID,
	)
	if err != nil {
		return fmt.Errorf("failed to update study prefs: %v", err)
	}
	return nil
}

// GetAllWithReminders returns the chats that want reminders at the given hour
func (r *PrefsRepository) GetAllWithReminders(ctx context.Context, hour int) ([]StudyPrefs, error) {
	var prefs []StudyPrefs
	query := DB.Rebind("SELECT chat_id, active_set_id, batch_size, limit_type, reminder_enabled, reminder_hour, created_at, updated_at FROM study_prefs WHERE reminder_enabled AND reminder_hour = ?")
	if err := DB.SelectContext(ctx, &prefs, query, hour); err != nil {
		return nil, fmt.Errorf("failed to get reminder prefs: %v", err)
	}
	return prefs, nil
}
