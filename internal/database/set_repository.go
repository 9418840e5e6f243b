package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/vocabtrainer/pkg/models"
)

// SetRepository handles database operations for word sets
type SetRepository struct{}

// NewSetRepository creates a new repository instance
func NewSetRepository() *SetRepository {
	return &SetRepository{}
}

// GetAll returns all non-archived sets ordered by name
func (r *SetRepository) GetAll(ctx context.Context) ([]models.WordSet, error) {
	var sets []models.WordSet
	query := "SELECT id, name, description, archived, created_at, updated_at FROM word_sets WHERE NOT archived ORDER BY name"
	if err := DB.SelectContext(ctx, &sets, query); err != nil {
		return nil, fmt.Errorf("failed to get word sets: %v", err)
	}
	return sets, nil
}

// GetByID returns a set by ID
func (r *SetRepository) GetByID(ctx context.Context, id string) (*models.WordSet, error) {
	var set models.WordSet
	query := DB.Rebind("SELECT id, name, description, archived, created_at, updated_at FROM word_sets WHERE id = ?")
	if err := DB.GetContext(ctx, &set, query, id); err != nil {
		return nil, fmt.Errorf("failed to get word set: %v", err)
	}
	return &set, nil
}

// GetByName returns a set by its unique name
func (r *SetRepository) GetByName(ctx context.Context, name string) (*models.WordSet, error) {
	var set models.WordSet
	query := DB.Rebind("SELECT id, name, description, archived, created_at, updated_at FROM word_sets WHERE name = ?")
	if err := DB.GetContext(ctx, &set, query, name); err != nil {
		return nil, fmt.Errorf("failed to get word set by name: %v", err)
	}
	return &set, nil
}

// Create inserts a new set. An empty ID is replaced with a fresh UUID.
func (r *SetRepository) Create(ctx context.Context, set *models.WordSet) error {
	if set.Name == "" {
		return fmt.Errorf("set name is required")
	}
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	query := DB.Rebind("INSERT INTO word_sets (id, name, description) VALUES (?, ?, ?)")
	if _, err := DB.ExecContext(ctx, query, set.ID, set.Name, set.Description); err != nil {
		return fmt.Errorf("failed to create word set: %v", err)
	}
	return nil
}

// GetOrCreate returns the set with the given name, creating it when missing
func (r *SetRepository) GetOrCreate(ctx context.Context, name string) (*models.WordSet, error) {
	set, err := r.GetByName(ctx, name)
	if err == nil {
		return set, nil
	}
	created := &models.WordSet{Name: name}
	if err := r.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Archive hides a set from listings without deleting its words
func (r *SetRepository) Archive(ctx context.Context, id string) error {
	query := DB.Rebind("UPDATE word_sets SET archived = true, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to archive word set: %v", err)
	}
	return nil
}
