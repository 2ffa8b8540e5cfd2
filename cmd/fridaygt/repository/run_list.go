package repository

import (
	"context"
	"fmt"

	"github.com/fridaygt/fridaygt/common/db"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
)

// RunListRepository handles database operations for run lists
type RunListRepository struct {
	db *db.DB
}

// NewRunListRepository creates a new run list repository
func NewRunListRepository(db *db.DB) *RunListRepository {
	return &RunListRepository{db: db}
}

// Create inserts a run list
func (r *RunListRepository) Create(ctx context.Context, name, scheduledFor string, createdBy uuid.UUID) (*models.RunList, error) {
	query := `
		INSERT INTO run_list (id, name, scheduled_for, created_by)
		VALUES ($1, $2, $3::date, $4)
		RETURNING id, name, scheduled_for::text, created_by, created_at
	`

	rl := &models.RunList{}
	err := r.db.QueryRow(ctx, query, uuid.New(), name, scheduledFor, createdBy).Scan(
		&rl.ID,
		&rl.Name,
		&rl.ScheduledFor,
		&rl.CreatedBy,
		&rl.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run list: %w", err)
	}

	return rl, nil
}

// Get retrieves a run list by id
func (r *RunListRepository) Get(ctx context.Context, id uuid.UUID) (*models.RunList, error) {
	query := `
		SELECT rl.id, rl.name, rl.scheduled_for::text, rl.created_by, rl.created_at,
		       (SELECT COUNT(*) FROM race WHERE run_list_id = rl.id)
		FROM run_list rl
		WHERE rl.id = $1
	`

	rl := &models.RunList{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rl.ID,
		&rl.Name,
		&rl.ScheduledFor,
		&rl.CreatedBy,
		&rl.CreatedAt,
		&rl.RaceCount,
	)
	if err != nil {
		return nil, notFound(err, "run list")
	}

	return rl, nil
}

// List returns run lists, most recently scheduled first
func (r *RunListRepository) List(ctx context.Context, limit int) ([]models.RunList, error) {
	query := `
		SELECT rl.id, rl.name, rl.scheduled_for::text, rl.created_by, rl.created_at,
		       (SELECT COUNT(*) FROM race WHERE run_list_id = rl.id)
		FROM run_list rl
		ORDER BY rl.scheduled_for DESC, rl.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run lists: %w", err)
	}
	defer rows.Close()

	out := []models.RunList{}
	for rows.Next() {
		var rl models.RunList
		if err := rows.Scan(&rl.ID, &rl.Name, &rl.ScheduledFor, &rl.CreatedBy, &rl.CreatedAt, &rl.RaceCount); err != nil {
			return nil, fmt.Errorf("failed to scan run list: %w", err)
		}
		out = append(out, rl)
	}

	return out, rows.Err()
}
