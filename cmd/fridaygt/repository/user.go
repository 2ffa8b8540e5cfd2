package repository

import (
	"context"
	"fmt"

	"github.com/fridaygt/fridaygt/common/db"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *db.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *db.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, gamertag, role, status, approved_by, approved_at, created_at`

// firstUserLock is the advisory lock key that serializes registrations while
// deciding who the first user is
const firstUserLock = 7_240_001

// Create registers a user. The very first user becomes an approved admin so a
// fresh install can approve everyone else.
func (r *UserRepository) Create(ctx context.Context, gamertag string) (*models.User, error) {
	query := `
		INSERT INTO app_user (id, gamertag, role, status, approved_at)
		SELECT $1, $2,
		       CASE WHEN f.is_first THEN 'admin' ELSE 'member' END,
		       CASE WHEN f.is_first THEN 'approved' ELSE 'pending' END,
		       CASE WHEN f.is_first THEN NOW() END
		FROM (SELECT NOT EXISTS (SELECT 1 FROM app_user) AS is_first) AS f
		RETURNING ` + userColumns

	user := &models.User{}
	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		// held until commit so two registrations cannot both see an empty table
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, firstUserLock); err != nil {
			return fmt.Errorf("lock registrations: %w", err)
		}
		return tx.QueryRow(ctx, query, uuid.New(), gamertag).Scan(
			&user.ID,
			&user.Gamertag,
			&user.Role,
			&user.Status,
			&user.ApprovedBy,
			&user.ApprovedAt,
			&user.CreatedAt,
		)
	})
	if isPgError(err, pgUniqueViolation) {
		return nil, ordering.Conflict(fmt.Sprintf("gamertag %q is taken", gamertag))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Get retrieves a user by id
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Gamertag,
		&user.Role,
		&user.Status,
		&user.ApprovedBy,
		&user.ApprovedAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "user")
	}

	return user, nil
}

// Approve marks a pending user approved
func (r *UserRepository) Approve(ctx context.Context, id, approver uuid.UUID) (*models.User, error) {
	query := `
		UPDATE app_user
		SET status = 'approved', approved_by = $2, approved_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id, approver).Scan(
		&user.ID,
		&user.Gamertag,
		&user.Role,
		&user.Status,
		&user.ApprovedBy,
		&user.ApprovedAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "user")
	}

	return user, nil
}
