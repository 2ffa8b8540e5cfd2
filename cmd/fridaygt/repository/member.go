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

// MemberRepository handles database operations for race members
type MemberRepository struct {
	db *db.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *db.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// ListByRace returns the roster of a race sorted by order, joined with display data
func (r *MemberRepository) ListByRace(ctx context.Context, raceID uuid.UUID) ([]models.Member, error) {
	query := `
		SELECT m.id, m.race_id, m.user_id, u.gamertag, m.tyre, m.sort_order,
		       m.updated_at, m.updated_by, ub.gamertag
		FROM race_member m
		JOIN app_user u ON u.id = m.user_id
		LEFT JOIN app_user ub ON ub.id = m.updated_by
		WHERE m.race_id = $1
		ORDER BY m.sort_order, m.id
	`

	rows, err := r.db.Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	out := []models.Member{}
	for rows.Next() {
		var m models.Member
		err := rows.Scan(
			&m.ID,
			&m.RaceID,
			&m.UserID,
			&m.Gamertag,
			&m.Tyre,
			&m.Order,
			&m.UpdatedAt,
			&m.UpdatedBy,
			&m.UpdatedByGamertag,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// Append enters an approved user in a race at the last position. The race row
// is locked so concurrent appends get distinct orders.
func (r *MemberRepository) Append(ctx context.Context, raceID, userID uuid.UUID, tyre string, actor uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()

	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM race WHERE id = $1 FOR UPDATE`, raceID).Scan(&locked)
		if err != nil {
			return notFound(err, "race")
		}

		var status string
		err = tx.QueryRow(ctx, `SELECT status FROM app_user WHERE id = $1`, userID).Scan(&status)
		if err != nil {
			return notFound(err, "user")
		}
		if status != models.StatusApproved {
			return ordering.Invalid(ordering.ReasonAccountPending, "only approved members can race")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO race_member (id, race_id, user_id, tyre, sort_order, updated_by)
			SELECT $1, $2, $3, $4, COALESCE(MAX(sort_order), 0) + 1, $5
			FROM race_member WHERE race_id = $2
		`, id, raceID, userID, tyre, actor)
		if isPgError(err, pgUniqueViolation) {
			return ordering.Conflict("user is already in this race")
		}
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
		return nil
	})

	return id, err
}

// Remove deletes a member from a race and closes the gap
func (r *MemberRepository) Remove(ctx context.Context, raceID, memberID uuid.UUID) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM race WHERE id = $1 FOR UPDATE`, raceID).Scan(&locked)
		if err != nil {
			return notFound(err, "race")
		}

		tag, err := tx.Exec(ctx, `DELETE FROM race_member WHERE id = $1 AND race_id = $2`, memberID, raceID)
		if err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ordering.NotFound("member not found in race")
		}

		return renumber(ctx, tx, "race_member", "race_id", raceID)
	})
}
