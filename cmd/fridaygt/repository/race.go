package repository

import (
	"context"
	"fmt"

	"github.com/fridaygt/fridaygt/common/db"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RaceRepository handles database operations for races
type RaceRepository struct {
	db *db.DB
}

// NewRaceRepository creates a new race repository
func NewRaceRepository(db *db.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

const raceSelect = `
	SELECT r.id, r.run_list_id, r.track, r.car, r.laps, r.sort_order,
	       (SELECT COUNT(*) FROM race_member m WHERE m.race_id = r.id),
	       r.updated_at, r.updated_by, u.gamertag
	FROM race r
	LEFT JOIN app_user u ON u.id = r.updated_by
`

func scanRace(row pgx.Row) (*models.Race, error) {
	race := &models.Race{}
	err := row.Scan(
		&race.ID,
		&race.RunListID,
		&race.Track,
		&race.Car,
		&race.Laps,
		&race.Order,
		&race.MemberCount,
		&race.UpdatedAt,
		&race.UpdatedBy,
		&race.UpdatedByGamertag,
	)
	return race, err
}

// Get retrieves a race by id
func (r *RaceRepository) Get(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	race, err := scanRace(r.db.QueryRow(ctx, raceSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "race")
	}
	return race, nil
}

// ListByRunList returns the races of a run list sorted by order
func (r *RaceRepository) ListByRunList(ctx context.Context, runListID uuid.UUID) ([]models.Race, error) {
	rows, err := r.db.Query(ctx, raceSelect+` WHERE r.run_list_id = $1 ORDER BY r.sort_order, r.id`, runListID)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	defer rows.Close()

	out := []models.Race{}
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race: %w", err)
		}
		out = append(out, *race)
	}

	return out, rows.Err()
}

// Append adds a race at the end of a run list. The run list row is locked so
// concurrent appends get distinct orders.
func (r *RaceRepository) Append(ctx context.Context, runListID uuid.UUID, track, car string, laps int, actor uuid.UUID) (*models.Race, error) {
	id := uuid.New()

	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM run_list WHERE id = $1 FOR UPDATE`, runListID).Scan(&locked)
		if err != nil {
			return notFound(err, "run list")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO race (id, run_list_id, track, car, laps, sort_order, created_by, updated_by)
			SELECT $1, $2, $3, $4, $5, COALESCE(MAX(sort_order), 0) + 1, $6, $6
			FROM race WHERE run_list_id = $2
		`, id, runListID, track, car, laps, actor)
		if err != nil {
			return fmt.Errorf("failed to insert race: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes a race and closes the gap in its run list. It returns the
// run list the race belonged to.
func (r *RaceRepository) Delete(ctx context.Context, raceID uuid.UUID) (uuid.UUID, error) {
	var runListID uuid.UUID

	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT run_list_id FROM race WHERE id = $1`, raceID).Scan(&runListID)
		if err != nil {
			return notFound(err, "race")
		}

		if _, err := tx.Exec(ctx, `SELECT id FROM run_list WHERE id = $1 FOR UPDATE`, runListID); err != nil {
			return fmt.Errorf("failed to lock run list: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM race WHERE id = $1`, raceID)
		if err != nil {
			return fmt.Errorf("failed to delete race: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return notFound(pgx.ErrNoRows, "race")
		}

		return renumber(ctx, tx, "race", "run_list_id", runListID)
	})

	return runListID, err
}

// renumber rewrites sort_order of every row under parentID to 1..N, keeping
// the current relative order
func renumber(ctx context.Context, tx pgx.Tx, table, parentColumn string, parentID uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %[1]s AS t
		SET sort_order = n.pos
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY sort_order, id) AS pos
			FROM %[1]s
			WHERE %[2]s = $1
		) AS n
		WHERE t.id = n.id AND t.sort_order <> n.pos
	`, table, parentColumn)

	if _, err := tx.Exec(ctx, query, parentID); err != nil {
		return fmt.Errorf("failed to renumber %s: %w", table, err)
	}
	return nil
}
