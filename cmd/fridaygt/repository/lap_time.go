package repository

import (
	"context"
	"fmt"

	"github.com/fridaygt/fridaygt/common/db"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
)

// LapTimeRepository handles database operations for lap times
type LapTimeRepository struct {
	db *db.DB
}

// NewLapTimeRepository creates a new lap time repository
func NewLapTimeRepository(db *db.DB) *LapTimeRepository {
	return &LapTimeRepository{db: db}
}

// Record inserts a lap
func (r *LapTimeRepository) Record(ctx context.Context, userID uuid.UUID, track, car string, lapMs int) (*models.LapTime, error) {
	query := `
		INSERT INTO lap_time (id, user_id, track, car, lap_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, track, car, lap_ms, recorded_at
	`

	lap := &models.LapTime{}
	err := r.db.QueryRow(ctx, query, uuid.New(), userID, track, car, lapMs).Scan(
		&lap.ID,
		&lap.UserID,
		&lap.Track,
		&lap.Car,
		&lap.LapMs,
		&lap.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record lap: %w", err)
	}

	return lap, nil
}

// Leaderboard returns each driver's best lap on track, fastest first
func (r *LapTimeRepository) Leaderboard(ctx context.Context, track string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT RANK() OVER (ORDER BY best.lap_ms), best.user_id, u.gamertag, best.car, best.lap_ms, best.recorded_at
		FROM (
			SELECT DISTINCT ON (user_id) user_id, car, lap_ms, recorded_at
			FROM lap_time
			WHERE track = $1
			ORDER BY user_id, lap_ms, recorded_at
		) AS best
		JOIN app_user u ON u.id = best.user_id
		ORDER BY best.lap_ms, best.recorded_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, track, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	out := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.UserID, &e.Gamertag, &e.Car, &e.LapMs, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
