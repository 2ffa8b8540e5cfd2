package service

import (
	"context"

	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
)

// UserRepository is the persistence the user service needs
type UserRepository interface {
	Create(ctx context.Context, gamertag string) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Approve(ctx context.Context, id, approver uuid.UUID) (*models.User, error)
}

// RunListRepository is the persistence the run list service needs
type RunListRepository interface {
	Create(ctx context.Context, name, scheduledFor string, createdBy uuid.UUID) (*models.RunList, error)
	Get(ctx context.Context, id uuid.UUID) (*models.RunList, error)
	List(ctx context.Context, limit int) ([]models.RunList, error)
}

// RaceRepository is the persistence the race service needs
type RaceRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Race, error)
	ListByRunList(ctx context.Context, runListID uuid.UUID) ([]models.Race, error)
	Append(ctx context.Context, runListID uuid.UUID, track, car string, laps int, actor uuid.UUID) (*models.Race, error)
	Delete(ctx context.Context, raceID uuid.UUID) (uuid.UUID, error)
}

// MemberRepository is the persistence the roster service needs
type MemberRepository interface {
	ListByRace(ctx context.Context, raceID uuid.UUID) ([]models.Member, error)
	Append(ctx context.Context, raceID, userID uuid.UUID, tyre string, actor uuid.UUID) (uuid.UUID, error)
	Remove(ctx context.Context, raceID, memberID uuid.UUID) error
}

// LapTimeRepository is the persistence the lap time service needs
type LapTimeRepository interface {
	Record(ctx context.Context, userID uuid.UUID, track, car string, lapMs int) (*models.LapTime, error)
	Leaderboard(ctx context.Context, track string, limit int) ([]models.LeaderboardEntry, error)
}
