package handlers

import (
	"context"

	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
)

// UserService is implemented by service.UserService
type UserService interface {
	Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error)
	Resolve(ctx context.Context, id uuid.UUID) (*models.User, error)
	Approve(ctx context.Context, p policy.Principal, userID uuid.UUID) (*models.User, error)
}

// RunListService is implemented by service.RunListService
type RunListService interface {
	CreateRunList(ctx context.Context, p policy.Principal, req models.CreateRunListRequest) (*models.RunList, error)
	ListRunLists(ctx context.Context) ([]models.RunList, error)
}

// RaceService is implemented by service.RaceService
type RaceService interface {
	ListRaces(ctx context.Context, runListID uuid.UUID) ([]models.Race, error)
	ReorderRaces(ctx context.Context, p policy.Principal, runListID string, raceIDs []string) ([]models.Race, error)
	AddRace(ctx context.Context, p policy.Principal, runListID uuid.UUID, req models.CreateRaceRequest) (*models.Race, error)
	DeleteRace(ctx context.Context, p policy.Principal, raceID uuid.UUID) error
}

// RosterService is implemented by service.RosterService
type RosterService interface {
	ListMembers(ctx context.Context, raceID uuid.UUID) ([]models.Member, error)
	ReorderMembers(ctx context.Context, p policy.Principal, raceID uuid.UUID, memberIDs []string) ([]models.Member, error)
	AddMember(ctx context.Context, p policy.Principal, raceID, userID uuid.UUID, tyre string) ([]models.Member, error)
	RemoveMember(ctx context.Context, p policy.Principal, raceID, memberID uuid.UUID) ([]models.Member, error)
}

// LapTimeService is implemented by service.LapTimeService
type LapTimeService interface {
	RecordLap(ctx context.Context, p policy.Principal, req models.RecordLapRequest) (*models.LapTime, error)
	Leaderboard(ctx context.Context, track string) ([]models.LeaderboardEntry, error)
}
