package container

import (
	"fmt"

	"github.com/fridaygt/fridaygt/cmd/fridaygt/repository"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/service"
	"github.com/fridaygt/fridaygt/common/bootstrap"
	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	// Repositories
	UserRepo    *repository.UserRepository
	RunListRepo *repository.RunListRepository
	RaceRepo    *repository.RaceRepository
	MemberRepo  *repository.MemberRepository
	LapTimeRepo *repository.LapTimeRepository

	// Ordering
	MemberStore *ordering.PGStore
	RaceStore   *ordering.PGStore
	Policy      *policy.Engine
	Events      events.Publisher

	// Services
	UserService    *service.UserService
	RunListService *service.RunListService
	RaceService    *service.RaceService
	RosterService  *service.RosterService
	LapTimeService *service.LapTimeService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	if components.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	cfg := components.Config
	log := components.Logger

	engine, err := policy.NewEngine(map[policy.Action]string{
		policy.ReorderMembers: cfg.Policy.ReorderMembers,
		policy.ReorderRaces:   cfg.Policy.ReorderRaces,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile policies: %w", err)
	}

	var pub events.Publisher = events.NopPublisher{}
	if components.Redis != nil {
		pub = events.NewRedisPublisher(components.Redis, log)
	} else {
		log.Warn("redis unavailable, realtime events disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(components.DB)
	runListRepo := repository.NewRunListRepository(components.DB)
	raceRepo := repository.NewRaceRepository(components.DB)
	memberRepo := repository.NewMemberRepository(components.DB)
	lapTimeRepo := repository.NewLapTimeRepository(components.DB)

	memberStore := ordering.NewPGStore(components.DB, ordering.RaceMembers)
	raceStore := ordering.NewPGStore(components.DB, ordering.Races)

	// Services (bottom-up: dependencies first)
	userService := service.NewUserService(userRepo, engine, log)
	runListService := service.NewRunListService(runListRepo, engine, log)
	rosterCache := service.NewRosterCache(components.Cache, cfg.Cache.DefaultTTL, log)
	raceService := service.NewRaceService(raceStore, raceRepo, runListRepo, engine, rosterCache, pub, log)
	rosterService := service.NewRosterService(
		memberStore,
		memberRepo,
		raceRepo,
		engine,
		rosterCache,
		pub,
		log,
	)
	lapTimeService := service.NewLapTimeService(lapTimeRepo, log)

	return &Container{
		Components:     components,
		UserRepo:       userRepo,
		RunListRepo:    runListRepo,
		RaceRepo:       raceRepo,
		MemberRepo:     memberRepo,
		LapTimeRepo:    lapTimeRepo,
		MemberStore:    memberStore,
		RaceStore:      raceStore,
		Policy:         engine,
		Events:         pub,
		UserService:    userService,
		RunListService: runListService,
		RaceService:    raceService,
		RosterService:  rosterService,
		LapTimeService: lapTimeService,
	}, nil
}
