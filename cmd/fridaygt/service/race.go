package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
)

const defaultLaps = 1

// RaceService manages the ordered races of each run list
type RaceService struct {
	store    ordering.Store
	races    RaceRepository
	runLists RunListRepository
	policy   *policy.Engine
	rosters  *RosterCache
	events   events.Publisher
	log      *logger.Logger
}

// NewRaceService creates a new race service. rosters may be nil.
func NewRaceService(
	store ordering.Store,
	races RaceRepository,
	runLists RunListRepository,
	engine *policy.Engine,
	rosters *RosterCache,
	pub events.Publisher,
	log *logger.Logger,
) *RaceService {
	return &RaceService{
		store:    store,
		races:    races,
		runLists: runLists,
		policy:   engine,
		rosters:  rosters,
		events:   pub,
		log:      log,
	}
}

// ListRaces returns the races of a run list sorted by order
func (s *RaceService) ListRaces(ctx context.Context, runListID uuid.UUID) ([]models.Race, error) {
	if _, err := s.runLists.Get(ctx, runListID); err != nil {
		return nil, err
	}
	return s.races.ListByRunList(ctx, runListID)
}

// ReorderRaces applies a full race order. When rawRunListID is empty the run
// list is inferred from the races, which must then all share it.
func (s *RaceService) ReorderRaces(ctx context.Context, p policy.Principal, rawRunListID string, rawIDs []string) (races []models.Race, err error) {
	start := time.Now()
	defer func() { observe(CollectionRaces, len(rawIDs), start, err) }()

	if err := s.policy.Authorize(policy.ReorderRaces, p); err != nil {
		return nil, err
	}

	ids, err := ordering.ParseIDs(rawIDs)
	if err != nil {
		return nil, err
	}

	var runListID uuid.UUID
	if rawRunListID == "" {
		runListID, err = ordering.InferParent(ctx, s.store, ids)
		if err != nil {
			return nil, err
		}
	} else {
		runListID, err = uuid.Parse(rawRunListID)
		if err != nil {
			return nil, ordering.Invalid(ordering.ReasonInvalidBody, fmt.Sprintf("malformed runListId %q", rawRunListID))
		}
		if err := ordering.CheckIDs(ids); err != nil {
			return nil, err
		}
		if _, err := s.runLists.Get(ctx, runListID); err != nil {
			return nil, err
		}
	}

	log := logger.FromContext(ctx, s.log).WithParent(CollectionRaces, runListID.String())

	before, err := s.store.Children(ctx, runListID)
	if err != nil {
		return nil, ordering.Internal(err)
	}

	if err := ordering.Reorder(ctx, s.store, runListID, ids, p.ID); err != nil {
		log.Warn("race reorder rejected", "reason", ordering.ReasonOf(err), "error", err)
		return nil, err
	}

	log.Info("races reordered", "count", len(ids), "user_id", p.ID)
	announce(ctx, s.events, log, events.RacesReordered, runListID, p.ID, ordering.IDs(before), ids)

	races, err = s.races.ListByRunList(ctx, runListID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload races: %w", err)
	}
	return races, nil
}

// AddRace appends a race to a run list
func (s *RaceService) AddRace(ctx context.Context, p policy.Principal, runListID uuid.UUID, req models.CreateRaceRequest) (*models.Race, error) {
	if err := s.policy.Authorize(policy.Administer, p); err != nil {
		return nil, err
	}

	laps := req.Laps
	if laps == 0 {
		laps = defaultLaps
	}

	before, err := s.store.Children(ctx, runListID)
	if err != nil {
		return nil, ordering.Internal(err)
	}

	race, err := s.races.Append(ctx, runListID, req.Track, req.Car, laps, p.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("race added", "run_list_id", runListID, "race_id", race.ID, "order", race.Order)
	after := append(ordering.IDs(before), race.ID)
	announce(ctx, s.events, s.log, events.RaceAdded, runListID, p.ID, ordering.IDs(before), after)
	return race, nil
}

// DeleteRace removes a race; the remaining races close the gap
func (s *RaceService) DeleteRace(ctx context.Context, p policy.Principal, raceID uuid.UUID) error {
	if err := s.policy.Authorize(policy.Administer, p); err != nil {
		return err
	}

	race, err := s.races.Get(ctx, raceID)
	if err != nil {
		return err
	}
	before, err := s.store.Children(ctx, race.RunListID)
	if err != nil {
		return ordering.Internal(err)
	}

	runListID, err := s.races.Delete(ctx, raceID)
	if err != nil {
		return err
	}
	s.rosters.Invalidate(ctx, raceID)

	after, err := s.store.Children(ctx, runListID)
	if err != nil {
		s.log.Warn("failed to reload races after delete", "run_list_id", runListID, "error", err)
		return nil
	}

	s.log.Info("race deleted", "run_list_id", runListID, "race_id", raceID)
	announce(ctx, s.events, s.log, events.RaceRemoved, runListID, p.ID, ordering.IDs(before), ordering.IDs(after))
	return nil
}
