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

// RosterService manages the ordered roster of each race
type RosterService struct {
	store   ordering.Store
	members MemberRepository
	races   RaceRepository
	policy  *policy.Engine
	cache   *RosterCache
	events  events.Publisher
	log     *logger.Logger
}

// NewRosterService creates a new roster service. rc may be nil.
func NewRosterService(
	store ordering.Store,
	members MemberRepository,
	races RaceRepository,
	engine *policy.Engine,
	rc *RosterCache,
	pub events.Publisher,
	log *logger.Logger,
) *RosterService {
	return &RosterService{
		store:   store,
		members: members,
		races:   races,
		policy:  engine,
		cache:   rc,
		events:  pub,
		log:     log,
	}
}

// ListMembers returns the roster of a race sorted by order
func (s *RosterService) ListMembers(ctx context.Context, raceID uuid.UUID) ([]models.Member, error) {
	if members, ok := s.cache.Get(ctx, raceID); ok {
		return members, nil
	}

	gen := s.cache.Generation(raceID)

	if _, err := s.races.Get(ctx, raceID); err != nil {
		return nil, err
	}

	members, err := s.members.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}

	s.cache.Fill(ctx, raceID, gen, members)
	return members, nil
}

// ReorderMembers applies a full roster order submitted by p and returns the
// canonical roster
func (s *RosterService) ReorderMembers(ctx context.Context, p policy.Principal, raceID uuid.UUID, rawIDs []string) (members []models.Member, err error) {
	start := time.Now()
	log := logger.FromContext(ctx, s.log).WithParent(CollectionMembers, raceID.String())
	defer func() { observe(CollectionMembers, len(rawIDs), start, err) }()

	if err := s.policy.Authorize(policy.ReorderMembers, p); err != nil {
		return nil, err
	}

	ids, err := ordering.ParseIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	if err := ordering.CheckIDs(ids); err != nil {
		return nil, err
	}
	if _, err := s.races.Get(ctx, raceID); err != nil {
		return nil, err
	}

	before, err := s.store.Children(ctx, raceID)
	if err != nil {
		return nil, ordering.Internal(err)
	}

	if err := ordering.Reorder(ctx, s.store, raceID, ids, p.ID); err != nil {
		log.Warn("roster reorder rejected", "reason", ordering.ReasonOf(err), "error", err)
		return nil, err
	}

	s.cache.Invalidate(ctx, raceID)
	log.Info("roster reordered", "count", len(ids), "user_id", p.ID)
	announce(ctx, s.events, log, events.MembersReordered, raceID, p.ID, ordering.IDs(before), ids)

	members, err = s.members.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload roster: %w", err)
	}
	return members, nil
}

// AddMember appends an approved user to a race and returns the new roster
func (s *RosterService) AddMember(ctx context.Context, p policy.Principal, raceID, userID uuid.UUID, tyre string) ([]models.Member, error) {
	if err := s.policy.Authorize(policy.Administer, p); err != nil {
		return nil, err
	}

	before, err := s.store.Children(ctx, raceID)
	if err != nil {
		return nil, ordering.Internal(err)
	}

	memberID, err := s.members.Append(ctx, raceID, userID, tyre, p.ID)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, raceID)

	members, err := s.members.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload roster: %w", err)
	}

	s.log.Info("member added", "race_id", raceID, "member_id", memberID, "user_id", userID)
	announce(ctx, s.events, s.log, events.MemberAdded, raceID, p.ID, ordering.IDs(before), memberIDs(members))
	return members, nil
}

// RemoveMember removes a member from a race; the remaining members close the gap
func (s *RosterService) RemoveMember(ctx context.Context, p policy.Principal, raceID, memberID uuid.UUID) ([]models.Member, error) {
	if err := s.policy.Authorize(policy.Administer, p); err != nil {
		return nil, err
	}

	before, err := s.store.Children(ctx, raceID)
	if err != nil {
		return nil, ordering.Internal(err)
	}

	if err := s.members.Remove(ctx, raceID, memberID); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, raceID)

	members, err := s.members.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload roster: %w", err)
	}

	s.log.Info("member removed", "race_id", raceID, "member_id", memberID)
	announce(ctx, s.events, s.log, events.MemberRemoved, raceID, p.ID, ordering.IDs(before), memberIDs(members))
	return members, nil
}

func memberIDs(members []models.Member) []uuid.UUID {
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
