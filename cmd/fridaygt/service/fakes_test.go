package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fridaygt/fridaygt/common/cache"
	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeMembers derives rosters from an ordering.MemStore keyed by race
type fakeMembers struct {
	store *ordering.MemStore
}

func (f *fakeMembers) ListByRace(ctx context.Context, raceID uuid.UUID) ([]models.Member, error) {
	items, err := f.store.Children(ctx, raceID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Member, len(items))
	for i, it := range items {
		out[i] = models.Member{ID: it.ID, RaceID: raceID, Order: it.Order, UpdatedAt: it.UpdatedAt, UpdatedBy: it.UpdatedBy}
	}
	return out, nil
}

func (f *fakeMembers) Append(_ context.Context, raceID, _ uuid.UUID, _ string, _ uuid.UUID) (uuid.UUID, error) {
	return f.store.Append(raceID).ID, nil
}

func (f *fakeMembers) Remove(_ context.Context, _, memberID uuid.UUID) error {
	if !f.store.Remove(memberID) {
		return ordering.NotFound("member not found in race")
	}
	return nil
}

// fakeRaces keeps race rows in a MemStore keyed by run list
type fakeRaces struct {
	store *ordering.MemStore
	mu    sync.Mutex
	meta  map[uuid.UUID]models.Race
}

func newFakeRaces() *fakeRaces {
	return &fakeRaces{store: ordering.NewMemStore(), meta: make(map[uuid.UUID]models.Race)}
}

func (f *fakeRaces) Get(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	items, err := f.store.Get(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ordering.NotFound("race not found")
	}
	f.mu.Lock()
	race := f.meta[id]
	f.mu.Unlock()
	race.Order = items[0].Order
	race.RunListID = items[0].ParentID
	return &race, nil
}

func (f *fakeRaces) ListByRunList(ctx context.Context, runListID uuid.UUID) ([]models.Race, error) {
	items, err := f.store.Children(ctx, runListID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Race, len(items))
	for i, it := range items {
		f.mu.Lock()
		out[i] = f.meta[it.ID]
		f.mu.Unlock()
		out[i].Order = it.Order
		out[i].UpdatedBy = it.UpdatedBy
	}
	return out, nil
}

func (f *fakeRaces) Append(_ context.Context, runListID uuid.UUID, track, car string, laps int, _ uuid.UUID) (*models.Race, error) {
	it := f.store.Append(runListID)
	race := models.Race{ID: it.ID, RunListID: runListID, Track: track, Car: car, Laps: laps, Order: it.Order}
	f.mu.Lock()
	f.meta[it.ID] = race
	f.mu.Unlock()
	return &race, nil
}

func (f *fakeRaces) Delete(ctx context.Context, raceID uuid.UUID) (uuid.UUID, error) {
	race, err := f.Get(ctx, raceID)
	if err != nil {
		return uuid.Nil, err
	}
	f.store.Remove(raceID)
	return race.RunListID, nil
}

type fakeRunLists struct {
	known map[uuid.UUID]bool
}

func (f *fakeRunLists) Create(_ context.Context, name, scheduledFor string, createdBy uuid.UUID) (*models.RunList, error) {
	rl := &models.RunList{ID: uuid.New(), Name: name, ScheduledFor: scheduledFor, CreatedBy: createdBy}
	f.known[rl.ID] = true
	return rl, nil
}

func (f *fakeRunLists) Get(_ context.Context, id uuid.UUID) (*models.RunList, error) {
	if !f.known[id] {
		return nil, ordering.NotFound("run list not found")
	}
	return &models.RunList{ID: id}, nil
}

func (f *fakeRunLists) List(context.Context, int) ([]models.RunList, error) {
	return nil, nil
}

func testEngine(t *testing.T) *policy.Engine {
	t.Helper()
	e, err := policy.NewEngine(map[policy.Action]string{
		policy.ReorderMembers: "principal.role == 'admin'",
		policy.ReorderRaces:   "principal.role in ['admin', 'member']",
	})
	require.NoError(t, err)
	return e
}

type rosterFixture struct {
	svc      *RosterService
	raceSvc  *RaceService
	rosters  *RosterCache
	store    *ordering.MemStore
	races    *fakeRaces
	cache    *cache.MemoryCache
	recorder *events.Recorder
	raceID   uuid.UUID
	members  []uuid.UUID
}

func newRosterFixture(t *testing.T, n int) *rosterFixture {
	t.Helper()
	log := logger.Discard()

	store := ordering.NewMemStore()
	races := newFakeRaces()
	race, err := races.Append(context.Background(), uuid.New(), "spa", "gt3", 3, uuid.New())
	require.NoError(t, err)

	members := make([]uuid.UUID, n)
	for i := range members {
		members[i] = store.Append(race.ID).ID
	}

	c := cache.NewMemoryCache(log)
	t.Cleanup(func() { c.Close() })

	rec := &events.Recorder{}
	rosters := NewRosterCache(c, time.Minute, log)
	svc := NewRosterService(store, &fakeMembers{store: store}, races, testEngine(t), rosters, rec, log)

	runLists := &fakeRunLists{known: map[uuid.UUID]bool{race.RunListID: true}}
	raceSvc := NewRaceService(races.store, races, runLists, testEngine(t), rosters, rec, log)

	return &rosterFixture{
		svc:      svc,
		raceSvc:  raceSvc,
		rosters:  rosters,
		store:    store,
		races:    races,
		cache:    c,
		recorder: rec,
		raceID:   race.ID,
		members:  members,
	}
}

func strs(ids ...uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
