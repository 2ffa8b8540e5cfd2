package service

import (
	"context"
	"testing"

	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type raceFixture struct {
	svc      *RaceService
	races    *fakeRaces
	recorder *events.Recorder
	runList  uuid.UUID
	other    uuid.UUID
}

func newRaceFixture(t *testing.T) *raceFixture {
	t.Helper()
	runLists := &fakeRunLists{known: map[uuid.UUID]bool{}}
	rl, _ := runLists.Create(context.Background(), "tonight", "2026-10-23", admin.ID)
	other, _ := runLists.Create(context.Background(), "next week", "2026-10-30", admin.ID)

	races := newFakeRaces()
	rec := &events.Recorder{}
	svc := NewRaceService(races.store, races, runLists, testEngine(t), nil, rec, logger.Discard())

	return &raceFixture{svc: svc, races: races, recorder: rec, runList: rl.ID, other: other.ID}
}

func (f *raceFixture) add(t *testing.T, runList uuid.UUID, track string) uuid.UUID {
	t.Helper()
	race, err := f.svc.AddRace(context.Background(), admin, runList, models.CreateRaceRequest{Track: track, Car: "gt3"})
	require.NoError(t, err)
	return race.ID
}

func TestAddRace_AppendsWithDefaultLaps(t *testing.T) {
	f := newRaceFixture(t)

	first, err := f.svc.AddRace(context.Background(), admin, f.runList, models.CreateRaceRequest{Track: "spa", Car: "gt3"})
	require.NoError(t, err)
	second, err := f.svc.AddRace(context.Background(), admin, f.runList, models.CreateRaceRequest{Track: "monza", Car: "gt4", Laps: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 1, first.Laps)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, 5, second.Laps)

	_, err = f.svc.AddRace(context.Background(), member, f.runList, models.CreateRaceRequest{Track: "spa", Car: "gt3"})
	assert.Equal(t, ordering.KindAuthorizationDenied, ordering.KindOf(err))
}

func TestReorderRaces_MemberMayReorder(t *testing.T) {
	f := newRaceFixture(t)
	a, b, c := f.add(t, f.runList, "spa"), f.add(t, f.runList, "monza"), f.add(t, f.runList, "imola")
	f.recorder.Events = nil

	races, err := f.svc.ReorderRaces(context.Background(), member, f.runList.String(), strs(b, c, a))
	require.NoError(t, err)
	require.Len(t, races, 3)
	assert.Equal(t, []uuid.UUID{b, c, a}, []uuid.UUID{races[0].ID, races[1].ID, races[2].ID})
	assert.Equal(t, member.ID, *races[0].UpdatedBy)

	require.Len(t, f.recorder.Events, 1)
	assert.Equal(t, events.RacesReordered, f.recorder.Events[0].Type)
}

func TestReorderRaces_InfersRunList(t *testing.T) {
	f := newRaceFixture(t)
	a, b := f.add(t, f.runList, "spa"), f.add(t, f.runList, "monza")

	races, err := f.svc.ReorderRaces(context.Background(), admin, "", strs(b, a))
	require.NoError(t, err)
	assert.Equal(t, b, races[0].ID)
	assert.Equal(t, f.runList, races[0].RunListID)
}

func TestReorderRaces_Rejections(t *testing.T) {
	f := newRaceFixture(t)
	a, b := f.add(t, f.runList, "spa"), f.add(t, f.runList, "monza")
	foreign := f.add(t, f.other, "suzuka")

	_, err := f.svc.ReorderRaces(context.Background(), admin, "", strs(a, foreign))
	assert.Equal(t, ordering.ReasonParentMismatch, ordering.ReasonOf(err))

	_, err = f.svc.ReorderRaces(context.Background(), admin, f.runList.String(), strs(b, a, foreign))
	assert.Equal(t, ordering.ReasonParentMismatch, ordering.ReasonOf(err))

	_, err = f.svc.ReorderRaces(context.Background(), admin, "not-a-uuid", strs(a, b))
	assert.Equal(t, ordering.ReasonInvalidBody, ordering.ReasonOf(err))

	_, err = f.svc.ReorderRaces(context.Background(), admin, uuid.NewString(), strs(a, b))
	assert.Equal(t, ordering.KindNotFound, ordering.KindOf(err))

	_, err = f.svc.ReorderRaces(context.Background(), admin, f.runList.String(), strs(a, a))
	assert.Equal(t, ordering.ReasonDuplicateIDs, ordering.ReasonOf(err))

	races, err := f.svc.ListRaces(context.Background(), f.runList)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, []uuid.UUID{races[0].ID, races[1].ID})
}

func TestDeleteRace_RenumbersAndAnnounces(t *testing.T) {
	f := newRaceFixture(t)
	a, b, c := f.add(t, f.runList, "spa"), f.add(t, f.runList, "monza"), f.add(t, f.runList, "imola")
	f.recorder.Events = nil

	require.NoError(t, f.svc.DeleteRace(context.Background(), admin, b))

	races, err := f.svc.ListRaces(context.Background(), f.runList)
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, a, races[0].ID)
	assert.Equal(t, c, races[1].ID)
	assert.Equal(t, 2, races[1].Order)

	require.Len(t, f.recorder.Events, 1)
	ev := f.recorder.Events[0]
	assert.Equal(t, events.RaceRemoved, ev.Type)
	assert.NotContains(t, ev.Order, b.String())
}
