package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mw "github.com/fridaygt/fridaygt/cmd/fridaygt/middleware"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	err      error
	gotIDs   []string
	gotRace  uuid.UUID
	gotActor policy.Principal
}

func (f *fakeRoster) ListMembers(context.Context, uuid.UUID) ([]models.Member, error) {
	return []models.Member{}, f.err
}

func (f *fakeRoster) ReorderMembers(_ context.Context, p policy.Principal, raceID uuid.UUID, ids []string) ([]models.Member, error) {
	f.gotIDs, f.gotRace, f.gotActor = ids, raceID, p
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Member, len(ids))
	for i, s := range ids {
		out[i] = models.Member{ID: uuid.MustParse(s), RaceID: raceID, Order: i + 1}
	}
	return out, nil
}

func (f *fakeRoster) AddMember(_ context.Context, _ policy.Principal, raceID, userID uuid.UUID, tyre string) ([]models.Member, error) {
	return []models.Member{{RaceID: raceID, UserID: userID, Tyre: tyre, Order: 1}}, f.err
}

func (f *fakeRoster) RemoveMember(context.Context, policy.Principal, uuid.UUID, uuid.UUID) ([]models.Member, error) {
	return []models.Member{}, f.err
}

type fakeRunLists struct{}

func (fakeRunLists) CreateRunList(_ context.Context, p policy.Principal, req models.CreateRunListRequest) (*models.RunList, error) {
	return &models.RunList{ID: uuid.New(), Name: req.Name, ScheduledFor: req.ScheduledFor, CreatedBy: p.ID}, nil
}

func (fakeRunLists) ListRunLists(context.Context) ([]models.RunList, error) {
	return []models.RunList{}, nil
}

var caller = policy.Principal{ID: uuid.New(), Role: policy.RoleAdmin}

func newTestEcho(roster RosterService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger.Discard())
	e.Validator = NewRequestValidator()

	auth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(string(mw.PrincipalKey), caller)
			return next(c)
		}
	}

	members := NewMemberHandler(roster)
	runLists := NewRunListHandler(fakeRunLists{})

	api := e.Group("/api", auth)
	api.GET("/races/:raceId/members", members.ListMembers)
	api.POST("/races/:raceId/members", members.AddMember)
	api.PATCH("/races/:raceId/members/reorder", members.ReorderMembers)
	api.POST("/run-lists", runLists.CreateRunList)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestReorderMembers_OK(t *testing.T) {
	roster := &fakeRoster{}
	e := newTestEcho(roster)
	raceID := uuid.New()
	a, b := uuid.New(), uuid.New()

	rec := do(e, http.MethodPatch, "/api/races/"+raceID.String()+"/members/reorder",
		`{"memberIds":["`+b.String()+`","`+a.String()+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.ReorderMembersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Members, 2)
	assert.Equal(t, b, resp.Members[0].ID)

	assert.Equal(t, raceID, roster.gotRace)
	assert.Equal(t, caller, roster.gotActor)
}

func TestReorderMembers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"unauthenticated", ordering.Unauthenticated("who"), http.StatusUnauthorized, ordering.ReasonAuthenticationRequired},
		{"forbidden", ordering.Forbidden(ordering.ReasonForbidden, "admins only"), http.StatusForbidden, ordering.ReasonForbidden},
		{"pending", ordering.Forbidden(ordering.ReasonAccountPending, "wait"), http.StatusForbidden, ordering.ReasonAccountPending},
		{"subset", ordering.Invalid(ordering.ReasonIncompleteSet, "all please"), http.StatusBadRequest, ordering.ReasonIncompleteSet},
		{"not found", ordering.NotFound("race not found"), http.StatusNotFound, ordering.ReasonNotFound},
		{"tx", ordering.TransactionFailed(errors.New("deadlock detected")), http.StatusInternalServerError, ordering.ReasonTransactionFailed},
		{"unclassified", errors.New("pool exhausted"), http.StatusInternalServerError, ordering.ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(&fakeRoster{err: tt.err})
			rec := do(e, http.MethodPatch, "/api/races/"+uuid.NewString()+"/members/reorder",
				`{"memberIds":["`+uuid.NewString()+`"]}`)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.reason, body.Error)
			assert.NotContains(t, body.Message, "deadlock")
			assert.NotContains(t, body.Message, "pool exhausted")
		})
	}
}

func TestReorderMembers_MalformedBody(t *testing.T) {
	e := newTestEcho(&fakeRoster{})

	rec := do(e, http.MethodPatch, "/api/races/"+uuid.NewString()+"/members/reorder", `{"memberIds": "nope"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ordering.ReasonInvalidBody, decodeError(t, rec).Error)
}

func TestMalformedPathID(t *testing.T) {
	e := newTestEcho(&fakeRoster{})

	rec := do(e, http.MethodGet, "/api/races/not-a-uuid/members", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ordering.ReasonNotFound, decodeError(t, rec).Error)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEcho(&fakeRoster{})

	rec := do(e, http.MethodGet, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ordering.ReasonNotFound, decodeError(t, rec).Error)
}

func TestAddMember_Validation(t *testing.T) {
	e := newTestEcho(&fakeRoster{})
	path := "/api/races/" + uuid.NewString() + "/members"

	rec := do(e, http.MethodPost, path, `{"userId":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, ordering.ReasonInvalidBody, body.Error)
	assert.Contains(t, body.Message, "userId")

	rec = do(e, http.MethodPost, path, `{"userId":"`+uuid.NewString()+`","tyre":"soft"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateRunList_Validation(t *testing.T) {
	e := newTestEcho(&fakeRoster{})

	rec := do(e, http.MethodPost, "/api/run-lists", `{"name":"Tonight","scheduledFor":"23/10/2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "scheduledFor")

	rec = do(e, http.MethodPost, "/api/run-lists", `{"name":"Tonight","scheduledFor":"2026-10-23"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var rl models.RunList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rl))
	assert.Equal(t, caller.ID, rl.CreatedBy)
}

func TestBodyID(t *testing.T) {
	id := uuid.New()
	got, err := bodyID("userId", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "bob", id.String()[:35]} {
		_, err := bodyID("userId", raw)
		require.Error(t, err, raw)
		assert.Equal(t, ordering.ReasonInvalidBody, ordering.ReasonOf(err))
		assert.Contains(t, err.Error(), "userId")
	}
}
