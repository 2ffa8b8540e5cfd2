package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/fridaygt/fridaygt/common/policy"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[uuid.UUID]*models.User

func (f fakeResolver) Resolve(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, ordering.NotFound("user not found")
}

func run(t *testing.T, users fakeResolver, header string) (policy.Principal, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(UserIDHeader, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got policy.Principal
	err := Authenticate(users, logger.Discard())(func(c echo.Context) error {
		p, err := RequirePrincipal(c)
		got = p
		return err
	})(c)
	return got, err
}

func TestAuthenticate(t *testing.T) {
	approved := &models.User{ID: uuid.New(), Role: policy.RoleAdmin, Status: models.StatusApproved}
	pending := &models.User{ID: uuid.New(), Role: policy.RoleMember, Status: models.StatusPending}
	users := fakeResolver{approved.ID: approved, pending.ID: pending}

	p, err := run(t, users, approved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, approved.ID, p.ID)
	assert.Equal(t, policy.RoleAdmin, p.Role)

	_, err = run(t, users, "")
	assert.Equal(t, ordering.KindAuthenticationRequired, ordering.KindOf(err))

	_, err = run(t, users, "garbage")
	assert.Equal(t, ordering.KindAuthenticationRequired, ordering.KindOf(err))

	_, err = run(t, users, uuid.NewString())
	assert.Equal(t, ordering.KindAuthenticationRequired, ordering.KindOf(err))

	_, err = run(t, users, pending.ID.String())
	assert.Equal(t, ordering.KindAuthorizationDenied, ordering.KindOf(err))
	assert.Equal(t, ordering.ReasonAccountPending, ordering.ReasonOf(err))
}

func TestRequirePrincipal_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := RequirePrincipal(c)
	assert.Equal(t, ordering.KindAuthenticationRequired, ordering.KindOf(err))
}
