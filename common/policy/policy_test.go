package policy

import (
	"testing"

	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(map[Action]string{
		ReorderMembers: "principal.role == 'admin'",
		ReorderRaces:   "principal.role in ['admin', 'member']",
	})
	require.NoError(t, err)
	return e
}

func TestEngine_DefaultRules(t *testing.T) {
	e := defaultEngine(t)
	admin := Principal{ID: uuid.New(), Role: RoleAdmin}
	member := Principal{ID: uuid.New(), Role: RoleMember}

	tests := []struct {
		action Action
		who    Principal
		want   bool
	}{
		{ReorderMembers, admin, true},
		{ReorderMembers, member, false},
		{ReorderRaces, admin, true},
		{ReorderRaces, member, true},
		{Administer, admin, true},
		{Administer, member, false},
		{Action("unknown"), admin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action)+"/"+tt.who.Role, func(t *testing.T) {
			got, err := e.Allowed(tt.action, tt.who)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Authorize(t *testing.T) {
	e := defaultEngine(t)

	err := e.Authorize(ReorderMembers, Principal{ID: uuid.New(), Role: RoleMember})
	require.Error(t, err)
	assert.Equal(t, ordering.KindAuthorizationDenied, ordering.KindOf(err))
	assert.Equal(t, ordering.ReasonForbidden, ordering.ReasonOf(err))

	assert.NoError(t, e.Authorize(ReorderMembers, Principal{ID: uuid.New(), Role: RoleAdmin}))
}

func TestEngine_RuleCanUsePrincipalID(t *testing.T) {
	owner := uuid.New()
	e, err := NewEngine(map[Action]string{
		ReorderRaces: "principal.id == '" + owner.String() + "'",
	})
	require.NoError(t, err)

	ok, err := e.Allowed(ReorderRaces, Principal{ID: owner, Role: RoleMember})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Allowed(ReorderRaces, Principal{ID: uuid.New(), Role: RoleAdmin})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewEngine_RejectsBadRules(t *testing.T) {
	_, err := NewEngine(map[Action]string{ReorderMembers: "principal.role =="})
	assert.ErrorContains(t, err, "compilation")

	_, err = NewEngine(map[Action]string{ReorderMembers: "'admin'"})
	assert.ErrorContains(t, err, "must return bool")
}

func TestEngine_CachesPrograms(t *testing.T) {
	e, err := NewEngine(map[Action]string{
		ReorderMembers: DefaultAdminRule,
		ReorderRaces:   DefaultAdminRule,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, e.CacheSize())
}
