package ordering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *MemStore, parent uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = s.Append(parent).ID
	}
	return ids
}

func childIDs(t *testing.T, s Store, parent uuid.UUID) []uuid.UUID {
	t.Helper()
	items, err := s.Children(context.Background(), parent)
	require.NoError(t, err)
	return IDs(items)
}

func childOrders(t *testing.T, s Store, parent uuid.UUID) []int {
	t.Helper()
	items, err := s.Children(context.Background(), parent)
	require.NoError(t, err)
	orders := make([]int, len(items))
	for i, it := range items {
		orders[i] = it.Order
	}
	return orders
}

func TestReorder_Permutation(t *testing.T) {
	s := NewMemStore()
	parent, actor := uuid.New(), uuid.New()
	ids := seed(t, s, parent, 3)
	a, b, c := ids[0], ids[1], ids[2]

	require.NoError(t, Reorder(context.Background(), s, parent, []uuid.UUID{c, a, b}, actor))

	assert.Equal(t, []uuid.UUID{c, a, b}, childIDs(t, s, parent))
	assert.Equal(t, []int{1, 2, 3}, childOrders(t, s, parent))

	items, err := s.Get(context.Background(), []uuid.UUID{a})
	require.NoError(t, err)
	require.NotNil(t, items[0].UpdatedBy)
	assert.Equal(t, actor, *items[0].UpdatedBy)
}

func TestReorder_Idempotent(t *testing.T) {
	s := NewMemStore()
	parent, actor := uuid.New(), uuid.New()
	ids := seed(t, s, parent, 4)
	want := []uuid.UUID{ids[3], ids[1], ids[0], ids[2]}

	require.NoError(t, Reorder(context.Background(), s, parent, want, actor))
	require.NoError(t, Reorder(context.Background(), s, parent, want, actor))

	assert.Equal(t, want, childIDs(t, s, parent))
	assert.Equal(t, []int{1, 2, 3, 4}, childOrders(t, s, parent))
}

func TestReorder_NormalizesGapsAndCollisions(t *testing.T) {
	s := NewMemStore()
	parent, actor := uuid.New(), uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	s.Put(Item{ID: a, ParentID: parent, Order: 1})
	s.Put(Item{ID: b, ParentID: parent, Order: 7})
	s.Put(Item{ID: c, ParentID: parent, Order: 7})

	require.NoError(t, Reorder(context.Background(), s, parent, []uuid.UUID{b, c, a}, actor))

	assert.Equal(t, []uuid.UUID{b, c, a}, childIDs(t, s, parent))
	assert.Equal(t, []int{1, 2, 3}, childOrders(t, s, parent))
}

func TestReorder_Validation(t *testing.T) {
	s := NewMemStore()
	parent, other, actor := uuid.New(), uuid.New(), uuid.New()
	ids := seed(t, s, parent, 3)
	foreign := s.Append(other).ID

	tests := []struct {
		name   string
		ids    []uuid.UUID
		kind   Kind
		reason string
	}{
		{"empty", nil, KindValidationFailed, ReasonEmptyList},
		{"duplicate", []uuid.UUID{ids[0], ids[0], ids[1]}, KindValidationFailed, ReasonDuplicateIDs},
		{"unknown", []uuid.UUID{ids[0], ids[1], uuid.New()}, KindNotFound, ReasonNotFound},
		{"cross parent", []uuid.UUID{ids[0], ids[1], ids[2], foreign}, KindValidationFailed, ReasonParentMismatch},
		{"subset", []uuid.UUID{ids[1], ids[0]}, KindValidationFailed, ReasonIncompleteSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Reorder(context.Background(), s, parent, tt.ids, actor)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.reason, ReasonOf(err))

			assert.Equal(t, ids, childIDs(t, s, parent), "failed reorder must not change state")
			assert.Equal(t, []uuid.UUID{foreign}, childIDs(t, s, other))
		})
	}
}

func TestReorder_FailureRollsBack(t *testing.T) {
	s := NewMemStore()
	parent, actor := uuid.New(), uuid.New()
	ids := seed(t, s, parent, 3)
	before, err := s.Children(context.Background(), parent)
	require.NoError(t, err)

	writes := 0
	s.SetFailHook(func(uuid.UUID, int) error {
		writes++
		if writes == 2 {
			return errors.New("disk on fire")
		}
		return nil
	})

	err = Reorder(context.Background(), s, parent, []uuid.UUID{ids[2], ids[1], ids[0]}, actor)
	require.Error(t, err)
	assert.Equal(t, KindTransactionFailed, KindOf(err))
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.NotContains(t, MessageOf(err), "disk on fire")

	after, err := s.Children(context.Background(), parent)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReorder_ConcurrentWritersSerialize(t *testing.T) {
	for round := 0; round < 20; round++ {
		s := NewMemStore()
		parent := uuid.New()
		ids := seed(t, s, parent, 5)
		s.SetFailHook(func(uuid.UUID, int) error {
			time.Sleep(50 * time.Microsecond)
			return nil
		})

		first := []uuid.UUID{ids[4], ids[3], ids[2], ids[1], ids[0]}
		second := []uuid.UUID{ids[1], ids[3], ids[0], ids[4], ids[2]}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, order := range [][]uuid.UUID{first, second} {
			wg.Add(1)
			go func(i int, order []uuid.UUID) {
				defer wg.Done()
				errs[i] = Reorder(context.Background(), s, parent, order, uuid.New())
			}(i, order)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		got := childIDs(t, s, parent)
		if !assert.True(t, equalIDs(got, first) || equalIDs(got, second), "interleaved result %v", got) {
			return
		}
		assert.Equal(t, []int{1, 2, 3, 4, 5}, childOrders(t, s, parent))
	}
}

func TestReorder_LastAdminWins(t *testing.T) {
	s := NewMemStore()
	parent := uuid.New()
	alice, bob := uuid.New(), uuid.New()
	ids := seed(t, s, parent, 3)
	a, b, c := ids[0], ids[1], ids[2]

	// both loaded [a b c]; alice commits first, bob's stale view still names the full set
	require.NoError(t, Reorder(context.Background(), s, parent, []uuid.UUID{b, a, c}, alice))
	require.NoError(t, Reorder(context.Background(), s, parent, []uuid.UUID{a, c, b}, bob))

	assert.Equal(t, []uuid.UUID{a, c, b}, childIDs(t, s, parent))
	items, err := s.Children(context.Background(), parent)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, bob, *it.UpdatedBy)
	}
}

func TestInferParent(t *testing.T) {
	s := NewMemStore()
	p1, p2 := uuid.New(), uuid.New()
	ids := seed(t, s, p1, 2)
	foreign := s.Append(p2).ID

	got, err := InferParent(context.Background(), s, ids)
	require.NoError(t, err)
	assert.Equal(t, p1, got)

	_, err = InferParent(context.Background(), s, []uuid.UUID{ids[0], foreign})
	assert.Equal(t, ReasonParentMismatch, ReasonOf(err))

	_, err = InferParent(context.Background(), s, []uuid.UUID{uuid.New()})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestMemStore_RemoveClosesGap(t *testing.T) {
	s := NewMemStore()
	parent := uuid.New()
	ids := seed(t, s, parent, 4)

	require.True(t, s.Remove(ids[1]))
	assert.False(t, s.Remove(ids[1]))

	assert.Equal(t, []uuid.UUID{ids[0], ids[2], ids[3]}, childIDs(t, s, parent))
	assert.Equal(t, []int{1, 2, 3}, childOrders(t, s, parent))
	assert.Equal(t, 4, s.Append(parent).Order)
}

func TestParseIDs(t *testing.T) {
	id := uuid.New()
	got, err := ParseIDs([]string{id.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, got)

	_, err = ParseIDs([]string{id.String(), "nope"})
	assert.Equal(t, ReasonInvalidBody, ReasonOf(err))
}

func equalIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
