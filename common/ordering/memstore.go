package ordering

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FailHook is called for every row ApplyOrder is about to write. A non-nil
// error aborts the whole write.
type FailHook func(id uuid.UUID, order int) error

// MemStore is an in-memory Store. It serializes writes per parent the way row
// locks do and publishes a write only after every row succeeded.
type MemStore struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]Item
	parents map[uuid.UUID]*sync.Mutex

	hook FailHook
	now  func() time.Time
}

// NewMemStore creates an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		items:   make(map[uuid.UUID]Item),
		parents: make(map[uuid.UUID]*sync.Mutex),
		now:     time.Now,
	}
}

// SetFailHook installs a hook that can abort writes (tests, fault injection)
func (s *MemStore) SetFailHook(h FailHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = h
}

// SetClock overrides the time source used for updated_at
func (s *MemStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Append adds a new item at the end of parentID and returns it
func (s *MemStore) Append(parentID uuid.UUID) Item {
	lock := s.parentLock(parentID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	for _, it := range s.items {
		if it.ParentID == parentID && it.Order > last {
			last = it.Order
		}
	}
	it := Item{ID: uuid.New(), ParentID: parentID, Order: last + 1, UpdatedAt: s.now()}
	s.items[it.ID] = it
	return it
}

// Put stores it verbatim. Used to seed collections with gaps or collisions.
func (s *MemStore) Put(it Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
}

// Remove deletes id and closes the gap it leaves in its parent
func (s *MemStore) Remove(id uuid.UUID) bool {
	s.mu.RLock()
	it, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	lock := s.parentLock(it.ParentID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for _, rest := range s.childrenLocked(it.ParentID) {
		if rest.Order > it.Order {
			rest.Order--
			s.items[rest.ID] = rest
		}
	}
	return true
}

func (s *MemStore) Get(_ context.Context, ids []uuid.UUID) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *MemStore) Children(_ context.Context, parentID uuid.UUID) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.childrenLocked(parentID), nil
}

func (s *MemStore) ApplyOrder(ctx context.Context, parentID uuid.UUID, ids []uuid.UUID, orders []int, actor uuid.UUID) error {
	if len(ids) != len(orders) {
		return TransactionFailed(fmt.Errorf("%d ids but %d orders", len(ids), len(orders)))
	}

	lock := s.parentLock(parentID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	hook, now := s.hook, s.now
	staged := make([]Item, 0, len(ids))
	for _, id := range ids {
		it, ok := s.items[id]
		if !ok || it.ParentID != parentID {
			s.mu.RUnlock()
			return TransactionFailed(fmt.Errorf("row %s missing under parent %s", id, parentID))
		}
		staged = append(staged, it)
	}
	siblings := len(s.childrenLocked(parentID))
	s.mu.RUnlock()

	if siblings != len(ids) {
		return TransactionFailed(fmt.Errorf("parent %s has %d rows, request names %d", parentID, siblings, len(ids)))
	}

	at := now()
	for i := range staged {
		if err := ctx.Err(); err != nil {
			return TransactionFailed(err)
		}
		if hook != nil {
			if err := hook(staged[i].ID, orders[i]); err != nil {
				return TransactionFailed(err)
			}
		}
		staged[i].Order = orders[i]
		staged[i].UpdatedAt = at
		staged[i].UpdatedBy = &actor
	}

	s.mu.Lock()
	for _, it := range staged {
		s.items[it.ID] = it
	}
	s.mu.Unlock()
	return nil
}

func (s *MemStore) parentLock(parentID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.parents[parentID]
	if !ok {
		l = &sync.Mutex{}
		s.parents[parentID] = l
	}
	return l
}

func (s *MemStore) childrenLocked(parentID uuid.UUID) []Item {
	var out []Item
	for _, it := range s.items {
		if it.ParentID == parentID {
			out = append(out, it)
		}
	}
	SortByOrder(out)
	return out
}
