package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fridaygt/fridaygt/common/cache"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/metrics"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
)

// RosterCache is the cache-aside layer for race rosters, shared by every
// service that changes a roster or removes a race.
//
// Each race has a generation that Invalidate bumps before deleting the key.
// A fill carries the generation seen before its database read and is
// discarded when the generation moved, so a slow reader cannot put back an
// order that a concurrent write already replaced.
type RosterCache struct {
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger

	mu   sync.Mutex
	gens map[uuid.UUID]uint64
}

// NewRosterCache wraps c. A nil c disables caching.
func NewRosterCache(c cache.Cache, ttl time.Duration, log *logger.Logger) *RosterCache {
	return &RosterCache{
		cache: c,
		ttl:   ttl,
		log:   log,
		gens:  make(map[uuid.UUID]uint64),
	}
}

func rosterKey(raceID uuid.UUID) string {
	return "roster:members:" + raceID.String()
}

// Generation returns the current generation of a race roster
func (r *RosterCache) Generation(raceID uuid.UUID) uint64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[raceID]
}

// Get returns the cached roster, if any
func (r *RosterCache) Get(ctx context.Context, raceID uuid.UUID) ([]models.Member, bool) {
	if r == nil || r.cache == nil {
		return nil, false
	}

	data, ok, err := r.cache.Get(ctx, rosterKey(raceID))
	if err != nil {
		r.log.Warn("roster cache read failed", "race_id", raceID, "error", err)
	}
	metrics.CacheLookup(ok)
	if !ok {
		return nil, false
	}

	var members []models.Member
	if err := json.Unmarshal(data, &members); err != nil {
		r.log.Warn("roster cache entry corrupt", "race_id", raceID, "error", err)
		return nil, false
	}
	return members, true
}

// Fill stores members read at generation gen
func (r *RosterCache) Fill(ctx context.Context, raceID uuid.UUID, gen uint64, members []models.Member) {
	if r == nil || r.cache == nil {
		return
	}
	if r.Generation(raceID) != gen {
		return
	}

	data, err := json.Marshal(members)
	if err != nil {
		return
	}
	key := rosterKey(raceID)
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.log.Warn("roster cache write failed", "race_id", raceID, "error", err)
		return
	}

	// an invalidation may have landed between the check and the write
	if r.Generation(raceID) != gen {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.log.Warn("roster cache invalidation failed", "race_id", raceID, "error", err)
		}
	}
}

// Invalidate drops the cached roster of a race
func (r *RosterCache) Invalidate(ctx context.Context, raceID uuid.UUID) {
	if r == nil || r.cache == nil {
		return
	}

	r.mu.Lock()
	r.gens[raceID]++
	r.mu.Unlock()

	if err := r.cache.Delete(ctx, rosterKey(raceID)); err != nil {
		r.log.Warn("roster cache invalidation failed", "race_id", raceID, "error", err)
	}
}
