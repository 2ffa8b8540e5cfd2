// Package listctl drives a drag-and-drop list optimistically: drops mutate the
// local list at once, saves are debounced and serialized, and a failed save puts
// the list back the way it was before the first unsaved drop.
package listctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/google/uuid"
)

// State of a controller
type State int

const (
	Idle State = iota
	DraggingLocally
	PendingSave
	RollingBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingLocally:
		return "dragging"
	case PendingSave:
		return "pending_save"
	case RollingBack:
		return "rolling_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrOutOfRange = errors.New("listctl: position out of range")
	ErrClosed     = errors.New("listctl: controller closed")
)

// Saver persists a full order and returns the server's canonical order
type Saver interface {
	Save(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// SaverFunc adapts a function to Saver
type SaverFunc func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

func (f SaverFunc) Save(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return f(ctx, ids)
}

// Options tune a controller
type Options struct {
	Debounce    time.Duration
	SaveTimeout time.Duration
	Logger      *logger.Logger
	// OnChange is called outside the controller lock after every visible change.
	OnChange func(ids []uuid.UUID, state State)
}

const (
	DefaultDebounce    = 400 * time.Millisecond
	DefaultSaveTimeout = 10 * time.Second
)

type change struct {
	ids   []uuid.UUID
	state State
}

// Controller owns one list. It is safe for concurrent use.
type Controller struct {
	saver Saver
	opts  Options
	log   *logger.Logger

	mu       sync.Mutex
	list     []uuid.UUID
	snapshot []uuid.UUID // last known-good list, nil when nothing is unsaved
	state    State
	prior    State // state to return to when a drag ends where it started
	dirty    bool  // local changes not yet sent
	inFlight bool
	timer    *time.Timer
	gen      uint64
	waiters  []chan error
	closed   bool
	changes  []change
	saves    sync.WaitGroup
}

// New creates a controller over the initial list
func New(initial []uuid.UUID, saver Saver, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		saver: saver,
		opts:  opts,
		log:   log,
		list:  clone(initial),
	}
}

// List returns a copy of the current (possibly optimistic) list
func (c *Controller) List() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.list)
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BeginDrag enters DraggingLocally. It reports false while a rollback is running.
func (c *Controller) BeginDrag() bool {
	c.mu.Lock()
	defer c.unlockAndNotify()

	if c.closed || c.state == RollingBack {
		return false
	}
	if c.state != DraggingLocally {
		c.prior = c.state
		c.setStateLocked(DraggingLocally)
	}
	return true
}

// Drop moves the item at from to position to. Dropping on the starting position
// ends the drag without scheduling a save.
func (c *Controller) Drop(from, to int) error {
	c.mu.Lock()
	defer c.unlockAndNotify()

	if c.closed {
		return ErrClosed
	}
	if from < 0 || from >= len(c.list) || to < 0 || to >= len(c.list) {
		return fmt.Errorf("%w: move %d to %d in list of %d", ErrOutOfRange, from, to, len(c.list))
	}
	if c.state != DraggingLocally {
		c.prior = c.state
	}

	if from == to {
		c.setStateLocked(c.prior)
		return nil
	}

	if c.snapshot == nil {
		c.snapshot = clone(c.list)
	}
	c.list = move(c.list, from, to)
	c.dirty = true
	c.setStateLocked(PendingSave)
	c.armLocked()
	return nil
}

// Replace installs a freshly fetched list. It only applies while Idle and
// reports whether it did.
func (c *Controller) Replace(ids []uuid.UUID) bool {
	c.mu.Lock()
	defer c.unlockAndNotify()

	if c.closed || c.state != Idle || c.inFlight {
		return false
	}
	c.list = clone(ids)
	c.emitLocked()
	return true
}

// ApplyRemote applies a JSON merge patch of the id→order map published by the
// server. Ids patched to null are removed, new ids are added. It only applies
// while Idle.
func (c *Controller) ApplyRemote(patch []byte) (bool, error) {
	c.mu.Lock()
	defer c.unlockAndNotify()

	if c.closed || c.state != Idle || c.inFlight {
		return false, nil
	}

	current := make(map[string]int, len(c.list))
	for i, id := range c.list {
		current[id.String()] = i + 1
	}
	doc, err := json.Marshal(current)
	if err != nil {
		return false, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return false, fmt.Errorf("apply remote patch: %w", err)
	}

	var next map[string]int
	if err := json.Unmarshal(merged, &next); err != nil {
		return false, fmt.Errorf("decode patched order: %w", err)
	}
	list, err := fromOrderMap(next)
	if err != nil {
		return false, err
	}

	c.list = list
	c.emitLocked()
	return true, nil
}

// Flush sends pending changes without waiting for the debounce and blocks until
// the controller is back to Idle. It returns the error of a save that rolled back.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.inFlight && !c.dirty {
		c.mu.Unlock()
		return nil
	}

	done := make(chan error, 1)
	c.waiters = append(c.waiters, done)
	c.disarmLocked()
	if !c.inFlight {
		c.dispatchLocked()
	}
	c.unlockAndNotify()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the debounce timer and waits for an in-flight save to finish.
// Unsent changes are dropped and pending Flush calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.disarmLocked()
	if !c.inFlight && c.dirty {
		c.discardLocked()
	}
	c.unlockAndNotify()

	c.saves.Wait()
}

func (c *Controller) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.opts.Debounce, func() { c.fire(gen) })
}

func (c *Controller) disarmLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	defer c.unlockAndNotify()

	if gen != c.gen || c.closed {
		return
	}
	c.timer = nil
	// the in-flight save picks up dirty changes when it completes
	if c.inFlight || !c.dirty {
		return
	}
	c.dispatchLocked()
}

func (c *Controller) dispatchLocked() {
	ids := clone(c.list)
	c.dirty = false
	c.inFlight = true
	c.saves.Add(1)
	go c.save(ids)
}

func (c *Controller) save(ids []uuid.UUID) {
	defer c.saves.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.SaveTimeout)
	canonical, err := c.saver.Save(ctx, ids)
	cancel()

	c.mu.Lock()
	defer c.unlockAndNotify()
	c.inFlight = false

	if err != nil {
		c.rollbackLocked(err)
		return
	}

	if c.dirty {
		// newer drops are queued; the server state becomes the new known-good list
		c.snapshot = clone(canonical)
		if c.closed {
			c.discardLocked()
			return
		}
		if c.timer == nil {
			c.dispatchLocked()
		}
		return
	}

	c.list = clone(canonical)
	c.snapshot = nil
	if c.state != DraggingLocally {
		c.setStateLocked(Idle)
	} else {
		c.prior = Idle
		c.emitLocked()
	}
	c.resolveLocked(nil)
}

func (c *Controller) rollbackLocked(err error) {
	c.setStateLocked(RollingBack)
	c.disarmLocked()
	if c.snapshot != nil {
		c.list = c.snapshot
	}
	c.snapshot = nil
	c.dirty = false
	c.prior = Idle
	c.setStateLocked(Idle)

	c.log.Warn("list save failed, restored previous order", "error", err, "items", len(c.list))
	c.resolveLocked(err)
}

// discardLocked drops unsent drops after Close and releases Flush waiters
func (c *Controller) discardLocked() {
	if c.snapshot != nil {
		c.list = c.snapshot
	}
	c.snapshot = nil
	c.dirty = false
	c.prior = Idle
	c.setStateLocked(Idle)
	c.resolveLocked(ErrClosed)
}

func (c *Controller) resolveLocked(err error) {
	for _, w := range c.waiters {
		w <- err
	}
	c.waiters = nil
}

func (c *Controller) setStateLocked(s State) {
	c.state = s
	c.emitLocked()
}

func (c *Controller) emitLocked() {
	if c.opts.OnChange != nil {
		c.changes = append(c.changes, change{ids: clone(c.list), state: c.state})
	}
}

func (c *Controller) unlockAndNotify() {
	changes := c.changes
	c.changes = nil
	c.mu.Unlock()

	for _, ch := range changes {
		c.opts.OnChange(ch.ids, ch.state)
	}
}

func move(list []uuid.UUID, from, to int) []uuid.UUID {
	out := clone(list)
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]uuid.UUID{item}, out[to:]...)...)
	return out
}

func fromOrderMap(m map[string]int) ([]uuid.UUID, error) {
	type entry struct {
		id    uuid.UUID
		order int
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("patched order has malformed id %q", k)
		}
		entries = append(entries, entry{id: id, order: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].id.String() < entries[j].id.String()
	})
	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out, nil
}

func clone(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}
