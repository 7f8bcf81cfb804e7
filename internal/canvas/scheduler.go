package canvas

import (
	"context"
	"sync"
	"time"
)

// DefaultSaveDelay matches the debounce the web canvas used for persisting
// edit bursts.
const DefaultSaveDelay = 800 * time.Millisecond

// Saver is the external graph persistence collaborator: a wholesale,
// last-write-wins replace of the stored snapshot.
type Saver interface {
	SaveGraph(ctx context.Context, workspaceID string, g Graph) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, workspaceID string, g Graph) error

func (f SaverFunc) SaveGraph(ctx context.Context, workspaceID string, g Graph) error {
	return f(ctx, workspaceID, g)
}

// Scheduler coalesces bursts of graph mutation into infrequent persistence
// writes. Every Schedule supersedes (cancels) a pending one rather than
// queuing, so at most one write per workspace is ever in flight.
type Scheduler struct {
	workspaceID string
	store       *Store
	saver       Saver
	delay       time.Duration
	onError     func(error)

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	closed bool

	// saveMu serializes the actual writes.
	saveMu sync.Mutex
}

// NewScheduler creates a scheduler for one workspace. onError receives
// persistence failures; it may be nil. Failures are never fatal: the next
// mutation burst re-snapshots current state and retries naturally.
func NewScheduler(workspaceID string, store *Store, saver Saver, delay time.Duration, onError func(error)) *Scheduler {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Scheduler{
		workspaceID: workspaceID,
		store:       store,
		saver:       saver,
		delay:       delay,
		onError:     onError,
	}
}

// Schedule (re)starts the debounce window. Safe to call from any goroutine.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.run)
}

func (s *Scheduler) run() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.mu.Unlock()
	s.save()
}

func (s *Scheduler) save() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	snap := s.store.Snapshot()
	if err := s.saver.SaveGraph(context.Background(), s.workspaceID, snap); err != nil {
		s.mu.Lock()
		s.dirty = true // retried on the next burst
		s.mu.Unlock()
		if s.onError != nil {
			s.onError(NewPersistenceError(err))
		}
	}
}

// Flush force-runs a pending save now. A clean scheduler is a no-op.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	pending := s.dirty
	s.dirty = false
	s.mu.Unlock()
	if pending {
		s.save()
	}
}

// Close flushes any pending save and stops the scheduler permanently.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.Flush()
}
