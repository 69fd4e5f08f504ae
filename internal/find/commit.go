package find

import (
	"sync"
	"time"
)

// DefaultCommitDelay is the quiet period before a typed search term is
// committed to history.
const DefaultCommitDelay = 300 * time.Millisecond

// CommitScheduler defers the history commit of a search term. Schedule
// supersedes any pending commit; the superseded one never fires.
type CommitScheduler interface {
	Schedule(fn func())
	Cancel()
}

// DelayedScheduler is a single-slot timer: scheduling stops and replaces
// the pending timer, so a burst of edits collapses into one commit of the
// final value.
type DelayedScheduler struct {
	delay time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func NewDelayedScheduler(delay time.Duration) *DelayedScheduler {
	if delay <= 0 {
		delay = DefaultCommitDelay
	}
	return &DelayedScheduler{delay: delay}
}

func (s *DelayedScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

func (s *DelayedScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// ImmediateScheduler runs commits synchronously. Meant for tests and
// programmatic state updates where debouncing only adds latency.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(fn func()) { fn() }
func (ImmediateScheduler) Cancel()            {}
