package event

import (
	"sync"
	"time"
)

// DelayedTask is a single-shot delayed task with cancel-and-reschedule
// semantics: scheduling while a previous run is pending cancels the
// pending run first, so only the most recent schedule ever fires.
type DelayedTask struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arranges fn to run after delay, replacing any pending run.
func (t *DelayedTask) Schedule(delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(delay, fn)
}

// Cancel stops a pending run, if any.
func (t *DelayedTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
