package catalog

import (
	"sync"
	"time"
)

// DefaultQuietWindow is the quiet window the storefront uses between a
// keystroke and the navigation it triggers.
const DefaultQuietWindow = 500 * time.Millisecond

// Debouncer coalesces a burst of criteria-change events so that only the
// last event within a quiet window runs. Each Trigger resets the window and
// replaces any pending task, so a re-query fires at most once per burst.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
}

// NewDebouncer returns a debouncer with the given quiet window;
// a non-positive window falls back to DefaultQuietWindow.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultQuietWindow
	}
	return &Debouncer{window: window}
}

// Trigger schedules fn to run after the quiet window, cancelling any task
// scheduled by an earlier Trigger that has not fired yet.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.pending = fn
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush runs the pending task immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels the pending task without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
