package pipeline

import (
	"sync"
	"time"

	"github.com/light-bringer/storefront/internal/pkg/clock"
)

// DefaultDebounce is how long the search query must stay unchanged before it
// is applied.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs only the last of a burst of calls, delay after the burst ends.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration

	mu    sync.Mutex
	timer clock.Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer using clk for scheduling.
func NewDebouncer(clk clock.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clk, delay: delay}
}

// Trigger schedules f and cancels whatever was scheduled before.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		// a timer that lost the race with Stop must not run
		if current {
			f()
		}
	})
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
