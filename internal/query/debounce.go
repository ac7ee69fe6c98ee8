package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the lag between the last keystroke and the effective search term.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer delivers only the last value pushed within a quiet window.
// Each Push restarts the timer. Deliveries never overlap, so a slow apply of an
// older value cannot land after a newer one.
type Debouncer struct {
	mu      sync.Mutex
	applyMu sync.Mutex
	delay   time.Duration
	apply   func(string)
	timer   *time.Timer
	seq     uint64
}

func NewDebouncer(delay time.Duration, apply func(string)) *Debouncer {
	return &Debouncer{delay: delay, apply: apply}
}

func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.applyMu.Lock()
		defer d.applyMu.Unlock()

		d.mu.Lock()
		// a newer Push or Stop happened while this timer was already firing
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.apply(value)
	})
}

// Stop drops any pending value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
