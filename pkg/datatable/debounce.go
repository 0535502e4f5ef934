package datatable

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no new trigger has
// arrived for the configured delay.
//
// Every Trigger stops the pending timer. A generation counter guards against a
// timer that already fired but has not yet acquired the lock, so a stale
// function never runs after a newer one was scheduled.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	gen    uint64
	closed bool
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn, replacing any pending function. With a non-positive
// delay fn runs synchronously.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	gen := d.gen

	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the pending function, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Close cancels the pending function and makes later triggers no-ops.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.closed = true
}
