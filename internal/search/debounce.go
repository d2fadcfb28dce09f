package search

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of triggers, once no trigger has
// arrived for the configured delay. Each trigger cancels the pending one.
// A fired function keeps running when a newer trigger arrives; it is handed a
// check that reports whether it is still the latest, so stale results can be
// dropped.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// NewDebouncer creates a Debouncer with the given quiet interval.
func NewDebouncer(delay time.Duration) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{delay: delay, ctx: ctx, cancel: cancel}
}

// Delay returns the quiet interval.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger schedules fn after the quiet interval, replacing any pending call.
// fn's context is cancelled by Stop. Trigger after Stop is ignored.
func (d *Debouncer) Trigger(fn func(ctx context.Context, current func() bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, fn) })
}

func (d *Debouncer) fire(gen uint64, fn func(ctx context.Context, current func() bool)) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.running.Add(1)
	ctx := d.ctx
	d.mu.Unlock()
	defer d.running.Done()

	fn(ctx, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return !d.stopped && gen == d.gen
	})
}

// Cancel drops the pending call and marks any running call stale.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Stop cancels everything, refuses further triggers and waits for running
// calls to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		d.gen++
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.cancel()
	}
	d.mu.Unlock()
	d.running.Wait()
}
