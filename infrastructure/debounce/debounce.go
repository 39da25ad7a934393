// Package debounce delays propagation of a rapidly changing value until the
// input has been quiet for a fixed interval.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer holds an input value and a debounced output value. The output
// follows the input once no newer input has arrived for the configured delay.
type Debouncer[T comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	input   T
	output  T
	gen     uint64
	timer   *time.Timer
	pending bool
	idle    chan struct{} // closed whenever nothing is pending
	stopped bool
}

// New returns a debouncer whose output starts at initial.
func New[T comparable](initial T, delay time.Duration) *Debouncer[T] {
	idle := make(chan struct{})
	close(idle)
	return &Debouncer[T]{delay: delay, input: initial, output: initial, idle: idle}
}

// Set records a new input. Any pending propagation is cancelled and the
// timer restarts. Setting the current input again is a no-op.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || v == d.input {
		return
	}
	d.input = v
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.pending {
		d.pending = true
		d.idle = make(chan struct{})
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// A timer that already fired may be blocked on mu while Set restarts it;
// the generation check drops that callback.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || gen != d.gen {
		return
	}
	d.output = d.input
	d.settle()
}

func (d *Debouncer[T]) settle() {
	d.timer = nil
	if d.pending {
		d.pending = false
		close(d.idle)
	}
}

// Reset cancels pending propagation and sets input and output to v at once.
func (d *Debouncer[T]) Reset(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.input, d.output = v, v
	d.settle()
}

// Value returns the debounced output.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}

// Input returns the latest input, propagated or not.
func (d *Debouncer[T]) Input() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}

// Pending reports whether an input is waiting to propagate.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Wait blocks until nothing is pending and returns the debounced value.
func (d *Debouncer[T]) Wait(ctx context.Context) (T, error) {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()

	select {
	case <-idle:
		return d.Value(), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Stop clears the timer. Pending input is dropped and waiters are released.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.input = d.output
	d.settle()
	d.stopped = true
}
