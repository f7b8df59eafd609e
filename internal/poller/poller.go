// Package poller runs a function on a self-rescheduling chain: every completed
// run schedules exactly one next run after a fixed delay.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrAlreadyRunning = errors.New("poller is already running")

// Func is one poll. Returning false ends the chain until the next Start or
// Trigger.
type Func func(ctx context.Context) (reschedule bool)

type Timer interface {
	Stop() bool
}

// Clock is the delay primitive used to schedule the next run.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Status struct {
	IsRunning bool      `json:"is_running"`
	InFlight  bool      `json:"in_flight"`
	Scheduled bool      `json:"scheduled"`
	Runs      int64     `json:"runs"`
	StartedAt time.Time `json:"started_at,omitempty"`
	LastRunAt time.Time `json:"last_run_at,omitempty"`
}

type Option func(*Task)

func WithClock(c Clock) Option {
	return func(t *Task) {
		t.clock = c
	}
}

// Task owns a single timer handle. Runs of one Task never overlap.
type Task struct {
	interval time.Duration
	fn       Func
	clock    Clock

	mu       sync.Mutex
	running  bool
	ctx      context.Context
	epoch    uint64
	timer    Timer
	timerSeq uint64
	inFlight bool
	rerun    bool

	runs      int64
	startedAt time.Time
	lastRunAt time.Time
}

func New(interval time.Duration, fn Func, opts ...Option) *Task {
	t := &Task{
		interval: interval,
		fn:       fn,
		clock:    realClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start activates the chain and runs the first poll on the calling goroutine.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	t.running = true
	t.ctx = ctx
	t.epoch++
	t.startedAt = time.Now()
	t.mu.Unlock()

	t.Trigger()
	return nil
}

// Stop cancels the pending run. A run already in flight finishes but does not
// schedule another one.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	t.epoch++
	t.rerun = false
	t.cancelTimerLocked()
}

// Trigger cancels the pending run and polls now. If a run is in flight the
// request is folded into one immediate rerun after it completes.
func (t *Task) Trigger() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.cancelTimerLocked()
	if t.inFlight {
		t.rerun = true
		t.mu.Unlock()
		return
	}
	t.inFlight = true
	ctx, epoch := t.ctx, t.epoch
	t.mu.Unlock()

	t.run(ctx, epoch)
}

func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Status{
		IsRunning: t.running,
		InFlight:  t.inFlight,
		Scheduled: t.timer != nil,
		Runs:      t.runs,
		StartedAt: t.startedAt,
		LastRunAt: t.lastRunAt,
	}
}

func (t *Task) cancelTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	// A timer whose callback is already on its way is ignored by fire.
	t.timerSeq++
}

func (t *Task) fire(seq uint64) {
	t.mu.Lock()
	if !t.running || seq != t.timerSeq || t.inFlight {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	if t.ctx.Err() != nil {
		t.stopLocked()
		t.mu.Unlock()
		return
	}
	t.inFlight = true
	ctx, epoch := t.ctx, t.epoch
	t.mu.Unlock()

	t.run(ctx, epoch)
}

func (t *Task) run(ctx context.Context, epoch uint64) {
	for {
		reschedule := t.fn(ctx)

		t.mu.Lock()
		t.runs++
		t.lastRunAt = time.Now()

		if epoch != t.epoch {
			// Stopped while in flight; a restart may have asked for a run.
			if t.running && t.rerun {
				t.rerun = false
				ctx, epoch = t.ctx, t.epoch
				t.mu.Unlock()
				continue
			}
			t.inFlight = false
			t.mu.Unlock()
			return
		}

		if ctx.Err() != nil {
			t.inFlight = false
			t.stopLocked()
			t.mu.Unlock()
			return
		}

		if t.rerun {
			t.rerun = false
			t.mu.Unlock()
			continue
		}

		t.inFlight = false
		if reschedule {
			t.timerSeq++
			seq := t.timerSeq
			t.timer = t.clock.AfterFunc(t.interval, func() { t.fire(seq) })
		}
		t.mu.Unlock()
		return
	}
}

func (t *Task) stopLocked() {
	t.running = false
	t.epoch++
	t.rerun = false
	t.cancelTimerLocked()
}
