// Package pollertest provides a manually driven clock for poller tests.
package pollertest

import (
	"sync"
	"time"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/poller"
)

type Timer struct {
	Delay time.Duration

	clock   *Clock
	f       func()
	stopped bool
	fired   bool
}

func (t *Timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Clock records scheduled callbacks; nothing fires until the test says so.
type Clock struct {
	mu     sync.Mutex
	timers []*Timer
}

var _ poller.Clock = (*Clock)(nil)

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) AfterFunc(d time.Duration, f func()) poller.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &Timer{Delay: d, clock: c, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the timers that were neither stopped nor fired.
func (c *Clock) Pending() []*Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*Timer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// Scheduled is the number of AfterFunc calls so far.
func (c *Clock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// FireNext runs the oldest pending callback on the calling goroutine and
// reports whether there was one.
func (c *Clock) FireNext() bool {
	c.mu.Lock()
	var next *Timer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			next = t
			break
		}
	}
	if next == nil {
		c.mu.Unlock()
		return false
	}
	next.fired = true
	c.mu.Unlock()

	next.f()
	return true
}

// FireStopped invokes a stopped callback anyway, as a real timer that lost the
// race against Stop would.
func (c *Clock) FireStopped() bool {
	c.mu.Lock()
	var next *Timer
	for _, t := range c.timers {
		if t.stopped && !t.fired {
			next = t
			break
		}
	}
	if next == nil {
		c.mu.Unlock()
		return false
	}
	next.fired = true
	c.mu.Unlock()

	next.f()
	return true
}
