package drizzle

import (
	"slices"
	"time"
)

// FrameClock is a virtual clock that schedules one-shot timers and
// per-frame callbacks. Nothing runs on its own: the host calls Advance once
// per display refresh (or tests call it to single-step), which fires due
// timers in deadline order and then runs the frame callbacks that were
// requested before the call.
//
// A FrameClock is not safe for concurrent use; it belongs to the single
// animation context that drives it.
type FrameClock struct {
	now    time.Duration
	seq    uint64
	timers []*Timer
	frames []*Timer
}

// NewFrameClock creates a clock at time zero.
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Now returns the current clock time.
func (c *FrameClock) Now() time.Duration {
	return c.now
}

// Timer is a handle to a scheduled callback. Stopping it is idempotent.
type Timer struct {
	deadline time.Duration
	seq      uint64
	fn       func()
	frame    func(now time.Duration)
	live     bool
}

// Stop cancels the callback. It returns true if the call prevented the
// callback from running, false if it already ran or was stopped.
func (t *Timer) Stop() bool {
	if t == nil || !t.live {
		return false
	}
	t.live = false
	return true
}

// Active reports whether the callback is still pending.
func (t *Timer) Active() bool {
	return t != nil && t.live
}

// AfterFunc schedules fn to run once the clock has advanced by d.
// A non-positive d fires on the next Advance.
func (c *FrameClock) AfterFunc(d time.Duration, fn func()) *Timer {
	c.seq++
	t := &Timer{deadline: c.now + max(d, 0), seq: c.seq, fn: fn, live: true}
	c.timers = append(c.timers, t)
	return t
}

// RequestFrame schedules fn to run on the next Advance, after any timers
// due in that Advance. fn receives the clock time of that frame.
func (c *FrameClock) RequestFrame(fn func(now time.Duration)) *Timer {
	c.seq++
	t := &Timer{deadline: c.now, seq: c.seq, frame: fn, live: true}
	c.frames = append(c.frames, t)
	return t
}

// Pending returns the number of live timers and frame requests.
func (c *FrameClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if t.live {
			n++
		}
	}
	for _, t := range c.frames {
		if t.live {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d. Timers whose deadline falls within
// the window fire in deadline order with Now reporting their deadline.
// Frame callbacks requested before this call then run once at the final
// time; frames requested while advancing wait for the next call.
func (c *FrameClock) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := c.now + d

	frames := c.frames
	c.frames = nil

	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		t.live = false
		if t.deadline > c.now {
			c.now = t.deadline
		}
		t.fn()
	}
	c.now = target

	for _, t := range frames {
		if !t.live {
			continue
		}
		t.live = false
		t.frame(c.now)
	}
}

// nextDue pops the earliest live timer with a deadline at or before
// target, dropping stopped timers along the way.
func (c *FrameClock) nextDue(target time.Duration) *Timer {
	c.timers = slices.DeleteFunc(c.timers, func(t *Timer) bool { return !t.live })
	var best *Timer
	idx := -1
	for i, t := range c.timers {
		if t.deadline > target {
			continue
		}
		if best == nil || t.deadline < best.deadline || (t.deadline == best.deadline && t.seq < best.seq) {
			best, idx = t, i
		}
	}
	if best != nil {
		c.timers = slices.Delete(c.timers, idx, idx+1)
	}
	return best
}

// Reset stops every pending timer and frame request.
func (c *FrameClock) Reset() {
	for _, t := range c.timers {
		t.live = false
	}
	for _, t := range c.frames {
		t.live = false
	}
	c.timers = c.timers[:0]
	c.frames = c.frames[:0]
}
