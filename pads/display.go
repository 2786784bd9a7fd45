package pads

import (
	"sync"
	"time"
)

// DefaultExpiry is how long a triggered pad stays lit
const DefaultExpiry = 100 * time.Millisecond

// Timer is a cancellable scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the wall clock
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Display tracks which pad is lit and clears it after the expiry interval.
//
// Activate and Cancel must be called with lock held; the expiry callback
// acquires lock itself. Each activation bumps a generation so a timer that
// fired while being replaced cannot clear a newer activation.
type Display struct {
	lock     sync.Locker
	sched    Scheduler
	ttl      time.Duration
	onChange func()

	active   Key
	timer    Timer
	gen      uint64
	expiries int
}

func NewDisplay(lock sync.Locker, sched Scheduler, ttl time.Duration, onChange func()) *Display {
	if sched == nil {
		sched = RealScheduler{}
	}
	if ttl <= 0 {
		ttl = DefaultExpiry
	}
	return &Display{lock: lock, sched: sched, ttl: ttl, onChange: onChange}
}

// Activate lights k and (re)starts the expiry timer
func (d *Display) Activate(k Key) {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.active = k
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.ttl, func() { d.expire(gen) })
}

func (d *Display) expire(gen uint64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if gen != d.gen {
		return // superseded
	}
	d.active = 0
	d.timer = nil
	d.expiries++
	if d.onChange != nil {
		d.onChange()
	}
}

// Cancel drops the pending timer and clears the active key
func (d *Display) Cancel() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.active = 0
}

// Active returns the lit key, if any
func (d *Display) Active() (Key, bool) {
	return d.active, d.active != 0
}

// Expiries counts timer expiries that actually cleared the display
func (d *Display) Expiries() int {
	return d.expiries
}

// TTL returns the expiry interval
func (d *Display) TTL() time.Duration {
	return d.ttl
}
