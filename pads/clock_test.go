package pads

import (
	"sort"
	"sync"
	"time"
)

// manualClock is a Scheduler driven by Advance
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer

	// brokenStop makes Stop report success without cancelling, like a timer
	// that already fired and is waiting on the lock
	brokenStop bool
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	if t.clock.brokenStop {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due callbacks in order, outside the clock lock
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// Pending counts timers that have neither fired nor been stopped
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// fakeSink records calls from a unit
type fakeSink struct {
	plays   int
	stops   int
	volume  float64
	playing bool
}

func (s *fakeSink) Play() {
	s.plays++
	s.playing = true
}

func (s *fakeSink) Stop() {
	s.stops++
	s.playing = false
}

func (s *fakeSink) SetVolume(v float64) { s.volume = v }

func (s *fakeSink) Playing() bool { return s.playing }

// newTestMachine builds a heater-kit machine on a manual clock with a fake sink per pad
func newTestMachine(t interface{ Fatalf(string, ...any) }) (*Machine, *manualClock, map[Key]*fakeSink) {
	reg, err := GetKit(DefaultKit).Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	clock := &manualClock{}
	m := NewMachine(Options{
		Registry:  reg,
		Volume:    0.5,
		Scheduler: clock,
	})
	sinks := make(map[Key]*fakeSink)
	for _, e := range reg.Entries() {
		s := &fakeSink{}
		sinks[e.Key] = s
		if err := m.Attach(e.Key, s); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}
	return m, clock, sinks
}
