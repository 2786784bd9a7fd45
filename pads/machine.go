package pads

import (
	"sync"
	"time"

	"go-drummer/debug"
)

// DefaultStatus is shown when no pad is lit
const DefaultStatus = "Closed HH"

// Source identifies where a trigger came from
type Source int

const (
	SourceKeyboard Source = iota
	SourcePointer
	SourceMIDI
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePointer:
		return "pointer"
	case SourceMIDI:
		return "midi"
	case SourceRemote:
		return "remote"
	}
	return "unknown"
}

// Options configures a Machine
type Options struct {
	Registry  *Registry
	Volume    float64       // initial volume, 0-1
	Expiry    time.Duration // how long pads stay lit (default 100ms)
	Scheduler Scheduler     // defaults to the wall clock
}

// Machine is the drum machine: the controller, panel and display behind one lock.
// Inputs from any goroutine are applied one at a time in arrival order.
type Machine struct {
	mu         sync.Mutex
	registry   *Registry
	panel      *Panel
	display    *Display
	controller *Controller

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

func NewMachine(opts Options) *Machine {
	m := &Machine{
		registry: opts.Registry,
		subs:     make(map[chan struct{}]struct{}),
	}
	m.panel = NewPanel(opts.Volume)
	m.display = NewDisplay(&m.mu, opts.Scheduler, opts.Expiry, m.notify)
	m.controller = NewController(opts.Registry, m.panel, m.display)
	return m
}

// Registry returns the sound registry
func (m *Machine) Registry() *Registry {
	return m.registry
}

// Trigger presses a pad. Returns false when raw is not a drum key.
func (m *Machine) Trigger(src Source, raw string) bool {
	m.mu.Lock()
	key, ok := m.controller.OnTrigger(raw)
	m.mu.Unlock()

	if ok {
		debug.Log("input", "%s -> %s", src, key)
		m.notify()
	}
	return ok
}

// TriggerIndex presses the pad at a grid index (0-8)
func (m *Machine) TriggerIndex(src Source, i int) bool {
	e := m.registry.At(i)
	if e == nil {
		return false
	}
	return m.Trigger(src, e.Key.String())
}

// TogglePower flips power and returns the new state
func (m *Machine) TogglePower() bool {
	m.mu.Lock()
	on := m.panel.TogglePower()
	m.mu.Unlock()
	m.notify()
	return on
}

// ToggleBank flips the bank indicator and returns the new state
func (m *Machine) ToggleBank() bool {
	m.mu.Lock()
	on := m.panel.ToggleBank()
	m.mu.Unlock()
	m.notify()
	return on
}

// SetVolume sets the global volume (0-1, clamped) on every unit
func (m *Machine) SetVolume(v float64) float64 {
	m.mu.Lock()
	v = m.panel.SetVolume(v)
	m.mu.Unlock()
	m.notify()
	return v
}

// SetVolumePercent sets the global volume from a 0-100 slider value
func (m *Machine) SetVolumePercent(n int) float64 {
	m.mu.Lock()
	v := m.panel.SetVolumePercent(n)
	m.mu.Unlock()
	m.notify()
	return v
}

// NudgeVolume moves the slider by delta percent
func (m *Machine) NudgeVolume(delta int) float64 {
	m.mu.Lock()
	v := m.panel.SetVolumePercent(m.panel.State().VolumePercent() + delta)
	m.mu.Unlock()
	m.notify()
	return v
}

// Attach binds a loaded sink to a pad
func (m *Machine) Attach(k Key, s Sink) error {
	m.mu.Lock()
	err := m.controller.Attach(k, s)
	m.mu.Unlock()
	if err == nil {
		m.notify()
	}
	return err
}

// Stats returns trigger counters plus display expiries
func (m *Machine) Stats() (Stats, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controller.Stats(), m.display.Expiries()
}

// Close cancels the pending expiry timer
func (m *Machine) Close() {
	m.mu.Lock()
	m.display.Cancel()
	m.mu.Unlock()
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce; read Snapshot for the current state.
func (m *Machine) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.subsMu.Lock()
	m.subs[ch] = struct{}{}
	m.subsMu.Unlock()
	return ch
}

// Unsubscribe stops notifications on ch
func (m *Machine) Unsubscribe(ch <-chan struct{}) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for c := range m.subs {
		if c == ch {
			delete(m.subs, c)
			return
		}
	}
}

func (m *Machine) notify() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for c := range m.subs {
		select {
		case c <- struct{}{}:
		default:
		}
	}
}
