// Package control connects MIDI controllers to a drum machine: pad, button
// and note input in, LED feedback out.
package control

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-drummer/debug"
	"go-drummer/midi"
	"go-drummer/pads"
	"go-drummer/theme"
)

// LED refresh rate
const ledFPS = 30

type attached struct {
	ctrl     midi.Controller
	prevLEDs map[[2]int]LEDState // for diffing
}

// Manager routes controller input to the machine and renders LEDs back
type Manager struct {
	machine *pads.Machine
	theme   *theme.Theme

	mu          sync.Mutex
	controllers map[string]*attached
	ledDirty    bool // true if LEDs need refresh

	// Notify TUI of device changes
	UpdateChan chan struct{}
}

// NewManager creates a manager rendering LEDs with th (nil for the default)
func NewManager(machine *pads.Machine, th *theme.Theme) *Manager {
	if th == nil {
		th = theme.New(nil)
	}
	return &Manager{
		machine:     machine,
		theme:       th,
		controllers: make(map[string]*attached),
		UpdateChan:  make(chan struct{}, 1),
	}
}

// Run marks LEDs dirty on machine changes and flushes at a fixed FPS
// (blocking - run in goroutine)
func (m *Manager) Run(ctx context.Context) {
	sub := m.machine.Subscribe()
	defer m.machine.Unsubscribe(sub)

	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub:
			m.markLEDsDirty()
		case <-ticker.C:
			m.mu.Lock()
			dirty := m.ledDirty
			m.ledDirty = false
			m.mu.Unlock()

			if dirty {
				m.Flush()
			}
		}
	}
}

// Watch follows device manager events until the channel closes or ctx ends
func (m *Manager) Watch(ctx context.Context, events <-chan midi.DeviceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case midi.DeviceConnected:
				m.AddController(ev.Controller)
			case midi.DeviceDisconnected:
				m.RemoveController(ev.ID)
			}
		}
	}
}

// AddController starts consuming a controller's input and lights its LEDs
func (m *Manager) AddController(c midi.Controller) {
	if c == nil {
		return
	}
	m.mu.Lock()
	m.controllers[c.ID()] = &attached{ctrl: c, prevLEDs: make(map[[2]int]LEDState)}
	m.ledDirty = true
	m.mu.Unlock()
	debug.Log("ctrl", "added %s (%s)", c.ID(), c.Type())

	// Actions closes when the controller does
	go func() {
		for a := range c.Actions() {
			m.Apply(a)
		}
	}()

	m.notifyUpdate()
}

// RemoveController forgets a controller; the device manager closes it
func (m *Manager) RemoveController(id string) {
	m.mu.Lock()
	_, ok := m.controllers[id]
	delete(m.controllers, id)
	m.mu.Unlock()
	if ok {
		debug.Log("ctrl", "removed %s", id)
		m.notifyUpdate()
	}
}

// Connected returns the IDs of attached controllers, sorted
func (m *Manager) Connected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.controllers))
	for id := range m.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply runs one decoded press against the machine. It reports false for
// presses that changed nothing, such as a pad outside the registry.
func (m *Manager) Apply(a midi.Action) bool {
	switch a.Type {
	case midi.ActionPad:
		return m.machine.TriggerIndex(pads.SourceMIDI, a.Pad)
	case midi.ActionPower:
		m.machine.TogglePower()
	case midi.ActionBank:
		m.machine.ToggleBank()
	case midi.ActionVolume:
		m.machine.SetVolumePercent(a.Value)
	default:
		return false
	}
	return true
}

// markLEDsDirty flags that LEDs need refresh
func (m *Manager) markLEDsDirty() {
	m.mu.Lock()
	m.ledDirty = true
	m.mu.Unlock()
}

// Flush sends only changed LEDs to each controller (diffing + batching)
func (m *Manager) Flush() {
	newLEDs := RenderLEDs(m.machine.Snapshot(), m.theme)
	newMap := make(map[[2]int]LEDState, len(newLEDs))
	for _, led := range newLEDs {
		newMap[[2]int{led.Row, led.Col}] = led
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, a := range m.controllers {
		var updates []midi.LEDUpdate

		for key, led := range newMap {
			// Only send if changed
			if prev, ok := a.prevLEDs[key]; !ok || prev != led {
				updates = append(updates, midi.LEDUpdate{
					Row:     led.Row,
					Col:     led.Col,
					Color:   led.Color,
					Channel: led.Channel,
				})
			}
		}

		// Clear LEDs that are no longer present
		for key := range a.prevLEDs {
			if _, ok := newMap[key]; !ok {
				updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
			}
		}

		if len(updates) > 0 {
			debug.Log("led", "flush %s: batch=%d prev=%d", id, len(updates), len(a.prevLEDs))
			if err := a.ctrl.SetLEDBatch(updates); err != nil {
				debug.Log("led", "flush %s: %v", id, err)
			}
		}
		a.prevLEDs = newMap
	}
}

func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
