package midi

import "sync"

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// LEDUpdate sets one pad light
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8 // RGB - controller maps to its palette
	Channel  uint8
}

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Decoded presses; closed by Close
	Actions() <-chan Action

	// Output to the controller
	SetLEDBatch(updates []LEDUpdate) error

	// Lifecycle
	Close() error
}

// Channel modes for LEDs (use as 'channel' parameter)
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)

// actionQueue buffers decoded input for one controller. Driver callbacks can
// still be running while Close runs, so pushes after close are dropped
// instead of sending on a closed channel.
type actionQueue struct {
	mu     sync.Mutex
	closed bool
	ch     chan Action
}

func newActionQueue(size int) *actionQueue {
	return &actionQueue{ch: make(chan Action, size)}
}

// push never blocks; it reports whether a was queued
func (q *actionQueue) push(a Action) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- a:
		return true
	default:
		return false
	}
}

func (q *actionQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
