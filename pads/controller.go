package pads

import (
	"errors"
	"fmt"

	"go-drummer/debug"
)

var ErrUnknownKey = errors.New("unknown pad key")

// Stats counts trigger activity
type Stats struct {
	Triggers   int // resolved triggers (flashes)
	Suppressed int // triggers that flashed but did not play because power was off
}

// Controller resolves triggers to units and drives the active display.
// Not safe for concurrent use; Machine serializes access.
type Controller struct {
	registry *Registry
	units    map[Key]*Unit
	panel    *Panel
	display  *Display
	stats    Stats
}

// NewController creates one unit per registry entry and registers it with the panel
func NewController(registry *Registry, panel *Panel, display *Display) *Controller {
	c := &Controller{
		registry: registry,
		units:    make(map[Key]*Unit, PadCount),
		panel:    panel,
		display:  display,
	}
	for _, e := range registry.Entries() {
		u := newUnit(e, panel.State().Volume)
		c.units[e.Key] = u
		panel.Register(u)
	}
	return c
}

// OnTrigger handles a pad press. Non-drum input is ignored and returns false.
func (c *Controller) OnTrigger(raw string) (Key, bool) {
	key, ok := Normalize(raw)
	if !ok {
		return 0, false
	}
	entry := c.registry.Lookup(key)
	if entry == nil {
		return 0, false
	}

	c.stats.Triggers++
	if c.panel.State().Powered {
		c.units[key].Play()
	} else {
		c.stats.Suppressed++
	}
	c.display.Activate(key)

	debug.Log("trigger", "%s %q powered=%v", key, entry.Label, c.panel.State().Powered)
	return key, true
}

// Unit returns the playback unit for a key, or nil
func (c *Controller) Unit(k Key) *Unit {
	return c.units[k]
}

// Attach binds a loaded sink to the pad for k
func (c *Controller) Attach(k Key, s Sink) error {
	u, ok := c.units[k]
	if !ok {
		return fmt.Errorf("attach %s: %w", k, ErrUnknownKey)
	}
	u.Attach(s)
	return nil
}

// Stats returns trigger counters
func (c *Controller) Stats() Stats {
	return c.stats
}

// Status is the line shown under the controls
func (c *Controller) Status() string {
	if k, ok := c.display.Active(); ok {
		return "Updated: " + c.registry.Lookup(k).Label
	}
	return DefaultStatus
}
