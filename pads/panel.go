package pads

import "go-drummer/debug"

// DefaultVolume is the initial slider position (0-100)
const DefaultVolume = 50

// ControlState is the global power/bank/volume state
type ControlState struct {
	Powered      bool
	BankSelected bool
	Volume       float64 // 0-1
}

// Panel holds the global controls and pushes them into every unit
type Panel struct {
	state ControlState
	units []*Unit
}

// NewPanel starts powered on with the given volume (0-1)
func NewPanel(volume float64) *Panel {
	return &Panel{
		state: ControlState{
			Powered: true,
			Volume:  clampVolume(volume),
		},
	}
}

// Register adds a unit and gives it the current volume
func (p *Panel) Register(u *Unit) {
	u.SetVolume(p.state.Volume)
	p.units = append(p.units, u)
}

// State returns a copy of the control state
func (p *Panel) State() ControlState {
	return p.state
}

// TogglePower flips power. Turning off hard-stops every unit; turning on does nothing else.
func (p *Panel) TogglePower() bool {
	p.state.Powered = !p.state.Powered
	if !p.state.Powered {
		for _, u := range p.units {
			u.Stop()
		}
	}
	debug.Log("panel", "power=%v", p.state.Powered)
	return p.state.Powered
}

// ToggleBank flips the bank indicator. It does not change the sound mapping.
func (p *Panel) ToggleBank() bool {
	p.state.BankSelected = !p.state.BankSelected
	return p.state.BankSelected
}

// SetVolume clamps v to 0-1, stores it and applies it to every unit
func (p *Panel) SetVolume(v float64) float64 {
	p.state.Volume = clampVolume(v)
	for _, u := range p.units {
		u.SetVolume(p.state.Volume)
	}
	return p.state.Volume
}

// SetVolumePercent takes a slider value (0-100, clamped) and applies n/100
func (p *Panel) SetVolumePercent(n int) float64 {
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return p.SetVolume(float64(n) / 100)
}

// VolumePercent returns the volume on the 0-100 slider scale
func (s ControlState) VolumePercent() int {
	return int(s.Volume*100 + 0.5)
}
