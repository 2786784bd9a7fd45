package control

import (
	"go-drummer/midi"
	"go-drummer/pads"
	"go-drummer/theme"
)

// LEDState describes the state of a single LED
type LEDState struct {
	Row, Col int
	Color    theme.RGB // controller maps to its palette
	Channel  uint8
}

// Frame is a full Launchpad X surface indexed [row][col], row 8 on top
type Frame [9][9]theme.RGB

// unloaded pads glow faintly so the grid still shows its shape
const unloadedDim = 0.75

// RenderLEDs lights the surface from a machine snapshot
func RenderLEDs(snap pads.Snapshot, th *theme.Theme) []LEDState {
	leds := make([]LEDState, 0, len(snap.Pads)+10)

	for i, p := range snap.Pads {
		row, col := midi.PadCell(i)
		if row < 0 {
			continue
		}
		color := th.RGB(theme.RolePadIdle)
		switch {
		case p.Active:
			color = th.RGB(theme.RolePadActive)
		case !p.Loaded:
			color = theme.Blend(color, theme.RGB{}, unloadedDim)
		}
		leds = append(leds, LEDState{Row: row, Col: col, Color: color})
	}

	power := th.RGB(theme.RolePowerOff)
	if snap.Powered {
		power = th.RGB(theme.RolePowerOn)
	}
	leds = append(leds, LEDState{Row: midi.ControlRow, Col: midi.PowerCol, Color: power})

	bank := th.RGB(theme.RoleBankOff)
	if snap.BankSelected {
		bank = th.RGB(theme.RoleBankOn)
	}
	leds = append(leds, LEDState{Row: midi.ControlRow, Col: midi.BankCol, Color: bank})

	// Volume column fills from the bottom
	vol := snap.VolumePercent()
	top := midi.RowForVolume(vol)
	for row := 0; row <= top; row++ {
		leds = append(leds, LEDState{Row: row, Col: midi.SceneCol, Color: th.VolumeRGB(vol)})
	}

	return leds
}

// FrameOf places LED states on a frame; unlit cells stay black
func FrameOf(leds []LEDState) Frame {
	var f Frame
	for _, led := range leds {
		if led.Row >= 0 && led.Row < 9 && led.Col >= 0 && led.Col < 9 {
			f[led.Row][led.Col] = led.Color
		}
	}
	return f
}
