package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Launchpad help widget
	Solid rune // ■ pad with a sound
	Empty rune // □ unused cell

	On  rune // ● switch on
	Off rune // ○ switch off

	VolumeFull  rune // █
	VolumeEmpty rune // ░
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Solid: '■',
			Empty: '□',

			On:  '●',
			Off: '○',

			VolumeFull:  '█',
			VolumeEmpty: '░',
		},
	}
}

// Color roles mapped to palette indices
const (
	RoleBG = iota
	RoleSurface
	RolePadIdle
	RoleFG
	RolePadActive
	RolePowerOn
	RolePowerOff
	RoleBankOn
	RoleBankOff
	RoleWarning
)

// Style helpers

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RolePadIdle) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RolePadActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }

// Power returns the power switch color for the given state
func (t *Theme) Power(on bool) lipgloss.Color {
	if on {
		return t.Color(RolePowerOn)
	}
	return t.Color(RolePowerOff)
}

// Bank returns the bank switch color for the given state
func (t *Theme) Bank(on bool) lipgloss.Color {
	if on {
		return t.Color(RoleBankOn)
	}
	return t.Color(RoleBankOff)
}

// Color returns the lipgloss color for a role
func (t *Theme) Color(role int) lipgloss.Color {
	return lipgloss.Color(t.RGB(role).Hex())
}

// RGB returns raw RGB for a role (for Launchpad)
func (t *Theme) RGB(role int) RGB {
	return t.Palette.Index(role)
}

// VolumeRGB fades from idle grey to the active color as volume rises
func (t *Theme) VolumeRGB(percent int) RGB {
	return Blend(t.RGB(RolePadIdle), t.RGB(RolePadActive), float64(percent)/100)
}
