package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-drummer/theme"
)

// Pad cell geometry, in terminal cells
const (
	PadWidth  = 7
	PadHeight = 3
	PadGap    = 1
	GridCols  = 3
)

// PadCell is what the grid needs to draw one pad
type PadCell struct {
	Key    string
	Active bool
	Loaded bool
}

// GridWidth is the rendered width of the pad grid
func GridWidth() int {
	return GridCols*PadWidth + (GridCols-1)*PadGap
}

// RenderPadGrid draws pads three to a row, in the order given
func RenderPadGrid(cells []PadCell, th *theme.Theme) string {
	var rows []string
	for start := 0; start < len(cells); start += GridCols {
		end := min(start+GridCols, len(cells))
		var parts []string
		for i := start; i < end; i++ {
			if i > start {
				parts = append(parts, strings.Repeat(" ", PadGap))
			}
			parts = append(parts, renderCell(cells[i], th))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c PadCell, th *theme.Theme) string {
	bg := th.Muted()
	fg := th.BG()
	switch {
	case c.Active:
		bg = th.Active()
	case !c.Loaded:
		bg = th.Surface()
		fg = th.Muted()
	}
	return lipgloss.NewStyle().
		Width(PadWidth).
		Height(PadHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Background(bg).
		Foreground(fg).
		Bold(c.Active).
		Render(c.Key)
}

// PadAt returns the grid index under a point relative to the grid's
// top-left corner, or -1 for gaps and misses
func PadAt(x, y, count int) int {
	if x < 0 || y < 0 {
		return -1
	}
	stride := PadWidth + PadGap
	col := x / stride
	if col >= GridCols || x%stride >= PadWidth {
		return -1
	}
	idx := (y/PadHeight)*GridCols + col
	if idx >= count {
		return -1
	}
	return idx
}

// RenderSwitch draws a labelled indicator like "● POWER"
func RenderSwitch(label string, on bool, color lipgloss.Color, sym theme.Symbols) string {
	r := sym.Off
	if on {
		r = sym.On
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(r) + " " + label)
}

// RenderVolumeBar draws a width-cell bar filled to percent
func RenderVolumeBar(percent, width int, th *theme.Theme) string {
	if width <= 0 {
		return ""
	}
	filled := percent * width / 100
	filled = max(0, min(width, filled))
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(th.VolumeRGB(percent).Hex()))
	off := lipgloss.NewStyle().Foreground(th.Surface())
	return on.Render(strings.Repeat(string(th.Symbols.VolumeFull), filled)) +
		off.Render(strings.Repeat(string(th.Symbols.VolumeEmpty), width-filled))
}

// VolumeAt maps an x offset inside a width-cell bar to 0-100
func VolumeAt(x, width int) int {
	if width <= 1 || x <= 0 {
		return 0
	}
	if x >= width-1 {
		return 100
	}
	return x * 100 / (width - 1)
}
