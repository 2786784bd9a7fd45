package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-drummer/control"
	"go-drummer/pads"
	"go-drummer/theme"
	"go-drummer/widgets"
)

const (
	volumeBarWidth = 21 // one cell per 5%
	volumePrefix   = "VOL "
	switchGap      = "   "
)

// layoutBounds holds layout info cached by View for mouse hit-testing
type layoutBounds struct {
	gridTop     int
	controlsTop int
	powerEnd    int // x just past the power switch
	bankStart   int
	bankEnd     int
	volumeTop   int
}

// target is what a click landed on
type target int

const (
	targetNone target = iota
	targetPad
	targetPower
	targetBank
	targetVolume
)

type Model struct {
	Machine  *pads.Machine
	Controls *control.Manager // may be nil when MIDI is off
	Theme    *theme.Theme
	Title    string

	updates  <-chan struct{}
	quitting bool
	bounds   *layoutBounds
}

type UpdateMsg struct{}

type DeviceUpdateMsg struct{}

func NewModel(machine *pads.Machine, controls *control.Manager, th *theme.Theme, title string) Model {
	if th == nil {
		th = theme.New(nil)
	}
	return Model{
		Machine:  machine,
		Controls: controls,
		Theme:    th,
		Title:    title,
		updates:  machine.Subscribe(),
		bounds:   &layoutBounds{},
	}
}

func ListenForUpdates(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return UpdateMsg{}
	}
}

func ListenForDevices(controls *control.Manager) tea.Cmd {
	return func() tea.Msg {
		<-controls.UpdateChan
		return DeviceUpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.updates)}
	if m.Controls != nil {
		cmds = append(cmds, ListenForDevices(m.Controls))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "esc", "ctrl+c":
			m.quitting = true
			m.Machine.Unsubscribe(m.updates)
			return m, tea.Quit
		}

		// Pad keys win, so a custom kit can use any letter
		if m.Machine.Trigger(pads.SourceKeyboard, key) {
			return m, nil
		}

		switch key {
		case "p":
			m.Machine.TogglePower()
		case "b":
			m.Machine.ToggleBank()
		case "+", "=":
			m.Machine.NudgeVolume(5)
		case "-", "_":
			m.Machine.NudgeVolume(-5)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		switch t, v := m.hitTest(msg.X, msg.Y); t {
		case targetPad:
			m.Machine.TriggerIndex(pads.SourcePointer, v)
		case targetPower:
			m.Machine.TogglePower()
		case targetBank:
			m.Machine.ToggleBank()
		case targetVolume:
			m.Machine.SetVolumePercent(v)
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.updates)

	case DeviceUpdateMsg:
		return m, ListenForDevices(m.Controls)
	}

	return m, nil
}

// hitTest maps a screen cell to a control. The int is the pad index or
// volume percent.
func (m Model) hitTest(x, y int) (target, int) {
	b := m.bounds
	if y >= b.gridTop && y < b.gridTop+pads.GridSize*widgets.PadHeight {
		if idx := widgets.PadAt(x, y-b.gridTop, len(m.Machine.Registry().Entries())); idx >= 0 {
			return targetPad, idx
		}
		return targetNone, 0
	}
	if y == b.controlsTop {
		switch {
		case x >= 0 && x < b.powerEnd:
			return targetPower, 0
		case x >= b.bankStart && x < b.bankEnd:
			return targetBank, 0
		}
	}
	if y == b.volumeTop {
		rel := x - len(volumePrefix)
		if rel >= 0 && rel < volumeBarWidth {
			return targetVolume, widgets.VolumeAt(rel, volumeBarWidth)
		}
	}
	return targetNone, 0
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Machine.Snapshot()
	th := m.Theme

	headerStyle := lipgloss.NewStyle().Foreground(th.Active()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(th.FG())

	// Header with device status
	var devices []string
	if m.Controls != nil {
		devices = m.Controls.Connected()
	}
	deviceStatus := ""
	switch len(devices) {
	case 0:
	case 1:
		deviceStatus = "  MIDI:" + devices[0]
	default:
		deviceStatus = fmt.Sprintf("  MIDI:%d devices", len(devices))
	}
	header := headerStyle.Render("go-drummer") + dimStyle.Render("  "+m.Title+deviceStatus)

	// Pad grid
	cells := make([]widgets.PadCell, len(snap.Pads))
	for i, p := range snap.Pads {
		cells[i] = widgets.PadCell{Key: p.Key.String(), Active: p.Active, Loaded: p.Loaded}
	}
	grid := widgets.RenderPadGrid(cells, th)

	// Switches
	power := widgets.RenderSwitch("POWER", snap.Powered, th.Power(snap.Powered), th.Symbols)
	bank := widgets.RenderSwitch("BANK", snap.BankSelected, th.Bank(snap.BankSelected), th.Symbols)
	controls := power + switchGap + bank

	vol := snap.VolumePercent()
	volume := volumePrefix + widgets.RenderVolumeBar(vol, volumeBarWidth, th) + fmt.Sprintf(" %3d", vol)

	status := statusStyle.Render(snap.Status)

	help := dimStyle.Render(widgets.RenderKeyHelp(m.keySections()))

	// Compute layout bounds (each section below is separated by one blank line)
	headerHeight := lipgloss.Height(header)
	m.bounds.gridTop = 1 + headerHeight + 1
	m.bounds.controlsTop = m.bounds.gridTop + lipgloss.Height(grid) + 1
	m.bounds.powerEnd = lipgloss.Width(power)
	m.bounds.bankStart = m.bounds.powerEnd + len(switchGap)
	m.bounds.bankEnd = m.bounds.bankStart + lipgloss.Width(bank)
	m.bounds.volumeTop = m.bounds.controlsTop + 1

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(controls)
	out.WriteString("\n")
	out.WriteString(volume)
	out.WriteString("\n")
	out.WriteString(status)
	out.WriteString("\n\n")

	if len(devices) > 0 {
		frame := control.FrameOf(control.RenderLEDs(snap, th))
		mirror := widgets.RenderLaunchpad(frame)
		out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, mirror, "  ", ledLegend(th)))
		out.WriteString("\n\n")
	}

	out.WriteString(help)

	return out.String()
}

func (m Model) keySections() []widgets.KeySection {
	entries := m.Machine.Registry().Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key.String()
	}
	return []widgets.KeySection{
		{
			Title: "Pads",
			Keys: []widgets.KeyBinding{
				{Key: strings.Join(keys, " "), Desc: "trigger"},
				{Key: "click", Desc: "trigger pad, toggle switch, set volume"},
			},
		},
		{
			Title: "Controls",
			Keys: []widgets.KeyBinding{
				{Key: "p", Desc: "power"},
				{Key: "b", Desc: "bank"},
				{Key: "+ / -", Desc: "volume"},
				{Key: "esc", Desc: "quit"},
			},
		},
	}
}

// ledLegend explains the mirror colors
func ledLegend(th *theme.Theme) string {
	return strings.Join([]string{
		widgets.RenderLegendItem(th.RGB(theme.RolePadIdle), "Pad", "idle"),
		widgets.RenderLegendItem(th.RGB(theme.RolePadActive), "Pad", "playing"),
		widgets.RenderLegendItem(th.RGB(theme.RolePowerOn), "Power", "top row, 1st"),
		widgets.RenderLegendItem(th.RGB(theme.RoleBankOn), "Bank", "top row, 2nd"),
		widgets.RenderLegendItem(th.VolumeRGB(100), "Volume", "scene column"),
	}, "\n")
}
