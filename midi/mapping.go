package midi

// Launchpad surface layout for the drum machine:
//
//	top row (row 8):   col 0 power, col 1 bank
//	grid rows 2..0:    cols 0-2 are the nine pads, top-left first
//	scene col (col 8): rows 0-7 set volume in eight steps
const (
	PowerCol   = 0
	BankCol    = 1
	ControlRow = 8
	SceneCol   = 8
	padRows    = 3
	padCols    = 3
)

// ActionType is what a surface button does
type ActionType int

const (
	ActionNone ActionType = iota
	ActionPad
	ActionPower
	ActionBank
	ActionVolume
)

// Action is a decoded button press
type Action struct {
	Type  ActionType
	Pad   int // grid index 0-8 for ActionPad
	Value int // percent 0-100 for ActionVolume
}

// PadAction maps a Launchpad press to a drum machine action
func PadAction(row, col int) Action {
	switch {
	case row == ControlRow && col == PowerCol:
		return Action{Type: ActionPower}
	case row == ControlRow && col == BankCol:
		return Action{Type: ActionBank}
	case col == SceneCol && row >= 0 && row < 8:
		return Action{Type: ActionVolume, Value: VolumeForRow(row)}
	}
	if idx := PadIndex(row, col); idx >= 0 {
		return Action{Type: ActionPad, Pad: idx}
	}
	return Action{Type: ActionNone}
}

// PadIndex converts a grid cell to a pad index, or -1.
// Row 2 is the top row of pads since Launchpad row 0 is at the bottom.
func PadIndex(row, col int) int {
	if row < 0 || row >= padRows || col < 0 || col >= padCols {
		return -1
	}
	return (padRows-1-row)*padCols + col
}

// PadCell is the inverse of PadIndex
func PadCell(idx int) (row, col int) {
	if idx < 0 || idx >= padRows*padCols {
		return -1, -1
	}
	return padRows - 1 - idx/padCols, idx % padCols
}

// VolumeForRow maps scene button rows 0-7 onto 0-100
func VolumeForRow(row int) int {
	return row * 100 / 7
}

// RowForVolume is the highest scene row lit for a volume percent
func RowForVolume(percent int) int {
	if percent <= 0 {
		return -1
	}
	row := (percent*7 + 50) / 100
	if row > 7 {
		row = 7
	}
	return row
}

// NoteIndex maps a keyboard note onto a pad index relative to base, or -1
func NoteIndex(note, base uint8) int {
	if note < base {
		return -1
	}
	idx := int(note - base)
	if idx >= padRows*padCols {
		return -1
	}
	return idx
}
