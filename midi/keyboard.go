package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-drummer/debug"
)

// KeyboardController plays pads from a MIDI keyboard or drum pad bank.
// Note baseNote+i triggers pad i; every other note is ignored.
type KeyboardController struct {
	id       string
	baseNote uint8
	inPort   drivers.In
	stopFunc func()

	actions *actionQueue
}

// NewKeyboardController opens inPort for listening. A nil port gives a
// controller that never produces input.
func NewKeyboardController(id string, inPort drivers.In, baseNote uint8) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		baseNote: baseNote,
		inPort:   inPort,
		actions:  newActionQueue(32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			kb.handleMessage(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) handleMessage(msg gomidi.Message) {
	var channel, note, velocity uint8
	if !msg.GetNoteOn(&channel, &note, &velocity) || velocity == 0 {
		return // NoteOn with velocity 0 is a release
	}
	idx := NoteIndex(note, kb.baseNote)
	if idx < 0 {
		debug.Log("kb", "%s: note %d outside pads", kb.id, note)
		return
	}
	if !kb.actions.push(Action{Type: ActionPad, Pad: idx}) {
		debug.Log("kb", "%s: note %d dropped", kb.id, note)
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) Actions() <-chan Action {
	return kb.actions.ch
}

// SetLEDBatch is a no-op for keyboards (no visual feedback)
func (kb *KeyboardController) SetLEDBatch(updates []LEDUpdate) error {
	return nil
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	kb.actions.close()
	return nil
}
