package server

import (
	"encoding/json"
	"time"

	"go-drummer/pads"
)

// Outbound message types
const (
	TypeStateInit = "state_init"
	TypeState     = "state"
)

// Inbound command types
const (
	CmdTrigger = "trigger"
	CmdPower   = "power"
	CmdBank    = "bank"
	CmdVolume  = "volume"
)

// envelope is the wire format envelope for WS messages.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// wsPad is one pad in a state payload
type wsPad struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Active  bool   `json:"active"`
	Playing bool   `json:"playing"`
	Loaded  bool   `json:"loaded"`
}

// wsState is the `data` payload for "state_init" and "state".
// Decoupled from pads.Snapshot so the wire format stays stable.
type wsState struct {
	ActiveKey string  `json:"active_key"`
	Powered   bool    `json:"powered"`
	Bank      bool    `json:"bank"`
	Volume    int     `json:"volume"`
	Status    string  `json:"status"`
	Pads      []wsPad `json:"pads"`
}

// command is an inbound client message
type command struct {
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Value *int   `json:"value,omitempty"`
}

func stateOf(snap pads.Snapshot) wsState {
	st := wsState{
		ActiveKey: snap.ActiveKey.String(),
		Powered:   snap.Powered,
		Bank:      snap.BankSelected,
		Volume:    snap.VolumePercent(),
		Status:    snap.Status,
		Pads:      make([]wsPad, 0, len(snap.Pads)),
	}
	for _, p := range snap.Pads {
		st.Pads = append(st.Pads, wsPad{
			Key:     p.Key.String(),
			Label:   p.Label,
			Active:  p.Active,
			Playing: p.Playing,
			Loaded:  p.Loaded,
		})
	}
	return st
}

func encode(typ string, snap pads.Snapshot) ([]byte, error) {
	now := time.Now().UTC()
	return json.Marshal(envelope{Type: typ, Ts: &now, Data: stateOf(snap)})
}
