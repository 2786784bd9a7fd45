package pads

// PadState is the presentation state of one pad
type PadState struct {
	Key     Key
	Label   string
	Active  bool
	Playing bool
	Loaded  bool
	Volume  float64
}

// Snapshot is a copy of everything the presentation layer reads
type Snapshot struct {
	ActiveKey    Key // zero when idle
	Powered      bool
	BankSelected bool
	Volume       float64
	Status       string
	Pads         []PadState // grid order
}

// VolumePercent returns the volume on the 0-100 slider scale
func (s Snapshot) VolumePercent() int {
	return int(s.Volume*100 + 0.5)
}

// Snapshot copies the current state
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.panel.State()
	active, _ := m.display.Active()
	snap := Snapshot{
		ActiveKey:    active,
		Powered:      st.Powered,
		BankSelected: st.BankSelected,
		Volume:       st.Volume,
		Status:       m.controller.Status(),
		Pads:         make([]PadState, 0, PadCount),
	}
	for _, e := range m.registry.Entries() {
		u := m.controller.Unit(e.Key)
		snap.Pads = append(snap.Pads, PadState{
			Key:     e.Key,
			Label:   e.Label,
			Active:  e.Key == active,
			Playing: u.Playing(),
			Loaded:  u.Loaded(),
			Volume:  u.Volume(),
		})
	}
	return snap
}
