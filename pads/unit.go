package pads

// Sink is the audio playback capability behind a unit: it can start from the
// beginning, stop and set gain. Implementations must not block.
type Sink interface {
	Play()
	Stop()
	SetVolume(v float64)
	Playing() bool
}

// Unit is the per-pad playback handle
type Unit struct {
	entry  *SoundEntry // owned by the registry
	volume float64
	sink   Sink // nil until the asset loads
}

func newUnit(entry *SoundEntry, volume float64) *Unit {
	return &Unit{entry: entry, volume: clampVolume(volume)}
}

// Entry returns the registry entry this unit plays
func (u *Unit) Entry() *SoundEntry {
	return u.entry
}

// Volume returns the unit's current gain (0-1)
func (u *Unit) Volume() float64 {
	return u.volume
}

// Loaded reports whether an audio sink is attached
func (u *Unit) Loaded() bool {
	return u.sink != nil
}

// Playing reports the sink's playback state
func (u *Unit) Playing() bool {
	return u.sink != nil && u.sink.Playing()
}

// Attach binds the sink for this pad and applies the current volume
func (u *Unit) Attach(s Sink) {
	u.sink = s
	if s != nil {
		s.SetVolume(u.volume)
	}
}

// Play restarts the sound from the beginning. No-op without a sink.
func (u *Unit) Play() {
	if u.sink == nil {
		return
	}
	u.sink.Play()
}

// Stop halts playback and rewinds. Idempotent.
func (u *Unit) Stop() {
	if u.sink == nil {
		return
	}
	u.sink.Stop()
}

// SetVolume sets gain immediately, clamped to 0-1
func (u *Unit) SetVolume(v float64) {
	u.volume = clampVolume(v)
	if u.sink != nil {
		u.sink.SetVolume(u.volume)
	}
}

func clampVolume(v float64) float64 {
	if v != v || v < 0 { // NaN counts as silent
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
