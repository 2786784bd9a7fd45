package audio

import (
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// Voice is one pad's playback handle. It never drains, so the mixer keeps it
// for the life of the engine.
type Voice struct {
	lock sync.Locker // held by the speaker while it streams
	clip *beep.Buffer
	cur  beep.Streamer // nil when idle
	gain effects.Gain
}

func newVoice(lock sync.Locker, clip *beep.Buffer) *Voice {
	v := &Voice{lock: lock, clip: clip}
	v.gain = effects.Gain{Streamer: beep.StreamerFunc(v.streamClip)}
	return v
}

// Play restarts the clip from sample zero
func (v *Voice) Play() {
	v.lock.Lock()
	v.cur = v.clip.Streamer(0, v.clip.Len())
	v.lock.Unlock()
}

// Stop silences the voice; the next Play starts from zero
func (v *Voice) Stop() {
	v.lock.Lock()
	v.cur = nil
	v.lock.Unlock()
}

// SetVolume sets linear gain (0 silent, 1 unity)
func (v *Voice) SetVolume(vol float64) {
	v.lock.Lock()
	v.gain.Gain = vol - 1
	v.lock.Unlock()
}

// Playing reports whether the clip is still sounding
func (v *Voice) Playing() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.cur != nil
}

// Len is the clip length in samples
func (v *Voice) Len() int {
	return v.clip.Len()
}

// Stream implements beep.Streamer. Called by the speaker with lock held.
func (v *Voice) Stream(samples [][2]float64) (int, bool) {
	return v.gain.Stream(samples)
}

func (v *Voice) Err() error {
	return nil
}

func (v *Voice) streamClip(samples [][2]float64) (int, bool) {
	n := 0
	if v.cur != nil {
		var ok bool
		n, ok = v.cur.Stream(samples)
		if !ok || n < len(samples) {
			v.cur = nil
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}
