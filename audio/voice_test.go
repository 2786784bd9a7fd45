package audio

import (
	"sync"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantClip(t *testing.T, value float64, n int) *beep.Buffer {
	t.Helper()
	samples := make([][2]float64, n)
	for i := range samples {
		samples[i] = [2]float64{value, value}
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2})
	buf.Append(&pcm{samples: samples})
	require.Equal(t, n, buf.Len())
	return buf
}

func stream(v *Voice, n int) [][2]float64 {
	out := make([][2]float64, n)
	v.lock.Lock()
	got, ok := v.Stream(out)
	v.lock.Unlock()
	if got != n || !ok {
		panic("voice must always fill the buffer")
	}
	return out
}

func TestVoice_SilentUntilPlayed(t *testing.T) {
	v := newVoice(&sync.Mutex{}, constantClip(t, 0.5, 64))

	assert.False(t, v.Playing())
	for _, s := range stream(v, 16) {
		assert.Equal(t, [2]float64{}, s)
	}
}

func TestVoice_PlayStreamsClipThenGoesIdle(t *testing.T) {
	v := newVoice(&sync.Mutex{}, constantClip(t, 0.5, 10))
	v.Play()
	assert.True(t, v.Playing())

	out := stream(v, 16)
	for i := 0; i < 10; i++ {
		assert.InDelta(t, 0.5, out[i][0], 1e-3, "sample %d", i)
	}
	for i := 10; i < 16; i++ {
		assert.Equal(t, [2]float64{}, out[i], "sample %d should be silence", i)
	}
	assert.False(t, v.Playing())
}

func TestVoice_RetriggerRestartsFromZero(t *testing.T) {
	samples := make([][2]float64, 8)
	for i := range samples {
		samples[i] = [2]float64{float64(i) / 10, float64(i) / 10}
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2})
	buf.Append(&pcm{samples: samples})

	v := newVoice(&sync.Mutex{}, buf)
	v.Play()
	stream(v, 5)

	v.Play()
	out := stream(v, 3)
	assert.InDelta(t, 0.0, out[0][0], 1e-3)
	assert.InDelta(t, 0.1, out[1][0], 1e-3)
	assert.InDelta(t, 0.2, out[2][0], 1e-3)
}

func TestVoice_StopSilencesAndRewinds(t *testing.T) {
	v := newVoice(&sync.Mutex{}, constantClip(t, 0.5, 64))
	v.Play()
	stream(v, 8)

	v.Stop()
	v.Stop() // idempotent
	assert.False(t, v.Playing())
	for _, s := range stream(v, 8) {
		assert.Equal(t, [2]float64{}, s)
	}

	v.Play()
	out := stream(v, 64)
	assert.InDelta(t, 0.5, out[63][0], 1e-3, "full clip should play after rewind")
}

func TestVoice_Volume(t *testing.T) {
	v := newVoice(&sync.Mutex{}, constantClip(t, 0.8, 64))

	v.SetVolume(0.5)
	v.Play()
	out := stream(v, 4)
	assert.InDelta(t, 0.4, out[0][0], 1e-3)
	assert.InDelta(t, 0.4, out[0][1], 1e-3)

	// takes effect mid-playback
	v.SetVolume(0)
	out = stream(v, 4)
	assert.InDelta(t, 0.0, out[0][0], 1e-9)
	assert.True(t, v.Playing(), "zero volume mutes but keeps playing")

	v.SetVolume(1)
	out = stream(v, 4)
	assert.InDelta(t, 0.8, out[0][0], 1e-3)
}
