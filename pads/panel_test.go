package pads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPanel_Defaults(t *testing.T) {
	p := NewPanel(0.5)
	st := p.State()
	assert.True(t, st.Powered)
	assert.False(t, st.BankSelected)
	assert.Equal(t, 0.5, st.Volume)
	assert.Equal(t, DefaultVolume, st.VolumePercent())
}

func TestPanel_SetVolumePercentPropagates_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := NewPanel(0.5)
		var sinks []*fakeSink
		for i := 0; i < PadCount; i++ {
			u := newUnit(&SoundEntry{Key: Key('A' + i), Source: "x.wav", Label: "x"}, 0)
			s := &fakeSink{}
			u.Attach(s)
			p.Register(u)
			sinks = append(sinks, s)
		}

		n := rapid.IntRange(0, 100).Draw(rt, "volume")
		p.SetVolumePercent(n)

		want := float64(n) / 100
		for i, u := range p.units {
			if u.Volume() != want {
				rt.Fatalf("unit %d volume %v, want %v", i, u.Volume(), want)
			}
			if sinks[i].volume != want {
				rt.Fatalf("sink %d volume %v, want %v", i, sinks[i].volume, want)
			}
		}

		late := newUnit(&SoundEntry{Key: 'Z', Source: "z.wav", Label: "z"}, 1)
		p.Register(late)
		if late.Volume() != want {
			rt.Fatalf("late unit volume %v, want %v", late.Volume(), want)
		}
	})
}

func TestPanel_VolumeClamped(t *testing.T) {
	p := NewPanel(0.5)

	assert.Equal(t, 1.0, p.SetVolumePercent(150))
	assert.Equal(t, 0.0, p.SetVolumePercent(-3))
	assert.Equal(t, 1.0, p.SetVolume(7))
	assert.Equal(t, 0.0, p.SetVolume(-0.1))
	assert.Equal(t, 0.25, p.SetVolume(0.25))
	assert.Equal(t, 1.0, NewPanel(3).State().Volume)
}

func TestPanel_PowerOffStopsEveryUnit(t *testing.T) {
	p := NewPanel(0.5)
	var sinks []*fakeSink
	for i := 0; i < PadCount; i++ {
		u := newUnit(&SoundEntry{Key: Key('A' + i), Source: "x.wav", Label: "x"}, 0)
		s := &fakeSink{}
		u.Attach(s)
		p.Register(u)
		u.Play()
		sinks = append(sinks, s)
	}

	assert.False(t, p.TogglePower())
	for i, s := range sinks {
		assert.Equal(t, 1, s.stops, "unit %d", i)
		assert.False(t, s.playing, "unit %d", i)
	}

	// powering back on does nothing at unit level
	assert.True(t, p.TogglePower())
	for i, s := range sinks {
		assert.Equal(t, 1, s.stops, "unit %d", i)
		assert.Equal(t, 1, s.plays, "unit %d", i)
	}
}

func TestPanel_BankIsCosmetic(t *testing.T) {
	p := NewPanel(0.5)
	assert.True(t, p.ToggleBank())
	assert.True(t, p.State().BankSelected)
	assert.True(t, p.State().Powered)
	assert.False(t, p.ToggleBank())
}
