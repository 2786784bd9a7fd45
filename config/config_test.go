package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-drummer/pads"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

// isolate points HOME at an empty dir so the user's real config is never read
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.InDelta(t, 0.5, cfg.VolumeLevel(), 1e-9)
}

func TestLoad_YAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
kit: smooth
volume: 80
expiry: 250ms
audio:
  enabled: false
midi:
  base_note: 48
server:
  listen: 127.0.0.1:9000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "smooth", cfg.Kit)
	assert.Equal(t, 80, cfg.Volume)
	assert.Equal(t, 250*time.Millisecond, cfg.Expiry)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 44100, cfg.Audio.SampleRate, "unset keys keep defaults")
	assert.Equal(t, 48, cfg.MIDI.BaseNote)
	assert.True(t, cfg.MIDI.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "volume: 20\n")
	t.Setenv("DRUMMER_VOLUME", "70")
	t.Setenv("DRUMMER_AUDIO_ENABLED", "false")
	t.Setenv("DRUMMER_SERVER_LISTEN", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.Volume)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, ":9999", cfg.Server.Listen)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err := ConfigPath()
	require.NoError(t, err)
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "the template matches the defaults")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown kit", func(c *Config) { c.Kit = "marching" }},
		{"volume high", func(c *Config) { c.Volume = 101 }},
		{"volume low", func(c *Config) { c.Volume = -1 }},
		{"expiry", func(c *Config) { c.Expiry = 0 }},
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 100 }},
		{"buffer", func(c *Config) { c.Audio.Buffer = 0 }},
		{"base note", func(c *Config) { c.MIDI.BaseNote = 120 }},
		{"poll", func(c *Config) { c.MIDI.Poll = 0 }},
		{"too few pads", func(c *Config) { c.Pads = []PadConfig{{Key: "q", Src: "a.wav", Label: "A"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	c := DefaultConfig()
	c.Audio.Enabled = false
	c.Audio.SampleRate = 0
	assert.NoError(t, c.Validate(), "audio settings are ignored when audio is off")
}

func ninePads() []PadConfig {
	var out []PadConfig
	for _, k := range []string{"q", "w", "e", "a", "s", "d", "z", "x", "c"} {
		out = append(out, PadConfig{Key: k, Src: "/samples/" + k + ".wav", Label: "Pad " + k})
	}
	return out
}

func TestRegistry_CustomPads(t *testing.T) {
	c := DefaultConfig()
	c.Pads = ninePads()
	require.NoError(t, c.Validate())

	reg, err := c.Registry()
	require.NoError(t, err)
	e := reg.Lookup(pads.Key('Q'))
	require.NotNil(t, e)
	assert.Equal(t, "/samples/q.wav", e.Source)

	c.Pads[1].Key = "Q"
	_, err = c.Registry()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, pads.ErrInvalidRegistry)

	c.Pads[1].Key = "ww"
	_, err = c.Registry()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRegistry_Kit(t *testing.T) {
	c := DefaultConfig()
	c.Kit = "smooth"
	reg, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, pads.Kits["smooth"].Entries[0].Label, reg.At(0).Label)
}

func TestLoad_CustomPadsYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
pads:
  - {key: q, src: a.wav, label: A}
  - {key: w, src: b.wav, label: B}
  - {key: e, src: c.wav, label: C}
  - {key: a, src: d.wav, label: D}
  - {key: s, src: e.wav, label: E}
  - {key: d, src: f.wav, label: F}
  - {key: z, src: g.wav, label: G}
  - {key: x, src: h.wav, label: H}
  - {key: c, src: i.wav, label: I}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Pads, 9)
	assert.Equal(t, "I", cfg.Pads[8].Label)
}
