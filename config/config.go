package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"go-drummer/audio"
	"go-drummer/pads"
)

// ErrInvalidConfig is returned for out-of-range or inconsistent settings
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. DRUMMER_AUDIO_ENABLED
const EnvPrefix = "DRUMMER"

// AudioConfig controls the output device and asset loading
type AudioConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	SampleRate  int           `mapstructure:"sample_rate"`
	Buffer      time.Duration `mapstructure:"buffer"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

// MIDIConfig controls controller discovery
type MIDIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Poll     time.Duration `mapstructure:"poll"`
	BaseNote int           `mapstructure:"base_note"` // note that triggers the first pad
}

// ServerConfig controls the WebSocket state server
type ServerConfig struct {
	Listen string `mapstructure:"listen"` // empty disables the server
}

// PadConfig defines one custom pad
type PadConfig struct {
	Key   string `mapstructure:"key"`
	Src   string `mapstructure:"src"`
	Label string `mapstructure:"label"`
}

// Config is the main configuration structure
type Config struct {
	Kit    string        `mapstructure:"kit"`
	Volume int           `mapstructure:"volume"` // 0-100
	Expiry time.Duration `mapstructure:"expiry"`
	Debug  bool          `mapstructure:"debug"`
	Audio  AudioConfig   `mapstructure:"audio"`
	MIDI   MIDIConfig    `mapstructure:"midi"`
	Server ServerConfig  `mapstructure:"server"`
	Pads   []PadConfig   `mapstructure:"pads"` // replaces the kit when set
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Kit:    pads.DefaultKit,
		Volume: pads.DefaultVolume,
		Expiry: pads.DefaultExpiry,
		Audio: AudioConfig{
			Enabled:     true,
			SampleRate:  44100,
			Buffer:      50 * time.Millisecond,
			LoadTimeout: 15 * time.Second,
		},
		MIDI: MIDIConfig{
			Enabled:  true,
			Poll:     time.Second,
			BaseNote: 36, // GM kick, bottom-left pad on most pad banks
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drummer"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("kit", d.Kit)
	v.SetDefault("volume", d.Volume)
	v.SetDefault("expiry", d.Expiry)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer", d.Audio.Buffer)
	v.SetDefault("audio.load_timeout", d.Audio.LoadTimeout)
	v.SetDefault("midi.enabled", d.MIDI.Enabled)
	v.SetDefault("midi.poll", d.MIDI.Poll)
	v.SetDefault("midi.base_note", d.MIDI.BaseNote)
	v.SetDefault("server.listen", d.Server.Listen)
}

// Load reads the config from path, or the default location when path is
// empty. A missing default file yields defaults; a missing explicit file is
// an error. DRUMMER_* environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if p, err := ConfigPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and the custom pad list
func (c *Config) Validate() error {
	if len(c.Pads) == 0 {
		if _, ok := pads.Kits[c.Kit]; !ok {
			return fmt.Errorf("%w: unknown kit %q (have %s)", ErrInvalidConfig, c.Kit, strings.Join(pads.KitNames(), ", "))
		}
	} else if _, err := c.Registry(); err != nil {
		return err
	}
	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("%w: volume %d out of range 0-100", ErrInvalidConfig, c.Volume)
	}
	if c.Expiry <= 0 {
		return fmt.Errorf("%w: expiry must be positive", ErrInvalidConfig)
	}
	if c.Audio.Enabled {
		if c.Audio.SampleRate < audio.MinSampleRate || c.Audio.SampleRate > audio.MaxSampleRate {
			return fmt.Errorf("%w: audio.sample_rate %d out of range", ErrInvalidConfig, c.Audio.SampleRate)
		}
		if c.Audio.Buffer <= 0 {
			return fmt.Errorf("%w: audio.buffer must be positive", ErrInvalidConfig)
		}
	}
	if c.MIDI.BaseNote < 0 || c.MIDI.BaseNote+pads.PadCount-1 > 127 {
		return fmt.Errorf("%w: midi.base_note %d out of range", ErrInvalidConfig, c.MIDI.BaseNote)
	}
	if c.MIDI.Enabled && c.MIDI.Poll <= 0 {
		return fmt.Errorf("%w: midi.poll must be positive", ErrInvalidConfig)
	}
	return nil
}

// Entries converts the custom pad list to registry entries
func (c *Config) Entries() ([]pads.SoundEntry, error) {
	entries := make([]pads.SoundEntry, 0, len(c.Pads))
	for i, p := range c.Pads {
		k, ok := pads.Normalize(p.Key)
		if !ok {
			return nil, fmt.Errorf("%w: pad %d: key %q must be one character", ErrInvalidConfig, i, p.Key)
		}
		entries = append(entries, pads.SoundEntry{Key: k, Source: p.Src, Label: p.Label})
	}
	return entries, nil
}

// Registry builds the sound registry from custom pads or the named kit
func (c *Config) Registry() (*pads.Registry, error) {
	if len(c.Pads) == 0 {
		return pads.GetKit(c.Kit).Registry()
	}
	entries, err := c.Entries()
	if err != nil {
		return nil, err
	}
	reg, err := pads.NewRegistry(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: pads: %w", ErrInvalidConfig, err)
	}
	return reg, nil
}

// VolumeLevel returns the configured volume on the 0-1 scale
func (c *Config) VolumeLevel() float64 {
	return float64(c.Volume) / 100
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# go-drummer configuration

# Built-in kit (run 'drummer kits' to list them)
kit: heater

# Master volume 0-100
volume: 50

# How long a pad stays lit after a hit
expiry: 100ms

# Write ~/.config/go-drummer/debug.log
debug: false

audio:
  enabled: true
  sample_rate: 44100
  buffer: 50ms
  load_timeout: 15s

midi:
  enabled: true
  poll: 1s
  base_note: 36   # keyboard note for the first pad, next eight notes follow

server:
  # WebSocket state server, e.g. "127.0.0.1:8088" (empty disables)
  listen: ""

# Custom pads replace the kit. Exactly nine, in grid order (top-left first).
# pads:
#   - key: q
#     src: https://example.com/crash.mp3
#     label: Crash Cymbal
#   - key: w
#     src: /home/me/samples/hat.wav
#     label: Hi-Hat
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
