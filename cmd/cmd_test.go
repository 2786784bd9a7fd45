package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"go-drummer/config"
	"go-drummer/pads"
)

// execute runs the root command with args in an isolated HOME
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		cfgFile, kitsYAML, initForce = "", false, false
		cfg = nil
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestKits_Text(t *testing.T) {
	out, err := execute(t, "kits")
	require.NoError(t, err)
	assert.Contains(t, out, "heater *")
	assert.Contains(t, out, "smooth")
	assert.Contains(t, out, "Crash Cymbal")
}

func TestKits_YAML(t *testing.T) {
	out, err := execute(t, "kits", "--yaml")
	require.NoError(t, err)

	var views []kitView
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	require.Len(t, views, len(pads.Kits))
	for _, v := range views {
		assert.Len(t, v.Pads, pads.PadCount, v.Name)
	}
	assert.Equal(t, "Q", views[0].Pads[0].Key)
}

// The YAML pads list is accepted back as a custom pad config
func TestKits_YAMLRoundTripsAsConfig(t *testing.T) {
	views := kitViews()
	data, err := yaml.Marshal(map[string]any{"pads": views[1].Pads})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("HOME", t.TempDir())

	c, err := config.Load(path)
	require.NoError(t, err)
	reg, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, views[1].Pads[0].Label, reg.At(0).Label)
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("volume: 300\n"), 0o644))

	_, err := execute(t, "kits", "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	out, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "init", "--config", path)
	assert.Error(t, err, "refuses to overwrite")

	_, err = execute(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

// stubSink is a loaded pad for loadAll tests
type stubSink struct{ playing bool }

func (s *stubSink) Play()             { s.playing = true }
func (s *stubSink) Stop()             { s.playing = false }
func (s *stubSink) SetVolume(float64) {}
func (s *stubSink) Playing() bool     { return s.playing }

func TestLoadAll(t *testing.T) {
	reg, err := pads.GetKit(pads.DefaultKit).Registry()
	require.NoError(t, err)
	m := pads.NewMachine(pads.Options{Registry: reg, Volume: 0.5})
	defer m.Close()

	failing := reg.At(3).Source
	var mu sync.Mutex
	var seen []string
	load := func(ctx context.Context, src string) (pads.Sink, error) {
		mu.Lock()
		seen = append(seen, src)
		mu.Unlock()
		if src == failing {
			return nil, errors.New("404")
		}
		return &stubSink{}, nil
	}

	n := loadAll(context.Background(), load, m, time.Second, 2)
	assert.Equal(t, pads.PadCount-1, n)
	assert.Len(t, seen, pads.PadCount)

	snap := m.Snapshot()
	for i, p := range snap.Pads {
		assert.Equal(t, i != 3, p.Loaded, "pad %d", i)
	}

	// The failed pad still flashes
	assert.True(t, m.TriggerIndex(pads.SourceKeyboard, 3))
	assert.Equal(t, reg.At(3).Key, m.Snapshot().ActiveKey)
}

func TestLoadAll_Timeout(t *testing.T) {
	reg, err := pads.GetKit(pads.DefaultKit).Registry()
	require.NoError(t, err)
	m := pads.NewMachine(pads.Options{Registry: reg})
	defer m.Close()

	load := func(ctx context.Context, src string) (pads.Sink, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	assert.Equal(t, 0, loadAll(context.Background(), load, m, 10*time.Millisecond, loadLimit))
}

func TestTitle(t *testing.T) {
	c := config.DefaultConfig()
	assert.Equal(t, pads.GetKit("heater").Name, title(c))
	c.Pads = []config.PadConfig{{Key: "q"}}
	assert.Equal(t, "custom kit", title(c))
}
