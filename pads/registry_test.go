package pads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Key
		ok   bool
	}{
		{"q", 'Q', true},
		{"Q", 'Q', true},
		{"x", 'X', true},
		{"1", '1', true},
		{"", 0, false},
		{" ", 0, false},
		{"enter", 0, false},
		{"ctrl+c", 0, false},
		{"\t", 0, false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.raw)
		assert.Equal(t, tt.ok, ok, "Normalize(%q) ok", tt.raw)
		assert.Equal(t, tt.want, got, "Normalize(%q)", tt.raw)
	}
}

func TestKits_AllValid(t *testing.T) {
	for _, name := range KitNames() {
		reg, err := GetKit(name).Registry()
		require.NoError(t, err, "kit %s", name)
		assert.Len(t, reg.Entries(), PadCount)
	}
}

func TestGetKit_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, Kits[DefaultKit].Name, GetKit("nope").Name)
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := GetKit("heater").Registry()
	require.NoError(t, err)

	e := reg.Lookup('Q')
	require.NotNil(t, e)
	assert.Equal(t, "Crash Cymbal", e.Label)
	assert.Contains(t, e.Source, "Heater-1.mp3")

	assert.Nil(t, reg.Lookup('P'))
	assert.Nil(t, reg.Lookup('q'), "lookup expects canonical keys")

	assert.Equal(t, 0, reg.IndexOf('Q'))
	assert.Equal(t, 8, reg.IndexOf('C'))
	assert.Equal(t, -1, reg.IndexOf('P'))
	assert.Same(t, e, reg.At(0))
	assert.Nil(t, reg.At(9))
}

func TestRegistry_GridOrder(t *testing.T) {
	reg, err := GetKit("heater").Registry()
	require.NoError(t, err)

	var keys string
	for _, e := range reg.Entries() {
		keys += e.Key.String()
	}
	assert.Equal(t, "QWEASDZXC", keys)
}

func TestNewRegistry_NormalizesKeys(t *testing.T) {
	entries := GetKit("heater").Entries
	entries[0].Key = 'q'
	reg, err := NewRegistry(entries[:])
	require.NoError(t, err)
	assert.NotNil(t, reg.Lookup('Q'))
}

func TestNewRegistry_Errors(t *testing.T) {
	base := GetKit("heater").Entries

	tests := []struct {
		name   string
		mutate func([]SoundEntry) []SoundEntry
	}{
		{"too few", func(e []SoundEntry) []SoundEntry { return e[:8] }},
		{"too many", func(e []SoundEntry) []SoundEntry { return append(e, SoundEntry{Key: 'P', Source: "p.wav", Label: "P"}) }},
		{"duplicate key", func(e []SoundEntry) []SoundEntry { e[1].Key = 'Q'; return e }},
		{"duplicate key after normalizing", func(e []SoundEntry) []SoundEntry { e[1].Key = 'q'; return e }},
		{"space key", func(e []SoundEntry) []SoundEntry { e[2].Key = ' '; return e }},
		{"no key", func(e []SoundEntry) []SoundEntry { e[2].Key = 0; return e }},
		{"missing source", func(e []SoundEntry) []SoundEntry { e[3].Source = ""; return e }},
		{"missing label", func(e []SoundEntry) []SoundEntry { e[4].Label = ""; return e }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]SoundEntry, len(base))
			copy(entries, base[:])
			_, err := NewRegistry(tt.mutate(entries))
			assert.ErrorIs(t, err, ErrInvalidRegistry)
		})
	}
}
