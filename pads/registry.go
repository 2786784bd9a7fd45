package pads

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// PadCount is the number of pads on the grid
const PadCount = 9

// GridSize is the width and height of the pad grid
const GridSize = 3

var ErrInvalidRegistry = errors.New("invalid registry")

// Key is a canonical (upper-case) single-character pad identifier. Zero means no key.
type Key rune

func (k Key) String() string {
	if k == 0 {
		return ""
	}
	return string(rune(k))
}

// Normalize converts raw input ("q", "Q") into a canonical key.
// Anything that is not exactly one character ("enter", "ctrl+c", "") is rejected.
func Normalize(raw string) (Key, bool) {
	if utf8.RuneCountInString(raw) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(raw)
	if r == utf8.RuneError || !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return 0, false
	}
	return Key(unicode.ToUpper(r)), true
}

// SoundEntry binds a key to an audio source and its display label
type SoundEntry struct {
	Key    Key
	Source string // URL or file path
	Label  string
}

// Registry is the fixed key → sound mapping. Read-only after construction.
type Registry struct {
	entries []*SoundEntry
	byKey   map[Key]*SoundEntry
}

// NewRegistry validates entries and builds a registry that keeps their order.
func NewRegistry(entries []SoundEntry) (*Registry, error) {
	if len(entries) != PadCount {
		return nil, fmt.Errorf("%w: need %d pads, got %d", ErrInvalidRegistry, PadCount, len(entries))
	}

	r := &Registry{
		entries: make([]*SoundEntry, 0, len(entries)),
		byKey:   make(map[Key]*SoundEntry, len(entries)),
	}
	for i, e := range entries {
		key, ok := Normalize(string(rune(e.Key)))
		if !ok {
			return nil, fmt.Errorf("%w: pad %d: key %q is not a single character", ErrInvalidRegistry, i, e.Key.String())
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("%w: pad %d: duplicate key %s", ErrInvalidRegistry, i, key)
		}
		if e.Source == "" {
			return nil, fmt.Errorf("%w: pad %s: source is required", ErrInvalidRegistry, key)
		}
		if e.Label == "" {
			return nil, fmt.Errorf("%w: pad %s: label is required", ErrInvalidRegistry, key)
		}

		entry := &SoundEntry{Key: key, Source: e.Source, Label: e.Label}
		r.entries = append(r.entries, entry)
		r.byKey[key] = entry
	}
	return r, nil
}

// Lookup returns the entry for a canonical key, or nil if it is not a drum key
func (r *Registry) Lookup(k Key) *SoundEntry {
	return r.byKey[k]
}

// Entries returns the entries in grid order
func (r *Registry) Entries() []*SoundEntry {
	out := make([]*SoundEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// At returns the entry at a grid index (0-8), or nil
func (r *Registry) At(i int) *SoundEntry {
	if i < 0 || i >= len(r.entries) {
		return nil
	}
	return r.entries[i]
}

// IndexOf returns the grid index of a key, or -1
func (r *Registry) IndexOf(k Key) int {
	for i, e := range r.entries {
		if e.Key == k {
			return i
		}
	}
	return -1
}
