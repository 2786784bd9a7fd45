package pads

// Kit is a named set of nine pad sounds in grid order (row-major, top-left first)
type Kit struct {
	Name    string
	Entries [9]SoundEntry
}

const drumsURL = "https://s3.amazonaws.com/freecodecamp/drums/"

// Kits contains all built-in kits
var Kits = map[string]Kit{
	"heater": {
		Name: "Heater Kit",
		Entries: [9]SoundEntry{
			{Key: 'Q', Source: drumsURL + "Heater-1.mp3", Label: "Crash Cymbal"},
			{Key: 'W', Source: drumsURL + "Heater-2.mp3", Label: "Hi-Hat"},
			{Key: 'E', Source: drumsURL + "Heater-3.mp3", Label: "Snare Drum"},
			{Key: 'A', Source: drumsURL + "Heater-4_1.mp3", Label: "Bass Drum"},
			{Key: 'S', Source: drumsURL + "Heater-6.mp3", Label: "Tom 1"},
			{Key: 'D', Source: drumsURL + "Dsc_Oh.mp3", Label: "Tom 2"},
			{Key: 'Z', Source: drumsURL + "Kick_n_Hat.mp3", Label: "Tom 3"},
			{Key: 'X', Source: drumsURL + "RP4_KICK_1.mp3", Label: "Ride Cymbal"},
			{Key: 'C', Source: drumsURL + "Cev_H2.mp3", Label: "Crash Cymbal 2"},
		},
	},
	"smooth": {
		Name: "Smooth Piano Kit",
		Entries: [9]SoundEntry{
			{Key: 'Q', Source: drumsURL + "Chord_1.mp3", Label: "Chord 1"},
			{Key: 'W', Source: drumsURL + "Chord_2.mp3", Label: "Chord 2"},
			{Key: 'E', Source: drumsURL + "Chord_3.mp3", Label: "Chord 3"},
			{Key: 'A', Source: drumsURL + "Give_us_a_light.mp3", Label: "Shaker"},
			{Key: 'S', Source: drumsURL + "Dry_Ohh.mp3", Label: "Open HH"},
			{Key: 'D', Source: drumsURL + "Bld_H1.mp3", Label: "Closed HH"},
			{Key: 'Z', Source: drumsURL + "punchy_kick_1.mp3", Label: "Punchy Kick"},
			{Key: 'X', Source: drumsURL + "side_stick_1.mp3", Label: "Side Stick"},
			{Key: 'C', Source: drumsURL + "Brk_Snr.mp3", Label: "Snare"},
		},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "heater"

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"heater", "smooth"}
}

// GetKit returns a kit by name, defaulting to the heater kit if not found
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// Registry builds a registry from the kit's entries
func (k Kit) Registry() (*Registry, error) {
	return NewRegistry(k.Entries[:])
}
