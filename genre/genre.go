// Package genre drives an effect chain from per-genre presets.
//
// An Engine owns an ordered chain of fx effects (EQ, Distortion, Compressor
// and Reverb by default), blends its output with the dry input and can
// classify incoming audio into a Genre from simple block features. Presets
// come from an immutable Catalog shared between engines.
package genre

import "strings"

// Genre names a musical style.
type Genre int

const (
	Rock Genre = iota
	Jazz
	Blues
	Electronic
	Classical
	Country
	Metal
	Funk
	Reggae
	Pop
	HipHop
	Folk
	Custom
)

var genreNames = [...]string{
	Rock:       "Rock",
	Jazz:       "Jazz",
	Blues:      "Blues",
	Electronic: "Electronic",
	Classical:  "Classical",
	Country:    "Country",
	Metal:      "Metal",
	Funk:       "Funk",
	Reggae:     "Reggae",
	Pop:        "Pop",
	HipHop:     "Hip-Hop",
	Folk:       "Folk",
	Custom:     "Custom",
}

// String returns the display name. Values outside the known set are
// "Custom".
func (g Genre) String() string {
	if g < Rock || g > Custom {
		return genreNames[Custom]
	}
	return genreNames[g]
}

// Parse maps a display name to its Genre, ignoring case.
func Parse(name string) (Genre, bool) {
	name = strings.TrimSpace(name)
	for g, s := range genreNames {
		if strings.EqualFold(s, name) {
			return Genre(g), true
		}
	}
	return Rock, false
}

// Available returns every selectable genre in declaration order. Custom is
// not listed.
func Available() []Genre {
	out := make([]Genre, 0, int(Custom))
	for g := Rock; g < Custom; g++ {
		out = append(out, g)
	}
	return out
}
