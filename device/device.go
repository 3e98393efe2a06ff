// Package device maps connected audio interfaces to instrument profiles and
// turns a profile into an initial genre and input gain.
//
// Enumeration itself is left to a Scanner; this package only diffs scans
// and identifies what it sees.
package device

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RJF-72/WarriorPlug-Ins/genre"
)

// Device is one enumerated audio interface.
type Device struct {
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
	Serial       string
	Channels     int
	SampleRate   int
	Path         string
}

// Key identifies a device across scans by vendor, product and serial.
func (d Device) Key() string {
	return fmt.Sprintf("%04x:%04x:%s", d.VendorID, d.ProductID, d.Serial)
}

// Profile describes an instrument class and the settings it starts with.
type Profile struct {
	Name              string
	InstrumentType    string
	VendorIDs         []uint16
	ProductIDs        []uint16
	PreferredRates    []int
	PreferredChannels int
	SuggestedGain     float64
	SuggestedGenre    string
}

// Matches reports whether d's vendor or product ID is listed in p.
func (p Profile) Matches(d Device) bool {
	return slices.Contains(p.VendorIDs, d.VendorID) || slices.Contains(p.ProductIDs, d.ProductID)
}

// Suggestion returns the genre and gain p recommends.
func (p Profile) Suggestion() Suggestion {
	return Suggestion{Genre: p.SuggestedGenre, Gain: p.SuggestedGain}
}

// DefaultProfiles returns the built-in guitar, microphone and keyboard
// profiles.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:              "Electric Guitar Interface",
			InstrumentType:    "guitar",
			VendorIDs:         []uint16{0x041e, 0x0763, 0x0582},
			ProductIDs:        []uint16{0x3f02, 0x2080, 0x012a},
			PreferredRates:    []int{44100, 48000},
			PreferredChannels: 1,
			SuggestedGain:     0.7,
			SuggestedGenre:    "rock",
		},
		{
			Name:              "USB Microphone",
			InstrumentType:    "microphone",
			VendorIDs:         []uint16{0x0b05, 0x17cc, 0x046d},
			PreferredRates:    []int{44100, 48000, 96000},
			PreferredChannels: 1,
			SuggestedGain:     0.6,
			SuggestedGenre:    "vocal",
		},
		{
			Name:              "MIDI Keyboard",
			InstrumentType:    "keyboard",
			VendorIDs:         []uint16{0x09e8, 0x0944, 0x15ca},
			PreferredRates:    []int{44100, 48000},
			PreferredChannels: 2,
			SuggestedGain:     0.8,
			SuggestedGenre:    "electronic",
		},
	}
}

// Identifier matches devices against an ordered profile list.
type Identifier struct {
	profiles []Profile
}

// NewIdentifier returns an identifier with the default profiles followed by
// extra.
func NewIdentifier(extra ...Profile) *Identifier {
	return &Identifier{profiles: append(DefaultProfiles(), extra...)}
}

// Add appends a custom profile. Earlier profiles win on overlap.
func (id *Identifier) Add(p Profile) { id.profiles = append(id.profiles, p) }

// Identify returns the first profile matching d, or a generic profile that
// suggests Rock at gain 0.5.
func (id *Identifier) Identify(d Device) Profile {
	for _, p := range id.profiles {
		if p.Matches(d) {
			return p
		}
	}
	return Profile{
		Name:              "Unknown Instrument",
		InstrumentType:    "generic",
		PreferredRates:    []int{44100, 48000, 96000},
		PreferredChannels: d.Channels,
		SuggestedGain:     0.5,
		SuggestedGenre:    "rock",
	}
}

// Suggestion is the device layer's whole contribution to the engine: a
// genre name and an input gain, consumed once when a device connects.
type Suggestion struct {
	Genre string
	Gain  float64
}

// GenreSetter is anything that can switch genre, such as genre.Engine or
// plugin.Host.
type GenreSetter interface {
	SetGenre(genre.Genre)
}

// GainSetter is implemented by targets that also take the suggested input
// gain.
type GainSetter interface {
	SetInputGain(gain float64)
}

// ApplySuggestion selects the suggested genre on t when the name is known
// and forwards the gain when t is a GainSetter. Unknown genre names such as
// "vocal" leave the genre alone. It reports whether the genre was applied.
func ApplySuggestion(t GenreSetter, s Suggestion) bool {
	if gs, ok := t.(GainSetter); ok {
		gs.SetInputGain(s.Gain)
	}
	g, ok := genre.Parse(strings.TrimSpace(s.Genre))
	if !ok {
		return false
	}
	t.SetGenre(g)
	return true
}
