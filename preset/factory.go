package preset

import (
	"github.com/google/uuid"

	"github.com/RJF-72/WarriorPlug-Ins/fx"
	"github.com/RJF-72/WarriorPlug-Ins/genre"
)

const (
	// FactoryCategory is the category of the built-in presets.
	FactoryCategory = "Factory"

	factoryAuthor  = "Warrior Audio"
	factoryVersion = "1.0"
	factoryRating  = 5.0
)

// factoryNamespace seeds the name-based IDs of factory presets so they are
// stable across runs.
var factoryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/RJF-72/WarriorPlug-Ins/presets/factory"))

type factorySpec struct {
	name        string
	description string
	genre       genre.Genre
	params      []genre.ParameterValue
}

func pv(effect, name string, v float64) genre.ParameterValue {
	return genre.ParameterValue{Effect: effect, Name: name, Value: v}
}

var factorySpecs = []factorySpec{
	{
		name:        "Rock Classic",
		description: "Classic rock sound with moderate distortion",
		genre:       genre.Rock,
		params: []genre.ParameterValue{
			pv(fx.NameDistortion, "drive", 0.6),
			pv(fx.NameDistortion, "tone", 0.7),
			pv(fx.NameDistortion, "level", 0.8),
			pv(fx.NameReverb, "roomSize", 0.4),
			pv(fx.NameReverb, "wetLevel", 0.2),
		},
	},
	{
		name:        "Jazz Clean",
		description: "Warm, clean jazz tone",
		genre:       genre.Jazz,
		params: []genre.ParameterValue{
			pv(fx.NameCompressor, "threshold", 0.8),
			pv(fx.NameCompressor, "ratio", 2),
			pv(fx.NameReverb, "roomSize", 0.6),
			pv(fx.NameReverb, "wetLevel", 0.3),
		},
	},
	{
		name:        "Metal Mayhem",
		description: "High-gain metal sound",
		genre:       genre.Metal,
		params: []genre.ParameterValue{
			pv(fx.NameDistortion, "drive", 0.9),
			pv(fx.NameDistortion, "tone", 0.8),
			pv(fx.NameCompressor, "threshold", 0.5),
			pv(fx.NameCompressor, "ratio", 6),
			pv(fx.NameEQ, "lowGain", 0.3),
			pv(fx.NameEQ, "highGain", 0.4),
		},
	},
	{
		name:        "Blues Breaker",
		description: "Vintage blues overdrive",
		genre:       genre.Blues,
		params: []genre.ParameterValue{
			pv(fx.NameDistortion, "drive", 0.4),
			pv(fx.NameDistortion, "tone", 0.6),
			pv(fx.NameDistortion, "level", 0.7),
			pv(fx.NameEQ, "midGain", 0.2),
		},
	},
	{
		name:        "Electronic Edge",
		description: "Modern electronic processing",
		genre:       genre.Electronic,
		params: []genre.ParameterValue{
			pv(fx.NameCompressor, "threshold", 0.6),
			pv(fx.NameCompressor, "ratio", 4),
			pv(fx.NameEQ, "highGain", 0.5),
			pv(fx.NameReverb, "roomSize", 0.8),
		},
	},
}

func (s factorySpec) preset() Preset {
	distortion := s.genre == genre.Rock || s.genre == genre.Metal || s.genre == genre.Blues
	return Preset{
		ID:          uuid.NewSHA1(factoryNamespace, []byte(s.name)),
		Name:        s.name,
		Description: s.description,
		Category:    FactoryCategory,
		Author:      factoryAuthor,
		Version:     factoryVersion,
		Genre:       s.genre,
		Parameters:  append([]genre.ParameterValue(nil), s.params...),
		EffectStates: map[string]bool{
			fx.NameEQ:         true,
			fx.NameDistortion: distortion,
			fx.NameCompressor: true,
			fx.NameReverb:     true,
		},
		Rating: factoryRating,
	}
}
