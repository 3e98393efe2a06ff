package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/RJF-72/WarriorPlug-Ins/genre"
)

const (
	defaultBlock = 256
	defaultMix   = 0.5
	maxBlock     = 1 << 16
)

type options struct {
	in, out    string
	genre      string
	mix        float64
	block      int
	realtime   bool
	detect     bool
	inputGain  float64
	outputGain float64
}

// envDefaults builds flag defaults from the WARRIOR_* variables. Values that
// do not parse are ignored.
func envDefaults(getenv func(string) string) options {
	opts := options{genre: genre.Rock.String(), mix: defaultMix, block: defaultBlock}
	if v := getenv("WARRIOR_GENRE"); v != "" {
		opts.genre = v
	}
	if v, err := strconv.ParseFloat(getenv("WARRIOR_MIX"), 64); err == nil {
		opts.mix = v
	}
	if v, err := strconv.Atoi(getenv("WARRIOR_BLOCK_SIZE")); err == nil {
		opts.block = v
	}
	if v, err := strconv.ParseBool(getenv("WARRIOR_REALTIME")); err == nil {
		opts.realtime = v
	}
	return opts
}

func (o options) validate() error {
	if o.in == "" || o.out == "" {
		return errors.New("both -in and -out are required")
	}
	if _, ok := genre.Parse(o.genre); !ok {
		return fmt.Errorf("unknown genre %q", o.genre)
	}
	if o.mix < 0 || o.mix > 1 {
		return fmt.Errorf("mix must be in [0, 1]: %g", o.mix)
	}
	if o.block <= 0 || o.block > maxBlock {
		return fmt.Errorf("block size must be in [1, %d]: %d", maxBlock, o.block)
	}
	if o.inputGain < 0 || o.inputGain > 1 || o.outputGain < 0 || o.outputGain > 1 {
		return errors.New("gains must be in [0, 1]")
	}
	return nil
}

func (o options) parsedGenre() genre.Genre {
	g, _ := genre.Parse(o.genre)
	return g
}
