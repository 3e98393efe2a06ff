// Command warriorfx renders a WAV file through the genre effect chain.
//
// Usage:
//
//	warriorfx [flags] -in input.wav -out output.wav
//
// Defaults for -genre, -mix, -block and -realtime are read from the
// environment (WARRIOR_GENRE, WARRIOR_MIX, WARRIOR_BLOCK_SIZE,
// WARRIOR_REALTIME), which may be populated from a .env file in the working
// directory.
//
// Examples:
//
//	warriorfx -in dry.wav -out metal.wav -genre Metal -mix 0.6
//	warriorfx -in dry.wav -out live.wav -realtime -block 128
//	warriorfx -in unknown.wav -out out.wav -detect
//
// With -realtime the file is streamed through the low-latency processor at
// real-time pace, as a host would drive it. The result is delayed by the
// processor's block latency and the run reports xruns and call latency.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("could not read .env")
	}

	opts, err := parseFlags(os.Args[1:], envDefaults(os.Getenv))
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Fatal(err)
	}

	s, err := render(opts, logger)
	if err != nil {
		logger.Fatal(err)
	}
	s.log(logger)
}

func parseFlags(args []string, def options) (options, error) {
	fs := flag.NewFlagSet("warriorfx", flag.ContinueOnError)
	opts := def
	fs.StringVar(&opts.in, "in", "", "input WAV file")
	fs.StringVar(&opts.out, "out", "", "output WAV file")
	fs.StringVar(&opts.genre, "genre", def.genre, "genre preset to apply (Rock, Jazz, Metal, ...)")
	fs.Float64Var(&opts.mix, "mix", def.mix, "dry/wet mix in [0, 1]")
	fs.IntVar(&opts.block, "block", def.block, "block size in frames")
	fs.BoolVar(&opts.realtime, "realtime", def.realtime, "stream through the low-latency processor")
	fs.BoolVar(&opts.detect, "detect", false, "run automatic genre detection and report the result")
	fs.Float64Var(&opts.inputGain, "gain-in", 1, "linear input gain")
	fs.Float64Var(&opts.outputGain, "gain-out", 1, "linear output gain")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: warriorfx [flags] -in input.wav -out output.wav\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if err := opts.validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}
