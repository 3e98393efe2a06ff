package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmAudio is a decoded file: interleaved samples in [-1, 1] plus the
// format needed to write it back.
type pcmAudio struct {
	samples    []float64
	sampleRate int
	channels   int
	bitDepth   int
}

func (a *pcmAudio) frames() int { return len(a.samples) / a.channels }

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Exp2(float64(bitDepth-1)) - 1, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}

func readWAV(path string) (*pcmAudio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	a := &pcmAudio{
		sampleRate: buf.Format.SampleRate,
		channels:   buf.Format.NumChannels,
		bitDepth:   int(dec.BitDepth),
	}
	if a.channels <= 0 {
		return nil, fmt.Errorf("%s: no channels", path)
	}
	a.samples, err = intsToFloats(buf.Data, a.bitDepth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func writeWAV(path string, a *pcmAudio) (err error) {
	data, err := floatsToInts(a.samples, a.bitDepth)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	const pcmFormat = 1
	enc := wav.NewEncoder(f, a.sampleRate, a.bitDepth, a.channels, pcmFormat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: a.channels, SampleRate: a.sampleRate},
		SourceBitDepth: a.bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return enc.Close()
}

func intsToFloats(data []int, bitDepth int) ([]float64, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / scale
	}
	return out, nil
}

// floatsToInts clips to [-1, 1] and rounds to the nearest code.
func floatsToInts(samples []float64, bitDepth int) ([]int, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(samples))
	for i, v := range samples {
		if math.IsNaN(v) {
			v = 0
		}
		v = math.Max(-1, math.Min(1, v))
		out[i] = int(math.Round(v * scale))
	}
	return out, nil
}
