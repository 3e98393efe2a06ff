package main

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/analysis"
	"github.com/RJF-72/WarriorPlug-Ins/dsp/realtime"
	"github.com/RJF-72/WarriorPlug-Ins/genre"
	"github.com/RJF-72/WarriorPlug-Ins/plugin"
)

type summary struct {
	in, out    string
	genre      genre.Genre
	frames     int
	sampleRate int
	channels   int
	elapsed    time.Duration

	detect   bool
	detected genre.Genre
	features analysis.Features

	realtime bool
	stats    realtime.Stats
}

func (s summary) log(l logrus.FieldLogger) {
	fields := logrus.Fields{
		"in":         s.in,
		"out":        s.out,
		"genre":      s.genre.String(),
		"frames":     s.frames,
		"sampleRate": s.sampleRate,
		"channels":   s.channels,
		"elapsed":    s.elapsed.Round(time.Millisecond),
	}
	if s.detect {
		fields["detected"] = s.detected.String()
		if !s.realtime {
			fields["rms"] = s.features.RMS
			fields["zcr"] = s.features.ZeroCrossingRate
		}
	}
	if s.realtime {
		fields["overruns"] = s.stats.Overruns
		fields["underruns"] = s.stats.Underruns
		fields["avgLatency"] = s.stats.AverageLatency
		fields["p99Latency"] = s.stats.P99Latency
	}
	l.WithFields(fields).Info("render complete")
}

func render(opts options, logger logrus.FieldLogger) (summary, error) {
	a, err := readWAV(opts.in)
	if err != nil {
		return summary{}, err
	}

	start := time.Now()
	s := summary{
		in:         opts.in,
		out:        opts.out,
		genre:      opts.parsedGenre(),
		frames:     a.frames(),
		sampleRate: a.sampleRate,
		channels:   a.channels,
		detect:     opts.detect,
		realtime:   opts.realtime,
	}
	if opts.realtime {
		err = renderRealtime(a, opts, logger, &s)
	} else {
		err = renderOffline(a, opts, logger, &s)
	}
	if err != nil {
		return summary{}, err
	}
	s.elapsed = time.Since(start)

	if err := writeWAV(opts.out, a); err != nil {
		return summary{}, err
	}
	return s, nil
}

// renderOffline runs the engine over a in place, block by block.
func renderOffline(a *pcmAudio, opts options, logger logrus.FieldLogger, s *summary) error {
	eng, err := genre.New(float64(a.sampleRate), genre.WithLogger(logger))
	if err != nil {
		return err
	}
	eng.SetGenre(s.genre)
	eng.SetDryWetMix(opts.mix)
	eng.SetAutoGenreDetection(opts.detect)
	eng.Prepare(opts.block, a.channels)

	step := opts.block * a.channels
	for off := 0; off < len(a.samples); off += step {
		block := a.samples[off:min(off+step, len(a.samples))]
		vecmath.ScaleBlock(block, block, opts.inputGain)
		eng.ProcessBlock(block, a.channels)
		vecmath.ScaleBlock(block, block, opts.outputGain)
	}

	s.detected = eng.DetectedGenre()
	s.features = eng.LastFeatures()
	return nil
}

// renderRealtime streams a through a plugin host at real-time pace and
// replaces its samples with what the host returned.
func renderRealtime(a *pcmAudio, opts options, logger logrus.FieldLogger, s *summary) error {
	h, err := plugin.New(plugin.WithLogger(logger))
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.Prepare(float64(a.sampleRate), opts.block, a.channels); err != nil {
		return fmt.Errorf("prepare host: %w", err)
	}
	h.SetGenre(s.genre)
	h.SetParameter(plugin.ParamMix, opts.mix)
	h.SetParameter(plugin.ParamInputGain, opts.inputGain)
	h.SetParameter(plugin.ParamOutputGain, opts.outputGain)
	h.SetAutoGenreDetection(opts.detect)

	step := opts.block * a.channels
	period := time.Duration(float64(time.Second) * float64(opts.block) / float64(a.sampleRate))
	in := make([]float64, step)
	out := make([]float64, step)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for off := 0; off < len(a.samples); off += step {
		n := copy(in, a.samples[off:])
		clear(in[n:])
		if err := h.Process(in, out, opts.block); err != nil {
			return err
		}
		copy(a.samples[off:off+n], out)
		<-ticker.C
	}

	s.detected = h.DetectedGenre()
	s.stats = h.Stats()
	return nil
}
