package fx

import (
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/distortion"
)

// Amp runs one distortion.Amp per channel. mode picks the first stage's
// curve by index (Overdrive, Fuzz, Tube, Bitcrush, Waveshaper) and cabinet
// switches the speaker filter on at 0.5 and above.
type Amp struct {
	base

	sampleRate float64

	inputGain  float64
	drive      float64
	mode       float64
	bass       float64
	mid        float64
	treble     float64
	cabinet    float64
	cabinetHz  float64
	outputGain float64

	amps []*distortion.Amp
}

// NewAmp returns an Amp with drive 5 in Overdrive, a flat tone stack and the
// cabinet on at 4 kHz.
func NewAmp(sampleRate float64) (*Amp, error) {
	// Validate the rate once so per-channel construction cannot fail.
	first, err := distortion.NewAmp(sampleRate)
	if err != nil {
		return nil, err
	}
	a := &Amp{
		sampleRate: sampleRate,
		drive:      5,
		cabinet:    1,
		cabinetHz:  4000,
		amps:       []*distortion.Amp{first},
	}
	a.base = newBase(NameAmp,
		control{name: "inputGain", min: -24, max: 24, unit: "dB", value: &a.inputGain},
		control{name: "drive", min: 1, max: 20, value: &a.drive},
		control{name: "mode", min: 0, max: float64(distortion.WaveshaperMode), value: &a.mode},
		control{name: "bass", min: -12, max: 12, unit: "dB", value: &a.bass},
		control{name: "mid", min: -12, max: 12, unit: "dB", value: &a.mid},
		control{name: "treble", min: -12, max: 12, unit: "dB", value: &a.treble},
		control{name: "cabinet", min: 0, max: 1, value: &a.cabinet},
		control{name: "cabinetFreq", min: 1000, max: 8000, unit: "Hz", value: &a.cabinetHz},
		control{name: "outputGain", min: -24, max: 24, unit: "dB", value: &a.outputGain},
	)
	a.configure(first)
	return a, nil
}

// SetParameter sets one amp control.
func (a *Amp) SetParameter(name string, value float64) {
	if !a.set(name, value) {
		return
	}
	if name == "mode" {
		a.mode = math.Round(a.mode)
	}
	for _, amp := range a.amps {
		a.configure(amp)
	}
}

// ProcessAudio implements Effect.
func (a *Amp) ProcessAudio(in, out []float64, frames, channels int) {
	n := frames * channels
	if a.bypass(in, out, n) || n == 0 {
		return
	}
	a.ensureChannels(channels)
	for i, x := range in[:n] {
		out[i] = a.amps[i%channels].ProcessSample(x)
	}
}

// Reset clears the history of every channel.
func (a *Amp) Reset() {
	for _, amp := range a.amps {
		amp.Reset()
	}
}

func (a *Amp) ensureChannels(channels int) {
	for len(a.amps) < channels {
		amp, err := distortion.NewAmp(a.sampleRate)
		if err != nil {
			return
		}
		a.configure(amp)
		a.amps = append(a.amps, amp)
	}
}

// configure copies the clamped controls onto amp. The ranges are inside
// what distortion.Amp accepts, so the setters cannot fail.
func (a *Amp) configure(amp *distortion.Amp) {
	amp.SetInputGain(a.inputGain)
	amp.SetOutputGain(a.outputGain)
	st := amp.Stage(0)
	st.SetMode(distortion.Mode(a.mode))
	st.SetDrive(a.drive)
	_ = amp.SetToneStack(a.bass, a.mid, a.treble)
	_ = amp.SetCabinet(a.cabinet >= 0.5, a.cabinetHz)
}
