package distortion

import (
	"fmt"
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/biquad"
	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/design"
)

const (
	stagePreCutHz  = 80.0
	stagePostCutHz = 8000.0
	stageFilterQ   = 0.7
)

// Mode selects the curve used by a Stage.
type Mode int

const (
	Overdrive Mode = iota
	Fuzz
	TubeMode
	BitcrushMode
	WaveshaperMode
)

func (m Mode) String() string {
	switch m {
	case Overdrive:
		return "Overdrive"
	case Fuzz:
		return "Fuzz"
	case TubeMode:
		return "Tube"
	case BitcrushMode:
		return "Bitcrush"
	case WaveshaperMode:
		return "Waveshaper"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Stage is one gain stage: an 80 Hz high-pass, the selected curve, an 8 kHz
// low-pass and an output gain.
type Stage struct {
	pre  *biquad.Filter
	post *biquad.Filter

	mode      Mode
	drive     float64
	gain      float64
	asymmetry float64
}

// NewStage returns an Overdrive stage with unity drive and gain.
func NewStage(sampleRate float64) (*Stage, error) {
	pre, err := design.Biquad(design.HighPass, stagePreCutHz, stageFilterQ, 0, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("distortion stage: %w", err)
	}
	post, err := design.Biquad(design.LowPass, math.Min(stagePostCutHz, 0.45*sampleRate), stageFilterQ, 0, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("distortion stage: %w", err)
	}
	return &Stage{
		pre:   biquad.New(pre),
		post:  biquad.New(post),
		mode:  Overdrive,
		drive: 1,
		gain:  1,
	}, nil
}

// SetMode selects the shaping curve.
func (s *Stage) SetMode(m Mode) { s.mode = m }

// Mode returns the shaping curve.
func (s *Stage) Mode() Mode { return s.mode }

// SetDrive sets the pre-shaper gain. For Bitcrush it is the bit depth.
func (s *Stage) SetDrive(drive float64) { s.drive = drive }

// SetGain sets the linear output gain.
func (s *Stage) SetGain(gain float64) { s.gain = gain }

// SetAsymmetry sets the even-order term used by the Tube curve.
func (s *Stage) SetAsymmetry(a float64) { s.asymmetry = a }

// ProcessSample runs one sample through the stage.
func (s *Stage) ProcessSample(x float64) float64 {
	x = s.pre.ProcessSample(x)

	var y float64
	switch s.mode {
	case Fuzz:
		y = FastTanh(x * s.drive * 2)
	case TubeMode:
		y = Tube(x, s.drive, s.asymmetry)
	case BitcrushMode:
		y = Bitcrush(x, s.drive)
	case WaveshaperMode:
		y = Waveshape(x, s.drive)
	default:
		y = SoftClip(x*s.drive, DefaultSoftClipThreshold)
	}

	return s.post.ProcessSample(y) * s.gain
}

// Reset clears the filter history.
func (s *Stage) Reset() {
	s.pre.Reset()
	s.post.Reset()
}
