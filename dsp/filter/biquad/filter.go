package biquad

// Coefficients holds a biquad transfer function normalized so that a0 == 1.
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Identity passes the input through unchanged.
var Identity = Coefficients{B0: 1}

// Filter is a Direct Form I biquad: coefficients plus two samples each of
// input and output history.
type Filter struct {
	Coefficients

	x1, x2 float64
	y1, y2 float64
}

// New returns a Filter with the given coefficients and cleared history.
func New(c Coefficients) *Filter {
	return &Filter{Coefficients: c}
}

// SetCoefficients replaces the coefficients and keeps the history, so a
// parameter sweep does not click.
func (f *Filter) SetCoefficients(c Coefficients) {
	f.Coefficients = c
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	y := f.B0*x + f.B1*f.x1 + f.B2*f.x2 - f.A1*f.y1 - f.A2*f.y2

	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y

	return y
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the history. Coefficients are kept.
func (f *Filter) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}
