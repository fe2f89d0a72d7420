package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pick/dsp/core"
)

var (
	// ErrInvalidRatio reports a non-positive up or down factor.
	ErrInvalidRatio = fmt.Errorf("%w: resample: invalid ratio", core.ErrConfiguration)
	// ErrInvalidRate reports a non-positive or non-finite sample rate.
	ErrInvalidRate = fmt.Errorf("%w: resample: invalid sample rate", core.ErrConfiguration)
)

// Quality selects the anti-aliasing filter length and window.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

type profile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func profileOf(q Quality) profile {
	switch q {
	case QualityFast:
		return profile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5}
	case QualityBest:
		return profile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9}
	default:
		return profile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures a Resampler.
type Option func(*config)

// WithQuality selects a quality mode. QualityBalanced is the default.
func WithQuality(q Quality) Option {
	return func(c *config) {
		c.quality = q
	}
}

// WithMaxDenominator caps the denominator used to approximate a rate
// ratio. The default is 4096.
func WithMaxDenominator(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDen = n
		}
	}
}

func applyOptions(opts []Option) config {
	c := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// Resampler performs streaming rational rate conversion.
type Resampler struct {
	up, down int
	quality  Quality

	phases      [][]float64
	maxPhaseLen int
	delay       int // filter centre in upsampled samples

	// Upsampled position of the next output is inputIndex*up + phase.
	inputIndex int
	phase      int
	totalIn    int
	emitted    int
	history    []float64
}

// NewRational returns a resampler for the ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}
	g := gcd(up, down)
	up, down = up/g, down/g

	cfg := applyOptions(opts)
	phases, delay, err := design(up, down, profileOf(cfg.quality))
	if err != nil {
		return nil, err
	}

	r := &Resampler{
		up:      up,
		down:    down,
		quality: cfg.quality,
		phases:  phases,
		delay:   delay,
	}
	for _, p := range phases {
		r.maxPhaseLen = max(r.maxPhaseLen, len(p))
	}
	r.Reset()
	return r, nil
}

// NewForRates returns a resampler from inRate to outRate in Hz.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !finitePositive(inRate) || !finitePositive(outRate) {
		return nil, fmt.Errorf("%w: %v Hz to %v Hz", ErrInvalidRate, inRate, outRate)
	}
	cfg := applyOptions(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)
	return NewRational(up, down, opts...)
}

// Resample converts x from inRate to outRate in one shot. Equal rates
// return a copy of x.
func Resample(x []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, nil
	}
	if r.up == r.down {
		return append([]float64(nil), x...), nil
	}
	out := r.Process(x)
	return append(out, r.Flush()...), nil
}

// Reset clears the stream state.
func (r *Resampler) Reset() {
	r.inputIndex = r.delay / r.up
	r.phase = r.delay % r.up
	r.totalIn = 0
	r.emitted = 0
	r.history = r.history[:0]
}

// Ratio returns the reduced conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Quality returns the configured quality mode.
func (r *Resampler) Quality() Quality {
	return r.quality
}

// Process consumes a block and returns every output whose filter span is
// covered by the input seen so far. Outputs lag the input by half the
// filter length; Flush releases the rest.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	out := make([]float64, 0, r.PredictOutputLen(len(input)))

	work := make([]float64, len(r.history)+len(input))
	copy(work, r.history)
	copy(work[len(r.history):], input)

	base := r.totalIn - len(r.history)
	last := r.totalIn + len(input) - 1

	for r.inputIndex <= last {
		var y float64
		for k, c := range r.phases[r.phase] {
			idx := r.inputIndex - k
			if idx < base {
				break
			}
			y += c * work[idx-base]
		}
		out = append(out, y)

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)
	r.emitted += len(out)

	keep := min(max(0, r.maxPhaseLen-1), len(work))
	r.history = append(r.history[:0], work[len(work)-keep:]...)
	return out
}

// Flush returns the outputs held back by the filter lookahead, up to the
// last output at or before the time of the last input sample. The
// resampler must be Reset before it is fed again.
func (r *Resampler) Flush() []float64 {
	if r.totalIn == 0 {
		return nil
	}
	want := (r.totalIn-1)*r.up/r.down + 1 - r.emitted
	if want <= 0 {
		return nil
	}
	out := r.Process(make([]float64, r.delay/r.up+1))
	return out[:min(want, len(out))]
}

// PredictOutputLen returns the number of outputs the next Process call
// produces for inputLen samples.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}
	last := r.totalIn + inputLen - 1
	i, phase := r.inputIndex, r.phase
	n := 0
	for i <= last {
		n++
		phase += r.down
		i += phase / r.up
		phase %= r.up
	}
	return n
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
