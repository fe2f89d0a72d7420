// Package preprocess conditions raw traces before scanning: linear
// detrend, highpass filtering and resampling to the rate the classifier
// was trained on. Steps run in that order.
package preprocess

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/filter"
	"github.com/cwbudde/algo-pick/dsp/resample"
	"github.com/cwbudde/algo-pick/trace"
)

// Config selects the conditioning steps.
type Config struct {
	Detrend bool

	Filter    bool
	Highpass  float64 // corner frequency in Hz
	Order     int
	ZeroPhase bool

	// SampleRate is the output rate in Hz; 0 keeps the input rate.
	SampleRate float64
}

// DefaultConfig detrends, applies a causal 4th order 2 Hz highpass and
// resamples to 100 Hz.
func DefaultConfig() Config {
	return Config{
		Detrend:    true,
		Filter:     true,
		Highpass:   2,
		Order:      4,
		SampleRate: 100,
	}
}

// Validate checks the parameters that do not depend on the trace.
func (c Config) Validate() error {
	if c.Filter {
		if !(c.Highpass > 0) || math.IsInf(c.Highpass, 0) {
			return fmt.Errorf("%w: preprocess: highpass corner must be > 0: %v", core.ErrConfiguration, c.Highpass)
		}
		if c.Order <= 0 || c.Order > filter.MaxOrder {
			return fmt.Errorf("%w: preprocess: order must be in [1, %d]: %d", core.ErrConfiguration, filter.MaxOrder, c.Order)
		}
	}
	if c.SampleRate < 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: preprocess: sample rate must be >= 0: %v", core.ErrConfiguration, c.SampleRate)
	}
	return nil
}

// Apply returns a conditioned copy of t.
func Apply(t *trace.Trace, cfg Config) (*trace.Trace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	x := append([]float64(nil), t.Samples...)
	if cfg.Detrend {
		Detrend(x)
	}
	if cfg.Filter {
		var err error
		if x, err = highpass(x, cfg, t.SampleRate); err != nil {
			return nil, fmt.Errorf("preprocess: %s: %w", t.Channel, err)
		}
	}

	rate := t.SampleRate
	if cfg.SampleRate > 0 && !core.NearlyEqual(cfg.SampleRate, rate, 1e-9) {
		var err error
		if x, err = Resample(x, rate, cfg.SampleRate); err != nil {
			return nil, err
		}
		rate = cfg.SampleRate
	}

	return &trace.Trace{
		Channel:    t.Channel,
		Start:      t.Start,
		SampleRate: rate,
		Samples:    x,
	}, nil
}

// ApplyAll conditions every trace.
func ApplyAll(traces []*trace.Trace, cfg Config) ([]*trace.Trace, error) {
	out := make([]*trace.Trace, len(traces))
	for i, t := range traces {
		p, err := Apply(t, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func highpass(x []float64, cfg Config, rate float64) ([]float64, error) {
	if cfg.ZeroPhase {
		return filter.ZeroPhaseHighpass(x, cfg.Highpass, cfg.Order, rate)
	}
	c, err := filter.ButterworthHighpass(cfg.Highpass, cfg.Order, rate)
	if err != nil {
		return nil, err
	}
	c.ProcessBlock(x)
	return x, nil
}

// Detrend subtracts the least-squares line from x in place.
func Detrend(x []float64) {
	n := len(x)
	if n == 0 {
		return
	}
	if n == 1 {
		x[0] = 0
		return
	}

	// Centre the abscissa so slope and intercept decouple.
	mid := float64(n-1) / 2
	var sy, sty, stt float64
	for i, v := range x {
		ti := float64(i) - mid
		sy += v
		sty += ti * v
		stt += ti * ti
	}
	mean := sy / float64(n)
	slope := sty / stt
	for i := range x {
		x[i] -= mean + slope*(float64(i)-mid)
	}
}

// Resample converts x from inRate to outRate with an anti-aliasing
// polyphase filter. The output covers the same time span:
// floor((len(x)-1)*outRate/inRate)+1 samples, the first at the time of x[0].
func Resample(x []float64, inRate, outRate float64) ([]float64, error) {
	out, err := resample.Resample(x, inRate, outRate)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	return out, nil
}
