package filter

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/mjibson/go-dsp/dsputils"
)

// ZeroPhaseHighpass returns x highpass filtered without phase shift.
//
// The signal is zero padded to a power of two at least twice its length
// and every bin is scaled by 1/(1+(freq/f)^(2*order)), the squared
// magnitude of an analog Butterworth highpass. DC is removed.
func ZeroPhaseHighpass(x []float64, freq float64, order int, sampleRate float64) ([]float64, error) {
	if err := validate(freq, order, sampleRate); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, nil
	}

	n := dsputils.NextPowerOf2(2 * len(x))
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("filter: fft plan: %w", err)
	}

	src := dsputils.ZeroPad(dsputils.ToComplex(x), n)
	spec := make([]complex128, n)
	if err := plan.Forward(spec, src); err != nil {
		return nil, fmt.Errorf("filter: forward fft: %w", err)
	}

	spec[0] = 0
	for k := 1; k < n; k++ {
		f := float64(min(k, n-k)) * sampleRate / float64(n)
		g := 1 / (1 + math.Pow(freq/f, float64(2*order)))
		spec[k] *= complex(g, 0)
	}

	if err := plan.Inverse(src, spec); err != nil {
		return nil, fmt.Errorf("filter: inverse fft: %w", err)
	}
	out := make([]float64, len(x))
	for i := range out {
		out[i] = real(src[i])
	}
	return out, nil
}
