package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pick/dsp/core"
)

// MaxOrder bounds the Butterworth order accepted by the designers.
const MaxOrder = 16

func validate(freq float64, order int, sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: filter: sample rate must be > 0: %v", core.ErrConfiguration, sampleRate)
	}
	if !(freq > 0) || freq >= sampleRate/2 {
		return fmt.Errorf("%w: filter: corner %v Hz outside (0, %v)", core.ErrConfiguration, freq, sampleRate/2)
	}
	if order <= 0 || order > MaxOrder {
		return fmt.Errorf("%w: filter: order must be in [1, %d]: %d", core.ErrConfiguration, MaxOrder, order)
	}
	return nil
}

// Highpass designs an RBJ highpass biquad with quality q.
func Highpass(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)

	a0 := 1 + alpha
	return Coefficients{
		B0: (1 + cw) / 2 / a0,
		B1: -(1 + cw) / a0,
		B2: (1 + cw) / 2 / a0,
		A1: -2 * cw / a0,
		A2: (1 - alpha) / a0,
	}
}

// ButterworthHighpass designs a highpass Butterworth cascade of the given
// order. Odd orders end with a first-order section (B2 = A2 = 0).
func ButterworthHighpass(freq float64, order int, sampleRate float64) (*Chain, error) {
	if err := validate(freq, order, sampleRate); err != nil {
		return nil, err
	}

	coeffs := make([]Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		coeffs = append(coeffs, Highpass(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		coeffs = append(coeffs, firstOrderHighpass(freq, sampleRate))
	}
	return NewChain(coeffs), nil
}

func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))
	return 1 / (2 * math.Sin(theta))
}

func firstOrderHighpass(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)
	return Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}
