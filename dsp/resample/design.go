package resample

import (
	"fmt"
	"math"
)

// design returns the polyphase branches of a Kaiser-windowed sinc lowpass
// with an odd number of taps, and its centre in upsampled samples. Branch p
// holds taps p, p+up, p+2*up, ...
func design(up, down int, p profile) ([][]float64, int, error) {
	delay := p.tapsPerPhase * up / 2
	n := 2*delay + 1

	fc := 0.5 / float64(max(up, down)) * p.cutoffScale
	taps := make([]float64, n)
	var sum float64
	for i := range taps {
		t := float64(i - delay)
		taps[i] = 2 * fc * sinc(2*fc*t) * kaiser(i, n, p.kaiserBeta)
		sum += taps[i]
	}
	if sum == 0 {
		return nil, 0, fmt.Errorf("%w: zero-sum filter for %d/%d", ErrInvalidRatio, up, down)
	}

	// Zero stuffing divides the level by up.
	gain := float64(up) / sum
	phases := make([][]float64, up)
	for ph := range phases {
		for i := ph; i < n; i += up {
			phases[ph] = append(phases[ph], taps[i]*gain)
		}
	}
	return phases, delay, nil
}

// approximateRatio returns num/den close to v with den <= maxDen, from the
// continued fraction expansion of v.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}
	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v
	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
		a := math.Floor(x)
		q2 := a*q1 + q0
		if q2 > float64(maxDen) {
			break
		}
		p0, p1 = p1, a*p1+p0
		q0, q1 = q1, q2
	}
	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}
	t := 2*float64(i)/float64(n-1) - 1
	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the modified Bessel function of order zero by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4
	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
