package peak

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/score"
)

// Detector defaults for 100 Hz traces.
const (
	DefaultDistance   = 10000
	DefaultHalfWindow = 100
	DefaultThreshold  = 0.8
)

// Pick is an accepted peak of the target class.
type Pick struct {
	Class  score.Class
	Index  int
	Height float64 // peak value, not the neighborhood mean
}

// Detector picks peaks of one class and arbitrates them against the
// competing classes.
type Detector struct {
	// Distance is the minimum separation in samples between picks.
	Distance int
	// HalfWindow is half the width of the averaging neighborhood.
	HalfWindow int
	// Threshold is the minimum peak height; the maximum is 1.
	Threshold float64
}

// DefaultDetector returns a Detector with the package defaults.
func DefaultDetector() Detector {
	return Detector{
		Distance:   DefaultDistance,
		HalfWindow: DefaultHalfWindow,
		Threshold:  DefaultThreshold,
	}
}

// Validate checks the detector parameters.
func (d Detector) Validate() error {
	if d.Distance <= 0 {
		return fmt.Errorf("%w: peak: distance must be > 0: %d", core.ErrConfiguration, d.Distance)
	}
	if d.HalfWindow <= 0 {
		return fmt.Errorf("%w: peak: half window must be > 0: %d", core.ErrConfiguration, d.HalfWindow)
	}
	if !core.IsProbability(d.Threshold) {
		return fmt.Errorf("%w: peak: threshold must be in [0,1]: %v", core.ErrConfiguration, d.Threshold)
	}
	return nil
}

// Detect returns the accepted picks of target ordered by sample index.
// Every stream must have the same length as target.
func (d Detector) Detect(target score.Stream, others ...score.Stream) ([]Pick, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	n := target.Len()
	for _, o := range others {
		if o.Class.ID == target.Class.ID {
			return nil, fmt.Errorf("%w: peak: class %s listed as its own competitor", core.ErrConfiguration, o.Class)
		}
		if o.Len() != n {
			return nil, fmt.Errorf("%w: peak: stream %s has %d samples, target %s has %d",
				core.ErrConfiguration, o.Class, o.Len(), target.Class, n)
		}
	}

	candidates := Find(target.Values, FindOptions{
		MinHeight:    d.Threshold,
		HasMinHeight: true,
		MaxHeight:    1,
		HasMaxHeight: true,
		Distance:     d.Distance,
	})

	var picks []Pick
	for _, c := range candidates {
		from, to := Neighborhood(c.Index, d.HalfWindow, n)
		if !dominates(target, others, from, to) {
			continue
		}
		picks = append(picks, Pick{Class: target.Class, Index: c.Index, Height: c.Height})
	}
	return picks, nil
}

// Neighborhood returns the averaging span [from, to) for a peak at index p
// in a stream of n samples: 2*half samples starting at p-half, clipped to
// start at 0. A span running past n is moved to end at n-1, leaving the
// last sample out; short streams yield [0, n-1).
func Neighborhood(p, half, n int) (from, to int) {
	width := 2 * half
	from = max(p-half, 0)
	to = from + width
	if to > n {
		to = n - 1
		from = max(to-width, 0)
	}
	return from, to
}

func dominates(target score.Stream, others []score.Stream, from, to int) bool {
	own := mean(target.Values[from:to])
	for _, o := range others {
		if mean(o.Values[from:to]) > own {
			return false
		}
	}
	return true
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return vecmath.Sum(x) / float64(len(x))
}
