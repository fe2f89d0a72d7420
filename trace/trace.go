// Package trace holds per-channel amplitude signals with their timing and
// aligns channel groups to their common time span.
package trace

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-pick/dsp/core"
)

// Trace is one channel of evenly sampled amplitudes.
type Trace struct {
	Channel    string
	Start      time.Time
	SampleRate float64 // Hz
	Samples    []float64
}

// Validate reports whether t is usable as a channel signal: a positive
// finite rate and at least one sample, all of them finite.
func (t *Trace) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil trace", core.ErrInputType)
	}
	if len(t.Samples) == 0 {
		return fmt.Errorf("%w: trace %q has no samples", core.ErrInputType, t.Channel)
	}
	if !(t.SampleRate > 0) || math.IsInf(t.SampleRate, 0) {
		return fmt.Errorf("%w: trace %q has sample rate %v", core.ErrInputType, t.Channel, t.SampleRate)
	}
	for i, v := range t.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: trace %q sample %d is %v", core.ErrInputType, t.Channel, i, v)
		}
	}
	return nil
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.Samples)
}

// Delta returns the sample spacing.
func (t *Trace) Delta() time.Duration {
	return seconds(1 / t.SampleRate)
}

// End returns the timestamp of the last sample.
func (t *Trace) End() time.Time {
	if len(t.Samples) == 0 {
		return t.Start
	}
	return t.TimeAt(len(t.Samples) - 1)
}

// TimeAt returns the timestamp of sample i.
func (t *Trace) TimeAt(i int) time.Time {
	return t.Start.Add(seconds(float64(i) / t.SampleRate))
}

// Slice returns a copy of the samples whose timestamps fall within
// [start, end]. The returned trace starts at the first kept sample.
// An empty window yields a trace without samples.
func (t *Trace) Slice(start, end time.Time) *Trace {
	from := 0
	if start.After(t.Start) {
		from = int(math.Ceil(start.Sub(t.Start).Seconds()*t.SampleRate - sliceTolerance))
	}
	to := len(t.Samples) - 1
	if end.Before(t.End()) {
		to = int(math.Floor(end.Sub(t.Start).Seconds()*t.SampleRate + sliceTolerance))
	}
	if from < 0 {
		from = 0
	}
	if to >= len(t.Samples) {
		to = len(t.Samples) - 1
	}

	out := &Trace{
		Channel:    t.Channel,
		Start:      t.TimeAt(from),
		SampleRate: t.SampleRate,
	}
	if to >= from {
		out.Samples = append([]float64(nil), t.Samples[from:to+1]...)
	}
	return out
}

// sliceTolerance absorbs float error when a span boundary falls exactly on
// a sample, measured in samples.
const sliceTolerance = 1e-6

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
