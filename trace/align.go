package trace

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-pick/dsp/core"
)

// AlignmentError reports a channel group that cannot be brought onto a
// common time span.
type AlignmentError struct {
	Start  time.Time // latest start across channels
	End    time.Time // earliest end across channels
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Reason != "" {
		return "trace: " + e.Reason
	}
	return fmt.Sprintf("trace: no common span: latest start %s is not before earliest end %s",
		e.Start.Format(time.RFC3339Nano), e.End.Format(time.RFC3339Nano))
}

// Unwrap classifies the error as core.ErrAlignment.
func (e *AlignmentError) Unwrap() error {
	return core.ErrAlignment
}

// Group is a set of channels sharing sample rate, start time and length.
type Group []*Trace

// Len returns the per-channel sample count.
func (g Group) Len() int {
	if len(g) == 0 {
		return 0
	}
	return g[0].Len()
}

// Start returns the common start time.
func (g Group) Start() time.Time {
	if len(g) == 0 {
		return time.Time{}
	}
	return g[0].Start
}

// SampleRate returns the common sample rate.
func (g Group) SampleRate() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[0].SampleRate
}

// Channels returns the sample slices in channel order.
func (g Group) Channels() [][]float64 {
	out := make([][]float64, len(g))
	for i, t := range g {
		out[i] = t.Samples
	}
	return out
}

// Align trims traces to the span they all cover: from the latest start to
// the earliest end. Channels are then cut to the shortest resulting length
// so that every channel has the same number of samples. The inputs are not
// modified.
func Align(traces ...*Trace) (Group, error) {
	if len(traces) == 0 {
		return nil, fmt.Errorf("%w: no traces", core.ErrInputType)
	}
	for _, t := range traces {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	rate := traces[0].SampleRate
	start, end := traces[0].Start, traces[0].End()
	for _, t := range traces[1:] {
		if !core.NearlyEqual(t.SampleRate, rate, 1e-9) {
			return nil, &AlignmentError{Reason: fmt.Sprintf(
				"sample rate mismatch: %q has %v Hz, %q has %v Hz",
				traces[0].Channel, rate, t.Channel, t.SampleRate)}
		}
		if t.Start.After(start) {
			start = t.Start
		}
		if e := t.End(); e.Before(end) {
			end = e
		}
	}
	if !start.Before(end) {
		return nil, &AlignmentError{Start: start, End: end}
	}

	group := make(Group, len(traces))
	n := -1
	for i, t := range traces {
		group[i] = t.Slice(start, end)
		if l := group[i].Len(); n < 0 || l < n {
			n = l
		}
	}
	if n == 0 {
		return nil, &AlignmentError{Start: start, End: end, Reason: "common span holds no samples"}
	}
	for _, t := range group {
		t.Samples = t.Samples[:n:n]
	}

	return group, nil
}
