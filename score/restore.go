package score

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/interp"
)

var errNoScores = errors.New("score: no window scores to restore")

// Fill selects the value of samples outside the span covered by window
// boundaries: before the first anchor and after the last assigned sample.
type Fill int

const (
	// FillHold extends the nearest window score outward.
	FillHold Fill = iota
	// FillZero leaves uncovered samples at zero.
	FillZero
)

func (f Fill) String() string {
	switch f {
	case FillHold:
		return "hold"
	case FillZero:
		return "zero"
	default:
		return fmt.Sprintf("Fill(%d)", int(f))
	}
}

// ParseFill maps a configuration name to a Fill.
func ParseFill(name string) (Fill, error) {
	switch name {
	case "hold", "":
		return FillHold, nil
	case "zero":
		return FillZero, nil
	default:
		return 0, fmt.Errorf("%w: score: unknown fill %q", core.ErrConfiguration, name)
	}
}

// RestoreOption configures Restore.
type RestoreOption func(*restoreConfig)

type restoreConfig struct {
	offset int
	fill   Fill
}

// WithOffset anchors the score of window i at sample i*shift+offset
// instead of the window start. An offset of half the window length places
// scores at window centres.
func WithOffset(offset int) RestoreOption {
	return func(c *restoreConfig) {
		c.offset = offset
	}
}

// WithFill selects the policy for samples not covered by window anchors.
func WithFill(f Fill) RestoreOption {
	return func(c *restoreConfig) {
		c.fill = f
	}
}

// Restore upsamples window-rate scores to length samples.
//
// For each pair of consecutive windows i-1 and i, shift+1 points are
// interpolated linearly between their scores and the first shift of them
// are written to samples [a(i-1), a(i)), where a(i) = i*shift+offset. A
// segment reaching or passing the end is clipped to end at length-1. The
// last window's anchor receives its score, so every anchor inside the
// output holds its window score exactly.
func Restore(values []float64, length, shift int, opts ...RestoreOption) ([]float64, error) {
	out := make([]float64, max(length, 0))
	if err := RestoreInto(out, values, shift, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RestoreInto is Restore writing into dst; len(dst) is the target length.
func RestoreInto(dst, values []float64, shift int, opts ...RestoreOption) error {
	cfg := restoreConfig{fill: FillHold}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if shift <= 0 {
		return fmt.Errorf("%w: score: shift must be > 0: %d", core.ErrConfiguration, shift)
	}
	if cfg.offset < 0 {
		return fmt.Errorf("%w: score: offset must be >= 0: %d", core.ErrConfiguration, cfg.offset)
	}
	if cfg.fill != FillHold && cfg.fill != FillZero {
		return fmt.Errorf("%w: score: unknown fill %d", core.ErrConfiguration, int(cfg.fill))
	}
	if len(values) == 0 {
		return errNoScores
	}

	length := len(dst)
	core.Zero(dst)
	if length == 0 {
		return nil
	}

	anchor := func(i int) int { return i*shift + cfg.offset }
	seg := make([]float64, shift+1)
	lo, hi := min(anchor(0), length), 0

	for i := 1; i < len(values); i++ {
		start, end := anchor(i-1), anchor(i)
		if start >= length {
			break
		}
		if end >= length {
			end = length - 1
		}
		if end <= start {
			continue
		}
		interp.LinspaceInto(seg, values[i-1], values[i])
		copy(dst[start:end], seg[:end-start])
		hi = end
	}
	if last := anchor(len(values) - 1); last < length {
		dst[last] = values[len(values)-1]
		hi = last + 1
	}

	if cfg.fill == FillHold {
		core.Fill(dst[:lo], values[0])
		hi = max(hi, lo)
		if hi > 0 {
			core.Fill(dst[hi:], dst[hi-1])
		}
	}
	return nil
}

// RestoreStreams restores every stream to length samples.
func RestoreStreams(streams []Stream, length, shift int, opts ...RestoreOption) ([]Stream, error) {
	out := make([]Stream, len(streams))
	for i, s := range streams {
		v, err := Restore(s.Values, length, shift, opts...)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", s.Class, err)
		}
		out[i] = Stream{Class: s.Class, Values: v}
	}
	return out, nil
}
