// Package normalize rescales window batches to unit peak amplitude.
//
// Two scopes are supported: ScopeGlobal divides every sample of a window by
// the largest absolute sample found in any of its channels; ScopePerChannel
// divides each channel of a window by its own largest absolute sample.
//
// A silent window (peak amplitude exactly zero) cannot be rescaled. The
// ZeroPolicy decides what happens: ZeroKeep leaves it untouched, ZeroFail
// aborts with ErrSilentWindow. A window holding NaN or Inf is rejected with
// core.ErrInputType before anything is scaled.
package normalize

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/frame"
)

// ErrSilentWindow is returned under ZeroFail for a window whose peak
// amplitude is zero.
var ErrSilentWindow = errors.New("normalize: silent window")

// Scope selects which samples share one scale factor.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopePerChannel
)

// String returns the configuration name of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopePerChannel:
		return "per-channel"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope maps a configuration name to a Scope.
func ParseScope(name string) (Scope, error) {
	switch name {
	case "global", "":
		return ScopeGlobal, nil
	case "per-channel", "per_channel", "channel":
		return ScopePerChannel, nil
	default:
		return 0, fmt.Errorf("%w: normalize: unknown scope %q", core.ErrConfiguration, name)
	}
}

// ZeroPolicy selects how silent windows are handled.
type ZeroPolicy int

const (
	ZeroKeep ZeroPolicy = iota
	ZeroFail
)

// String returns the configuration name of the policy.
func (p ZeroPolicy) String() string {
	switch p {
	case ZeroKeep:
		return "keep"
	case ZeroFail:
		return "fail"
	default:
		return fmt.Sprintf("ZeroPolicy(%d)", int(p))
	}
}

// ParseZeroPolicy maps a configuration name to a ZeroPolicy.
func ParseZeroPolicy(name string) (ZeroPolicy, error) {
	switch name {
	case "keep", "":
		return ZeroKeep, nil
	case "fail", "error":
		return ZeroFail, nil
	default:
		return 0, fmt.Errorf("%w: normalize: unknown zero policy %q", core.ErrConfiguration, name)
	}
}

// Config selects scope and silent-window policy.
type Config struct {
	Scope Scope
	Zero  ZeroPolicy
}

// Validate rejects unknown enum values.
func (c Config) Validate() error {
	if c.Scope != ScopeGlobal && c.Scope != ScopePerChannel {
		return fmt.Errorf("%w: normalize: unknown scope %d", core.ErrConfiguration, int(c.Scope))
	}
	if c.Zero != ZeroKeep && c.Zero != ZeroFail {
		return fmt.Errorf("%w: normalize: unknown zero policy %d", core.ErrConfiguration, int(c.Zero))
	}
	return nil
}

// Apply normalizes every window of b in place.
func Apply(b *frame.Batch, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for i := 0; i < b.Len(); i++ {
		if err := window(b, i, cfg); err != nil {
			return err
		}
	}
	return nil
}

// Window normalizes window i of b in place.
func Window(b *frame.Batch, i int, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return window(b, i, cfg)
}

func window(b *frame.Batch, i int, cfg Config) error {
	if cfg.Scope == ScopeGlobal {
		return scale(b.Window(i), cfg.Zero, i, -1)
	}
	for c := 0; c < b.Channels(); c++ {
		if err := scale(b.Channel(i, c), cfg.Zero, i, c); err != nil {
			return err
		}
	}
	return nil
}

// scale divides x by its peak magnitude. Division keeps the peak sample at
// exactly ±1, which makes a second pass an identity.
func scale(x []float64, policy ZeroPolicy, win, ch int) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: normalize: window %d holds %v", core.ErrInputType, win, v)
		}
	}
	peak := vecmath.MaxAbs(x)
	if peak == 0 {
		if policy == ZeroFail {
			if ch < 0 {
				return fmt.Errorf("%w: window %d", ErrSilentWindow, win)
			}
			return fmt.Errorf("%w: window %d channel %d", ErrSilentWindow, win, ch)
		}
		return nil
	}
	if peak == 1 {
		return nil
	}
	for j := range x {
		x[j] /= peak
	}
	return nil
}
