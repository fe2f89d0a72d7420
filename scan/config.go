package scan

import (
	"fmt"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/normalize"
	"github.com/cwbudde/algo-pick/peak"
	"github.com/cwbudde/algo-pick/score"
)

// Window defaults for 100 Hz traces.
const (
	DefaultFeatures = 400
	DefaultShift    = 10
)

// RestoreConfig places window scores on the sample axis.
type RestoreConfig struct {
	// Offset moves the anchor of window i to i*Shift+Offset.
	Offset int
	// Fill selects what samples outside the anchored span hold.
	Fill score.Fill
}

// Config holds the pipeline parameters.
type Config struct {
	// Features is the window length in samples per channel.
	Features int
	// Shift is the distance in samples between window starts.
	Shift int
	// BatchSize bounds the windows per scorer call; <= 0 scores all
	// windows in one call.
	BatchSize int

	Normalization normalize.Config
	Restore       RestoreConfig
	Peak          peak.Detector

	// Targets lists the class labels to pick. Empty picks every class.
	Targets []string
}

// DefaultConfig returns the stock settings: 400-sample
// windows every 10 samples, global normalization, window scores anchored
// at window starts and held outward.
func DefaultConfig() Config {
	return Config{
		Features: DefaultFeatures,
		Shift:    DefaultShift,
		Normalization: normalize.Config{
			Scope: normalize.ScopeGlobal,
			Zero:  normalize.ZeroKeep,
		},
		Restore: RestoreConfig{Fill: score.FillHold},
		Peak:    peak.DefaultDetector(),
	}
}

// Validate checks every parameter before any data is touched.
func (c Config) Validate() error {
	if c.Features <= 0 {
		return fmt.Errorf("%w: scan: features must be > 0: %d", core.ErrConfiguration, c.Features)
	}
	if c.Shift <= 0 {
		return fmt.Errorf("%w: scan: shift must be > 0: %d", core.ErrConfiguration, c.Shift)
	}
	if c.Restore.Offset < 0 {
		return fmt.Errorf("%w: scan: restore offset must be >= 0: %d", core.ErrConfiguration, c.Restore.Offset)
	}
	if c.Restore.Fill != score.FillHold && c.Restore.Fill != score.FillZero {
		return fmt.Errorf("%w: scan: unknown fill %d", core.ErrConfiguration, int(c.Restore.Fill))
	}
	if err := c.Normalization.Validate(); err != nil {
		return err
	}
	return c.Peak.Validate()
}

// resolveTargets maps target labels to classes of set, in the order given.
func (c Config) resolveTargets(set score.ClassSet) ([]score.Class, error) {
	if len(c.Targets) == 0 {
		return set.Classes(), nil
	}
	seen := make(map[int]bool, len(c.Targets))
	out := make([]score.Class, 0, len(c.Targets))
	for _, label := range c.Targets {
		cl, ok := set.Lookup(label)
		if !ok {
			return nil, fmt.Errorf("%w: scan: unknown target class %q", core.ErrConfiguration, label)
		}
		if seen[cl.ID] {
			continue
		}
		seen[cl.ID] = true
		out = append(out, cl)
	}
	return out, nil
}
