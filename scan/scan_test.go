package scan

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pick/dsp/buffer"
	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/frame"
	"github.com/cwbudde/algo-pick/internal/testutil"
	"github.com/cwbudde/algo-pick/score"
	"github.com/cwbudde/algo-pick/trace"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const rate = 100.0

func classes(t *testing.T) score.ClassSet {
	t.Helper()
	set, err := score.NewClassSet("P", "S", "N")
	require.NoError(t, err)
	return set
}

// spikeScorer favours class P when channel 0 dominates the window and its
// largest sample sits at the window centre.
func spikeScorer(_ context.Context, b *frame.Batch) (score.Matrix, error) {
	out := make(score.Matrix, b.Len())
	half := float64(b.Features() / 2)
	for i := range out {
		var sum, m0 float64
		arg := 0
		for c := 0; c < b.Channels(); c++ {
			m := 0.0
			for s, v := range b.Channel(i, c) {
				if a := math.Abs(v); a > m {
					m = a
					if c == 0 {
						arg = s
					}
				}
			}
			if c == 0 {
				m0 = m
			}
			sum += m
		}
		p := 0.0
		if sum > 0 {
			p = m0 / sum * math.Max(0, 1-math.Abs(float64(arg)-half)/half)
		}
		out[i] = []float64{p, (1 - p) / 2, (1 - p) / 2}
	}
	return out, nil
}

func channel(name string, start time.Time, n, seed int) *trace.Trace {
	return &trace.Trace{
		Channel:    name,
		Start:      start,
		SampleRate: rate,
		Samples:    testutil.DeterministicNoise(int64(seed), 0.01, n),
	}
}

func spikeGroup() []*trace.Trace {
	tr := []*trace.Trace{
		channel("N", t0, 4000, 1),
		channel("E", t0, 4000, 2),
		channel("Z", t0, 4000, 3),
	}
	tr[0].Samples[2000] += 1
	return tr
}

func centredConfig() Config {
	cfg := DefaultConfig()
	cfg.Restore.Offset = cfg.Features / 2
	return cfg
}

func TestScanSingleSpike(t *testing.T) {
	s, err := New(score.ScorerFunc(spikeScorer), classes(t), centredConfig())
	require.NoError(t, err)

	dets, err := s.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)
	require.Len(t, dets, 1)

	d := dets[0]
	require.Equal(t, "P", d.Class.Label)
	require.Equal(t, 2000, d.SampleIndex)
	require.Greater(t, d.Probability, 0.95)
	require.LessOrEqual(t, d.Probability, 1.0)
	require.Equal(t, t0.Add(20*time.Second), d.Time)
}

func TestScanWindowCount(t *testing.T) {
	var windows int
	counting := score.ScorerFunc(func(ctx context.Context, b *frame.Batch) (score.Matrix, error) {
		windows += b.Len()
		return spikeScorer(ctx, b)
	})
	s, err := New(counting, classes(t), centredConfig())
	require.NoError(t, err)

	_, err = s.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)
	require.Equal(t, 361, windows)
}

func TestScanBatchSizeDoesNotChangeResult(t *testing.T) {
	whole, err := New(score.ScorerFunc(spikeScorer), classes(t), centredConfig())
	require.NoError(t, err)
	want, err := whole.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)

	cfg := centredConfig()
	cfg.BatchSize = 7
	var calls []int
	chunked, err := New(score.ScorerFunc(spikeScorer), classes(t), cfg,
		WithPool(buffer.NewPool()),
		WithProgress(func(done, total int) { calls = append(calls, done) }))
	require.NoError(t, err)
	got, err := chunked.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)

	require.Equal(t, want, got)
	require.Len(t, calls, 52) // ceil(361 / 7)
	require.Equal(t, 361, calls[len(calls)-1])
}

func TestScanUsesAlignedStart(t *testing.T) {
	later := t0.Add(time.Second)
	tr := []*trace.Trace{
		channel("N", t0, 4000, 1),
		channel("E", later, 3900, 2),
		channel("Z", later, 3900, 3),
	}
	tr[0].Samples[2000] += 1

	s, err := New(score.ScorerFunc(spikeScorer), classes(t), centredConfig())
	require.NoError(t, err)
	dets, err := s.Scan(context.Background(), tr...)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	require.Equal(t, 1900, dets[0].SampleIndex)
	require.Equal(t, t0.Add(20*time.Second), dets[0].Time)
}

func TestScanTargetsRestrictClasses(t *testing.T) {
	cfg := centredConfig()
	cfg.Targets = []string{"S"}
	s, err := New(score.ScorerFunc(spikeScorer), classes(t), cfg)
	require.NoError(t, err)

	dets, err := s.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)
	require.Empty(t, dets)
}

func TestScanOrdersByIndexThenClass(t *testing.T) {
	// Both classes carry the same scores, so both peaks survive arbitration.
	twin := score.ScorerFunc(func(ctx context.Context, b *frame.Batch) (score.Matrix, error) {
		m, err := spikeScorer(ctx, b)
		if err != nil {
			return nil, err
		}
		for i, row := range m {
			m[i] = []float64{row[0], row[0]}
		}
		return m, nil
	})
	set, err := score.NewClassSet("P", "S")
	require.NoError(t, err)
	cfg := centredConfig()
	cfg.Targets = []string{"S", "P"}

	s, err := New(twin, set, cfg)
	require.NoError(t, err)
	dets, err := s.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)
	require.Len(t, dets, 2)
	require.Equal(t, "P", dets[0].Class.Label)
	require.Equal(t, "S", dets[1].Class.Label)
	require.Equal(t, dets[0].SampleIndex, dets[1].SampleIndex)
}

func TestScanLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s, err := New(score.ScorerFunc(spikeScorer), classes(t), centredConfig(), WithLogger(logger))
	require.NoError(t, err)
	_, err = s.Scan(context.Background(), spikeGroup()...)
	require.NoError(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	require.Equal(t, logrus.InfoLevel, last.Level)
	require.Equal(t, "scan complete", last.Message)
	require.Equal(t, 1, last.Data["detections"])
	require.NotEmpty(t, last.Data["run"])
}

func TestScanErrors(t *testing.T) {
	boom := errors.New("model unavailable")

	t.Run("scorer failure", func(t *testing.T) {
		failing := score.ScorerFunc(func(context.Context, *frame.Batch) (score.Matrix, error) {
			return nil, boom
		})
		s, err := New(failing, classes(t), centredConfig())
		require.NoError(t, err)
		_, err = s.Scan(context.Background(), spikeGroup()...)
		require.ErrorIs(t, err, boom)
	})

	t.Run("contract violation", func(t *testing.T) {
		wide := score.ScorerFunc(func(_ context.Context, b *frame.Batch) (score.Matrix, error) {
			out := make(score.Matrix, b.Len())
			for i := range out {
				out[i] = []float64{1.5, 0, 0}
			}
			return out, nil
		})
		s, err := New(wide, classes(t), centredConfig())
		require.NoError(t, err)
		_, err = s.Scan(context.Background(), spikeGroup()...)
		require.ErrorIs(t, err, core.ErrContractViolation)
	})

	t.Run("rate mismatch", func(t *testing.T) {
		tr := spikeGroup()
		tr[1].SampleRate = 50
		s, err := New(score.ScorerFunc(spikeScorer), classes(t), centredConfig())
		require.NoError(t, err)
		_, err = s.Scan(context.Background(), tr...)
		require.ErrorIs(t, err, core.ErrAlignment)
	})

	t.Run("too short", func(t *testing.T) {
		s, err := New(score.ScorerFunc(spikeScorer), classes(t), centredConfig())
		require.NoError(t, err)
		_, err = s.Scan(context.Background(), channel("Z", t0, 100, 1))
		require.ErrorIs(t, err, core.ErrConfiguration)
	})
}

func TestNewValidates(t *testing.T) {
	set := classes(t)
	scorer := score.ScorerFunc(spikeScorer)

	mutate := map[string]func(*Config){
		"features":       func(c *Config) { c.Features = 0 },
		"shift":          func(c *Config) { c.Shift = -1 },
		"offset":         func(c *Config) { c.Restore.Offset = -5 },
		"fill":           func(c *Config) { c.Restore.Fill = score.Fill(9) },
		"threshold":      func(c *Config) { c.Peak.Threshold = 2 },
		"half window":    func(c *Config) { c.Peak.HalfWindow = 0 },
		"unknown target": func(c *Config) { c.Targets = []string{"X"} },
	}
	for name, m := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			m(&cfg)
			_, err := New(scorer, set, cfg)
			require.ErrorIs(t, err, core.ErrConfiguration)
		})
	}

	_, err := New(nil, set, DefaultConfig())
	require.ErrorIs(t, err, core.ErrConfiguration)
}
