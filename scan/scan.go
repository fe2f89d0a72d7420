package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pick/dsp/buffer"
	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/frame"
	"github.com/cwbudde/algo-pick/dsp/normalize"
	"github.com/cwbudde/algo-pick/score"
	"github.com/cwbudde/algo-pick/trace"
)

// Detection is one accepted onset.
type Detection struct {
	Class       score.Class
	SampleIndex int       // index in the aligned group
	Probability float64   // restored score at SampleIndex
	Time        time.Time // group start + SampleIndex/rate
}

// ProgressFunc receives the number of scored windows after every scorer
// call.
type ProgressFunc func(done, total int)

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger. Without it the Scanner is silent.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPool draws window storage from p.
func WithPool(p *buffer.Pool) Option {
	return func(s *Scanner) {
		s.pool = p
	}
}

// WithProgress reports scoring progress to fn.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scanner) {
		s.progress = fn
	}
}

// Scanner runs the pipeline with a fixed scorer, class set and
// configuration.
type Scanner struct {
	scorer   score.Scorer
	classes  score.ClassSet
	targets  []score.Class
	cfg      Config
	log      logrus.FieldLogger
	pool     *buffer.Pool
	progress ProgressFunc
}

// New validates cfg and returns a Scanner.
func New(scorer score.Scorer, classes score.ClassSet, cfg Config, opts ...Option) (*Scanner, error) {
	if scorer == nil {
		return nil, fmt.Errorf("%w: scan: nil scorer", core.ErrConfiguration)
	}
	if classes.Len() == 0 {
		return nil, fmt.Errorf("%w: scan: empty class set", core.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	targets, err := cfg.resolveTargets(classes)
	if err != nil {
		return nil, err
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Scanner{
		scorer:  scorer,
		classes: classes,
		targets: targets,
		cfg:     cfg,
		log:     quiet,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Config returns the validated configuration.
func (s *Scanner) Config() Config { return s.cfg }

// Scan picks onsets in one channel group. The traces are aligned first;
// all of them must share a sample rate. ctx is handed to the scorer.
func (s *Scanner) Scan(ctx context.Context, traces ...*trace.Trace) ([]Detection, error) {
	log := s.log.WithField("run", uuid.NewString())
	began := time.Now()

	group, err := trace.Align(traces...)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"channels": len(group),
		"samples":  group.Len(),
		"rate":     group.SampleRate(),
		"start":    group.Start(),
	}).Debug("aligned traces")

	streams, err := s.scores(ctx, log, group)
	if err != nil {
		return nil, err
	}

	var out []Detection
	for _, target := range s.targets {
		others := make([]score.Stream, 0, len(streams)-1)
		for _, st := range streams {
			if st.Class.ID != target.ID {
				others = append(others, st)
			}
		}
		picks, err := s.cfg.Peak.Detect(streams[target.ID], others...)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"class": target.Label, "picks": len(picks)}).Debug("detected peaks")

		for _, p := range picks {
			out = append(out, Detection{
				Class:       p.Class,
				SampleIndex: p.Index,
				Probability: p.Height,
				Time:        group[0].TimeAt(p.Index),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SampleIndex != out[j].SampleIndex {
			return out[i].SampleIndex < out[j].SampleIndex
		}
		return out[i].Class.ID < out[j].Class.ID
	})

	log.WithFields(logrus.Fields{
		"detections": len(out),
		"elapsed":    time.Since(began),
	}).Info("scan complete")
	return out, nil
}

// scores returns one sample-rate score stream per class, indexed by
// class ID.
func (s *Scanner) scores(ctx context.Context, log logrus.FieldLogger, group trace.Group) ([]score.Stream, error) {
	b, err := frame.Stack(group.Channels(), s.cfg.Features, s.cfg.Shift, frame.WithPool(s.pool))
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer b.Release()
	log.WithFields(logrus.Fields{"windows": b.Len(), "features": b.Features()}).Debug("extracted windows")

	if err := normalize.Apply(b, s.cfg.Normalization); err != nil {
		return nil, err
	}

	var scorer score.Scorer = s.scorer
	if s.progress != nil {
		scorer = &progressScorer{Scorer: s.scorer, total: b.Len(), fn: s.progress}
	}
	m, err := score.Run(ctx, scorer, b, s.cfg.BatchSize, s.classes.Len())
	if err != nil {
		var contract *score.ContractError
		if errors.As(err, &contract) {
			log.WithError(err).Warn("scorer broke its output contract")
		}
		return nil, err
	}

	windowed, err := score.Streams(m, s.classes)
	if err != nil {
		return nil, err
	}
	return score.RestoreStreams(windowed, group.Len(), s.cfg.Shift,
		score.WithOffset(s.cfg.Restore.Offset),
		score.WithFill(s.cfg.Restore.Fill))
}

type progressScorer struct {
	score.Scorer
	total int
	done  int
	fn    ProgressFunc
}

func (p *progressScorer) Score(ctx context.Context, b *frame.Batch) (score.Matrix, error) {
	m, err := p.Scorer.Score(ctx, b)
	if err != nil {
		return nil, err
	}
	p.done += b.Len()
	p.fn(p.done, p.total)
	return m, nil
}
