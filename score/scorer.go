package score

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/frame"
)

// Matrix holds one row of class probabilities per window.
type Matrix [][]float64

// Scorer is the classifier contract. Given a batch shaped
// (windows × features × channels) it returns a Matrix shaped
// (windows × classes) with values in [0, 1]. The batch is read-only.
type Scorer interface {
	Score(ctx context.Context, b *frame.Batch) (Matrix, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, b *frame.Batch) (Matrix, error)

// Score calls f(ctx, b).
func (f ScorerFunc) Score(ctx context.Context, b *frame.Batch) (Matrix, error) {
	return f(ctx, b)
}

// ContractError reports classifier output that does not fit the batch it
// was given.
type ContractError struct {
	Offset int // index of the first window of the offending chunk
	Row    int // row within the chunk, -1 for shape errors
	Col    int
	Value  float64
	Reason string
}

func (e *ContractError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("score: chunk at window %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("score: window %d class %d: %s: %v", e.Offset+e.Row, e.Col, e.Reason, e.Value)
}

// Unwrap classifies the error as core.ErrContractViolation.
func (e *ContractError) Unwrap() error {
	return core.ErrContractViolation
}

// Run scores b in chunks of at most batchSize windows (all windows in one
// call when batchSize <= 0) and returns one row per window in window order.
// Every row must hold exactly classes probabilities. Values are validated,
// never clamped. A Scorer error aborts the run.
func Run(ctx context.Context, s Scorer, b *frame.Batch, batchSize, classes int) (Matrix, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("%w: score: class count must be > 0: %d", core.ErrConfiguration, classes)
	}
	n := b.Len()
	if batchSize <= 0 || batchSize > n {
		batchSize = n
	}

	out := make(Matrix, 0, n)
	for from := 0; from < n; from += batchSize {
		to := min(from+batchSize, n)
		chunk, err := b.Slice(from, to)
		if err != nil {
			return nil, err
		}

		rows, err := s.Score(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("score: windows [%d, %d): %w", from, to, err)
		}
		if err := check(rows, from, to-from, classes); err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func check(rows Matrix, offset, windows, classes int) error {
	if len(rows) != windows {
		return &ContractError{Offset: offset, Row: -1,
			Reason: fmt.Sprintf("got %d rows for %d windows", len(rows), windows)}
	}
	for r, row := range rows {
		if len(row) != classes {
			return &ContractError{Offset: offset, Row: -1,
				Reason: fmt.Sprintf("row %d has %d classes, want %d", r, len(row), classes)}
		}
		for c, v := range row {
			if !core.IsProbability(v) {
				return &ContractError{Offset: offset, Row: r, Col: c, Value: v, Reason: "not a probability"}
			}
		}
	}
	return nil
}
