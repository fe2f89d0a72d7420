package score

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/frame"
)

// firstSample scores each window with its first sample in class 0 and the
// complement in class 1, and records chunk sizes.
type firstSample struct {
	chunks []int
}

func (f *firstSample) Score(_ context.Context, b *frame.Batch) (Matrix, error) {
	f.chunks = append(f.chunks, b.Len())
	out := make(Matrix, b.Len())
	for i := range out {
		v := b.At(i, 0, 0)
		out[i] = []float64{v, 1 - v}
	}
	return out, nil
}

func rampBatch(t *testing.T, n, size, shift int) *frame.Batch {
	t.Helper()
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i) / float64(n)
	}
	b, err := frame.Extract(data, size, shift)
	require.NoError(t, err)
	return b
}

func TestRunChunksPreserveOrder(t *testing.T) {
	b := rampBatch(t, 100, 10, 5) // 19 windows
	s := &firstSample{}

	m, err := Run(context.Background(), s, b, 4, 2)
	require.NoError(t, err)
	require.Len(t, m, 19)
	require.Equal(t, []int{4, 4, 4, 4, 3}, s.chunks)
	for i, row := range m {
		require.Equal(t, float64(i*5)/100, row[0], "window %d", i)
	}
}

func TestRunSingleCall(t *testing.T) {
	b := rampBatch(t, 50, 10, 10)
	for _, size := range []int{0, -1, 1000} {
		s := &firstSample{}
		_, err := Run(context.Background(), s, b, size, 2)
		require.NoError(t, err)
		require.Equal(t, []int{b.Len()}, s.chunks)
	}
}

func TestRunPropagatesScorerError(t *testing.T) {
	boom := errors.New("model unavailable")
	s := ScorerFunc(func(context.Context, *frame.Batch) (Matrix, error) { return nil, boom })

	_, err := Run(context.Background(), s, rampBatch(t, 50, 10, 10), 2, 2)
	require.ErrorIs(t, err, boom)
}

func TestRunContractViolations(t *testing.T) {
	b := rampBatch(t, 50, 10, 10) // 5 windows
	tests := []struct {
		name string
		m    Matrix
	}{
		{name: "too few rows", m: Matrix{{0.1, 0.9}}},
		{name: "wrong width", m: Matrix{{1}, {1}, {1}, {1}, {1}}},
		{name: "above one", m: Matrix{{0, 1}, {0, 1}, {1.5, 0}, {0, 1}, {0, 1}}},
		{name: "negative", m: Matrix{{0, 1}, {0, 1}, {0, 1}, {0, 1}, {-0.1, 1}}},
		{name: "nan", m: Matrix{{0, 1}, {0, 1}, {0, 1}, {math.NaN(), 1}, {0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScorerFunc(func(context.Context, *frame.Batch) (Matrix, error) { return tt.m, nil })
			_, err := Run(context.Background(), s, b, 0, 2)
			require.ErrorIs(t, err, core.ErrContractViolation)

			var ce *ContractError
			require.True(t, errors.As(err, &ce))
		})
	}
}

func TestRunReportsWindowOfBadValue(t *testing.T) {
	b := rampBatch(t, 50, 10, 10)
	s := ScorerFunc(func(_ context.Context, chunk *frame.Batch) (Matrix, error) {
		m := make(Matrix, chunk.Len())
		for i := range m {
			m[i] = []float64{0.5, 0.5}
		}
		if chunk.Len() == 1 {
			m[0][1] = 2
		}
		return m, nil
	})

	_, err := Run(context.Background(), s, b, 2, 2)
	var ce *ContractError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, 4, ce.Offset+ce.Row)
	require.Equal(t, 1, ce.Col)
}

func TestRunInvalidClassCount(t *testing.T) {
	_, err := Run(context.Background(), &firstSample{}, rampBatch(t, 20, 10, 10), 0, 0)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestStreams(t *testing.T) {
	set, err := NewClassSet("P", "S")
	require.NoError(t, err)

	streams, err := Streams(Matrix{{0.1, 0.9}, {0.7, 0.3}}, set)
	require.NoError(t, err)
	require.Len(t, streams, 2)
	require.Equal(t, "P", streams[0].Class.Label)
	require.Equal(t, []float64{0.1, 0.7}, streams[0].Values)
	require.Equal(t, []float64{0.9, 0.3}, streams[1].Values)

	_, err = Streams(Matrix{{0.1}}, set)
	require.ErrorIs(t, err, core.ErrContractViolation)
}
