package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1, 100, 2, 100)
	require.Len(t, s, 100)
	assert.InDelta(t, 0, s[0], 1e-12)
	assert.InDelta(t, 2, s[25], 1e-12)
	assert.InDelta(t, 2/math.Sqrt2, RMS(s), 1e-9)
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(7, 0.5, 1000)
	assert.Equal(t, a, DeterministicNoise(7, 0.5, 1000))
	assert.NotEqual(t, a, DeterministicNoise(8, 0.5, 1000))
	for _, v := range a {
		require.True(t, v >= -0.5 && v < 0.5, "%v out of range", v)
	}
}

func TestRampAndDC(t *testing.T) {
	assert.Equal(t, []float64{1, 3, 5}, Ramp(1, 2, 3))
	assert.Equal(t, []float64{4, 4}, DC(4, 2))
}

func TestSpiked(t *testing.T) {
	x := Spiked(1, 0.01, 500, 321, 5)
	assert.Equal(t, 321, ArgMaxAbs(x))
	assert.Len(t, Spiked(1, 0.01, 10, 20, 5), 10)
	assert.Equal(t, -1, ArgMaxAbs(nil))
}

func TestRMS(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.InDelta(t, 3, RMS(DC(-3, 8)), 1e-12)
}
