package traceio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pick/dsp/core"
)

var start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// encodeWAV builds a minimal RIFF/WAVE file around interleaved samples.
func encodeWAV(t *testing.T, format, channels, bits uint16, rate uint32, samples any) []byte {
	t.Helper()
	var data bytes.Buffer
	require.NoError(t, binary.Write(&data, binary.LittleEndian, samples))

	var b bytes.Buffer
	le := func(v any) { require.NoError(t, binary.Write(&b, binary.LittleEndian, v)) }
	b.WriteString("RIFF")
	le(uint32(36 + data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	le(uint32(16))
	le(format)
	le(channels)
	le(rate)
	le(rate * uint32(channels) * uint32(bits) / 8)
	le(channels * bits / 8)
	le(bits)
	b.WriteString("data")
	le(uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}

func TestReadWAVPCM16Stereo(t *testing.T) {
	raw := encodeWAV(t, 1, 2, 16, 100, []int16{1, -1, 2, -2, 3, -3})
	traces, err := ReadWAV(bytes.NewReader(raw), "sta", start)
	require.NoError(t, err)
	require.Len(t, traces, 2)

	require.Equal(t, "sta.0", traces[0].Channel)
	require.Equal(t, "sta.1", traces[1].Channel)
	require.Equal(t, []float64{1, 2, 3}, traces[0].Samples)
	require.Equal(t, []float64{-1, -2, -3}, traces[1].Samples)
	require.Equal(t, 100.0, traces[0].SampleRate)
	require.Equal(t, start, traces[1].Start)
}

func TestReadWAVPCM8Centred(t *testing.T) {
	raw := encodeWAV(t, 1, 1, 8, 50, []uint8{128, 0, 255})
	traces, err := ReadWAV(bytes.NewReader(raw), "x", start)
	require.NoError(t, err)
	require.Equal(t, []float64{0, -128, 127}, traces[0].Samples)
}

func TestReadWAVFloat(t *testing.T) {
	raw := encodeWAV(t, 3, 3, 32, 200, []float32{0.5, -0.25, 1, 0, 0.125, -1})
	traces, err := ReadWAV(bytes.NewReader(raw), "f", start)
	require.NoError(t, err)
	require.Len(t, traces, 3)
	require.Equal(t, []float64{0.5, 0}, traces[0].Samples)
	require.Equal(t, []float64{-0.25, 0.125}, traces[1].Samples)
	require.Equal(t, []float64{1, -1}, traces[2].Samples)
}

func TestReadWAVKeepsEveryFrame(t *testing.T) {
	for _, n := range []int{1, 5, 13, 4003} {
		pcm := make([]int16, 2*n)
		for i := range pcm {
			pcm[i] = int16(i)
		}
		raw := encodeWAV(t, 1, 2, 16, 100, pcm)
		traces, err := ReadWAV(bytes.NewReader(raw), "n", start)
		require.NoError(t, err, "frames %d", n)
		require.Len(t, traces[0].Samples, n)
		require.Len(t, traces[1].Samples, n)
		require.Equal(t, float64(2*n-1), traces[1].Samples[n-1])
	}
}

func TestReadWAVDropsPartialFrame(t *testing.T) {
	raw := encodeWAV(t, 1, 2, 16, 100, []int16{1, -1, 2, -2, 3})
	traces, err := ReadWAV(bytes.NewReader(raw), "p", start)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, traces[0].Samples)
}

func TestReadWAVRejectsOtherInput(t *testing.T) {
	_, err := ReadWAV(strings.NewReader("not a wav file at all"), "junk", start)
	require.ErrorIs(t, err, core.ErrInputType)

	empty := encodeWAV(t, 1, 1, 16, 100, []int16{})
	_, err = ReadWAV(bytes.NewReader(empty), "empty", start)
	require.ErrorIs(t, err, core.ErrInputType)
}

func TestLoadGroup(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "st01.N.wav")
	b := filepath.Join(dir, "st01.E.wav")
	require.NoError(t, os.WriteFile(a, encodeWAV(t, 1, 1, 16, 100, []int16{1, 2}), 0o644))
	require.NoError(t, os.WriteFile(b, encodeWAV(t, 1, 1, 16, 100, []int16{3, 4}), 0o644))

	traces, err := LoadGroup([]string{a, b}, start)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	require.Equal(t, "st01.N.0", traces[0].Channel)
	require.Equal(t, "st01.E.0", traces[1].Channel)
	require.Equal(t, []float64{3, 4}, traces[1].Samples)

	_, err = LoadGroup([]string{filepath.Join(dir, "missing.wav")}, start)
	require.ErrorIs(t, err, os.ErrNotExist)
}
