// Package traceio loads channel traces from WAV recordings.
//
// Every interleaved WAV channel becomes one trace. Sample values are kept
// as raw counts: 16-bit PCM as signed integers, 8-bit PCM shifted to be
// centred at zero, IEEE float as is. WAV carries no absolute time, so the
// caller provides the start of the recording.
package traceio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mjibson/go-dsp/wav"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/trace"
)

// ReadWAV decodes r into one trace per channel, named "<name>.<index>".
func ReadWAV(r io.Reader, name string, start time.Time) ([]*trace.Trace, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: traceio: %s: %w", core.ErrInputType, name, err)
	}
	channels := int(w.NumChannels)
	if channels == 0 || w.SampleRate == 0 {
		return nil, fmt.Errorf("%w: traceio: %s: %d channels at %d Hz", core.ErrInputType, name, channels, w.SampleRate)
	}
	values, err := readAll(w, channels)
	if err != nil {
		return nil, fmt.Errorf("%w: traceio: %s: %w", core.ErrInputType, name, err)
	}
	frames := len(values) / channels
	if frames == 0 {
		return nil, fmt.Errorf("%w: traceio: %s: no samples", core.ErrInputType, name)
	}

	out := make([]*trace.Trace, channels)
	for c := range out {
		samples := make([]float64, frames)
		for i := range samples {
			samples[i] = values[i*channels+c]
		}
		out[c] = &trace.Trace{
			Channel:    name + "." + strconv.Itoa(c),
			Start:      start,
			SampleRate: float64(w.SampleRate),
			Samples:    samples,
		}
	}
	return out, nil
}

// readAll returns every whole frame of the data chunk as interleaved
// values. The reader's Samples count is rounded down to a multiple of
// eight, so the frames past it are read one at a time until the chunk ends.
func readAll(w *wav.Wav, channels int) ([]float64, error) {
	var values []float64
	if bulk := w.Samples / channels * channels; bulk > 0 {
		raw, err := w.ReadSamples(bulk)
		if err != nil {
			return nil, err
		}
		if values, err = appendValues(values, raw); err != nil {
			return nil, err
		}
	}
	for {
		raw, err := w.ReadSamples(channels)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		if values, err = appendValues(values, raw); err != nil {
			return nil, err
		}
	}
}

func appendValues(dst []float64, raw any) ([]float64, error) {
	switch d := raw.(type) {
	case []uint8:
		for _, v := range d {
			dst = append(dst, float64(int(v)-128))
		}
	case []int16:
		for _, v := range d {
			dst = append(dst, float64(v))
		}
	case []float32:
		for _, v := range d {
			dst = append(dst, float64(v))
		}
	default:
		return nil, fmt.Errorf("unsupported sample type %T", raw)
	}
	return dst, nil
}

// LoadFile reads the WAV file at path. Traces are named after the file
// without its extension.
func LoadFile(path string, start time.Time) ([]*trace.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("traceio: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	return ReadWAV(f, strings.TrimSuffix(base, filepath.Ext(base)), start)
}

// LoadGroup reads every file of one channel group and returns all their
// traces in order.
func LoadGroup(paths []string, start time.Time) ([]*trace.Trace, error) {
	var out []*trace.Trace
	for _, p := range paths {
		tr, err := LoadFile(p, start)
		if err != nil {
			return nil, err
		}
		out = append(out, tr...)
	}
	return out, nil
}
