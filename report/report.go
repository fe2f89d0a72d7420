// Package report renders detections as text lines of the form
//
//	P 0.97 01.03.2024 12:00:20.01
//
// holding the class label, the probability truncated to a fixed number of
// decimals and the detection time with trailing zero microseconds removed.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/scan"
)

// TimeLayout is the detection time layout before zero trimming.
const TimeLayout = "02.01.2006 15:04:05.000000"

// Formatter controls line rendering.
type Formatter struct {
	Precision int            // decimals kept of the probability
	UpperCase bool           // print class labels upper case
	Location  *time.Location // nil renders UTC
}

// DefaultFormatter returns two decimals and upper case labels.
func DefaultFormatter() Formatter {
	return Formatter{Precision: 2, UpperCase: true}
}

// Validate rejects a negative precision.
func (f Formatter) Validate() error {
	if f.Precision < 0 {
		return fmt.Errorf("%w: report: precision must be >= 0: %d", core.ErrConfiguration, f.Precision)
	}
	return nil
}

// Line renders one detection including the trailing newline.
func (f Formatter) Line(d scan.Detection) string {
	label := d.Class.Label
	if f.UpperCase {
		label = strings.ToUpper(label)
	}

	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	ts := strings.TrimRight(d.Time.In(loc).Format(TimeLayout), "0")

	prob := strconv.FormatFloat(Truncate(d.Probability, f.Precision), 'f', f.Precision, 64)
	return label + " " + prob + " " + ts + "\n"
}

// Truncate floors v to n decimals.
func Truncate(v float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Floor(v*p) / p
}

// Writer writes detection lines to an io.Writer.
type Writer struct {
	w io.Writer
	f Formatter
}

// NewWriter returns a Writer rendering with f.
func NewWriter(w io.Writer, f Formatter) *Writer {
	return &Writer{w: w, f: f}
}

// Write renders dets in order.
func (w *Writer) Write(dets ...scan.Detection) error {
	for _, d := range dets {
		if _, err := io.WriteString(w.w, w.f.Line(d)); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return nil
}

// AppendFile appends dets to the file at path, creating it if needed.
func AppendFile(path string, f Formatter, dets []scan.Detection) (err error) {
	if err := f.Validate(); err != nil {
		return err
	}
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()

	buf := bufio.NewWriter(fh)
	if err := NewWriter(buf, f).Write(dets...); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
