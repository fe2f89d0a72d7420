// Package progress renders single-line text progress bars.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Bar describes the look of a progress bar.
type Bar struct {
	Width  int
	Filled string
	Empty  string
	Edge   string // drawn after the filled part; empty disables it
	Prefix string
}

// DefaultBar is a 20 character "===>...." bar.
func DefaultBar() Bar {
	return Bar{Width: 20, Filled: "=", Empty: ".", Edge: ">"}
}

// Render draws the bar at fraction f, clamped to [0, 1].
func (b Bar) Render(f float64) string {
	f = min(max(f, 0), 1)
	filled := int(float64(b.Width) * f)
	rest := b.Width - filled

	var sb strings.Builder
	if b.Prefix != "" {
		sb.WriteString(b.Prefix)
		if !strings.HasSuffix(b.Prefix, " ") {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(strings.Repeat(b.Filled, filled))
	if b.Edge != "" && rest > 0 {
		sb.WriteString(b.Edge)
		rest--
	}
	sb.WriteString(strings.Repeat(b.Empty, rest))
	return sb.String()
}

// Printer redraws a bar in place on w.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	bar Bar
}

// NewPrinter returns a Printer drawing bar on w.
func NewPrinter(w io.Writer, bar Bar) *Printer {
	return &Printer{w: w, bar: bar}
}

// Update redraws the bar for done out of total, followed by the counts.
func (p *Printer) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := 1.0
	if total > 0 {
		f = float64(done) / float64(total)
	}
	_, _ = fmt.Fprintf(p.w, "\r%s %d/%d", p.bar.Render(f), done, total)
}

// Done ends the line.
func (p *Printer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, "\n")
}
