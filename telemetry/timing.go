package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/stocktext/stocktext/output"
)

// TimingCollector records a flat sequence of spans in start order.
type TimingCollector struct {
	mu    sync.Mutex
	spans []*span
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	done     bool
}

// NewTimingCollector creates an empty timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: time.Now()}
	c.spans = append(c.spans, s)
	return &timingTimer{collector: c, span: s}
}

// Report writes one line per completed span, aligned on the operation name.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	width := 0
	for _, s := range c.spans {
		if s.done && len(s.name) > width {
			width = len(s.name)
		}
	}
	styles := output.NewStyles(w)
	for _, s := range c.spans {
		if !s.done {
			continue
		}
		timing := styles.Timing(formatDuration(s.duration), s.duration >= 100*time.Millisecond)
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", width, s.name, timing)
	}
}

type timingTimer struct {
	collector *TimingCollector
	span      *span
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.span.done {
		t.span.duration = time.Since(t.span.start)
		t.span.done = true
	}
}

// formatDuration rounds to a readable precision: microseconds below a
// millisecond, otherwise fractional milliseconds.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
