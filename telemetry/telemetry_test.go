package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestFromContextDefaultsToNoOp(t *testing.T) {
	collector := FromContext(context.Background())

	// Must be safe to use without a collector attached.
	timer := collector.Start("anything")
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	assert.Equal(t, "", buf.String())
}

func TestWithCollectorRoundTrip(t *testing.T) {
	c := NewTimingCollector()
	ctx := WithCollector(context.Background(), c)

	got := FromContext(ctx)
	timer := got.Start("work")
	timer.End()

	var buf bytes.Buffer
	got.Report(&buf)
	assert.Contains(t, buf.String(), "work")
}

func TestTimingCollectorReport(t *testing.T) {
	c := NewTimingCollector()

	first := c.Start("parse lines")
	first.End()
	second := c.Start("generate rows")
	second.End()
	c.Start("never ended")

	var buf bytes.Buffer
	c.Report(&buf)
	report := buf.String()

	assert.Contains(t, report, "parse lines")
	assert.Contains(t, report, "generate rows")
	assert.NotContains(t, report, "never ended")

	// Spans report in start order.
	assert.True(t, strings.Index(report, "parse lines") < strings.Index(report, "generate rows"))
}

func TestTimerEndIdempotent(t *testing.T) {
	c := NewTimingCollector()
	timer := c.Start("once")
	timer.End()
	timer.End()

	var buf bytes.Buffer
	c.Report(&buf)
	assert.Equal(t, 1, strings.Count(buf.String(), "once"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"Microseconds", 250 * time.Microsecond, "250µs"},
		{"Milliseconds", 1500 * time.Microsecond, "1.5ms"},
		{"Seconds", 2500 * time.Millisecond, "2.50s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
