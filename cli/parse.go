package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"

	"github.com/stocktext/stocktext/parser"
	"github.com/stocktext/stocktext/record"
	"github.com/stocktext/stocktext/review"
	"github.com/stocktext/stocktext/telemetry"
)

type ParseCmd struct {
	File FileOrStdin `help:"Message filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	TSV  bool        `help:"Print rows as tab-separated values instead of a table."`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var parseTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				parseTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		parseTimer = collector.Start(fmt.Sprintf("parse %s", filepath.Base(cmd.File.Filename)))
		defer reportTelemetry()
	}

	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	text, err := cmd.File.Text()
	if err != nil {
		return err
	}

	result := parser.ParseContext(runCtx, text, cfg, today())

	if cmd.TSV {
		if len(result.Rows) > 0 {
			_, _ = fmt.Fprintln(ctx.Stdout, record.TSV(result.Rows))
		}
	} else {
		_, _ = fmt.Fprint(ctx.Stdout, review.Render(result.Rows, result.Notes, result.Unparseable, cfg))
	}

	if len(result.Rows) == 0 && len(result.Notes) == 0 {
		reportTelemetry()
		printError(ctx.Stderr, "no transactions found")
		return NewCommandError(1)
	}

	return nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
