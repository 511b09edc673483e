package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/stocktext/stocktext/parser"
	"github.com/stocktext/stocktext/telemetry"
)

type DebugCmd struct {
	File FileOrStdin `help:"Message filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run parses the message and dumps the result structure verbatim, with stage
// timings. Meant for diagnosing why a line parsed the way it did.
func (cmd *DebugCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	text, err := cmd.File.Text()
	if err != nil {
		return err
	}

	collector := telemetry.NewTimingCollector()
	runCtx := telemetry.WithCollector(context.Background(), collector)

	result := parser.ParseContext(runCtx, text, cfg, today())

	repr.New(ctx.Stdout, repr.Indent("  ")).Println(result)

	_, _ = fmt.Fprintln(ctx.Stderr)
	collector.Report(ctx.Stderr)

	return nil
}
