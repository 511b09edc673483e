package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/stocktext/stocktext/parser"
	"github.com/stocktext/stocktext/sheet"
)

type ExportCmd struct {
	File   FileOrStdin `help:"Message filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Output string      `help:"Workbook to append to (created when missing; defaults to a fresh file)." type:"path"`
	Sheet  string      `help:"Worksheet name." default:"Transactions"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	result := parser.Parse(text, cfg, today())
	if len(result.Rows) == 0 {
		printError(ctx.Stderr, "no transactions found")
		return NewCommandError(1)
	}

	output := cmd.Output
	if output == "" {
		output = sheet.DefaultPath()
	}

	writer := sheet.NewWriter(output)
	writer.Sheet = cmd.Sheet
	n, err := writer.Append(result.Rows)
	if err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%d row(s) appended to %s", n, pathStyle.Render(output)))
	for _, text := range result.Unparseable {
		printError(ctx.Stderr, fmt.Sprintf("could not parse: %q", text))
	}

	return nil
}
