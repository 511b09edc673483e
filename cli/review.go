package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/match"
	"github.com/stocktext/stocktext/parser"
	"github.com/stocktext/stocktext/record"
	"github.com/stocktext/stocktext/review"
	"github.com/stocktext/stocktext/sheet"
)

type ReviewCmd struct {
	File   FileOrStdin `help:"Message filename (use '-' for stdin, or omit for an interactive session)." arg:"" optional:""`
	Watch  bool        `help:"Reload the config file when it changes on disk."`
	Output string      `help:"Append confirmed rows to this XLSX workbook." type:"path"`
}

func (cmd *ReviewCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	// The watcher swaps the config snapshot between messages; a parse in
	// flight keeps the snapshot it started with.
	var mu sync.Mutex
	if cmd.Watch && cfg.Path() != "" {
		watchCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		err := config.Watch(watchCtx, cfg.Path(), func() {
			reloaded, err := config.Load(globals.Config)
			if err != nil {
				printError(ctx.Stderr, fmt.Sprintf("config reload failed: %v", err))
				return
			}
			mu.Lock()
			cfg = reloaded
			mu.Unlock()
			printInfof(ctx.Stderr, "config reloaded from %s", pathStyle.Render(globals.Config))
		})
		if err != nil {
			return err
		}
	}
	snapshot := func() *config.Config {
		mu.Lock()
		defer mu.Unlock()
		return cfg
	}

	if cmd.File.Filename != "" || !isTerminal() {
		if err := cmd.File.EnsureContents(); err != nil {
			return err
		}
		text, err := cmd.File.Text()
		if err != nil {
			return err
		}
		return cmd.reviewOne(ctx, globals, snapshot(), text)
	}

	// Interactive session: paste messages until "exit".
	_, _ = fmt.Fprintln(ctx.Stdout, "=== Inventory Message Parser ===")
	_, _ = fmt.Fprintln(ctx.Stdout, "Paste a message to parse. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		text, quit := readMessage(ctx, scanner)
		if quit {
			_, _ = fmt.Fprintln(ctx.Stdout, "Goodbye.")
			return nil
		}
		if text == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "alias":
			if addAliasInteractive(ctx, snapshot()) {
				saveConfig(ctx, globals, snapshot())
			}
			continue
		case "convert":
			if addConversionInteractive(ctx, snapshot()) {
				saveConfig(ctx, globals, snapshot())
			}
			continue
		}

		if err := cmd.reviewOne(ctx, globals, snapshot(), text); err != nil {
			return err
		}
	}
}

// reviewOne parses a single message, runs the review session over it, and
// exports whatever was confirmed.
func (cmd *ReviewCmd) reviewOne(ctx *kong.Context, globals *Globals, cfg *config.Config, text string) error {
	result := parser.Parse(text, cfg, today())

	session := review.New(result, text, cfg, today())
	outcome, err := session.Run()
	if err != nil {
		return err
	}
	if outcome == nil {
		_, _ = fmt.Fprintln(ctx.Stdout, "  Discarded.")
		return nil
	}

	if session.ConfigChanged() {
		saveConfig(ctx, globals, cfg)
	}

	if len(outcome.Rows) > 0 {
		_, _ = fmt.Fprintln(ctx.Stdout, record.TSV(outcome.Rows))
		if cmd.Output != "" {
			writer := sheet.NewWriter(cmd.Output)
			n, err := writer.Append(outcome.Rows)
			if err != nil {
				return err
			}
			printSuccess(ctx.Stdout, fmt.Sprintf("%d row(s) appended to %s", n, pathStyle.Render(cmd.Output)))
		} else {
			printSuccess(ctx.Stdout, fmt.Sprintf("%d row(s) confirmed", len(outcome.Rows)))
		}
	}
	for _, note := range outcome.Notes {
		printInfof(ctx.Stdout, "Saved note: %q", note)
	}

	return nil
}

func saveConfig(ctx *kong.Context, globals *Globals, cfg *config.Config) {
	path := cfg.Path()
	if path == "" {
		path = globals.Config
	}
	if err := cfg.Save(path); err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to save config: %v", err))
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("config saved to %s", pathStyle.Render(path)))
}

// readMessage reads a multi-line paste; an empty line finishes it, the exit
// word ends the session.
func readMessage(ctx *kong.Context, scanner *bufio.Scanner) (text string, quit bool) {
	_, _ = fmt.Fprintln(ctx.Stdout, "\nPaste message ('exit' to quit, 'alias'/'convert' to add):")
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			return "", true
		}
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		// Input exhausted.
		return "", true
	}
	return strings.Join(lines, "\n"), false
}

// addAliasInteractive records a surface form for a known item or location,
// fuzzy-resolving the target against the vocabulary.
func addAliasInteractive(ctx *kong.Context, cfg *config.Config) bool {
	if len(cfg.Items) > 0 {
		_, _ = fmt.Fprintf(ctx.Stdout, "  Known items: %s\n", strings.Join(cfg.Items, ", "))
	}
	if len(cfg.Locations) > 0 {
		_, _ = fmt.Fprintf(ctx.Stdout, "  Known locations: %s\n", strings.Join(cfg.Locations, ", "))
	}

	alias := promptInput("Alias (short name):")
	if alias == "" {
		return false
	}
	targetText := promptInput("Maps to:")
	if targetText == "" {
		return false
	}

	candidates := append(append([]string{}, cfg.Items...), cfg.Locations...)
	target, kind := match.Resolve(targetText, candidates, cfg.Aliases, match.CutoffFor(targetText, 0.75))
	switch kind {
	case match.None:
		target = targetText
	case match.Fuzzy:
		if !promptConfirm(fmt.Sprintf("→ %q?", target)) {
			_, _ = fmt.Fprintln(ctx.Stdout, "  Edit cancelled.")
			return false
		}
	}

	cfg.AddAlias(alias, target)
	_, _ = fmt.Fprintf(ctx.Stdout, "  Saved: %s → %s\n", alias, target)
	return true
}

// addConversionInteractive records a container-to-base-units factor for an
// item, fuzzy-resolving both names.
func addConversionInteractive(ctx *kong.Context, cfg *config.Config) bool {
	if len(cfg.Items) > 0 {
		_, _ = fmt.Fprintf(ctx.Stdout, "  Known items: %s\n", strings.Join(cfg.Items, ", "))
	}

	itemText := promptInput("Item name:")
	if itemText == "" {
		return false
	}
	item, kind := match.Resolve(itemText, cfg.Items, cfg.Aliases, match.CutoffFor(itemText, 0.75))
	switch kind {
	case match.None:
		item = itemText
	case match.Fuzzy:
		if !promptConfirm(fmt.Sprintf("→ %q?", item)) {
			_, _ = fmt.Fprintln(ctx.Stdout, "  Edit cancelled.")
			return false
		}
	}

	contText := promptInput("Container name:")
	if contText == "" {
		return false
	}
	container := contText
	if containers := cfg.Containers(); len(containers) > 0 {
		resolved, kind := match.Resolve(contText, containers, nil, match.CutoffFor(contText, 0.75))
		switch kind {
		case match.None:
		case match.Fuzzy:
			if !promptConfirm(fmt.Sprintf("→ %q?", resolved)) {
				_, _ = fmt.Fprintln(ctx.Stdout, "  Edit cancelled.")
				return false
			}
			container = resolved
		default:
			container = resolved
		}
	}

	answer := promptInput(fmt.Sprintf("How many units in 1 %s:", container))
	factor, err := strconv.ParseFloat(answer, 64)
	if err != nil || factor <= 0 {
		return false
	}

	cfg.AddConversion(item, container, factor)
	_, _ = fmt.Fprintf(ctx.Stdout, "  Saved: 1 %s of %s = %s\n", container, item, answer)
	return true
}

func promptInput(title string) string {
	var value string
	form := huh.NewInput().Title(title).Value(&value)
	if err := form.Run(); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func promptConfirm(question string) bool {
	var confirm bool
	form := huh.NewConfirm().Title(question).Value(&confirm)
	if err := form.Run(); err != nil {
		return false
	}
	return confirm
}
