// Package review implements the interactive review step between parsing and
// export: the parsed rows are shown as a table, the user edits fields,
// deletes or adds rows, or re-edits the raw text and re-parses, and finally
// confirms. Corrections feed back into the configuration as learned aliases
// and unit conversions.
package review

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slices"
	"golang.org/x/term"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/parser"
	"github.com/stocktext/stocktext/record"
)

// Outcome is what a confirmed review session produces.
type Outcome struct {
	Rows  []*record.Row
	Notes []string
}

// Session drives one review of a parsed message.
type Session struct {
	cfg   *config.Config
	raw   string
	today time.Time

	rows        []*record.Row
	notes       []string
	unparseable []string

	in          *bufio.Scanner
	out         io.Writer
	interactive bool

	// originals maps row index to the token the item was recognized from,
	// recorded when the user edits the item so an alias can be offered.
	originals map[int]string
	learned   bool
}

// Option configures a Session.
type Option func(*Session)

// WithIO redirects the session's streams; prompts fall back to plain line
// reads instead of terminal forms.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Session) {
		s.in = bufio.NewScanner(in)
		s.out = out
		s.interactive = false
	}
}

// New creates a review session over a parse result. raw is the message text
// the result came from, kept for the re-parse command.
func New(result *record.Result, raw string, cfg *config.Config, today time.Time, opts ...Option) *Session {
	s := &Session{
		cfg:         cfg,
		raw:         raw,
		today:       today,
		rows:        append([]*record.Row{}, result.Rows...),
		notes:       append([]string{}, result.Notes...),
		unparseable: append([]string{}, result.Unparseable...),
		in:          bufio.NewScanner(os.Stdin),
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		originals:   map[int]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConfigChanged reports whether the session saved learned aliases or
// conversions into the configuration.
func (s *Session) ConfigChanged() bool { return s.learned }

var (
	deleteRe = regexp.MustCompile(`^x(\d+)$`)
	fieldRe  = regexp.MustCompile(`^(\d+)([diqtlbn])$`)
)

var fieldCodes = map[string]record.Field{
	"d": record.FieldDate,
	"i": record.FieldItem,
	"q": record.FieldQty,
	"t": record.FieldTransType,
	"l": record.FieldLocation,
	"b": record.FieldBatch,
	"n": record.FieldNotes,
}

// Run loops until the user confirms, quits, or input runs out. A nil Outcome
// means the parse was discarded.
func (s *Session) Run() (*Outcome, error) {
	for {
		fmt.Fprint(s.out, Render(s.rows, s.notes, s.unparseable, s.cfg))

		if len(s.rows) == 0 {
			outcome, done := s.promptEmpty()
			if done {
				return outcome, nil
			}
			continue
		}

		fmt.Fprintln(s.out, "\n[c]onfirm / edit (e.g. 1i) / [r]etry / [q]uit  (? for help)")
		cmd, ok := s.readCommand()
		if !ok {
			return nil, nil
		}

		switch cmd {
		case "?":
			fmt.Fprintln(s.out, helpText(s.cfg))
			continue
		case "c":
			if outcome, done := s.confirm(); done {
				return outcome, nil
			}
			continue
		case "q":
			return nil, nil
		case "r":
			s.retry()
			continue
		case "+":
			s.rows = append(s.rows, record.Empty(s.today))
			continue
		}

		if m := deleteRe.FindStringSubmatch(cmd); m != nil {
			s.deleteRow(atoi(m[1]) - 1)
			continue
		}
		if m := fieldRe.FindStringSubmatch(cmd); m != nil {
			s.editField(atoi(m[1])-1, fieldCodes[m[2]])
			continue
		}

		fmt.Fprintln(s.out, "  Unknown command. Type ? for help, or try e.g. 1i to edit the item on row 1.")
	}
}

// promptEmpty handles a result with no transaction rows: plain notes can be
// kept, everything else can be re-edited or skipped.
func (s *Session) promptEmpty() (*Outcome, bool) {
	if len(s.notes) > 0 {
		fmt.Fprintln(s.out, "\nNo transactions found.")
		fmt.Fprintln(s.out, "Save as [n]ote / [r]etry / [s]kip  (? for help)")
	} else {
		fmt.Fprintln(s.out, "\n[r]etry / [s]kip  (? for help)")
	}

	cmd, ok := s.readCommand()
	if !ok {
		return nil, true
	}
	switch cmd {
	case "?":
		fmt.Fprintln(s.out, "  n  save as note  /  r  edit text and re-parse  /  s  skip")
		return nil, false
	case "n":
		if len(s.notes) > 0 {
			return &Outcome{Notes: s.notes}, true
		}
	case "s", "q", "c":
		return nil, true
	case "r", "e":
		s.retry()
		return nil, false
	case "+":
		s.rows = append(s.rows, record.Empty(s.today))
		return nil, false
	}
	fmt.Fprintln(s.out, "  Unknown command. Type ? for help.")
	return nil, false
}

// confirm finishes the session: warns about incomplete rows, offers alias and
// conversion learning, and strips container markers from the returned rows.
func (s *Session) confirm() (*Outcome, bool) {
	var incomplete []string
	for i, r := range s.rows {
		if r.Item == record.Unknown || r.HasWarning(s.cfg.RequiredFields) {
			incomplete = append(incomplete, strconv.Itoa(i+1))
		}
	}
	if len(incomplete) > 0 {
		question := fmt.Sprintf("Row(s) %s have incomplete fields (%s). Confirm anyway?",
			strings.Join(incomplete, ", "), record.Unknown)
		if !s.promptYesNo(question) {
			return nil, false
		}
	}

	for _, p := range AliasOpportunities(s.rows, s.originals, s.cfg) {
		if s.promptYesNo(fmt.Sprintf("Save %q → %q as alias?", p.Original, p.Canonical)) {
			s.cfg.AddAlias(p.Original, p.Canonical)
			s.learned = true
		}
	}
	for _, p := range ConversionOpportunities(s.rows, s.cfg) {
		answer, ok := s.promptLine(fmt.Sprintf("Save unit conversion? 1 %s of %s = ?", p.Container, p.Item))
		if !ok || answer == "" {
			continue
		}
		factor, err := strconv.ParseFloat(answer, 64)
		if err != nil || factor <= 0 {
			continue
		}
		s.cfg.AddConversion(p.Item, p.Container, factor)
		fmt.Fprintf(s.out, "  Saved: 1 %s of %s = %s\n", p.Container, p.Item, answer)
		s.learned = true
	}

	for _, r := range s.rows {
		r.Container = ""
	}
	return &Outcome{Rows: s.rows, Notes: s.notes}, true
}

// retry shows the raw text as numbered lines, lets the user replace, delete,
// or append lines, and re-parses the edited text.
func (s *Session) retry() {
	var lines []string
	for _, l := range strings.Split(s.raw, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	for {
		fmt.Fprintln(s.out)
		for i, l := range lines {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, l)
		}
		answer, ok := s.promptLine("Line # to edit (Enter to re-parse):")
		if !ok || answer == "" {
			break
		}
		num, err := strconv.Atoi(answer)
		if err != nil || num < 1 || num > len(lines)+1 {
			fmt.Fprintln(s.out, "  Invalid row number.")
			continue
		}
		if num == len(lines)+1 {
			text, _ := s.promptLine("  New text:")
			if text != "" {
				lines = append(lines, text)
			}
			continue
		}
		fmt.Fprintf(s.out, "  %s\n", lines[num-1])
		text, _ := s.promptLine("  New text (Enter to delete line):")
		if text != "" {
			lines[num-1] = text
			fmt.Fprintf(s.out, "  Line %d updated.\n", num)
		} else {
			lines = append(lines[:num-1], lines[num:]...)
			fmt.Fprintf(s.out, "  Line %d deleted.\n", num)
		}
	}

	if len(lines) > 0 {
		s.raw = strings.Join(lines, "\n")
	}
	result := parser.Parse(s.raw, s.cfg, s.today)
	s.rows = result.Rows
	s.notes = result.Notes
	s.unparseable = result.Unparseable
	s.originals = map[int]string{}
}

func (s *Session) deleteRow(idx int) {
	if idx < 0 || idx >= len(s.rows) {
		fmt.Fprintln(s.out, "  Invalid row number.")
		return
	}
	partner := record.FindPartner(s.rows, idx)
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	fmt.Fprintf(s.out, "  Row %d deleted.\n", idx+1)
	if partner >= 0 {
		if partner > idx {
			partner--
		}
		fmt.Fprintf(s.out, "  Note: Row %d is the double-entry partner and now standalone.\n", partner+1)
	}
	delete(s.originals, idx)
}

func (s *Session) editField(idx int, field record.Field) {
	if idx < 0 || idx >= len(s.rows) {
		fmt.Fprintln(s.out, "  Invalid row number.")
		return
	}
	row := s.rows[idx]

	switch field {
	case record.FieldItem, record.FieldTransType, record.FieldLocation:
		options := s.closedSetOptions(field)
		choice, ok := s.promptSelect(displayName(field), options)
		if !ok {
			fmt.Fprintln(s.out, "  Edit cancelled.")
			return
		}
		if field == record.FieldItem {
			s.recordOriginal(idx, choice)
			// Resolve the partner before the edit breaks the item equality
			// the lookup matches on.
			partner := record.FindPartner(s.rows, idx)
			row.Item = choice
			if partner >= 0 {
				s.rows[partner].Item = choice
			}
		} else if field == record.FieldTransType {
			row.TransType = choice
			record.SyncPartner(s.rows, idx, field)
		} else {
			row.Location = choice
		}
		fmt.Fprintf(s.out, "  Row %d %s → %s\n", idx+1, displayName(field), choice)
		return

	case record.FieldQty:
		answer, ok := s.promptLine(fmt.Sprintf("QTY (current: %s, Enter to cancel)", row.FormatQty()))
		if !ok || answer == "" {
			fmt.Fprintln(s.out, "  Edit cancelled.")
			return
		}
		qty, valid := record.EvalQty(answer)
		if !valid {
			fmt.Fprintln(s.out, "  Invalid quantity.")
			return
		}
		row.Qty = qty
		record.SyncPartner(s.rows, idx, field)
		fmt.Fprintf(s.out, "  Row %d qty → %s\n", idx+1, qty.String())
		return

	case record.FieldDate:
		answer, ok := s.promptLine(fmt.Sprintf("DATE (current: %s, Enter to cancel)", record.FormatDate(row.Date)))
		if !ok || answer == "" {
			fmt.Fprintln(s.out, "  Edit cancelled.")
			return
		}
		date, valid := record.ParseDate(answer)
		if !valid {
			fmt.Fprintln(s.out, "  Invalid date. Use DD.MM.YY or YYYY-MM-DD.")
			return
		}
		row.Date = date
		record.SyncPartner(s.rows, idx, field)
		fmt.Fprintf(s.out, "  Row %d date → %s\n", idx+1, record.FormatDate(date))
		return

	case record.FieldBatch:
		answer, ok := s.promptLine(fmt.Sprintf("BATCH (current: %d, Enter to cancel)", row.Batch))
		if !ok || answer == "" {
			fmt.Fprintln(s.out, "  Edit cancelled.")
			return
		}
		batch, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(s.out, "  Invalid batch number.")
			return
		}
		row.Batch = batch
		record.SyncPartner(s.rows, idx, field)
		fmt.Fprintf(s.out, "  Row %d batch → %d\n", idx+1, batch)
		return

	case record.FieldNotes:
		answer, ok := s.promptLine(fmt.Sprintf("NOTES (current: %s, Enter to cancel)", row.Notes))
		if !ok || answer == "" {
			fmt.Fprintln(s.out, "  Edit cancelled.")
			return
		}
		row.Notes = answer
		fmt.Fprintf(s.out, "  Row %d notes → %s\n", idx+1, answer)
	}
}

// recordOriginal remembers the token an item was recognized from, preferring
// the raw matched span over the resolved name, so confirming can offer the
// original wording as an alias.
func (s *Session) recordOriginal(idx int, newItem string) {
	if _, already := s.originals[idx]; already {
		return
	}
	original := s.rows[idx].Matched
	if original == "" {
		original = s.rows[idx].Item
	}
	if original != "" && original != record.Unknown && original != newItem {
		s.originals[idx] = original
	}
}

func (s *Session) closedSetOptions(field record.Field) []string {
	switch field {
	case record.FieldItem:
		return s.cfg.Items
	case record.FieldTransType:
		return s.cfg.TransactionTypes
	case record.FieldLocation:
		return s.cfg.AllLocations()
	}
	return nil
}

func displayName(field record.Field) string {
	switch field {
	case record.FieldItem:
		return "item"
	case record.FieldTransType:
		return "type"
	case record.FieldLocation:
		return "location"
	}
	return string(field)
}

func (s *Session) readCommand() (string, bool) {
	fmt.Fprint(s.out, "> ")
	if !s.in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(s.in.Text())), true
}

// promptYesNo asks a yes/no question; terminal sessions get a confirm form,
// piped sessions read a y/n line.
func (s *Session) promptYesNo(question string) bool {
	if s.interactive {
		var confirm bool
		form := huh.NewConfirm().
			Title(question).
			WithButtonAlignment(lipgloss.Left).
			Value(&confirm)
		if err := form.Run(); err != nil {
			return false
		}
		return confirm
	}
	fmt.Fprintf(s.out, "%s [y/n] ", question)
	if !s.in.Scan() {
		return false
	}
	return strings.ToLower(strings.TrimSpace(s.in.Text())) == "y"
}

// promptLine asks for a free-form value; empty means cancel.
func (s *Session) promptLine(title string) (string, bool) {
	if s.interactive {
		var value string
		form := huh.NewInput().
			Title(title).
			Value(&value)
		if err := form.Run(); err != nil {
			return "", false
		}
		return strings.TrimSpace(value), true
	}
	fmt.Fprintf(s.out, "%s\n> ", title)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptSelect asks the user to pick from a closed set; terminal sessions get
// a select form, piped sessions get a lettered list that also accepts a
// unique prefix of the value.
func (s *Session) promptSelect(title string, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	if s.interactive {
		var value string
		form := huh.NewSelect[string]().
			Title(title).
			Options(huh.NewOptions(options...)...).
			Value(&value)
		if err := form.Run(); err != nil {
			return "", false
		}
		return value, true
	}

	fmt.Fprintf(s.out, "\n%s:\n", title)
	for i, opt := range options {
		fmt.Fprintf(s.out, "  [%c] %s\n", letterFor(i), opt)
	}
	for {
		fmt.Fprint(s.out, "Enter letter (or Enter to cancel)> ")
		if !s.in.Scan() {
			return "", false
		}
		choice := strings.TrimSpace(s.in.Text())
		if choice == "" {
			return "", false
		}
		if len(choice) == 1 {
			if idx := int(choice[0] - 'a'); idx >= 0 && idx < len(options) {
				return options[idx], true
			}
		}
		lower := strings.ToLower(choice)
		for _, opt := range options {
			if strings.HasPrefix(strings.ToLower(opt), lower) {
				return opt, true
			}
		}
		fmt.Fprintf(s.out, "  Invalid choice. Enter a letter (a-%c).\n", letterFor(len(options)-1))
	}
}

func letterFor(i int) byte {
	if i > 25 {
		i = 25
	}
	return byte('a' + i)
}

func helpText(cfg *config.Config) string {
	lines := []string{
		"Commands:",
		"  c              Confirm and save all rows",
		"  q              Quit (discard this parse)",
		"  r              Edit raw text and re-parse",
		"  <#><field>     Edit a field (e.g., 1i)",
		"  x<#>           Delete a row (e.g., x1)",
		"  +              Add a new empty row",
		"  ?              Show this help",
		"",
		"Field codes:",
		"  d = date",
		"  i = item",
		"  q = qty",
		"  t = type",
		"  l = location",
		"  b = batch",
		"  n = notes",
	}
	if len(cfg.Items) > 0 {
		lines = append(lines, "", "Known items:")
		for _, item := range cfg.Items {
			var aliases []string
			for alias, canon := range cfg.Aliases {
				if canon == item {
					aliases = append(aliases, alias)
				}
			}
			slices.Sort(aliases)
			if len(aliases) > 0 {
				lines = append(lines, fmt.Sprintf("  %s  (%s)", item, strings.Join(aliases, ", ")))
			} else {
				lines = append(lines, "  "+item)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
