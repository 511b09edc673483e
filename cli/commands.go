package cli

import (
	"errors"
	"io/fs"

	"github.com/stocktext/stocktext/config"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config    string `help:"Path to the vocabulary config file." default:"config.yaml" type:"path"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

// LoadConfig loads the configured vocabulary file. A missing file falls back
// to the built-in defaults so parsing still works, just with an empty
// vocabulary.
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

type Commands struct {
	Globals

	Parse  ParseCmd  `cmd:"" help:"Parse a message into transaction rows and print them."`
	Review ReviewCmd `cmd:"" help:"Parse a message and review the rows interactively."`
	Export ExportCmd `cmd:"" help:"Parse a message and append the rows to an XLSX workbook."`
	Init   InitCmd   `cmd:"" help:"Write a starter config file."`
	Debug  DebugCmd  `cmd:"" help:"Parse a message and dump the raw result."`
}
