package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/stocktext/stocktext/parser"
)

func TestStarterConfigParsesRealMessages(t *testing.T) {
	cfg := starterConfig()
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	result := parser.Parse("passed 2 small boxes cherry tomatoes to North", cfg, today)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, "cherry tomatoes", result.Rows[0].Item)
	assert.True(t, result.Rows[0].Qty.Equal(decimal.NewFromInt(-1980)))
	assert.Equal(t, "North", result.Rows[1].Location)

	result = parser.Parse("got 50 cucumbers from the supplier", cfg, today)
	assert.Equal(t, 1, len(result.Rows))
	assert.Equal(t, "supplier_to_warehouse", result.Rows[0].TransType)
}

func TestStarterConfigRoundTripsThroughYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, starterConfig().Save(path))

	g := &Globals{Config: path}
	cfg, err := g.LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, starterConfig().Items, cfg.Items)
	assert.Equal(t, "cherry tomatoes", cfg.Aliases["cherry"])
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "absent.yaml")}

	cfg, err := g.LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(cfg.Items))
	assert.Equal(t, "warehouse", cfg.DefaultSource)
}

func TestLoadConfigInvalidFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("items: [unclosed"), 0o644))

	g := &Globals{Config: path}
	_, err := g.LoadConfig()
	assert.Error(t, err)
}

func TestFileOrStdinText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "message.txt")
	assert.NoError(t, os.WriteFile(path, []byte("passed 5 cucumbers to North\n"), 0o644))

	f := &FileOrStdin{Filename: path}
	text, err := f.Text()
	assert.NoError(t, err)
	assert.Equal(t, "passed 5 cucumbers to North\n", text)
}

func TestFileOrStdinAbsoluteFilename(t *testing.T) {
	f := &FileOrStdin{Filename: "<stdin>"}
	assert.Equal(t, "<stdin>", f.GetAbsoluteFilename())

	f = &FileOrStdin{Filename: "message.txt"}
	assert.True(t, filepath.IsAbs(f.GetAbsoluteFilename()))
}

func TestCommandError(t *testing.T) {
	err := NewCommandError(3)
	assert.Equal(t, 3, err.ExitCode())
	assert.Equal(t, "command failed", err.Error())
}
