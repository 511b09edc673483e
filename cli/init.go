package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/stocktext/stocktext/config"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// Run writes a starter config with a small sample vocabulary to edit.
func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	if !cmd.Force {
		if _, err := os.Stat(globals.Config); err == nil {
			printError(ctx.Stderr, fmt.Sprintf("%s already exists (use --force to overwrite)", globals.Config))
			return NewCommandError(1)
		}
	}

	cfg := starterConfig()
	if err := cfg.Save(globals.Config); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("config written to %s", pathStyle.Render(globals.Config)))
	return nil
}

func starterConfig() *config.Config {
	cfg := &config.Config{
		Items: []string{"cherry tomatoes", "spaghetti", "cucumbers"},
		Aliases: map[string]string{
			"cherry": "cherry tomatoes",
		},
		Locations:        []string{"North", "South"},
		TransactionTypes: []string{"warehouse_to_branch", "supplier_to_warehouse", "eaten", "recount"},
		ActionVerbs: map[string][]string{
			"warehouse_to_branch":   {"passed", "gave", "sent", "delivered"},
			"supplier_to_warehouse": {"got", "received", "arrived"},
			"eaten":                 {"ate", "eaten"},
			"recount":               {"recount", "recounted"},
		},
		UnitConversions: map[string]map[string]float64{
			"cherry tomatoes": {"small box": 990, "box": 1980},
		},
	}
	cfg.Normalize()
	return cfg
}
