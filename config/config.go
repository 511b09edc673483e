// Package config holds the closed vocabulary the parser operates over: item
// names, aliases, locations, transaction types, action verbs, and unit
// conversions. Configuration is loaded from a YAML file and treated as an
// immutable snapshot per parse call; the review loop may append learned
// aliases and conversions and persist them for future parses.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Config is the full parser configuration. Every optional key has a default
// substituted by Normalize, so the parsing pipeline never branches on a
// missing key.
type Config struct {
	// Items is the canonical item list; all recognized surface forms
	// resolve to one of these names.
	Items []string `yaml:"items"`

	// Aliases maps a surface form to a canonical item, location,
	// container, or transaction type.
	Aliases map[string]string `yaml:"aliases"`

	Locations     []string `yaml:"locations"`
	DefaultSource string   `yaml:"default_source"`

	TransactionTypes []string `yaml:"transaction_types"`

	// ActionVerbs maps a transaction type to the verbs that trigger it.
	ActionVerbs map[string][]string `yaml:"action_verbs"`

	// UnitConversions maps item -> container -> factor in base units.
	UnitConversions map[string]map[string]float64 `yaml:"unit_conversions"`

	FillerWords []string `yaml:"filler_words"`

	// NonZeroSumTypes are transaction types that create or destroy stock
	// and therefore produce a single row instead of a double-entry pair.
	NonZeroSumTypes []string `yaml:"non_zero_sum_types"`

	DefaultTransferType string `yaml:"default_transfer_type"`

	// Prepositions groups preposition words by semantic direction
	// ("to", "by", "from").
	Prepositions map[string][]string `yaml:"prepositions"`

	// FromWords introduce a trailing supplier phrase captured as a note.
	FromWords []string `yaml:"from_words"`

	// RequiredFields are row fields the review step warns about when unset.
	RequiredFields []string `yaml:"required_fields"`

	// path remembers where the config was loaded from so learned aliases
	// and conversions can be saved back.
	path string
}

// Default returns a configuration with every optional key filled in and an
// empty vocabulary. Parsing against it yields only notes and unparseable
// lines, never a crash.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize substitutes defaults for every missing optional key and
// initializes nil maps. Called after YAML decoding and by Default.
func (c *Config) Normalize() {
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	if c.ActionVerbs == nil {
		c.ActionVerbs = map[string][]string{}
	}
	if c.UnitConversions == nil {
		c.UnitConversions = map[string]map[string]float64{}
	}
	if c.DefaultSource == "" {
		c.DefaultSource = "warehouse"
	}
	if c.DefaultTransferType == "" {
		c.DefaultTransferType = "warehouse_to_branch"
	}
	if len(c.NonZeroSumTypes) == 0 {
		c.NonZeroSumTypes = []string{"eaten", "starting_point", "recount", "supplier_to_warehouse"}
	}
	if len(c.Prepositions) == 0 {
		c.Prepositions = map[string][]string{
			"to":   {"to", "into"},
			"by":   {"by"},
			"from": {"from"},
		}
	}
	if len(c.FromWords) == 0 {
		c.FromWords = []string{"from"}
	}
	if len(c.FillerWords) == 0 {
		c.FillerWords = []string{"that's", "what", "the", "of", "a", "an", "some", "via"}
	}
	if len(c.RequiredFields) == 0 {
		c.RequiredFields = []string{"trans_type", "location"}
	}
}

// Load reads and normalizes a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	cfg.path = path
	return cfg, nil
}

// Save writes the configuration back to the given path, or to the path it was
// loaded from when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.path
	}
	if path == "" {
		return fmt.Errorf("no config path to save to")
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.path = path
	return nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string { return c.path }

// AddAlias records a learned surface-form-to-canonical mapping.
func (c *Config) AddAlias(alias, canonical string) {
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	c.Aliases[alias] = canonical
}

// AddConversion records a learned per-item container conversion factor.
func (c *Config) AddConversion(item, container string, factor float64) {
	if c.UnitConversions == nil {
		c.UnitConversions = map[string]map[string]float64{}
	}
	if c.UnitConversions[item] == nil {
		c.UnitConversions[item] = map[string]float64{}
	}
	c.UnitConversions[item][container] = factor
}

// ConversionFactor returns the configured factor for an item/container pair.
func (c *Config) ConversionFactor(item, container string) (decimal.Decimal, bool) {
	factor, ok := c.UnitConversions[item][container]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(factor), true
}

// Containers collects every container name mentioned in UnitConversions,
// sorted for deterministic matching order.
func (c *Config) Containers() []string {
	seen := map[string]struct{}{}
	for _, convs := range c.UnitConversions {
		for container := range convs {
			seen[container] = struct{}{}
		}
	}
	containers := maps.Keys(seen)
	slices.Sort(containers)
	return containers
}

// AllLocations returns the configured locations with the default source
// appended when it is not already listed.
func (c *Config) AllLocations() []string {
	locs := slices.Clone(c.Locations)
	if !slices.ContainsFunc(locs, func(l string) bool {
		return strings.EqualFold(l, c.DefaultSource)
	}) {
		locs = append(locs, c.DefaultSource)
	}
	return locs
}

// IsLocation reports whether name is a known location or the default source.
func (c *Config) IsLocation(name string) bool {
	for _, l := range c.AllLocations() {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// IsNonZeroSum reports whether a transaction type creates or destroys stock.
func (c *Config) IsNonZeroSum(transType string) bool {
	if transType == "" {
		return false
	}
	for _, t := range c.NonZeroSumTypes {
		if strings.EqualFold(t, transType) {
			return true
		}
	}
	return false
}
