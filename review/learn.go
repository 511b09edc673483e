package review

import (
	"strings"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/record"
)

// AliasPrompt is an item correction worth remembering: the user replaced
// Original with Canonical during review, and Original is not yet a known
// item or alias.
type AliasPrompt struct {
	Original  string
	Canonical string
}

// AliasOpportunities inspects item edits made during review and returns the
// original-to-canonical pairs that could be saved as aliases. originals maps
// a row index to the token the item was recognized from before the edit.
func AliasOpportunities(rows []*record.Row, originals map[int]string, cfg *config.Config) []AliasPrompt {
	var prompts []AliasPrompt
	seen := map[string]struct{}{}

	for idx, r := range rows {
		original, ok := originals[idx]
		if !ok {
			continue
		}
		canonical := r.Item
		if original == "" || canonical == "" ||
			original == record.Unknown || canonical == record.Unknown {
			continue
		}

		origLower := strings.ToLower(original)
		if origLower == strings.ToLower(canonical) {
			continue
		}
		if knownAlias(origLower, cfg) || knownItem(origLower, cfg) {
			continue
		}
		if _, dup := seen[origLower]; dup {
			continue
		}
		seen[origLower] = struct{}{}

		prompts = append(prompts, AliasPrompt{Original: original, Canonical: canonical})
	}
	return prompts
}

func knownAlias(lower string, cfg *config.Config) bool {
	for alias := range cfg.Aliases {
		if strings.ToLower(alias) == lower {
			return true
		}
	}
	return false
}

func knownItem(lower string, cfg *config.Config) bool {
	for _, item := range cfg.Items {
		if strings.ToLower(item) == lower {
			return true
		}
	}
	return false
}

// ConversionPrompt is an item/container pair that appeared without a
// configured conversion factor.
type ConversionPrompt struct {
	Item      string
	Container string
}

// ConversionOpportunities returns the unconverted item/container pairs in the
// confirmed rows, deduplicated, skipping pairs that already have a factor.
func ConversionOpportunities(rows []*record.Row, cfg *config.Config) []ConversionPrompt {
	var prompts []ConversionPrompt
	seen := map[[2]string]struct{}{}

	for _, r := range rows {
		if r.Container == "" || r.Item == record.Unknown || r.Item == "" {
			continue
		}
		key := [2]string{r.Item, r.Container}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, exists := cfg.ConversionFactor(r.Item, r.Container); exists {
			continue
		}
		prompts = append(prompts, ConversionPrompt{Item: r.Item, Container: r.Container})
	}
	return prompts
}
