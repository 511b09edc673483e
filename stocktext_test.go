package stocktext

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/stocktext/stocktext/config"
)

func TestParse(t *testing.T) {
	cfg := &config.Config{
		Items:     []string{"cucumbers"},
		Locations: []string{"North"},
	}
	cfg.Normalize()

	result := Parse("passed 5 cucumbers to North", cfg)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, "cucumbers", result.Rows[0].Item)
	for _, row := range result.Rows {
		assert.False(t, row.Date.IsZero(), "dateless lines default to today")
	}
}

func TestParseWithEmptyConfig(t *testing.T) {
	result := Parse("hello there", config.Default())

	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, 1, len(result.Notes))
}
