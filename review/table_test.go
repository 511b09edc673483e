package review

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/stocktext/stocktext/record"
)

func TestRenderTable(t *testing.T) {
	cfg := testConfig()
	rows := []*record.Row{
		{
			Date:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			Item:      "cucumbers",
			Qty:       decimal.NewFromInt(-5),
			TransType: "warehouse_to_branch",
			Location:  "warehouse",
			Batch:     1,
		},
		{
			Date:     time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			Item:     "cucumbers",
			Qty:      decimal.NewFromInt(5),
			Location: "L",
			Batch:    1,
			// TransType missing: flagged as a warning row.
		},
	}

	got := Render(rows, nil, nil, cfg)

	assert.Contains(t, got, "ITEM")
	assert.Contains(t, got, "cucumbers")
	assert.Contains(t, got, "2025-03-15")
	assert.Contains(t, got, "⚠ 2")
	assert.NotContains(t, got, "⚠ 1")
}

func TestRenderNotesAndUnparseable(t *testing.T) {
	cfg := testConfig()

	got := Render(nil, []string{"call me later"}, []string{"4 82 95"}, cfg)

	assert.Contains(t, got, `Note: "call me later"`)
	assert.Contains(t, got, `Could not parse: "4 82 95"`)
	assert.Contains(t, got, "Known items: cherry tomatoes, spaghetti, cucumbers")
}

func TestRenderEmpty(t *testing.T) {
	got := Render(nil, nil, nil, testConfig())
	assert.Contains(t, got, "Nothing to display.")
}

func TestRenderContainerMarker(t *testing.T) {
	rows := []*record.Row{{
		Item:      "spaghetti",
		Qty:       decimal.NewFromInt(2),
		TransType: "eaten",
		Location:  "L",
		Batch:     1,
		Container: "box",
	}}

	got := Render(rows, nil, nil, testConfig())
	assert.Contains(t, got, "2 [box?]")
}
