package parser

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/stocktext/stocktext/config"
	"github.com/stocktext/stocktext/record"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Items:         []string{"cherry tomatoes", "spaghetti", "cucumbers"},
		Aliases:       map[string]string{"cherry": "cherry tomatoes"},
		Locations:     []string{"L", "North"},
		DefaultSource: "warehouse",
		TransactionTypes: []string{
			"warehouse_to_branch", "supplier_to_warehouse", "eaten", "recount",
		},
		ActionVerbs: map[string][]string{
			"warehouse_to_branch":   {"passed", "gave", "sent"},
			"supplier_to_warehouse": {"got", "received"},
			"eaten":                 {"ate", "eaten"},
			"recount":               {"recount"},
		},
		UnitConversions: map[string]map[string]float64{
			"cherry tomatoes": {"small box": 990, "box": 1980},
		},
	}
	cfg.Normalize()
	return cfg
}

var testToday = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseTransferWithMultiplication(t *testing.T) {
	result := Parse("passed 2x17 spaghetti to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, 0, len(result.Notes))
	assert.Equal(t, 0, len(result.Unparseable))

	out, in := result.Rows[0], result.Rows[1]
	assert.Equal(t, "spaghetti", out.Item)
	assert.True(t, out.Qty.Equal(qty("-34")))
	assert.Equal(t, "warehouse", out.Location)
	assert.Equal(t, "warehouse_to_branch", out.TransType)
	assert.Equal(t, 1, out.Batch)

	assert.Equal(t, "spaghetti", in.Item)
	assert.True(t, in.Qty.Equal(qty("34")))
	assert.Equal(t, "L", in.Location)
	assert.Equal(t, "warehouse_to_branch", in.TransType)
	assert.Equal(t, 1, in.Batch)
}

func TestParseContextHeaderBroadcast(t *testing.T) {
	text := "eaten by L 15.3.25\n2 small boxes cherry tomatoes\n4 cucumbers"
	result := Parse(text, testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, 0, len(result.Unparseable))

	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	first := result.Rows[0]
	assert.Equal(t, "cherry tomatoes", first.Item)
	assert.True(t, first.Qty.Equal(qty("1980")), "2 small boxes at 990 each, got %s", first.Qty)
	assert.Equal(t, "eaten", first.TransType)
	assert.Equal(t, "L", first.Location)
	assert.Equal(t, 1, first.Batch)
	assert.True(t, first.Date.Equal(want))

	second := result.Rows[1]
	assert.Equal(t, "cucumbers", second.Item)
	assert.True(t, second.Qty.Equal(qty("4")))
	assert.Equal(t, "eaten", second.TransType)
	assert.Equal(t, "L", second.Location)
	assert.Equal(t, 1, second.Batch)
	assert.True(t, second.Date.Equal(want))
}

func TestParseNumbersOnlyIsUnparseable(t *testing.T) {
	result := Parse("4 82 95 3 1", testConfig(), testToday)

	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, 0, len(result.Notes))
	assert.Equal(t, []string{"4 82 95 3 1"}, result.Unparseable)
}

func TestParseQuantityItemMerge(t *testing.T) {
	result := Parse("10\n20\ncucumbers to L", testConfig(), testToday)

	// Only the adjacent quantity line merges; the first stays unparseable.
	assert.Equal(t, []string{"10"}, result.Unparseable)
	assert.Equal(t, 1, len(result.Rows))

	row := result.Rows[0]
	assert.Equal(t, "cucumbers", row.Item)
	assert.True(t, row.Qty.Equal(qty("20")))
	// The item line's own location is dropped by the merge and nothing else
	// in the message can broadcast it back.
	assert.Equal(t, "", row.Location)
}

func TestParseSixDigitDate(t *testing.T) {
	result := Parse("recount 150325 cucumbers", testConfig(), testToday)

	assert.Equal(t, 1, len(result.Rows))
	row := result.Rows[0]
	assert.Equal(t, "cucumbers", row.Item)
	assert.True(t, row.Qty.Equal(qty("1")), "six digits consumed as date, qty defaults to 1")
	assert.Equal(t, "recount", row.TransType)
	assert.Equal(t, "warehouse", row.Location)
	assert.True(t, row.Date.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParseLongestItemWins(t *testing.T) {
	cfg := testConfig()
	cfg.Items = append(cfg.Items, "sweet cherry tomatoes")

	result := Parse("2 sweet cherry tomatoes", cfg, testToday)

	assert.Equal(t, 1, len(result.Rows))
	assert.Equal(t, "sweet cherry tomatoes", result.Rows[0].Item)
}

func TestParseTookOutOf(t *testing.T) {
	result := Parse("took 3 out of 20 cucumbers", testConfig(), testToday)

	assert.Equal(t, 1, len(result.Rows))
	row := result.Rows[0]
	assert.Equal(t, "cucumbers", row.Item)
	assert.True(t, row.Qty.Equal(qty("3")))
	assert.Equal(t, "had 20 total", row.Notes)
}

func TestParseSupplierNote(t *testing.T) {
	result := Parse("got 50 cucumbers from joe", testConfig(), testToday)

	assert.Equal(t, 1, len(result.Rows))
	row := result.Rows[0]
	assert.Equal(t, "cucumbers", row.Item)
	assert.True(t, row.Qty.Equal(qty("50")))
	assert.Equal(t, "supplier_to_warehouse", row.TransType)
	assert.Equal(t, "warehouse", row.Location)
	assert.Equal(t, "from joe", row.Notes)
}

func TestParseHalfContainer(t *testing.T) {
	result := Parse("half a box cherry tomatoes to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.True(t, result.Rows[0].Qty.Equal(qty("-990")), "half a box of 1980, got %s", result.Rows[0].Qty)
	assert.True(t, result.Rows[1].Qty.Equal(qty("990")))
	assert.Equal(t, "L", result.Rows[1].Location)
}

func TestParseBareContainerImpliesOne(t *testing.T) {
	result := Parse("box cherry tomatoes to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.True(t, result.Rows[1].Qty.Equal(qty("1980")))
}

func TestParseUnknownContainerKeptForLearning(t *testing.T) {
	result := Parse("2 boxes spaghetti to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	row := result.Rows[0]
	assert.True(t, row.Qty.Equal(qty("-2")), "no factor for spaghetti/box, quantity unconverted")
	assert.Equal(t, "box", row.Container)
}

func TestParseContextFoldSetsType(t *testing.T) {
	result := Parse("5 cucumbers to L\neaten", testConfig(), testToday)

	assert.Equal(t, 1, len(result.Rows))
	row := result.Rows[0]
	assert.Equal(t, "eaten", row.TransType)
	assert.Equal(t, "L", row.Location)
	assert.True(t, row.Qty.Equal(qty("5")))
}

func TestParseBatchIncrementsOnDestinationChange(t *testing.T) {
	text := "passed 5 cucumbers to L\npassed 3 spaghetti to North"
	result := Parse(text, testConfig(), testToday)

	assert.Equal(t, 4, len(result.Rows))
	assert.Equal(t, 1, result.Rows[0].Batch)
	assert.Equal(t, 1, result.Rows[1].Batch)
	assert.Equal(t, 2, result.Rows[2].Batch)
	assert.Equal(t, 2, result.Rows[3].Batch)
}

func TestParseBatchIncrementsOnDateChange(t *testing.T) {
	text := "1.3.25 5 cucumbers to L\n2.3.25 3 cucumbers to L"
	result := Parse(text, testConfig(), testToday)

	assert.Equal(t, 4, len(result.Rows))
	assert.Equal(t, 1, result.Rows[0].Batch)
	assert.Equal(t, 2, result.Rows[2].Batch)
}

func TestParseDoubleEntrySumsToZero(t *testing.T) {
	text := "passed 2x17 spaghetti to L\n1.3.25 5 cucumbers to North\nhalf a box cherry tomatoes to L"
	result := Parse(text, testConfig(), testToday)

	type key struct {
		batch int
		item  string
	}
	sums := map[key]decimal.Decimal{}
	pairs := map[key]int{}
	for _, row := range result.Rows {
		k := key{row.Batch, row.Item}
		sums[k] = sums[k].Add(row.Qty)
		pairs[k]++
	}
	for k, n := range pairs {
		if n == 2 {
			assert.True(t, sums[k].IsZero(), "batch %d item %s sums to %s", k.batch, k.item, sums[k])
		}
	}
}

func TestParseFromDirectionReversesFlow(t *testing.T) {
	result := Parse("passed 5 cucumbers from L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	out, in := result.Rows[0], result.Rows[1]
	assert.Equal(t, "L", out.Location)
	assert.True(t, out.Qty.Equal(qty("-5")))
	assert.Equal(t, "warehouse", in.Location)
	assert.True(t, in.Qty.Equal(qty("5")))
}

func TestParseReceivingAtDefaultSource(t *testing.T) {
	result := Parse("passed 5 cucumbers to warehouse", testConfig(), testToday)

	assert.Equal(t, 1, len(result.Rows))
	row := result.Rows[0]
	assert.Equal(t, "warehouse", row.Location)
	assert.True(t, row.Qty.Equal(qty("5")))
}

func TestParseZeroQuantityTransfer(t *testing.T) {
	result := Parse("0 cucumbers to L", testConfig(), testToday)

	// Zero-quantity transfers still produce the pair.
	assert.Equal(t, 2, len(result.Rows))
	assert.True(t, result.Rows[0].Qty.IsZero())
	assert.True(t, result.Rows[1].Qty.IsZero())
}

func TestParseLeadingSignIgnored(t *testing.T) {
	result := Parse("-5 cucumbers to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.True(t, result.Rows[0].Qty.Equal(qty("-5")))
	assert.True(t, result.Rows[1].Qty.Equal(qty("5")))
}

func TestParseProseBecomesNote(t *testing.T) {
	result := Parse("call me when the truck arrives", testConfig(), testToday)

	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, []string{"call me when the truck arrives"}, result.Notes)
}

func TestParseSymbolsBecomeUnparseable(t *testing.T) {
	result := Parse("!!! ???", testConfig(), testToday)

	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, 0, len(result.Notes))
	assert.Equal(t, []string{"!!! ???"}, result.Unparseable)
}

func TestParseStripsMetadata(t *testing.T) {
	result := Parse("passed 5 cucumbers to L <This message was edited>", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))

	result = Parse("<Media omitted>", testConfig(), testToday)
	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, 0, len(result.Notes))
	assert.Equal(t, 0, len(result.Unparseable))
}

func TestParseFuzzyLocation(t *testing.T) {
	result := Parse("passed 5 cucumbers to Norht", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, "North", result.Rows[1].Location)
}

func TestParseEmptyInput(t *testing.T) {
	result := Parse("", testConfig(), testToday)

	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, 0, len(result.Notes))
	assert.Equal(t, 0, len(result.Unparseable))
}

func TestParseDegenerateConfig(t *testing.T) {
	result := Parse("passed 5 cucumbers to L", config.Default(), testToday)

	// Empty vocabulary: nothing matches, nothing crashes.
	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, 1, len(result.Notes)+len(result.Unparseable))
}

func TestParseFallsBackToToday(t *testing.T) {
	result := Parse("passed 5 cucumbers to L", testConfig(), testToday)

	for _, row := range result.Rows {
		assert.True(t, row.Date.Equal(testToday))
	}
}

func TestParseMatchedSpanRecorded(t *testing.T) {
	result := Parse("5 cherry to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, "cherry tomatoes", result.Rows[0].Item)
	assert.Equal(t, "cherry", result.Rows[0].Matched)
}

func TestParseNumberAfterItem(t *testing.T) {
	// Quantity extraction is position independent; the number may trail
	// the item name.
	result := Parse("cucumbers 5 to L", testConfig(), testToday)

	assert.Equal(t, 2, len(result.Rows))
	assert.Equal(t, "cucumbers", result.Rows[0].Item)
	assert.True(t, result.Rows[1].Qty.Equal(qty("5")))
}

func TestParseUnknownRowPlaceholder(t *testing.T) {
	result := Parse("50 zzzqqq to L", testConfig(), testToday)

	// A quantity with unmatchable residue is unparseable, not a ??? row.
	assert.Equal(t, 0, len(result.Rows))
	assert.Equal(t, []string{"50 zzzqqq to L"}, result.Unparseable)
}

func TestRowsForUnknownItemPlaceholder(t *testing.T) {
	// A transaction line without a resolved item name keeps the quantity
	// under the ??? placeholder instead of dropping it.
	l := &line{raw: "7", qty: qty("7"), hasQty: true, hasItem: true}
	rows := rowsFor(l, testConfig(), testToday)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, record.Unknown, rows[0].Item)
}
