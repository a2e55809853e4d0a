package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWriteLineItemsCSV(t *testing.T) {
	rows := []Row{
		{
			ItemNo:      "ITM-1",
			Name:        "Arabica Beans",
			StockUnit:   "kg",
			PackingUnit: "sack",
			OrderQty:    4,
			UnitPrice:   decimal.NewFromFloat(12.5),
			ItemAmount:  decimal.NewFromFloat(50),
			Discount:    decimal.NewFromFloat(2.5),
			NetAmount:   decimal.NewFromFloat(47.5),
		},
		{
			ItemNo:      "ITM-2",
			Name:        "Paper Cups",
			StockUnit:   "pcs",
			PackingUnit: "box",
			OrderQty:    1000,
			UnitPrice:   decimal.NewFromFloat(0.1),
			ItemAmount:  decimal.NewFromFloat(100),
			Discount:    decimal.Zero,
			NetAmount:   decimal.NewFromFloat(100),
		},
	}
	totals := Summary{
		ItemTotal:     decimal.NewFromFloat(150),
		DiscountTotal: decimal.NewFromFloat(2.5),
		NetAmount:     decimal.NewFromFloat(147.5),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLineItemsCSV(&buf, rows, totals))

	want := strings.Join([]string{
		"Item No,Item Name,Stock Unit,Packing Unit,Order Qty,Unit Price,Item Amount,Discount,Net Amount",
		"ITM-1,Arabica Beans,kg,sack,4,12.50,50.00,2.50,47.50",
		"ITM-2,Paper Cups,pcs,box,1000,0.10,100.00,0.00,100.00",
		"",
		"Item Total,150.00",
		"Discount Total,2.50",
		"Net Amount,147.50",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteLineItemsCSVEmptyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLineItemsCSV(&buf, nil, Summary{
		ItemTotal:     decimal.Zero,
		DiscountTotal: decimal.Zero,
		NetAmount:     decimal.Zero,
	}))

	out := buf.String()
	require.Contains(t, out, "Item No,Item Name")
	require.Contains(t, out, "Item Total,0.00")
}

func TestWriteLineItemsCSVGroupsLargeTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLineItemsCSV(&buf, nil, Summary{
		ItemTotal:     decimal.NewFromFloat(1234567.8),
		DiscountTotal: decimal.Zero,
		NetAmount:     decimal.NewFromFloat(1234567.8),
	}))

	// Summary amounts use grouping separators, which the csv writer quotes.
	require.Contains(t, buf.String(), `"1,234,567.80"`)
}
