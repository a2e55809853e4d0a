// Package export serialises purchase order line items to CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one exported line item.
type Row struct {
	ItemNo      string
	Name        string
	StockUnit   string
	PackingUnit string
	OrderQty    int
	UnitPrice   decimal.Decimal
	ItemAmount  decimal.Decimal
	Discount    decimal.Decimal
	NetAmount   decimal.Decimal
}

// Summary carries the order aggregates appended below the line rows.
type Summary struct {
	ItemTotal     decimal.Decimal
	DiscountTotal decimal.Decimal
	NetAmount     decimal.Decimal
}

var printer = message.NewPrinter(language.English)

// WriteLineItemsCSV emits the line items followed by the order totals.
func WriteLineItemsCSV(w io.Writer, rows []Row, totals Summary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"Item No", "Item Name", "Stock Unit", "Packing Unit",
		"Order Qty", "Unit Price", "Item Amount", "Discount", "Net Amount",
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ItemNo,
			row.Name,
			row.StockUnit,
			row.PackingUnit,
			strconv.Itoa(row.OrderQty),
			row.UnitPrice.StringFixed(2),
			row.ItemAmount.StringFixed(2),
			row.Discount.StringFixed(2),
			row.NetAmount.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	if err := writer.Write(nil); err != nil {
		return err
	}
	summary := [][]string{
		{"Item Total", formatAmount(totals.ItemTotal)},
		{"Discount Total", formatAmount(totals.DiscountTotal)},
		{"Net Amount", formatAmount(totals.NetAmount)},
	}
	for _, record := range summary {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatAmount renders totals with grouping separators for the human summary
// rows, e.g. "12,345.60".
func formatAmount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.InexactFloat64())
}
