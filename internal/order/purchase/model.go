package purchase

import (
	"time"
)

// Purchase order statuses.
const (
	StatusOpen      = "OPEN"
	StatusCancelled = "CANCELLED"
	StatusClosed    = "CLOSED"
)

// Order is a persisted purchase order with its line items.
type Order struct {
	ID            int64     `json:"id"`
	OrderNo       string    `json:"orderNo"`
	RefNo         string    `json:"refNo,omitempty"`
	OrderDate     time.Time `json:"orderDate"`
	SupplierID    int64     `json:"supplierId"`
	Status        string    `json:"status"`
	ItemTotal     float64   `json:"itemTotal"`
	DiscountTotal float64   `json:"discountTotal"`
	NetAmount     float64   `json:"netAmount"`
	Lines         []Line    `json:"lines"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Line is one ordered catalog item on a purchase order.
type Line struct {
	ID          int64   `json:"id"`
	ItemID      int64   `json:"itemId"`
	ItemNo      string  `json:"itemNo"`
	Name        string  `json:"name"`
	StockUnit   string  `json:"stockUnit"`
	PackingUnit string  `json:"packingUnit"`
	OrderQty    int     `json:"orderQty"`
	UnitPrice   float64 `json:"unitPrice"`
	ItemAmount  float64 `json:"itemAmount"`
	Discount    float64 `json:"discount"`
	NetAmount   float64 `json:"netAmount"`
	LineOrder   int     `json:"lineOrder"`
}

// Editable reports whether the order may still be modified.
func (o Order) Editable() bool {
	return o.Status == StatusOpen
}

// recalc rederives line amounts and order aggregates from quantities and
// unit prices. Totals are always a full re-summation over the lines.
func (o *Order) recalc() {
	var itemTotal, discountTotal, netAmount float64
	for i := range o.Lines {
		line := &o.Lines[i]
		line.ItemAmount = float64(line.OrderQty) * line.UnitPrice
		line.NetAmount = line.ItemAmount - line.Discount
		line.LineOrder = i
		itemTotal += line.ItemAmount
		discountTotal += line.Discount
		netAmount += line.NetAmount
	}
	o.ItemTotal = itemTotal
	o.DiscountTotal = discountTotal
	o.NetAmount = netAmount
}
