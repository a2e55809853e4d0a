// Package draft implements the in-memory purchase order draft: an ordered
// collection of line items whose monetary aggregates are recomputed from the
// lines after every mutation. Drafts are the editing surface for purchase
// orders; nothing here touches storage or transport.
package draft

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	// ErrItemAlreadyPlaced occurs when a catalog item is added twice.
	ErrItemAlreadyPlaced = errors.New("draft: item already placed on order")
	// ErrLineNotFound occurs when a line index does not exist.
	ErrLineNotFound = errors.New("draft: line item not found")
	// ErrNotFound indicates the draft itself is missing.
	ErrNotFound = errors.New("draft: not found")
)

// CatalogItem is the read-only slice of an inventory item the draft needs.
// The unit price is captured at the moment the item is placed on the order.
type CatalogItem struct {
	ID         int64
	ItemNo     string
	Name       string
	StockUnit  string
	UnitPrice  decimal.Decimal
	SupplierID int64
}

// LineItem is one catalog item placed on the draft. ItemAmount and NetAmount
// are derived; they are rewritten by every mutation that touches the line.
type LineItem struct {
	ItemID      int64           `json:"itemId"`
	ItemNo      string          `json:"itemNo"`
	Name        string          `json:"name"`
	StockUnit   string          `json:"stockUnit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	PackingUnit string          `json:"packingUnit"`
	OrderQty    int             `json:"orderQty"`
	Discount    decimal.Decimal `json:"discount"`
	ItemAmount  decimal.Decimal `json:"itemAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// Totals holds the three order aggregates.
type Totals struct {
	ItemTotal     decimal.Decimal `json:"itemTotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	NetAmount     decimal.Decimal `json:"netAmount"`
}

// Order is a draft purchase order. The aggregates are pure functions of
// Items and are never patched incrementally; recalc runs after every
// structural or field mutation so no caller can observe a stale total.
type Order struct {
	ID         string     `json:"id"`
	OrderNo    string     `json:"orderNo"`
	OrderDate  time.Time  `json:"orderDate"`
	SupplierID int64      `json:"supplierId"`
	Items      []LineItem `json:"items"`

	ItemTotal     decimal.Decimal `json:"itemTotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	NetAmount     decimal.Decimal `json:"netAmount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewOrder opens an empty draft. The order number is a provisional
// client-visible token derived from the wall clock, replaced by the
// server-assigned number once the draft is submitted.
func NewOrder(id string, now time.Time) *Order {
	o := &Order{
		ID:        id,
		OrderNo:   fmt.Sprintf("%d", now.UnixMilli()),
		OrderDate: now.Truncate(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.recalc()
	return o
}

// SelectSupplier sets the draft's supplier reference. Existence of the
// supplier is the catalog's concern, not the draft's.
func (o *Order) SelectSupplier(supplierID int64) {
	o.SupplierID = supplierID
	o.touch()
}

// SetOrderDate replaces the order date.
func (o *Order) SetOrderDate(date time.Time) {
	o.OrderDate = date
	o.touch()
}

// AddLineItem places a catalog item on the draft with quantity 1 and no
// discount. Re-adding an item that is already placed is rejected; the line
// must be removed first.
func (o *Order) AddLineItem(item CatalogItem) error {
	if o.HasItem(item.ID) {
		return ErrItemAlreadyPlaced
	}
	o.Items = append(o.Items, LineItem{
		ItemID:     item.ID,
		ItemNo:     item.ItemNo,
		Name:       item.Name,
		StockUnit:  item.StockUnit,
		UnitPrice:  item.UnitPrice,
		OrderQty:   1,
		Discount:   decimal.Zero,
		ItemAmount: item.UnitPrice,
		NetAmount:  item.UnitPrice,
	})
	o.recalc()
	return nil
}

// SetQuantity updates a line's order quantity and rederives its amounts.
// Out-of-range quantities are accepted here and rejected by Validate; input
// stays permissive so the user can type freely.
func (o *Order) SetQuantity(index, qty int) error {
	line, err := o.line(index)
	if err != nil {
		return err
	}
	line.OrderQty = qty
	line.ItemAmount = line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	line.NetAmount = line.ItemAmount.Sub(line.Discount)
	o.recalc()
	return nil
}

// SetDiscount updates a line's discount and rederives its net amount.
func (o *Order) SetDiscount(index int, discount decimal.Decimal) error {
	line, err := o.line(index)
	if err != nil {
		return err
	}
	line.Discount = discount
	line.NetAmount = line.ItemAmount.Sub(discount)
	o.recalc()
	return nil
}

// SetPackingUnit updates a line's packing unit. No aggregate impact.
func (o *Order) SetPackingUnit(index int, unit string) error {
	line, err := o.line(index)
	if err != nil {
		return err
	}
	line.PackingUnit = unit
	o.touch()
	return nil
}

// RemoveLineItem deletes the line at index, freeing its catalog item for
// re-selection, and recomputes the aggregates.
func (o *Order) RemoveLineItem(index int) error {
	if index < 0 || index >= len(o.Items) {
		return ErrLineNotFound
	}
	o.Items = append(o.Items[:index], o.Items[index+1:]...)
	o.recalc()
	return nil
}

// HasItem reports whether the catalog item is already placed on the draft.
func (o *Order) HasItem(itemID int64) bool {
	return lo.ContainsBy(o.Items, func(li LineItem) bool { return li.ItemID == itemID })
}

// PlacedItemIDs returns the set of catalog item IDs currently on the draft.
// Availability is derived from the lines rather than flagged on shared
// catalog records, so reusing a catalog listing across drafts cannot leak
// stale disabled flags.
func (o *Order) PlacedItemIDs() map[int64]struct{} {
	return lo.SliceToMap(o.Items, func(li LineItem) (int64, struct{}) {
		return li.ItemID, struct{}{}
	})
}

// IndexOf returns the line index holding the catalog item, or -1.
func (o *Order) IndexOf(itemID int64) int {
	return lo.IndexOf(lo.Map(o.Items, func(li LineItem, _ int) int64 { return li.ItemID }), itemID)
}

// Totals recomputes the aggregates from the current lines without mutating
// the draft.
func (o *Order) Totals() Totals {
	return ComputeTotals(o.Items)
}

// ComputeTotals sums the line items into the three order aggregates. It is a
// pure function: calling it twice on the same lines yields identical results.
func ComputeTotals(items []LineItem) Totals {
	itemTotal := lo.Reduce(items, func(acc decimal.Decimal, li LineItem, _ int) decimal.Decimal {
		return acc.Add(li.ItemAmount)
	}, decimal.Zero)
	discountTotal := lo.Reduce(items, func(acc decimal.Decimal, li LineItem, _ int) decimal.Decimal {
		return acc.Add(li.Discount)
	}, decimal.Zero)
	return Totals{
		ItemTotal:     itemTotal,
		DiscountTotal: discountTotal,
		NetAmount:     itemTotal.Sub(discountTotal),
	}
}

func (o *Order) line(index int) (*LineItem, error) {
	if index < 0 || index >= len(o.Items) {
		return nil, ErrLineNotFound
	}
	return &o.Items[index], nil
}

// recalc rewrites the stored aggregates by full re-summation. Totals are
// never adjusted in place, so they cannot drift from the lines.
func (o *Order) recalc() {
	t := ComputeTotals(o.Items)
	o.ItemTotal = t.ItemTotal
	o.DiscountTotal = t.DiscountTotal
	o.NetAmount = t.NetAmount
	o.touch()
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
}
