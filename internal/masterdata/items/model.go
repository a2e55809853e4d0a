package items

import (
	"time"
)

// Item statuses.
const (
	StatusEnabled  = "Enabled"
	StatusDisabled = "Disabled"
)

// Stock units accepted on items.
const (
	UnitPieces = "pcs"
	UnitKilos  = "kg"
	UnitLiters = "liters"
)

// Item represents a catalog item supplied by exactly one supplier.
type Item struct {
	ID         int64     `json:"id"`
	ItemNo     string    `json:"itemNo"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	Category   string    `json:"category"`
	Location   string    `json:"location"`
	SupplierID int64     `json:"supplierId"`
	UnitPrice  float64   `json:"unitPrice"`
	StockUnit  string    `json:"stockUnit"`
	Status     string    `json:"status"`
	Images     []string  `json:"images"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Orderable reports whether the item may be placed on purchase orders.
func (i Item) Orderable() bool {
	return i.Status == StatusEnabled
}
