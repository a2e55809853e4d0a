package draft

import "github.com/shopspring/decimal"

type selectSupplierRequest struct {
	SupplierID int64 `json:"supplierId" validate:"required,gt=0"`
}

type addItemRequest struct {
	ItemID int64 `json:"itemId" validate:"required,gt=0"`
}

// updateLineRequest carries a partial line edit; only the provided fields are
// applied, in the order qty, discount, packing unit.
type updateLineRequest struct {
	OrderQty    *int             `json:"orderQty,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	PackingUnit *string          `json:"packingUnit,omitempty"`
}

type setOrderDateRequest struct {
	OrderDate string `json:"orderDate" validate:"required,datetime=2006-01-02"`
}
