package purchase

import "time"

type lineRequest struct {
	ItemID      int64   `json:"itemId" validate:"required,gt=0"`
	ItemNo      string  `json:"itemNo" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	StockUnit   string  `json:"stockUnit" validate:"required"`
	PackingUnit string  `json:"packingUnit" validate:"required"`
	OrderQty    int     `json:"orderQty" validate:"required,gte=1"`
	UnitPrice   float64 `json:"unitPrice" validate:"required,gt=0"`
	Discount    float64 `json:"discount" validate:"gte=0"`
}

type orderRequest struct {
	RefNo      string        `json:"refNo" validate:"max=50"`
	OrderDate  string        `json:"orderDate" validate:"required,datetime=2006-01-02"`
	SupplierID int64         `json:"supplierId" validate:"required,gt=0"`
	Lines      []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (req orderRequest) toModel() Order {
	date, _ := time.Parse("2006-01-02", req.OrderDate)
	o := Order{
		RefNo:      req.RefNo,
		OrderDate:  date,
		SupplierID: req.SupplierID,
		Lines:      make([]Line, 0, len(req.Lines)),
	}
	for _, lr := range req.Lines {
		o.Lines = append(o.Lines, Line{
			ItemID:      lr.ItemID,
			ItemNo:      lr.ItemNo,
			Name:        lr.Name,
			StockUnit:   lr.StockUnit,
			PackingUnit: lr.PackingUnit,
			OrderQty:    lr.OrderQty,
			UnitPrice:   lr.UnitPrice,
			Discount:    lr.Discount,
		})
	}
	return o
}

type listResponse struct {
	Orders     []Order `json:"orders"`
	Pagination any     `json:"pagination"`
}
