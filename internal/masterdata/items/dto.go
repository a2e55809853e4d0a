package items

type itemRequest struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Brand      string   `json:"brand" validate:"max=100"`
	Category   string   `json:"category" validate:"max=100"`
	Location   string   `json:"location" validate:"max=200"`
	SupplierID int64    `json:"supplierId" validate:"required,gt=0"`
	UnitPrice  float64  `json:"unitPrice" validate:"required,gt=0"`
	StockUnit  string   `json:"stockUnit" validate:"required,oneof=pcs kg liters"`
	Status     string   `json:"status" validate:"required,oneof=Enabled Disabled"`
	Images     []string `json:"images" validate:"dive,max=500"`
}

func (req itemRequest) toModel() Item {
	return Item{
		Name:       req.Name,
		Brand:      req.Brand,
		Category:   req.Category,
		Location:   req.Location,
		SupplierID: req.SupplierID,
		UnitPrice:  req.UnitPrice,
		StockUnit:  req.StockUnit,
		Status:     req.Status,
		Images:     req.Images,
	}
}

type listResponse struct {
	Items      []Item `json:"items"`
	Pagination any    `json:"pagination"`
}
