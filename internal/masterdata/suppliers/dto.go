package suppliers

type supplierRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address" validate:"max=500"`
	TaxNo    string `json:"taxNo" validate:"required,max=50"`
	Country  string `json:"country" validate:"required,max=100"`
	MobileNo string `json:"mobileNo" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Status   string `json:"status" validate:"required,oneof=Active Inactive Blocked"`
}

func (req supplierRequest) toModel() Supplier {
	return Supplier{
		Name:     req.Name,
		Address:  req.Address,
		TaxNo:    req.TaxNo,
		Country:  req.Country,
		MobileNo: req.MobileNo,
		Email:    req.Email,
		Status:   req.Status,
	}
}

type listResponse struct {
	Suppliers  []Supplier `json:"suppliers"`
	Pagination any        `json:"pagination"`
}
