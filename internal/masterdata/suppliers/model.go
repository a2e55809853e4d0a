package suppliers

import (
	"time"
)

// Supplier statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusBlocked  = "Blocked"
)

// Supplier represents a supplier entity.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	TaxNo     string    `json:"taxNo"`
	Country   string    `json:"country"`
	MobileNo  string    `json:"mobileNo"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Selectable reports whether the supplier may be referenced by new purchase
// orders.
func (s Supplier) Selectable() bool {
	return s.Status == StatusActive
}
