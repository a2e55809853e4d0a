package draft

import "fmt"

// ValidationErrors maps a field path (e.g. "items[2].orderQty") to a
// user-facing message. An empty map means the draft is submittable.
type ValidationErrors map[string]string

// Validate checks the draft against the submission contract. Input stays
// permissive while editing; submission is strict. The draft is not mutated.
func (o *Order) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if o.SupplierID <= 0 {
		errs["supplierId"] = "supplier is required"
	}
	if o.OrderDate.IsZero() {
		errs["orderDate"] = "order date is required"
	}
	if len(o.Items) == 0 {
		errs["items"] = "at least one line item is required"
	}

	for i, line := range o.Items {
		if line.OrderQty < 1 {
			errs[fmt.Sprintf("items[%d].orderQty", i)] = "order quantity must be at least 1"
		}
		if line.Discount.IsNegative() {
			errs[fmt.Sprintf("items[%d].discount", i)] = "discount must not be negative"
		} else if line.Discount.GreaterThan(line.ItemAmount) {
			errs[fmt.Sprintf("items[%d].discount", i)] = "discount must not exceed the item amount"
		}
		if line.PackingUnit == "" {
			errs[fmt.Sprintf("items[%d].packingUnit", i)] = "packing unit is required"
		}
	}

	return errs
}
