package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoSupplier occurs when items are browsed or added before a supplier
	// is selected.
	ErrNoSupplier = errors.New("draft: select a supplier first")
	// ErrUnknownItem occurs when the referenced catalog item does not exist
	// or is disabled.
	ErrUnknownItem = errors.New("draft: unknown catalog item")
	// ErrUnknownSupplier occurs when the referenced supplier does not exist.
	ErrUnknownSupplier = errors.New("draft: unknown supplier")
	// ErrWrongSupplier occurs when an item belongs to another supplier.
	ErrWrongSupplier = errors.New("draft: item does not belong to the selected supplier")
	// ErrSubmitInProgress occurs when a submission for the draft is already
	// in flight.
	ErrSubmitInProgress = errors.New("draft: submission already in progress")
)

// CatalogPort is the read-only slice of master data the draft flow needs.
type CatalogPort interface {
	SupplierExists(ctx context.Context, supplierID int64) (bool, error)
	Item(ctx context.Context, itemID int64) (CatalogItem, error)
	SupplierItems(ctx context.Context, supplierID int64) ([]CatalogItem, error)
}

// Submitter turns a validated draft into a persisted purchase order.
type Submitter interface {
	SubmitDraft(ctx context.Context, o *Order) (orderID int64, orderNo string, err error)
}

// OpCounter records ledger operations for observability. May be nil.
type OpCounter interface {
	CountDraftOp(op string)
}

// CatalogEntry is a catalog item annotated with its availability for the
// draft at hand. Disabled is derived from the draft's line items.
type CatalogEntry struct {
	ID        int64           `json:"id"`
	ItemNo    string          `json:"itemNo"`
	Name      string          `json:"name"`
	StockUnit string          `json:"stockUnit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Disabled  bool            `json:"disabled"`
}

// SubmitResult reports the purchase order created from a draft.
type SubmitResult struct {
	OrderID int64  `json:"orderId"`
	OrderNo string `json:"orderNo"`
}

// Service drives the draft lifecycle: one load-mutate-save round trip per
// operation, so every HTTP request observes a fully consistent draft.
type Service struct {
	store   *Store
	catalog CatalogPort
	submit  Submitter
	counter OpCounter
}

// NewService constructs a draft service.
func NewService(store *Store, catalog CatalogPort, submit Submitter, counter OpCounter) *Service {
	return &Service{store: store, catalog: catalog, submit: submit, counter: counter}
}

// Open creates an empty draft and persists it.
func (s *Service) Open(ctx context.Context) (*Order, error) {
	o := NewOrder(uuid.NewString(), time.Now())
	if err := s.store.Save(ctx, o); err != nil {
		return nil, err
	}
	s.count("open")
	return o, nil
}

// Get returns the current draft state.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.store.Get(ctx, id)
}

// SelectSupplier sets the draft's supplier after verifying it exists.
func (s *Service) SelectSupplier(ctx context.Context, id string, supplierID int64) (*Order, error) {
	ok, err := s.catalog.SupplierExists(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("draft: verify supplier: %w", err)
	}
	if !ok {
		return nil, ErrUnknownSupplier
	}
	return s.mutate(ctx, id, "select_supplier", func(o *Order) error {
		o.SelectSupplier(supplierID)
		return nil
	})
}

// SetOrderDate replaces the draft's order date.
func (s *Service) SetOrderDate(ctx context.Context, id string, date time.Time) (*Order, error) {
	return s.mutate(ctx, id, "set_order_date", func(o *Order) error {
		o.SetOrderDate(date)
		return nil
	})
}

// Catalog lists the selectable items for the draft's supplier, marking the
// ones already placed as disabled.
func (s *Service) Catalog(ctx context.Context, id string) ([]CatalogEntry, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.SupplierID <= 0 {
		return nil, ErrNoSupplier
	}
	items, err := s.catalog.SupplierItems(ctx, o.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("draft: list catalog: %w", err)
	}
	placed := o.PlacedItemIDs()
	entries := make([]CatalogEntry, 0, len(items))
	for _, item := range items {
		_, disabled := placed[item.ID]
		entries = append(entries, CatalogEntry{
			ID:        item.ID,
			ItemNo:    item.ItemNo,
			Name:      item.Name,
			StockUnit: item.StockUnit,
			UnitPrice: item.UnitPrice,
			Disabled:  disabled,
		})
	}
	return entries, nil
}

// AddItem places a catalog item on the draft.
func (s *Service) AddItem(ctx context.Context, id string, itemID int64) (*Order, error) {
	return s.mutate(ctx, id, "add_item", func(o *Order) error {
		if o.SupplierID <= 0 {
			return ErrNoSupplier
		}
		item, err := s.catalog.Item(ctx, itemID)
		if err != nil {
			return ErrUnknownItem
		}
		if item.SupplierID != o.SupplierID {
			return ErrWrongSupplier
		}
		return o.AddLineItem(item)
	})
}

// SetQuantity updates the order quantity on one line.
func (s *Service) SetQuantity(ctx context.Context, id string, index, qty int) (*Order, error) {
	return s.mutate(ctx, id, "set_quantity", func(o *Order) error {
		return o.SetQuantity(index, qty)
	})
}

// SetDiscount updates the discount on one line.
func (s *Service) SetDiscount(ctx context.Context, id string, index int, discount decimal.Decimal) (*Order, error) {
	return s.mutate(ctx, id, "set_discount", func(o *Order) error {
		return o.SetDiscount(index, discount)
	})
}

// SetPackingUnit updates the packing unit on one line.
func (s *Service) SetPackingUnit(ctx context.Context, id string, index int, unit string) (*Order, error) {
	return s.mutate(ctx, id, "set_packing_unit", func(o *Order) error {
		return o.SetPackingUnit(index, unit)
	})
}

// RemoveItem removes one line, making its catalog item selectable again.
func (s *Service) RemoveItem(ctx context.Context, id string, index int) (*Order, error) {
	return s.mutate(ctx, id, "remove_item", func(o *Order) error {
		return o.RemoveLineItem(index)
	})
}

// Submit validates the draft and, when clean, creates a purchase order and
// discards the draft. Validation failure blocks submission entirely; any
// failure leaves the draft untouched so the user can correct and retry.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, ValidationErrors, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if verrs := o.Validate(); len(verrs) > 0 {
		return nil, verrs, nil
	}

	ok, err := s.store.AcquireSubmit(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrSubmitInProgress
	}
	defer s.store.ReleaseSubmit(ctx, id)

	orderID, orderNo, err := s.submit.SubmitDraft(ctx, o)
	if err != nil {
		return nil, nil, fmt.Errorf("draft: submit: %w", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, nil, err
	}
	s.count("submit")
	return &SubmitResult{OrderID: orderID, OrderNo: orderNo}, nil, nil
}

// Cancel discards the draft.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	s.count("cancel")
	return s.store.Delete(ctx, id)
}

func (s *Service) mutate(ctx context.Context, id, op string, fn func(*Order) error) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, o); err != nil {
		return nil, err
	}
	s.count(op)
	return o, nil
}

func (s *Service) count(op string) {
	if s.counter != nil {
		s.counter.CountDraftOp(op)
	}
}
