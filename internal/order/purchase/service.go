package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manna-erp/manna-erp/internal/order/draft"
	"github.com/manna-erp/manna-erp/internal/platform/httpx"
	"github.com/manna-erp/manna-erp/internal/shared"
)

// ErrNotEditable occurs when a cancelled or closed order is modified.
var ErrNotEditable = errors.New("purchase: order is not open")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Order, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, fmt.Errorf("%w: invalid order id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create persists a new open purchase order. Line amounts and order totals
// are rederived server-side, whatever the client sent.
func (s *Service) Create(ctx context.Context, order Order) (Order, error) {
	order.OrderNo = generateNumber("PO")
	order.Status = StatusOpen
	order.recalc()
	return s.repo.Create(ctx, order)
}

// Update replaces an open order's header and lines, recomputing amounts.
func (s *Service) Update(ctx context.Context, id int64, order Order) (Order, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !existing.Editable() {
		return Order{}, ErrNotEditable
	}
	order.ID = id
	order.OrderNo = existing.OrderNo
	order.Status = existing.Status
	order.recalc()
	if err := s.repo.Update(ctx, order); err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, id)
}

// Cancel marks an open order cancelled. Cancelling twice is a no-op error.
func (s *Service) Cancel(ctx context.Context, id int64) (Order, error) {
	return s.transition(ctx, id, StatusCancelled)
}

// Close marks an open order closed, ending its lifecycle.
func (s *Service) Close(ctx context.Context, id int64) (Order, error) {
	return s.transition(ctx, id, StatusClosed)
}

func (s *Service) transition(ctx context.Context, id int64, status string) (Order, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !existing.Editable() {
		return Order{}, ErrNotEditable
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return Order{}, err
	}
	existing.Status = status
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid order id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// SubmitDraft converts a validated draft into a persisted open order. The
// draft's working order number becomes the reference number; a fresh server
// number is issued. Totals are recomputed from the lines rather than trusted
// from the draft document.
func (s *Service) SubmitDraft(ctx context.Context, d *draft.Order) (int64, string, error) {
	order := Order{
		OrderNo:    generateNumber("PO"),
		RefNo:      d.OrderNo,
		OrderDate:  d.OrderDate,
		SupplierID: d.SupplierID,
		Status:     StatusOpen,
		Lines:      make([]Line, 0, len(d.Items)),
	}
	for _, li := range d.Items {
		order.Lines = append(order.Lines, Line{
			ItemID:      li.ItemID,
			ItemNo:      li.ItemNo,
			Name:        li.Name,
			StockUnit:   li.StockUnit,
			PackingUnit: li.PackingUnit,
			OrderQty:    li.OrderQty,
			UnitPrice:   li.UnitPrice.InexactFloat64(),
			Discount:    li.Discount.InexactFloat64(),
		})
	}
	order.recalc()
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return 0, "", err
	}
	return created.ID, created.OrderNo, nil
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
