package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/manna-erp/manna-erp/internal/order/draft"
	"github.com/manna-erp/manna-erp/internal/platform/httpx"
	"github.com/manna-erp/manna-erp/internal/shared"
)

type memoryRepo struct {
	orders map[int64]Order
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[int64]Order)}
}

func (r *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Order, int, error) {
	var result []Order
	for _, o := range r.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		result = append(result, o)
	}
	return result, len(result), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, httpx.ErrNotFound
	}
	return o, nil
}

func (r *memoryRepo) Create(ctx context.Context, order Order) (Order, error) {
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = order
	return order, nil
}

func (r *memoryRepo) Update(ctx context.Context, order Order) error {
	existing, ok := r.orders[order.ID]
	if !ok {
		return httpx.ErrNotFound
	}
	order.OrderNo = existing.OrderNo
	order.Status = existing.Status
	order.CreatedAt = existing.CreatedAt
	r.orders[order.ID] = order
	return nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func sampleOrder() Order {
	return Order{
		OrderDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		SupplierID: 7,
		Lines: []Line{
			{ItemID: 1, ItemNo: "ITM-1", Name: "Arabica Beans", StockUnit: "kg", PackingUnit: "sack", OrderQty: 4, UnitPrice: 12.5, Discount: 2.5},
			{ItemID: 2, ItemNo: "ITM-2", Name: "Paper Cups", StockUnit: "pcs", PackingUnit: "box", OrderQty: 1000, UnitPrice: 0.1},
		},
	}
}

func TestCreateRecomputesAmounts(t *testing.T) {
	svc := NewService(newMemoryRepo())
	input := sampleOrder()
	// Client-supplied totals are ignored.
	input.ItemTotal = 9999
	input.NetAmount = 9999
	input.Lines[0].ItemAmount = 123

	created, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotEmpty(t, created.OrderNo)
	require.Equal(t, StatusOpen, created.Status)

	require.InDelta(t, 50.0, created.Lines[0].ItemAmount, 1e-9)
	require.InDelta(t, 47.5, created.Lines[0].NetAmount, 1e-9)
	require.InDelta(t, 150.0, created.ItemTotal, 1e-9)
	require.InDelta(t, 2.5, created.DiscountTotal, 1e-9)
	require.InDelta(t, 147.5, created.NetAmount, 1e-9)
}

func TestUpdateOnlyWhenOpen(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, sampleOrder())
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	changed := sampleOrder()
	changed.Lines = changed.Lines[:1]
	changed.Lines[0].OrderQty = 2

	updated, err := svc.Update(ctx, created.ID, changed)
	require.NoError(t, err)
	require.Equal(t, created.OrderNo, updated.OrderNo)
	require.InDelta(t, 25.0, updated.ItemTotal, 1e-9)
	require.InDelta(t, 22.5, updated.NetAmount, 1e-9)
}

func TestCancelTwiceFails(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestCloseOrder(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	closed, err := svc.Close(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusClosed, closed.Status)

	_, err = svc.Close(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestSubmitDraftConvertsLedger(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	d := draft.NewOrder("d-1", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	d.SelectSupplier(7)
	require.NoError(t, d.AddLineItem(draft.CatalogItem{
		ID: 1, ItemNo: "ITM-1", Name: "Arabica Beans", StockUnit: "kg",
		UnitPrice: decimal.NewFromFloat(12.5), SupplierID: 7,
	}))
	require.NoError(t, d.SetQuantity(0, 4))
	require.NoError(t, d.SetDiscount(0, decimal.NewFromFloat(2.5)))
	require.NoError(t, d.SetPackingUnit(0, "sack"))

	orderID, orderNo, err := svc.SubmitDraft(ctx, d)
	require.NoError(t, err)
	require.NotZero(t, orderID)
	require.NotEqual(t, d.OrderNo, orderNo)

	stored, err := svc.Get(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, stored.Status)
	require.Equal(t, d.OrderNo, stored.RefNo)
	require.Equal(t, int64(7), stored.SupplierID)
	require.Len(t, stored.Lines, 1)
	require.InDelta(t, 50.0, stored.ItemTotal, 1e-9)
	require.InDelta(t, 2.5, stored.DiscountTotal, 1e-9)
	require.InDelta(t, 47.5, stored.NetAmount, 1e-9)
}

func TestGetMissingOrder(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
