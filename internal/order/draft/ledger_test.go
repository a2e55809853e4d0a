package draft

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []CatalogItem {
	return []CatalogItem{
		{ID: 1, ItemNo: "ITM-1", Name: "Arabica Beans", StockUnit: "kg", UnitPrice: decimal.NewFromFloat(12.50), SupplierID: 7},
		{ID: 2, ItemNo: "ITM-2", Name: "Paper Cups", StockUnit: "pcs", UnitPrice: decimal.NewFromFloat(0.10), SupplierID: 7},
		{ID: 3, ItemNo: "ITM-3", Name: "Whole Milk", StockUnit: "liters", UnitPrice: decimal.NewFromFloat(1.05), SupplierID: 7},
	}
}

func requireAggregatesMatchLines(t *testing.T, o *Order) {
	t.Helper()
	want := ComputeTotals(o.Items)
	require.True(t, o.ItemTotal.Equal(want.ItemTotal), "itemTotal %s != %s", o.ItemTotal, want.ItemTotal)
	require.True(t, o.DiscountTotal.Equal(want.DiscountTotal), "discountTotal %s != %s", o.DiscountTotal, want.DiscountTotal)
	require.True(t, o.NetAmount.Equal(want.NetAmount), "netAmount %s != %s", o.NetAmount, want.NetAmount)
	require.True(t, o.NetAmount.Equal(o.ItemTotal.Sub(o.DiscountTotal)))
}

func TestNewOrderStartsEmpty(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	o := NewOrder("d-1", now)

	require.NotEmpty(t, o.OrderNo)
	require.Empty(t, o.Items)
	require.True(t, o.ItemTotal.IsZero())
	require.True(t, o.DiscountTotal.IsZero())
	require.True(t, o.NetAmount.IsZero())
}

func TestAddLineItemDefaults(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	item := catalogFixture()[0]

	require.NoError(t, o.AddLineItem(item))
	require.Len(t, o.Items, 1)

	line := o.Items[0]
	require.Equal(t, 1, line.OrderQty)
	require.True(t, line.Discount.IsZero())
	require.True(t, line.ItemAmount.Equal(item.UnitPrice))
	require.True(t, line.NetAmount.Equal(item.UnitPrice))
	requireAggregatesMatchLines(t, o)
}

func TestAddLineItemRejectsDuplicate(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	item := catalogFixture()[0]

	require.NoError(t, o.AddLineItem(item))
	require.ErrorIs(t, o.AddLineItem(item), ErrItemAlreadyPlaced)
	require.Len(t, o.Items, 1)
}

func TestSetQuantityRederivesAmounts(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(catalogFixture()[0]))

	require.NoError(t, o.SetQuantity(0, 4))

	line := o.Items[0]
	require.Equal(t, 4, line.OrderQty)
	require.True(t, line.ItemAmount.Equal(decimal.NewFromFloat(50.00)), "got %s", line.ItemAmount)
	require.True(t, line.NetAmount.Equal(decimal.NewFromFloat(50.00)))
	requireAggregatesMatchLines(t, o)
}

func TestSetQuantityKeepsDiscountIntact(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(catalogFixture()[0]))
	require.NoError(t, o.SetDiscount(0, decimal.NewFromFloat(2.50)))

	require.NoError(t, o.SetQuantity(0, 2))

	line := o.Items[0]
	require.True(t, line.Discount.Equal(decimal.NewFromFloat(2.50)))
	require.True(t, line.NetAmount.Equal(decimal.NewFromFloat(22.50)), "got %s", line.NetAmount)
	requireAggregatesMatchLines(t, o)
}

func TestSetDiscountRederivesNetAmount(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(catalogFixture()[0]))
	require.NoError(t, o.SetQuantity(0, 3))

	require.NoError(t, o.SetDiscount(0, decimal.NewFromFloat(7.50)))

	line := o.Items[0]
	require.True(t, line.ItemAmount.Equal(decimal.NewFromFloat(37.50)))
	require.True(t, line.NetAmount.Equal(decimal.NewFromFloat(30.00)))
	requireAggregatesMatchLines(t, o)
}

func TestPermissiveEditsAreAccepted(t *testing.T) {
	// Out-of-range values are allowed while editing; Validate rejects them at
	// submission time.
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(catalogFixture()[0]))

	require.NoError(t, o.SetQuantity(0, 0))
	require.NoError(t, o.SetDiscount(0, decimal.NewFromFloat(999)))
	requireAggregatesMatchLines(t, o)
}

func TestRemoveLineItemRestoresAggregates(t *testing.T) {
	items := catalogFixture()
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(items[0]))
	require.NoError(t, o.SetQuantity(0, 2))

	before := o.Totals()

	require.NoError(t, o.AddLineItem(items[1]))
	require.NoError(t, o.SetQuantity(1, 100))
	require.NoError(t, o.SetDiscount(1, decimal.NewFromFloat(1.00)))

	idx := o.IndexOf(items[1].ID)
	require.NoError(t, o.RemoveLineItem(idx))

	after := o.Totals()
	require.True(t, after.ItemTotal.Equal(before.ItemTotal))
	require.True(t, after.DiscountTotal.Equal(before.DiscountTotal))
	require.True(t, after.NetAmount.Equal(before.NetAmount))
	require.False(t, o.HasItem(items[1].ID))
	requireAggregatesMatchLines(t, o)
}

func TestRemovedItemCanBeAddedAgain(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	item := catalogFixture()[0]

	require.NoError(t, o.AddLineItem(item))
	require.NoError(t, o.RemoveLineItem(0))
	require.NoError(t, o.AddLineItem(item))
	require.Len(t, o.Items, 1)
}

func TestRemoveLineItemOutOfRange(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	require.ErrorIs(t, o.RemoveLineItem(0), ErrLineNotFound)
	require.ErrorIs(t, o.RemoveLineItem(-1), ErrLineNotFound)
	require.ErrorIs(t, o.SetQuantity(5, 1), ErrLineNotFound)
}

func TestAggregatesAfterMixedEdits(t *testing.T) {
	items := catalogFixture()
	o := NewOrder("d-1", time.Now())

	for _, item := range items {
		require.NoError(t, o.AddLineItem(item))
	}
	require.NoError(t, o.SetQuantity(0, 2))                         // 25.00
	require.NoError(t, o.SetQuantity(1, 100))                       // 10.00
	require.NoError(t, o.SetDiscount(1, decimal.NewFromFloat(0.5))) // net 9.50
	require.NoError(t, o.SetQuantity(2, 10))                        // 10.50
	require.NoError(t, o.RemoveLineItem(0))

	require.True(t, o.ItemTotal.Equal(decimal.NewFromFloat(20.50)), "got %s", o.ItemTotal)
	require.True(t, o.DiscountTotal.Equal(decimal.NewFromFloat(0.50)))
	require.True(t, o.NetAmount.Equal(decimal.NewFromFloat(20.00)))
	requireAggregatesMatchLines(t, o)
}

func TestPlacedItemIDs(t *testing.T) {
	items := catalogFixture()
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(items[0]))
	require.NoError(t, o.AddLineItem(items[2]))

	placed := o.PlacedItemIDs()
	require.Len(t, placed, 2)
	require.Contains(t, placed, items[0].ID)
	require.Contains(t, placed, items[2].ID)
	require.NotContains(t, placed, items[1].ID)
}

func TestComputeTotalsIsPure(t *testing.T) {
	o := NewOrder("d-1", time.Now())
	require.NoError(t, o.AddLineItem(catalogFixture()[0]))
	require.NoError(t, o.SetQuantity(0, 3))
	require.NoError(t, o.SetDiscount(0, decimal.NewFromFloat(1.25)))

	first := ComputeTotals(o.Items)
	second := ComputeTotals(o.Items)
	require.True(t, first.ItemTotal.Equal(second.ItemTotal))
	require.True(t, first.DiscountTotal.Equal(second.DiscountTotal))
	require.True(t, first.NetAmount.Equal(second.NetAmount))
}
