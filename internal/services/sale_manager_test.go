package services

import (
	"context"
	"testing"
	"time"
	"vendor-ledger-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeSaleRepo is an in-memory SaleRepository that mimics the paired
// counter updates so manager-level laws can be asserted without a store.
type fakeSaleRepo struct {
	nextID int64
	sales  map[int64]*domain.Sale
	items  map[int64]*domain.Item
}

func newFakeSaleRepo(items ...*domain.Item) *fakeSaleRepo {
	f := &fakeSaleRepo{nextID: 1, sales: map[int64]*domain.Sale{}, items: map[int64]*domain.Item{}}
	for _, it := range items {
		f.items[it.ItemID] = it
	}
	return f
}

func (f *fakeSaleRepo) CreateSale(_ context.Context, sale *domain.Sale) (*domain.Sale, error) {
	it, ok := f.items[sale.ItemID]
	if !ok {
		return nil, domain.Validationf("item_id", "does not reference an existing item")
	}
	if it.SoldQuantity+sale.Quantity > it.InitialQuantity {
		return nil, domain.Validationf("quantity", "exceeds remaining stock (%d left)", it.Remaining())
	}

	created := *sale
	created.SaleID = f.nextID
	created.CreatedAt = time.Now()
	f.nextID++
	f.sales[created.SaleID] = &created
	it.SoldQuantity += sale.Quantity

	return &created, nil
}

func (f *fakeSaleRepo) ListSalesByItem(context.Context, int64) ([]*domain.Sale, error) {
	return nil, nil
}

func (f *fakeSaleRepo) GetSale(_ context.Context, id int64) (*domain.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSaleRepo) UpdateSaleStatus(_ context.Context, id int64, status domain.Status) error {
	s, ok := f.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeSaleRepo) ListSalesByDateRange(context.Context, time.Time, time.Time) ([]*domain.Sale, error) {
	return nil, nil
}

func (f *fakeSaleRepo) ListRecentSales(_ context.Context, limit int) ([]*domain.Sale, error) {
	out := make([]*domain.Sale, 0, limit)
	for _, s := range f.sales {
		if len(out) == limit {
			break
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSaleRepo) SumByStatusInRange(_ context.Context, status domain.Status, _, _ time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range f.sales {
		if s.Status == status {
			total = total.Add(s.Price)
		}
	}
	return total, nil
}

func (f *fakeSaleRepo) DeleteSale(_ context.Context, id int64) error {
	s, ok := f.sales[id]
	if !ok {
		return nil
	}
	if it, ok := f.items[s.ItemID]; ok {
		it.SoldQuantity -= s.Quantity
		if it.SoldQuantity < 0 {
			it.SoldQuantity = 0
		}
	}
	delete(f.sales, id)
	return nil
}

// fakeReportCache counts invalidations.
type fakeReportCache struct {
	invalidations int
}

func (f *fakeReportCache) Get(context.Context, string) (*domain.SalesReport, error) { return nil, nil }

func (f *fakeReportCache) Put(context.Context, string, *domain.SalesReport) error { return nil }

func (f *fakeReportCache) Invalidate(context.Context) error {
	f.invalidations++
	return nil
}

func testItem() *domain.Item {
	return &domain.Item{
		ItemID:          1,
		ShipmentID:      1,
		Category:        "truffle",
		Flavor:          "chocolate",
		InitialQuantity: 20,
		UnitCost:        decimal.RequireFromString("2.50"),
	}
}

func saleParams(qty int) CreateSaleParams {
	return CreateSaleParams{
		ItemID:   1,
		Customer: "Ana",
		Quantity: qty,
		Price:    decimal.RequireFromString("25.00"),
		Date:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:   domain.StatusPaid,
	}
}

func TestSaleManagerCreateValidation(t *testing.T) {
	m := NewSaleManager(newFakeSaleRepo(testItem()), nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateSaleParams)
	}{
		{"zero item id", func(p *CreateSaleParams) { p.ItemID = 0 }},
		{"blank customer", func(p *CreateSaleParams) { p.Customer = "   " }},
		{"zero quantity", func(p *CreateSaleParams) { p.Quantity = 0 }},
		{"negative price", func(p *CreateSaleParams) { p.Price = decimal.RequireFromString("-1") }},
		{"zero date", func(p *CreateSaleParams) { p.Date = time.Time{} }},
		{"bad status", func(p *CreateSaleParams) { p.Status = "OK" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := saleParams(5)
			tc.mutate(&p)
			_, err := m.Create(ctx, p)
			require.True(t, domain.IsValidation(err), "expected ValidationError, got %v", err)
		})
	}
}

func TestSaleManagerCreateIncrementsAndInvalidates(t *testing.T) {
	item := testItem()
	cache := &fakeReportCache{}
	m := NewSaleManager(newFakeSaleRepo(item), cache)

	sale, err := m.Create(context.Background(), saleParams(5))
	require.NoError(t, err)
	require.NotZero(t, sale.SaleID)
	require.Equal(t, 5, item.SoldQuantity)
	require.Equal(t, 1, cache.invalidations)
}

func TestSaleManagerCreateRejectsOversell(t *testing.T) {
	item := testItem()
	m := NewSaleManager(newFakeSaleRepo(item), nil)
	ctx := context.Background()

	_, err := m.Create(ctx, saleParams(20))
	require.NoError(t, err)

	_, err = m.Create(ctx, saleParams(1))
	require.True(t, domain.IsValidation(err), "oversell must be rejected, got %v", err)
	require.Equal(t, 20, item.SoldQuantity, "rejected sale must not move the counter")
}

func TestSaleManagerCreateUnknownItem(t *testing.T) {
	m := NewSaleManager(newFakeSaleRepo(), nil)

	_, err := m.Create(context.Background(), saleParams(5))
	require.True(t, domain.IsValidation(err))
}

func TestSaleManagerDeleteRestoresCounter(t *testing.T) {
	item := testItem()
	cache := &fakeReportCache{}
	m := NewSaleManager(newFakeSaleRepo(item), cache)
	ctx := context.Background()

	sale, err := m.Create(ctx, saleParams(5))
	require.NoError(t, err)
	require.Equal(t, 5, item.SoldQuantity)

	require.NoError(t, m.Delete(ctx, sale.SaleID))
	require.Equal(t, 0, item.SoldQuantity, "create then delete must be identity on sold quantity")
	require.Equal(t, 2, cache.invalidations)
}

func TestSaleManagerDeleteMissingIsNoop(t *testing.T) {
	m := NewSaleManager(newFakeSaleRepo(testItem()), nil)
	require.NoError(t, m.Delete(context.Background(), 42))
}

func TestSaleManagerUpdateStatus(t *testing.T) {
	repo := newFakeSaleRepo(testItem())
	m := NewSaleManager(repo, nil)
	ctx := context.Background()

	sale, err := m.Create(ctx, saleParams(5))
	require.NoError(t, err)

	require.True(t, domain.IsValidation(m.UpdateStatus(ctx, sale.SaleID, "SETTLED")))
	require.NoError(t, m.UpdateStatus(ctx, sale.SaleID, domain.StatusPending))

	got, err := m.GetByID(ctx, sale.SaleID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, got.Status)

	require.ErrorIs(t, m.UpdateStatus(ctx, 99, domain.StatusPaid), domain.ErrNotFound)
}

func TestSaleManagerRangeValidation(t *testing.T) {
	m := NewSaleManager(newFakeSaleRepo(), nil)
	ctx := context.Background()

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := m.GetByDateRange(ctx, start, end)
	require.True(t, domain.IsValidation(err))

	_, err = m.SumPaidInRange(ctx, time.Time{}, end)
	require.True(t, domain.IsValidation(err))
}
