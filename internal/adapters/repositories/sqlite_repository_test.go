package repositories

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"
	"vendor-ledger-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(db))
	return db
}

func createTestShipment(t *testing.T, repo *SqliteShipmentRepository, date string, drafts ...domain.ItemDraft) *domain.Shipment {
	t.Helper()

	d, err := time.Parse(domain.DateLayout, date)
	require.NoError(t, err)

	costs := domain.DefaultCosts()
	items := make([]*domain.Item, 0, len(drafts))
	for _, draft := range domain.FilterDrafts(drafts) {
		items = append(items, &domain.Item{
			Category:        draft.Category,
			Flavor:          draft.Flavor,
			InitialQuantity: draft.InitialQuantity,
			UnitCost:        costs.UnitCost(draft.Category),
		})
	}

	shipment, err := repo.CreateShipment(context.Background(), d, "", items)
	require.NoError(t, err)
	return shipment
}

func TestShipmentRepositoryCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteShipmentRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, repo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 20},
		domain.ItemDraft{Category: "dessert", Flavor: "pudding", InitialQuantity: 8},
	)
	require.NotZero(t, shipment.ShipmentID)
	require.Len(t, shipment.Items, 2)

	got, err := repo.GetShipment(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	require.Equal(t, "2024-01-10", got.Date.Format(domain.DateLayout))
	require.Len(t, got.Items, 2)

	// Items come back ordered by category then flavor.
	require.Equal(t, "dessert", got.Items[0].Category)
	require.Equal(t, "truffle", got.Items[1].Category)
	require.True(t, got.Items[1].UnitCost.Equal(decimal.RequireFromString("2.50")))
	require.Equal(t, 0, got.Items[1].SoldQuantity)

	_, err = repo.GetShipment(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShipmentRepositoryListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteShipmentRepository(db)
	ctx := context.Background()

	first := createTestShipment(t, repo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 5})
	second := createTestShipment(t, repo, "2024-01-12",
		domain.ItemDraft{Category: "dessert", Flavor: "pudding", InitialQuantity: 5})

	all, err := repo.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ShipmentID, all[0].ShipmentID, "newest (highest id) first")
	require.Equal(t, first.ShipmentID, all[1].ShipmentID)
	require.Nil(t, all[0].Items, "list does not populate items")
}

func TestShipmentRepositoryActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, repo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 2},
		domain.ItemDraft{Category: "truffle", Flavor: "coconut", InitialQuantity: 2},
	)

	active, err := repo.ListActiveShipments(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1, "two open lines must not double-count the shipment")

	// Sell out both lines; the shipment drops off the active list.
	for _, it := range shipment.Items {
		_, err := saleRepo.CreateSale(ctx, &domain.Sale{
			ItemID:   it.ItemID,
			Customer: "Ana",
			Quantity: it.InitialQuantity,
			Price:    decimal.RequireFromString("10.00"),
			Date:     shipment.Date,
			Status:   domain.StatusPaid,
		})
		require.NoError(t, err)
	}

	active, err = repo.ListActiveShipments(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestShipmentRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteShipmentRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, repo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 5})

	newDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateShipment(ctx, shipment.ShipmentID, newDate, "moved"))

	got, err := repo.GetShipment(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", got.Date.Format(domain.DateLayout))
	require.Equal(t, "moved", got.Note)
	require.Len(t, got.Items, 1, "update must not touch items")

	require.ErrorIs(t, repo.UpdateShipment(ctx, 9999, newDate, ""), domain.ErrNotFound)
}

func TestShipmentRepositoryCascadeDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, repo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 20})
	item := shipment.Items[0]

	_, err := saleRepo.CreateSale(ctx, &domain.Sale{
		ItemID:   item.ItemID,
		Customer: "Ana",
		Quantity: 5,
		Price:    decimal.RequireFromString("25.00"),
		Date:     shipment.Date,
		Status:   domain.StatusPaid,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteShipment(ctx, shipment.ShipmentID))

	_, err = repo.GetShipment(ctx, shipment.ShipmentID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	items, err := repo.ListItems(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	require.Empty(t, items)

	sales, err := saleRepo.ListSalesByItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Empty(t, sales, "sales referencing deleted items must be gone")
}

func TestSaleRepositoryCreateIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	shipRepo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, shipRepo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 20})
	item := shipment.Items[0]

	sale, err := saleRepo.CreateSale(ctx, &domain.Sale{
		ItemID:        item.ItemID,
		Customer:      "Ana",
		Quantity:      5,
		Price:         decimal.RequireFromString("25.00"),
		Date:          shipment.Date,
		Status:        domain.StatusPaid,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.NotZero(t, sale.SaleID)
	require.False(t, sale.CreatedAt.IsZero())

	got, err := shipRepo.GetItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Equal(t, 5, got.SoldQuantity)

	fetched, err := saleRepo.GetSale(ctx, sale.SaleID)
	require.NoError(t, err)
	require.Equal(t, "Ana", fetched.Customer)
	require.Equal(t, "cash", fetched.PaymentMethod)
	require.True(t, fetched.Price.Equal(decimal.RequireFromString("25.00")))
}

func TestSaleRepositoryRejectsMissingItemAndOversell(t *testing.T) {
	db := newTestDB(t)
	shipRepo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, shipRepo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 10})
	item := shipment.Items[0]

	sale := func(itemID int64, qty int) error {
		_, err := saleRepo.CreateSale(ctx, &domain.Sale{
			ItemID:   itemID,
			Customer: "Ana",
			Quantity: qty,
			Price:    decimal.RequireFromString("5.00"),
			Date:     shipment.Date,
			Status:   domain.StatusPaid,
		})
		return err
	}

	require.True(t, domain.IsValidation(sale(9999, 1)), "unknown item must be rejected")

	require.NoError(t, sale(item.ItemID, 10))
	require.True(t, domain.IsValidation(sale(item.ItemID, 1)), "oversell must be rejected")

	// Rejected sale leaves no row and no counter movement.
	got, err := shipRepo.GetItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Equal(t, 10, got.SoldQuantity)

	sales, err := saleRepo.ListSalesByItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
}

func TestSaleRepositoryDeleteRestoresCounter(t *testing.T) {
	db := newTestDB(t)
	shipRepo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, shipRepo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 20})
	item := shipment.Items[0]

	sale, err := saleRepo.CreateSale(ctx, &domain.Sale{
		ItemID:   item.ItemID,
		Customer: "Ana",
		Quantity: 5,
		Price:    decimal.RequireFromString("25.00"),
		Date:     shipment.Date,
		Status:   domain.StatusPaid,
	})
	require.NoError(t, err)

	require.NoError(t, saleRepo.DeleteSale(ctx, sale.SaleID))

	got, err := shipRepo.GetItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Equal(t, 0, got.SoldQuantity, "create then delete is identity on the counter")

	_, err = saleRepo.GetSale(ctx, sale.SaleID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing sale is a silent no-op.
	require.NoError(t, saleRepo.DeleteSale(ctx, sale.SaleID))
}

func TestSaleRepositoryRangeQueriesAndSums(t *testing.T) {
	db := newTestDB(t)
	shipRepo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, shipRepo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 50})
	item := shipment.Items[0]

	add := func(date, price string, status domain.Status) {
		d, err := time.Parse(domain.DateLayout, date)
		require.NoError(t, err)
		_, err = saleRepo.CreateSale(ctx, &domain.Sale{
			ItemID:   item.ItemID,
			Customer: "Ana",
			Quantity: 1,
			Price:    decimal.RequireFromString(price),
			Date:     d,
			Status:   status,
		})
		require.NoError(t, err)
	}

	add("2024-01-10", "25.00", domain.StatusPaid)
	add("2024-01-12", "10.00", domain.StatusPending)
	add("2024-01-15", "7.50", domain.StatusPaid)
	add("2024-02-01", "99.00", domain.StatusPaid)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	inRange, err := saleRepo.ListSalesByDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, inRange, 3)
	require.Equal(t, "2024-01-15", inRange[0].Date.Format(domain.DateLayout), "newest date first")

	paid, err := saleRepo.SumByStatusInRange(ctx, domain.StatusPaid, start, end)
	require.NoError(t, err)
	require.True(t, paid.Equal(decimal.RequireFromString("32.50")), "paid sum = %s", paid)

	pending, err := saleRepo.SumByStatusInRange(ctx, domain.StatusPending, start, end)
	require.NoError(t, err)
	require.True(t, pending.Equal(decimal.RequireFromString("10.00")))

	// Paid + pending partitions the range total exactly.
	require.True(t, paid.Add(pending).Equal(decimal.RequireFromString("42.50")))

	empty, err := saleRepo.SumByStatusInRange(ctx, domain.StatusPaid,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, empty.IsZero(), "empty set sums to zero")

	byItem, err := saleRepo.ListSalesByItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Len(t, byItem, 4)
	for i, want := range []string{"2024-02-01", "2024-01-15", "2024-01-12", "2024-01-10"} {
		require.Equal(t, want, byItem[i].Date.Format(domain.DateLayout), "sale date descending")
	}

	recent, err := saleRepo.ListRecentSales(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	lines, err := saleRepo.ListSaleLines(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "truffle", lines[0].Category)
	require.True(t, lines[0].UnitCost.Equal(decimal.RequireFromString("2.50")))
}

// The recent feed follows creation order, not sale date: a backdated sale
// recorded last still shows up first.
func TestSaleRepositoryRecentOrdersByCreation(t *testing.T) {
	db := newTestDB(t)
	shipRepo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, shipRepo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 10})
	item := shipment.Items[0]

	add := func(date string) *domain.Sale {
		d, err := time.Parse(domain.DateLayout, date)
		require.NoError(t, err)
		sale, err := saleRepo.CreateSale(ctx, &domain.Sale{
			ItemID:   item.ItemID,
			Customer: "Ana",
			Quantity: 1,
			Price:    decimal.RequireFromString("5.00"),
			Date:     d,
			Status:   domain.StatusPaid,
		})
		require.NoError(t, err)
		return sale
	}

	newer := add("2024-03-01")
	backdated := add("2024-01-05")

	recent, err := saleRepo.ListRecentSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, backdated.SaleID, recent[0].SaleID, "last recorded sale first despite the older date")
	require.Equal(t, newer.SaleID, recent[1].SaleID)

	// The date-ordered view flips them.
	byItem, err := saleRepo.ListSalesByItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	require.Equal(t, newer.SaleID, byItem[0].SaleID)
	require.Equal(t, backdated.SaleID, byItem[1].SaleID)
}

// Full ledger walk-through: shipment, sale, totals, inverse delete.
func TestLedgerScenario(t *testing.T) {
	db := newTestDB(t)
	shipRepo := NewSqliteShipmentRepository(db)
	saleRepo := NewSqliteSaleRepository(db)
	ctx := context.Background()

	shipment := createTestShipment(t, shipRepo, "2024-01-10",
		domain.ItemDraft{Category: "truffle", Flavor: "chocolate", InitialQuantity: 20})
	item := shipment.Items[0]
	require.True(t, item.UnitCost.Equal(decimal.RequireFromString("2.50")))

	sale, err := saleRepo.CreateSale(ctx, &domain.Sale{
		ItemID:   item.ItemID,
		Customer: "Ana",
		Quantity: 5,
		Price:    decimal.RequireFromString("25.00"),
		Date:     shipment.Date,
		Status:   domain.StatusPaid,
	})
	require.NoError(t, err)

	got, err := shipRepo.GetItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Equal(t, 5, got.SoldQuantity)

	paid, err := saleRepo.SumByStatusInRange(ctx, domain.StatusPaid, shipment.Date, shipment.Date)
	require.NoError(t, err)
	require.True(t, paid.Equal(decimal.RequireFromString("25.00")))

	require.NoError(t, saleRepo.DeleteSale(ctx, sale.SaleID))

	got, err = shipRepo.GetItem(ctx, item.ItemID)
	require.NoError(t, err)
	require.Equal(t, 0, got.SoldQuantity)
}

func TestSettingRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteSettingRepository(db)
	ctx := context.Background()

	_, err := repo.GetSetting(ctx, "unit_cost.truffle")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.PutSetting(ctx, &domain.Setting{
		Key:   "unit_cost.truffle",
		Value: "2.50",
		Type:  domain.SettingFloat,
	}))

	got, err := repo.GetSetting(ctx, "unit_cost.truffle")
	require.NoError(t, err)
	require.Equal(t, "2.50", got.Value)
	f, err := got.FloatValue()
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	// Put on an existing key replaces the value.
	require.NoError(t, repo.PutSetting(ctx, &domain.Setting{
		Key:   "unit_cost.truffle",
		Value: "3.00",
		Type:  domain.SettingFloat,
	}))

	all, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "3.00", all[0].Value)

	require.True(t, domain.IsValidation(repo.PutSetting(ctx, &domain.Setting{Key: ""})))
}

func TestSeedFromJSON(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seed := t.TempDir() + "/shipments.json"
	payload := `[
		{"date": "2024-01-10", "note": "first batch", "items": [
			{"category": "truffle", "flavor": "chocolate", "initial_quantity": 20},
			{"category": "dessert", "flavor": "pudding", "initial_quantity": 8}
		]}
	]`
	require.NoError(t, os.WriteFile(seed, []byte(payload), 0o644))

	require.NoError(t, SeedFromJSON(db, seed, domain.DefaultCosts()))

	repo := NewSqliteShipmentRepository(db)
	all, err := repo.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	items, err := repo.ListItems(ctx, all[0].ShipmentID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Re-seeding a populated ledger is a no-op.
	require.NoError(t, SeedFromJSON(db, seed, domain.DefaultCosts()))
	all, err = repo.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
