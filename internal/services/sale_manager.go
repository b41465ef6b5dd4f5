package services

import (
	"context"
	"log"
	"strings"
	"time"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/ports"

	"github.com/shopspring/decimal"
)

// defaultRecentLimit bounds GetRecent when the caller passes no limit.
const defaultRecentLimit = 10

// SaleManager owns the sale side of the ledger. Every write that moves an
// item counter goes through the repository as one transaction; after a
// successful write the report cache is invalidated best-effort.
type SaleManager struct {
	Repo  ports.SaleRepository
	Cache ports.ReportCache
}

func NewSaleManager(repo ports.SaleRepository, cache ports.ReportCache) *SaleManager {
	return &SaleManager{Repo: repo, Cache: cache}
}

// CreateSaleParams is caller input for recording one sale.
type CreateSaleParams struct {
	ItemID        int64
	Customer      string
	Quantity      int
	Price         decimal.Decimal
	Date          time.Time
	Status        domain.Status
	PaymentMethod string
}

// Create validates the input and records the sale together with the item's
// sold-quantity increment. Overselling past the item's initial quantity is
// rejected before anything commits.
func (m *SaleManager) Create(ctx context.Context, p CreateSaleParams) (*domain.Sale, error) {
	if p.ItemID <= 0 {
		return nil, domain.Validationf("item_id", "must be positive")
	}
	if strings.TrimSpace(p.Customer) == "" {
		return nil, domain.Validationf("customer", "must not be blank")
	}
	if p.Quantity <= 0 {
		return nil, domain.Validationf("quantity", "must be positive")
	}
	if p.Price.IsNegative() {
		return nil, domain.Validationf("price", "must not be negative")
	}
	if p.Date.IsZero() {
		return nil, domain.Validationf("date", "must not be empty")
	}
	if _, err := domain.ParseStatus(string(p.Status)); err != nil {
		return nil, err
	}

	sale, err := m.Repo.CreateSale(ctx, &domain.Sale{
		ItemID:        p.ItemID,
		Customer:      strings.TrimSpace(p.Customer),
		Quantity:      p.Quantity,
		Price:         p.Price,
		Date:          p.Date,
		Status:        p.Status,
		PaymentMethod: strings.TrimSpace(p.PaymentMethod),
	})
	if err != nil {
		return nil, err
	}

	m.invalidateReports(ctx)

	return sale, nil
}

// GetByItem returns the sales of one item, newest sale date first.
func (m *SaleManager) GetByItem(ctx context.Context, itemID int64) ([]*domain.Sale, error) {
	if itemID <= 0 {
		return nil, domain.Validationf("item_id", "must be positive")
	}
	return m.Repo.ListSalesByItem(ctx, itemID)
}

// GetByID returns one sale, or domain.ErrNotFound.
func (m *SaleManager) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	if id <= 0 {
		return nil, domain.Validationf("id", "must be positive")
	}
	return m.Repo.GetSale(ctx, id)
}

// UpdateStatus flips a sale between PAID and PENDING. No quantity side effects.
func (m *SaleManager) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if id <= 0 {
		return domain.Validationf("id", "must be positive")
	}
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return err
	}

	if err := m.Repo.UpdateSaleStatus(ctx, id, status); err != nil {
		return err
	}

	m.invalidateReports(ctx)

	return nil
}

// GetByDateRange returns sales inside the inclusive range, newest first.
func (m *SaleManager) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Sale, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return m.Repo.ListSalesByDateRange(ctx, start, end)
}

// GetRecent returns the most recently created sales, bounded by limit
// (10 when the caller passes zero or less).
func (m *SaleManager) GetRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return m.Repo.ListRecentSales(ctx, limit)
}

// SumPaidInRange sums paid sale prices inside the inclusive range.
func (m *SaleManager) SumPaidInRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if err := checkRange(start, end); err != nil {
		return decimal.Zero, err
	}
	return m.Repo.SumByStatusInRange(ctx, domain.StatusPaid, start, end)
}

// SumPendingInRange sums pending sale prices inside the inclusive range.
func (m *SaleManager) SumPendingInRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if err := checkRange(start, end); err != nil {
		return decimal.Zero, err
	}
	return m.Repo.SumByStatusInRange(ctx, domain.StatusPending, start, end)
}

// Delete removes a sale and restores the item's sold quantity in one
// transaction. Deleting a missing sale is a no-op.
func (m *SaleManager) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Validationf("id", "must be positive")
	}

	if err := m.Repo.DeleteSale(ctx, id); err != nil {
		return err
	}

	m.invalidateReports(ctx)

	return nil
}

// Cache trouble must never fail a committed ledger write.
func (m *SaleManager) invalidateReports(ctx context.Context) {
	if m.Cache == nil {
		return
	}
	if err := m.Cache.Invalidate(ctx); err != nil {
		log.Printf("op=sales.invalidate_cache err=%v", err)
	}
}

func checkRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.Validationf("range", "start and end must not be empty")
	}
	if end.Before(start) {
		return domain.Validationf("range", "end must not precede start")
	}
	return nil
}
