package ports

import (
	"context"
	"time"
	"vendor-ledger-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Port: a boundary for the sale ledger and its paired item-counter updates.
type SaleRepository interface {
	// Insert the sale and increment the referenced item's sold quantity,
	// both in one transaction. Fails with a domain.ValidationError when the
	// item does not exist or the quantity would push sold past initial.
	CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)

	// Sales of one item, sale date descending.
	ListSalesByItem(ctx context.Context, itemID int64) ([]*domain.Sale, error)

	// One sale. Returns domain.ErrNotFound when the id has no row.
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)

	// Overwrite the payment status. Returns domain.ErrNotFound when the id
	// has no row.
	UpdateSaleStatus(ctx context.Context, id int64, status domain.Status) error

	// Sales with date inside the inclusive range, sale date descending.
	ListSalesByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Sale, error)

	// Most recently created sales (creation timestamp, not sale date).
	ListRecentSales(ctx context.Context, limit int) ([]*domain.Sale, error)

	// Sum of price over sales with the given status and date inside the
	// inclusive range; zero for an empty set.
	SumByStatusInRange(ctx context.Context, status domain.Status, start, end time.Time) (decimal.Decimal, error)

	// Decrement the item's sold quantity and delete the sale row, both in
	// one transaction. A missing id is a no-op.
	DeleteSale(ctx context.Context, id int64) error
}

// Port: read side for report aggregation, implementable by the embedded
// store or the Postgres reporting mirror.
type ReportSource interface {
	// Sale lines joined with item costing fields for the inclusive range.
	ListSaleLines(ctx context.Context, start, end time.Time) ([]*domain.SaleLine, error)
}
