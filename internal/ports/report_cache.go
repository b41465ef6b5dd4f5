package ports

import (
	"context"
	"vendor-ledger-service/internal/domain"
)

// Port: a read-through cache for computed sales reports. Callers must treat
// it as best-effort; a cache failure never fails the report.
type ReportCache interface {
	// Cached report for the range key, or nil on a miss.
	Get(ctx context.Context, key string) (*domain.SalesReport, error)

	// Store a computed report under the range key.
	Put(ctx context.Context, key string, report *domain.SalesReport) error

	// Drop every cached report. Called after any sale write.
	Invalidate(ctx context.Context) error
}
