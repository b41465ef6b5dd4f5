package services

import (
	"context"
	"fmt"
	"log"
	"time"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/ports"
)

// ReportService computes period reports over the sale ledger through an
// explicit read-through cache: consult the cache, compute on a miss, store
// the result. A nil cache degrades to compute-only.
type ReportService struct {
	Source ports.ReportSource
	Cache  ports.ReportCache
}

func NewReportService(source ports.ReportSource, cache ports.ReportCache) *ReportService {
	return &ReportService{Source: source, Cache: cache}
}

// Summary aggregates the sales inside the inclusive date range.
func (r *ReportService) Summary(ctx context.Context, start, end time.Time) (*domain.SalesReport, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	key := rangeKey(start, end)
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("op=reports.cache_get key=%s err=%v", key, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	lines, err := r.Source.ListSaleLines(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := domain.BuildReport(start, end, lines)

	if r.Cache != nil {
		if err := r.Cache.Put(ctx, key, report); err != nil {
			log.Printf("op=reports.cache_put key=%s err=%v", key, err)
		}
	}

	return report, nil
}

// PeriodSummary resolves a named period (day, week, month) against the
// reference day and aggregates it.
func (r *ReportService) PeriodSummary(ctx context.Context, period domain.Period, ref time.Time) (*domain.SalesReport, error) {
	start, end, err := period.Range(ref)
	if err != nil {
		return nil, err
	}
	return r.Summary(ctx, start, end)
}

func rangeKey(start, end time.Time) string {
	return fmt.Sprintf("%s:%s", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
}
