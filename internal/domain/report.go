package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TopSeller is one row of the best-selling products ranking.
type TopSeller struct {
	Product string
	Units   int
	Revenue decimal.Decimal
}

// SalesReport aggregates the sales inside one inclusive date range.
// Profit is paid revenue minus the production cost of the units those paid
// sales moved; pending revenue is excluded until it settles.
type SalesReport struct {
	Start        time.Time
	End          time.Time
	PaidTotal    decimal.Decimal
	PendingTotal decimal.Decimal
	Profit       decimal.Decimal
	UnitsSold    int
	TopSellers   []TopSeller
}

// topSellerLimit caps the ranking length in a report.
const topSellerLimit = 5

// BuildReport folds sale lines into a SalesReport. Every price lands in
// exactly one of PaidTotal or PendingTotal.
func BuildReport(start, end time.Time, lines []*SaleLine) *SalesReport {
	r := &SalesReport{
		Start:        start,
		End:          end,
		PaidTotal:    decimal.Zero,
		PendingTotal: decimal.Zero,
		Profit:       decimal.Zero,
	}

	byProduct := map[string]*TopSeller{}
	for _, l := range lines {
		r.UnitsSold += l.Quantity

		switch l.Status {
		case StatusPaid:
			r.PaidTotal = r.PaidTotal.Add(l.Price)
			cost := l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
			r.Profit = r.Profit.Add(l.Price.Sub(cost))
		default:
			r.PendingTotal = r.PendingTotal.Add(l.Price)
		}

		p := l.Product()
		ts, ok := byProduct[p]
		if !ok {
			ts = &TopSeller{Product: p, Revenue: decimal.Zero}
			byProduct[p] = ts
		}
		ts.Units += l.Quantity
		ts.Revenue = ts.Revenue.Add(l.Price)
	}

	ranked := make([]TopSeller, 0, len(byProduct))
	for _, ts := range byProduct {
		ranked = append(ranked, *ts)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Units != ranked[j].Units {
			return ranked[i].Units > ranked[j].Units
		}
		return ranked[i].Product < ranked[j].Product
	})
	if len(ranked) > topSellerLimit {
		ranked = ranked[:topSellerLimit]
	}
	r.TopSellers = ranked

	return r
}

// Period names a relative reporting window anchored on a reference day.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Range resolves the period to an inclusive [start, end] calendar range.
// A week is the reference day and the six days before it; a month is the
// calendar month containing the reference day.
func (p Period) Range(ref time.Time) (time.Time, time.Time, error) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodDay:
		return day, day, nil
	case PeriodWeek:
		return day.AddDate(0, 0, -6), day, nil
	case PeriodMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return first, last, nil
	}
	return time.Time{}, time.Time{}, Validationf("period", "must be %s, %s or %s", PeriodDay, PeriodWeek, PeriodMonth)
}
