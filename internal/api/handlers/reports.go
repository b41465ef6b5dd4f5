package handlers

import (
	"net/http"
	"time"
	"vendor-ledger-service/internal/api/dto"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/services"
)

// ReportHandler exposes period-based financial aggregates.
type ReportHandler struct {
	Reports *services.ReportService
}

// Summary accepts either an explicit range (?start=&end=) or a named
// period (?period=day|week|month) anchored on today.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		report *domain.SalesReport
		err    error
	)
	if period := q.Get("period"); period != "" {
		report, err = h.Reports.PeriodSummary(r.Context(), domain.Period(period), time.Now().UTC())
	} else {
		var start, end time.Time
		start, end, err = rangeParams(q.Get("start"), q.Get("end"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
			return
		}
		report, err = h.Reports.Summary(r.Context(), start, end)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ReportResponse{
		Start:        report.Start.Format(domain.DateLayout),
		End:          report.End.Format(domain.DateLayout),
		PaidTotal:    report.PaidTotal,
		PendingTotal: report.PendingTotal,
		Profit:       report.Profit,
		UnitsSold:    report.UnitsSold,
		TopSellers:   make([]dto.TopSellerResponse, 0, len(report.TopSellers)),
	}
	for _, ts := range report.TopSellers {
		res.TopSellers = append(res.TopSellers, dto.TopSellerResponse{
			Product: ts.Product,
			Units:   ts.Units,
			Revenue: ts.Revenue,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
