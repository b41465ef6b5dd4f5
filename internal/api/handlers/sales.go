package handlers

import (
	"net/http"
	"strconv"
	"time"
	"vendor-ledger-service/internal/api/dto"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/services"
)

// SaleHandler exposes the sale side of the ledger.
type SaleHandler struct {
	Sales *services.SaleManager
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	sale, err := h.Sales.Create(r.Context(), services.CreateSaleParams{
		ItemID:        req.ItemID,
		Customer:      req.Customer,
		Quantity:      req.Quantity,
		Price:         req.Price,
		Date:          date,
		Status:        domain.Status(req.Status),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toSaleResponse(sale))
}

// List serves three read shapes: sales of one item (?item_id=), sales in a
// date range (?start=&end=), or the recent-sales feed (default, ?limit=).
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		sales []*domain.Sale
		err   error
	)
	switch {
	case q.Get("item_id") != "":
		var itemID int64
		itemID, err = strconv.ParseInt(q.Get("item_id"), 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "item_id must be an integer")
			return
		}
		sales, err = h.Sales.GetByItem(r.Context(), itemID)

	case q.Get("start") != "" || q.Get("end") != "":
		var start, end time.Time
		start, end, err = rangeParams(q.Get("start"), q.Get("end"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
			return
		}
		sales, err = h.Sales.GetByDateRange(r.Context(), start, end)

	default:
		limit := 0
		if raw := q.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "limit must be an integer")
				return
			}
		}
		sales, err = h.Sales.GetRecent(r.Context(), limit)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListSalesResponse{Sales: make([]dto.SaleResponse, 0, len(sales))}
	for _, s := range sales {
		res.Sales = append(res.Sales, toSaleResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	sale, err := h.Sales.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toSaleResponse(sale))
}

func (h *SaleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	var req dto.UpdateSaleStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Sales.UpdateStatus(r.Context(), id, domain.Status(req.Status)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SaleHandler) Totals(w http.ResponseWriter, r *http.Request) {
	start, end, err := rangeParams(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
		return
	}

	paid, err := h.Sales.SumPaidInRange(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	pending, err := h.Sales.SumPendingInRange(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SaleTotalsResponse{
		Start:   start.Format(domain.DateLayout),
		End:     end.Format(domain.DateLayout),
		Paid:    paid,
		Pending: pending,
	})
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	if err := h.Sales.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toSaleResponse(s *domain.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		SaleID:        s.SaleID,
		ItemID:        s.ItemID,
		Customer:      s.Customer,
		Quantity:      s.Quantity,
		Price:         s.Price,
		Date:          s.Date.Format(domain.DateLayout),
		Status:        string(s.Status),
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt,
	}
}

func rangeParams(start, end string) (time.Time, time.Time, error) {
	s, err := parseDateParam(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDateParam(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}
