package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"vendor-ledger-service/internal/api/dto"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/services"
)

// ShipmentHandler exposes the shipment side of the ledger.
type ShipmentHandler struct {
	Shipments *services.ShipmentManager
}

func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShipmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	drafts := make([]domain.ItemDraft, 0, len(req.Items))
	for _, it := range req.Items {
		drafts = append(drafts, domain.ItemDraft{
			Category:        it.Category,
			Flavor:          it.Flavor,
			InitialQuantity: it.InitialQuantity,
		})
	}

	shipment, err := h.Shipments.Create(r.Context(), date, req.Note, drafts)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toShipmentResponse(shipment))
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		shipments []*domain.Shipment
		err       error
	)
	if r.URL.Query().Get("active") == "true" {
		shipments, err = h.Shipments.GetActive(r.Context())
	} else {
		shipments, err = h.Shipments.GetAll(r.Context())
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListShipmentsResponse{
		Shipments: make([]dto.ShipmentResponse, 0, len(shipments)),
	}
	for _, s := range shipments {
		res.Shipments = append(res.Shipments, toShipmentResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	shipment, err := h.Shipments.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toShipmentResponse(shipment))
}

func (h *ShipmentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	items, err := h.Shipments.GetItems(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListItemsResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, it := range items {
		res.Items = append(res.Items, toItemResponse(it))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	var req dto.UpdateShipmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := h.Shipments.Update(r.Context(), id, date, req.Note); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(w, r)
	if id == 0 {
		return
	}

	if err := h.Shipments.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toShipmentResponse(s *domain.Shipment) dto.ShipmentResponse {
	res := dto.ShipmentResponse{
		ShipmentID: s.ShipmentID,
		Date:       s.Date.Format(domain.DateLayout),
		Note:       s.Note,
		CreatedAt:  s.CreatedAt,
	}
	for _, it := range s.Items {
		res.Items = append(res.Items, toItemResponse(it))
	}
	return res
}

func toItemResponse(it *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ItemID:          it.ItemID,
		ShipmentID:      it.ShipmentID,
		Category:        it.Category,
		Flavor:          it.Flavor,
		InitialQuantity: it.InitialQuantity,
		SoldQuantity:    it.SoldQuantity,
		Remaining:       it.Remaining(),
		UnitCost:        it.UnitCost.String(),
	}
}

// decodeBody enforces a single strict JSON object body.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	return true
}
