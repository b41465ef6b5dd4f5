package handlers

import (
	"net/http"
	"vendor-ledger-service/internal/api/dto"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/ports"
)

// SettingHandler exposes the typed key/value configuration rows.
type SettingHandler struct {
	Repo ports.SettingRepository
}

func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Repo.ListSettings(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListSettingsResponse{Settings: make([]dto.SettingResponse, 0, len(settings))}
	for _, s := range settings {
		res.Settings = append(res.Settings, dto.SettingResponse{
			Key:   s.Key,
			Value: s.Value,
			Type:  string(s.Type),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SettingHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, r, http.StatusBadRequest, "key is required")
		return
	}

	var req dto.PutSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch domain.SettingType(req.Type) {
	case domain.SettingString, domain.SettingFloat, domain.SettingInteger:
	default:
		writeError(w, r, http.StatusBadRequest, "type must be string, float or integer")
		return
	}

	if err := h.Repo.PutSetting(r.Context(), &domain.Setting{
		Key:   key,
		Value: req.Value,
		Type:  domain.SettingType(req.Type),
	}); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
