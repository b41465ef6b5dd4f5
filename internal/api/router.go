package api

import (
	"net/http"
	"vendor-ledger-service/internal/api/handlers"
	"vendor-ledger-service/internal/ports"
	"vendor-ledger-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	shipments *services.ShipmentManager,
	sales *services.SaleManager,
	reports *services.ReportService,
	settings ports.SettingRepository,
) http.Handler {
	mux := http.NewServeMux()

	shipmentHandler := &handlers.ShipmentHandler{Shipments: shipments}
	saleHandler := &handlers.SaleHandler{Sales: sales}
	reportHandler := &handlers.ReportHandler{Reports: reports}
	settingHandler := &handlers.SettingHandler{Repo: settings}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /shipments", shipmentHandler.Create)
	mux.HandleFunc("GET /shipments", shipmentHandler.List)
	mux.HandleFunc("GET /shipments/{id}", shipmentHandler.Get)
	mux.HandleFunc("PUT /shipments/{id}", shipmentHandler.Update)
	mux.HandleFunc("DELETE /shipments/{id}", shipmentHandler.Delete)
	mux.HandleFunc("GET /shipments/{id}/items", shipmentHandler.ListItems)

	mux.HandleFunc("POST /sales", saleHandler.Create)
	mux.HandleFunc("GET /sales", saleHandler.List)
	mux.HandleFunc("GET /sales/totals", saleHandler.Totals)
	mux.HandleFunc("GET /sales/{id}", saleHandler.Get)
	mux.HandleFunc("PUT /sales/{id}/status", saleHandler.UpdateStatus)
	mux.HandleFunc("DELETE /sales/{id}", saleHandler.Delete)

	mux.HandleFunc("GET /reports/summary", reportHandler.Summary)

	mux.HandleFunc("GET /settings", settingHandler.List)
	mux.HandleFunc("PUT /settings/{key}", settingHandler.Put)

	return loggingMiddleware(mux)
}
