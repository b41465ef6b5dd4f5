package services

import (
	"context"
	"time"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/ports"
)

// ShipmentManager owns the shipment side of the ledger: batch creation with
// line validation and cost derivation, availability queries, and the
// cascading delete.
type ShipmentManager struct {
	Repo  ports.ShipmentRepository
	Costs domain.CostTable
}

func NewShipmentManager(repo ports.ShipmentRepository, costs domain.CostTable) *ShipmentManager {
	return &ShipmentManager{Repo: repo, Costs: costs}
}

// Create validates and persists a shipment with its item lines. Drafts with
// a blank category, blank flavor or non-positive quantity are dropped; if
// nothing survives the filter the whole operation is rejected. Unit cost is
// derived per line from the cost table.
func (m *ShipmentManager) Create(
	ctx context.Context,
	date time.Time,
	note string,
	drafts []domain.ItemDraft,
) (*domain.Shipment, error) {
	if date.IsZero() {
		return nil, domain.Validationf("date", "must not be empty")
	}

	kept := domain.FilterDrafts(drafts)
	if len(kept) == 0 {
		return nil, domain.Validationf("items", "must contain at least one valid item")
	}

	items := make([]*domain.Item, 0, len(kept))
	for _, d := range kept {
		items = append(items, &domain.Item{
			Category:        d.Category,
			Flavor:          d.Flavor,
			InitialQuantity: d.InitialQuantity,
			UnitCost:        m.Costs.UnitCost(d.Category),
		})
	}

	return m.Repo.CreateShipment(ctx, date, note, items)
}

// GetAll returns every shipment newest-first, without item lines.
func (m *ShipmentManager) GetAll(ctx context.Context) ([]*domain.Shipment, error) {
	return m.Repo.ListShipments(ctx)
}

// GetActive returns shipments that still have unsold stock, newest-first.
func (m *ShipmentManager) GetActive(ctx context.Context) ([]*domain.Shipment, error) {
	return m.Repo.ListActiveShipments(ctx)
}

// GetByID returns one shipment with its items, or domain.ErrNotFound.
func (m *ShipmentManager) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	if id <= 0 {
		return nil, domain.Validationf("id", "must be positive")
	}
	return m.Repo.GetShipment(ctx, id)
}

// GetItems returns the item lines of one shipment ordered by category then flavor.
func (m *ShipmentManager) GetItems(ctx context.Context, shipmentID int64) ([]*domain.Item, error) {
	if shipmentID <= 0 {
		return nil, domain.Validationf("id", "must be positive")
	}
	return m.Repo.ListItems(ctx, shipmentID)
}

// Update replaces a shipment's date and note. The item list is immutable
// through this operation.
func (m *ShipmentManager) Update(ctx context.Context, id int64, date time.Time, note string) error {
	if id <= 0 {
		return domain.Validationf("id", "must be positive")
	}
	if date.IsZero() {
		return domain.Validationf("date", "must not be empty")
	}
	return m.Repo.UpdateShipment(ctx, id, date, note)
}

// Delete removes a shipment, its items and every sale referencing those
// items as one atomic cascade.
func (m *ShipmentManager) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Validationf("id", "must be positive")
	}
	return m.Repo.DeleteShipment(ctx, id)
}
