package ports

import (
	"context"
	"time"
	"vendor-ledger-service/internal/domain"
)

// Port: a boundary for persisting shipments and their item lines.
type ShipmentRepository interface {
	// Persist a shipment and its item lines as one transaction.
	// The passed items carry no identifiers; the returned shipment does.
	CreateShipment(ctx context.Context, date time.Time, note string, items []*domain.Item) (*domain.Shipment, error)

	// All shipments newest-first (descending id), items not populated.
	ListShipments(ctx context.Context) ([]*domain.Shipment, error)

	// Shipments with at least one item holding unsold stock, newest-first.
	ListActiveShipments(ctx context.Context) ([]*domain.Shipment, error)

	// One shipment with its items ordered by category then flavor.
	// Returns domain.ErrNotFound when the id has no row.
	GetShipment(ctx context.Context, id int64) (*domain.Shipment, error)

	// Items of one shipment ordered by category then flavor.
	ListItems(ctx context.Context, shipmentID int64) ([]*domain.Item, error)

	// One item line. Returns domain.ErrNotFound when the id has no row.
	GetItem(ctx context.Context, id int64) (*domain.Item, error)

	// Replace date and note. Returns domain.ErrNotFound when the id has no row.
	UpdateShipment(ctx context.Context, id int64, date time.Time, note string) error

	// Cascade delete as one transaction: sales of the shipment's items,
	// then the items, then the shipment. A missing id is a no-op.
	DeleteShipment(ctx context.Context, id int64) error
}
