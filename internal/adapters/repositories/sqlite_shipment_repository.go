package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vendor-ledger-service/internal/domain"
)

// SQLite-backed implementation of the ShipmentRepository port.
type SqliteShipmentRepository struct{ DB *sql.DB }

func NewSqliteShipmentRepository(db *sql.DB) *SqliteShipmentRepository {
	return &SqliteShipmentRepository{DB: db}
}

// Insert a shipment and its item lines as a single transaction.
func (s *SqliteShipmentRepository) CreateShipment(
	ctx context.Context,
	date time.Time,
	note string,
	items []*domain.Item,
) (*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create shipment: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
	INSERT INTO shipments (date, note, created_at)
	VALUES (?, ?, ?);
	`, date.Format(domain.DateLayout), nullableText(note), createdAt.Format(timestampLayout))
	if err != nil {
		return nil, fmt.Errorf("create shipment: insert shipment: %w", err)
	}

	shipmentID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create shipment: last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO items (shipment_id, category, flavor, initial_quantity, sold_quantity, unit_cost)
	VALUES (?, ?, ?, ?, 0, ?);
	`)
	if err != nil {
		return nil, fmt.Errorf("create shipment: prepare item insert: %w", err)
	}
	defer stmt.Close()

	created := &domain.Shipment{
		ShipmentID: shipmentID,
		Date:       date,
		Note:       note,
		CreatedAt:  createdAt,
		Items:      make([]*domain.Item, 0, len(items)),
	}

	for _, it := range items {
		res, err := stmt.ExecContext(ctx, shipmentID, it.Category, it.Flavor, it.InitialQuantity, it.UnitCost.String())
		if err != nil {
			return nil, fmt.Errorf("create shipment: insert item %s %s: %w", it.Category, it.Flavor, err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("create shipment: item id %s %s: %w", it.Category, it.Flavor, err)
		}

		created.Items = append(created.Items, &domain.Item{
			ItemID:          itemID,
			ShipmentID:      shipmentID,
			Category:        it.Category,
			Flavor:          it.Flavor,
			InitialQuantity: it.InitialQuantity,
			UnitCost:        it.UnitCost,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create shipment: commit tx: %w", err)
	}

	return created, nil
}

// Return all shipments, newest first, without item lines.
func (s *SqliteShipmentRepository) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	query := `
	SELECT id, date, note, created_at
	FROM shipments
	ORDER BY id DESC;
	`
	return s.queryShipments(ctx, query)
}

// Return shipments that still have unsold stock on at least one line,
// newest first. DISTINCT keeps a shipment with several open lines single.
func (s *SqliteShipmentRepository) ListActiveShipments(ctx context.Context) ([]*domain.Shipment, error) {
	query := `
	SELECT DISTINCT s.id, s.date, s.note, s.created_at
	FROM shipments s
	INNER JOIN items i ON s.id = i.shipment_id
	WHERE (i.initial_quantity - i.sold_quantity) > 0
	ORDER BY s.id DESC;
	`
	return s.queryShipments(ctx, query)
}

func (s *SqliteShipmentRepository) queryShipments(ctx context.Context, query string, args ...any) ([]*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query shipments table: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, 16)
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("list shipments: scan row: %w", err)
		}
		shipments = append(shipments, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	return shipments, nil
}

// Return one shipment with its items populated.
func (s *SqliteShipmentRepository) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, date, note, created_at
	FROM shipments
	WHERE id = ?;
	`, id)

	sh, err := scanShipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment id=%d: %w", id, err)
	}

	items, err := s.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment id=%d: %w", id, err)
	}
	sh.Items = items

	return sh, nil
}

// Return the item lines of one shipment ordered by category then flavor.
func (s *SqliteShipmentRepository) ListItems(ctx context.Context, shipmentID int64) ([]*domain.Item, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, shipment_id, category, flavor, initial_quantity, sold_quantity, unit_cost
	FROM items
	WHERE shipment_id = ?
	ORDER BY category, flavor;
	`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list items shipment=%d: query items table: %w", shipmentID, err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0, 8)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items shipment=%d: scan row: %w", shipmentID, err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items shipment=%d: row iteration: %w", shipmentID, err)
	}

	return items, nil
}

// Return one item line.
func (s *SqliteShipmentRepository) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT id, shipment_id, category, flavor, initial_quantity, sold_quantity, unit_cost
	FROM items
	WHERE id = ?;
	`, id)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item id=%d: %w", id, err)
	}

	return it, nil
}

// Replace date and note; the item list is immutable through this operation.
func (s *SqliteShipmentRepository) UpdateShipment(ctx context.Context, id int64, date time.Time, note string) error {
	if s.DB == nil {
		return errors.New("sqlite shipment repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	UPDATE shipments
	SET date = ?, note = ?
	WHERE id = ?;
	`, date.Format(domain.DateLayout), nullableText(note), id)
	if err != nil {
		return fmt.Errorf("update shipment id=%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update shipment id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete a shipment and everything hanging off it as one transaction:
// sales referencing its items first, then the items, then the shipment.
func (s *SqliteShipmentRepository) DeleteShipment(ctx context.Context, id int64) error {
	if s.DB == nil {
		return errors.New("sqlite shipment repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete shipment id=%d: begin tx: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	cascade := []string{
		`DELETE FROM sales WHERE item_id IN (SELECT id FROM items WHERE shipment_id = ?);`,
		`DELETE FROM items WHERE shipment_id = ?;`,
		`DELETE FROM shipments WHERE id = ?;`,
	}
	for i, stmt := range cascade {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete shipment id=%d: cascade step #%d: %w", id, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete shipment id=%d: commit tx: %w", id, err)
	}

	return nil
}
