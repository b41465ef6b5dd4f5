package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vendor-ledger-service/internal/platform/obs"
)

// Initialize the ledger schema on the Postgres reporting mirror. The mirror
// is never the system of record; dbtool refreshes it from the embedded store.
func InitMirrorSchema(ctx context.Context, db *sql.DB) (err error) {
	defer obs.Time(ctx, "report.mirror.InitSchema")(&err)

	if db == nil {
		return errors.New("init mirror schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init mirror schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS shipments (
			id BIGINT PRIMARY KEY,
			date DATE NOT NULL,
			note TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS items (
			id BIGINT PRIMARY KEY,
			shipment_id BIGINT NOT NULL REFERENCES shipments(id),
			category TEXT NOT NULL,
			flavor TEXT NOT NULL,
			initial_quantity INTEGER NOT NULL,
			sold_quantity INTEGER NOT NULL DEFAULT 0,
			unit_cost NUMERIC(12,2) NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS sales (
			id BIGINT PRIMARY KEY,
			item_id BIGINT NOT NULL REFERENCES items(id),
			customer TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			date DATE NOT NULL,
			status TEXT NOT NULL,
			payment_method TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init mirror schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init mirror schema: commit tx: %w", err)
	}

	return nil
}

// Refresh the Postgres mirror from the embedded store: wipe and re-copy
// shipments, items and sales in one mirror-side transaction.
func SyncMirror(ctx context.Context, src, dst *sql.DB) (err error) {
	defer obs.Time(ctx, "report.mirror.Sync")(&err)

	if src == nil || dst == nil {
		return errors.New("sync mirror: DB is nil")
	}

	tx, err := dst.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync mirror: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first so the mirror's foreign keys stay satisfied.
	for i, stmt := range []string{
		`DELETE FROM sales;`,
		`DELETE FROM items;`,
		`DELETE FROM shipments;`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sync mirror: wipe step #%d: %w", i+1, err)
		}
	}

	if err := copyShipments(ctx, src, tx); err != nil {
		return fmt.Errorf("sync mirror: %w", err)
	}
	if err := copyItems(ctx, src, tx); err != nil {
		return fmt.Errorf("sync mirror: %w", err)
	}
	if err := copySales(ctx, src, tx); err != nil {
		return fmt.Errorf("sync mirror: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sync mirror: commit tx: %w", err)
	}

	return nil
}

func copyShipments(ctx context.Context, src *sql.DB, tx *sql.Tx) error {
	rows, err := src.QueryContext(ctx, `
	SELECT id, date, note, created_at
	FROM shipments;
	`)
	if err != nil {
		return fmt.Errorf("copy shipments: query source: %w", err)
	}
	defer rows.Close()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO shipments (id, date, note, created_at)
	VALUES ($1, $2::date, $3, $4::timestamptz);
	`)
	if err != nil {
		return fmt.Errorf("copy shipments: prepare insert: %w", err)
	}
	defer stmt.Close()

	for rows.Next() {
		var id int64
		var date, createdAt string
		var note sql.NullString
		if err := rows.Scan(&id, &date, &note, &createdAt); err != nil {
			return fmt.Errorf("copy shipments: scan row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, date, note, createdAt); err != nil {
			return fmt.Errorf("copy shipments: insert id=%d: %w", id, err)
		}
	}

	return rows.Err()
}

func copyItems(ctx context.Context, src *sql.DB, tx *sql.Tx) error {
	rows, err := src.QueryContext(ctx, `
	SELECT id, shipment_id, category, flavor, initial_quantity, sold_quantity, unit_cost
	FROM items;
	`)
	if err != nil {
		return fmt.Errorf("copy items: query source: %w", err)
	}
	defer rows.Close()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO items (id, shipment_id, category, flavor, initial_quantity, sold_quantity, unit_cost)
	VALUES ($1, $2, $3, $4, $5, $6, $7::numeric);
	`)
	if err != nil {
		return fmt.Errorf("copy items: prepare insert: %w", err)
	}
	defer stmt.Close()

	for rows.Next() {
		var id, shipmentID int64
		var category, flavor, cost string
		var initial, sold int
		if err := rows.Scan(&id, &shipmentID, &category, &flavor, &initial, &sold, &cost); err != nil {
			return fmt.Errorf("copy items: scan row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, shipmentID, category, flavor, initial, sold, cost); err != nil {
			return fmt.Errorf("copy items: insert id=%d: %w", id, err)
		}
	}

	return rows.Err()
}

func copySales(ctx context.Context, src *sql.DB, tx *sql.Tx) error {
	rows, err := src.QueryContext(ctx, `
	SELECT id, item_id, customer, quantity, price, date, status, payment_method, created_at
	FROM sales;
	`)
	if err != nil {
		return fmt.Errorf("copy sales: query source: %w", err)
	}
	defer rows.Close()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO sales (id, item_id, customer, quantity, price, date, status, payment_method, created_at)
	VALUES ($1, $2, $3, $4, $5::numeric, $6::date, $7, $8, $9::timestamptz);
	`)
	if err != nil {
		return fmt.Errorf("copy sales: prepare insert: %w", err)
	}
	defer stmt.Close()

	for rows.Next() {
		var id, itemID int64
		var customer, price, date, status, createdAt string
		var quantity int
		var method sql.NullString
		if err := rows.Scan(&id, &itemID, &customer, &quantity, &price, &date, &status, &method, &createdAt); err != nil {
			return fmt.Errorf("copy sales: scan row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, itemID, customer, quantity, price, date, status, method, createdAt); err != nil {
			return fmt.Errorf("copy sales: insert id=%d: %w", id, err)
		}
	}

	return rows.Err()
}
