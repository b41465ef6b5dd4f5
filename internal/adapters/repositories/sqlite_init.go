package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
	"vendor-ledger-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);
	`

	createItemsQuery := `
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shipment_id INTEGER NOT NULL REFERENCES shipments(id),
		category TEXT NOT NULL,
		flavor TEXT NOT NULL,
		initial_quantity INTEGER NOT NULL,
		sold_quantity INTEGER NOT NULL DEFAULT 0,
		unit_cost TEXT NOT NULL
	);
	`

	createSalesQuery := `
	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL REFERENCES items(id),
		customer TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_method TEXT,
		created_at TEXT NOT NULL
	);
	`

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createItemIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_items_shipment ON items(shipment_id);
	`

	createSaleIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_sales_item ON sales(item_id);
	CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);
	CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);
	`

	statements := []string{
		createShipmentsQuery,
		createItemsQuery,
		createSalesQuery,
		createSettingsQuery,
		createItemIndexQuery,
		createSaleIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ItemSeed struct {
	Category        string `json:"category"`
	Flavor          string `json:"flavor"`
	InitialQuantity int    `json:"initial_quantity"`
}

type ShipmentSeed struct {
	Date  string     `json:"date"`
	Note  string     `json:"note"`
	Items []ItemSeed `json:"items"`
}

// Populate the database with demo shipments from a JSON file. Seeding only
// runs against an empty ledger so reruns do not duplicate batches.
func SeedFromJSON(db *sql.DB, jsonPath string, costs domain.CostTable) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed shipments: read %q: %w", jsonPath, err)
	}

	var data []ShipmentSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed shipments: parse json: %w", err)
	}

	for i, s := range data {
		if _, err := time.Parse(domain.DateLayout, s.Date); err != nil {
			return fmt.Errorf("seed shipments: invalid date at index %d: %q", i+1, s.Date)
		}
		if len(domain.FilterDrafts(toDrafts(s.Items))) == 0 {
			return fmt.Errorf("seed shipments: shipment at index %d has no valid items", i+1)
		}
	}

	var existing int
	if err := db.QueryRow(`SELECT COUNT(*) FROM shipments;`).Scan(&existing); err != nil {
		return fmt.Errorf("seed shipments: count shipments: %w", err)
	}
	if existing > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed shipments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertShipment, err := tx.Prepare(`
	INSERT INTO shipments (date, note, created_at)
	VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed shipments: prepare shipment insert: %w", err)
	}
	defer insertShipment.Close()

	insertItem, err := tx.Prepare(`
	INSERT INTO items (shipment_id, category, flavor, initial_quantity, sold_quantity, unit_cost)
	VALUES (?, ?, ?, ?, 0, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed shipments: prepare item insert: %w", err)
	}
	defer insertItem.Close()

	now := time.Now().UTC().Format(timestampLayout)
	for _, s := range data {
		res, err := insertShipment.Exec(s.Date, nullableText(s.Note), now)
		if err != nil {
			return fmt.Errorf("seed shipments: insert shipment date=%s: %w", s.Date, err)
		}
		shipmentID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed shipments: shipment id date=%s: %w", s.Date, err)
		}

		for _, d := range domain.FilterDrafts(toDrafts(s.Items)) {
			cost := costs.UnitCost(d.Category)
			if _, err := insertItem.Exec(shipmentID, d.Category, d.Flavor, d.InitialQuantity, cost.String()); err != nil {
				return fmt.Errorf("seed shipments: insert item %s %s: %w", d.Category, d.Flavor, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed shipments: commit tx: %w", err)
	}

	return nil
}

func toDrafts(items []ItemSeed) []domain.ItemDraft {
	drafts := make([]domain.ItemDraft, 0, len(items))
	for _, it := range items {
		drafts = append(drafts, domain.ItemDraft{
			Category:        it.Category,
			Flavor:          it.Flavor,
			InitialQuantity: it.InitialQuantity,
		})
	}
	return drafts
}
