package repositories

import (
	"database/sql"
	"fmt"
	"time"
	"vendor-ledger-service/internal/domain"

	"github.com/shopspring/decimal"
)

// timestampLayout is RFC3339 with a fixed-width fraction so stored
// timestamps sort correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", s, err)
	}
	return d, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(sc rowScanner) (*domain.Shipment, error) {
	var (
		s         domain.Shipment
		date      string
		note      sql.NullString
		createdAt string
	)
	if err := sc.Scan(&s.ShipmentID, &date, &note, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if s.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	s.Note = note.String

	return &s, nil
}

func scanItem(sc rowScanner) (*domain.Item, error) {
	var (
		it   domain.Item
		cost string
	)
	if err := sc.Scan(&it.ItemID, &it.ShipmentID, &it.Category, &it.Flavor, &it.InitialQuantity, &it.SoldQuantity, &cost); err != nil {
		return nil, err
	}

	var err error
	if it.UnitCost, err = parseMoney(cost); err != nil {
		return nil, err
	}

	return &it, nil
}

func scanSale(sc rowScanner) (*domain.Sale, error) {
	var (
		s         domain.Sale
		price     string
		date      string
		status    string
		method    sql.NullString
		createdAt string
	)
	if err := sc.Scan(&s.SaleID, &s.ItemID, &s.Customer, &s.Quantity, &price, &date, &status, &method, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if s.Price, err = parseMoney(price); err != nil {
		return nil, err
	}
	if s.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	s.Status = domain.Status(status)
	s.PaymentMethod = method.String

	return &s, nil
}
