package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the payment-settlement state of a sale. PAID and PENDING are the
// only two states; the only transition is a direct status update.
type Status string

const (
	StatusPaid    Status = "PAID"
	StatusPending Status = "PENDING"
)

// ParseStatus validates a caller-supplied status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPaid:
		return StatusPaid, nil
	case StatusPending:
		return StatusPending, nil
	}
	return "", Validationf("status", "must be %s or %s", StatusPaid, StatusPending)
}

// Sale records units of one item sold to a customer. Creating a sale
// increments the item's sold quantity by Quantity in the same transaction;
// deleting it applies the inverse decrement.
type Sale struct {
	SaleID        int64
	ItemID        int64
	Customer      string
	Quantity      int
	Price         decimal.Decimal
	Date          time.Time
	Status        Status
	PaymentMethod string
	CreatedAt     time.Time
}

// SaleLine is a sale joined with the costing fields of its item, the row
// shape report aggregation works from.
type SaleLine struct {
	Sale
	Category string
	Flavor   string
	UnitCost decimal.Decimal
}

// Product is the display name used by report aggregation.
func (l *SaleLine) Product() string {
	return l.Category + " " + l.Flavor
}
