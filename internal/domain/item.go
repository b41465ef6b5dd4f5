package domain

import "github.com/shopspring/decimal"

// Item is one product line within a shipment. InitialQuantity is fixed at
// creation; SoldQuantity moves only through the paired sale operations.
// Invariant after every committed sale: 0 <= SoldQuantity <= InitialQuantity.
type Item struct {
	ItemID          int64
	ShipmentID      int64
	Category        string
	Flavor          string
	InitialQuantity int
	SoldQuantity    int
	UnitCost        decimal.Decimal
}

// Remaining is the unsold stock on this line.
func (i *Item) Remaining() int {
	return i.InitialQuantity - i.SoldQuantity
}

// Product is the display name used by report aggregation.
func (i *Item) Product() string {
	return i.Category + " " + i.Flavor
}
