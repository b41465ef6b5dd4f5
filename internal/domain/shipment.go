package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format for calendar dates (shipment date, sale date).
const DateLayout = "2006-01-02"

// Shipment is a dated batch of produced inventory items.
// Items is populated only by lookups that ask for it.
type Shipment struct {
	ShipmentID int64
	Date       time.Time
	Note       string
	CreatedAt  time.Time
	Items      []*Item
}

// ItemDraft is caller input for one shipment line before validation
// and cost derivation.
type ItemDraft struct {
	Category        string
	Flavor          string
	InitialQuantity int
}

// FilterDrafts drops drafts with a blank category, blank flavor, or
// non-positive initial quantity, trimming surrounding whitespace on the
// kept ones.
func FilterDrafts(drafts []ItemDraft) []ItemDraft {
	kept := make([]ItemDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Category = strings.TrimSpace(d.Category)
		d.Flavor = strings.TrimSpace(d.Flavor)
		if d.Category == "" || d.Flavor == "" || d.InitialQuantity <= 0 {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// Item categories form a closed set.
const (
	CategoryTruffle = "truffle"
	CategoryDessert = "dessert"
)

// CostTable maps an item category to its default unit production cost.
// Categories without an entry fall back to Default.
type CostTable struct {
	PerCategory map[string]decimal.Decimal
	Default     decimal.Decimal
}

// DefaultCosts returns the built-in production costs. The composition root
// may override entries from settings rows or the environment.
func DefaultCosts() CostTable {
	return CostTable{
		PerCategory: map[string]decimal.Decimal{
			CategoryTruffle: decimal.RequireFromString("2.50"),
			CategoryDessert: decimal.RequireFromString("5.00"),
		},
		Default: decimal.RequireFromString("5.00"),
	}
}

// UnitCost resolves the production cost for a category.
func (c CostTable) UnitCost(category string) decimal.Decimal {
	if cost, ok := c.PerCategory[category]; ok {
		return cost
	}
	return c.Default
}
