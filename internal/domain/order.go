package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinTableNumber = 1
	MaxTableNumber = 8
)

// LineItem snapshots the menu item's name and price at the time the order
// lines were written.
type LineItem struct {
	MenuItemID   string
	MenuItemName string
	Quantity     int
	UnitPrice    decimal.Decimal
}

type Order struct {
	ID             string
	TableNumber    int
	ServerID       string
	ServerName     string
	Lines          []LineItem
	TotalAmount    decimal.Decimal
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	KitchenReadyAt *time.Time
	PaidAt         *time.Time
	Version        int
}

func ValidTableNumber(n int) bool {
	return n >= MinTableNumber && n <= MaxTableNumber
}

// NewOrder builds an order owned by server, already in the kitchen.
func NewOrder(id string, tableNumber int, server Identity, lines []LineItem, now time.Time) *Order {
	o := &Order{
		ID:          id,
		TableNumber: tableNumber,
		ServerID:    server.ID,
		ServerName:  server.Name,
		Status:      StatusInKitchen,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
	o.ReplaceLines(lines)
	return o
}

// ReplaceLines swaps the whole line sequence and recomputes the total.
func (o *Order) ReplaceLines(lines []LineItem) {
	o.Lines = make([]LineItem, len(lines))
	copy(o.Lines, lines)
	o.TotalAmount = Total(o.Lines)
}

func (o *Order) OwnedBy(identityID string) bool {
	return o.ServerID == identityID
}

// Clone returns a deep copy so callers never share state with a store.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Lines = make([]LineItem, len(o.Lines))
	copy(c.Lines, o.Lines)
	if o.KitchenReadyAt != nil {
		t := *o.KitchenReadyAt
		c.KitchenReadyAt = &t
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	return &c
}

// OrderFilter selects orders from a repository. Zero values match everything.
type OrderFilter struct {
	ServerID    string
	Statuses    []OrderStatus
	CreatedFrom time.Time
	CreatedTo   time.Time
}

func (f OrderFilter) Matches(o *Order) bool {
	if f.ServerID != "" && o.ServerID != f.ServerID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.CreatedFrom.IsZero() && o.CreatedAt.Before(f.CreatedFrom) {
		return false
	}
	if !f.CreatedTo.IsZero() && !o.CreatedAt.Before(f.CreatedTo) {
		return false
	}
	return true
}
