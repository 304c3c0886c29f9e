package dto

import "github.com/shopspring/decimal"

// LineItemRequest is one submitted order line. Price accepts a JSON number
// or a numeric string and is only required when client prices are trusted.
type LineItemRequest struct {
	MenuItemID   string           `json:"menuItemId"`
	MenuItemName string           `json:"menuItemName"`
	Quantity     int              `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	TableNumber int               `json:"tableNumber"`
	Items       []LineItemRequest `json:"items"`
}

// UpdateOrderRequest carries a full line replacement, a status change, or
// both. An absent items key is a nil slice.
type UpdateOrderRequest struct {
	Items  []LineItemRequest `json:"items"`
	Status *string           `json:"status"`
}
