package dto

import (
	"time"

	"tableside/internal/domain"
)

type LineItemResponse struct {
	MenuItemID   string `json:"menuItemId"`
	MenuItemName string `json:"menuItemName"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	Subtotal     string `json:"subtotal"`
}

type OrderResponse struct {
	ID             string             `json:"id"`
	TableNumber    int                `json:"tableNumber"`
	ServerID       string             `json:"serverId"`
	ServerName     string             `json:"serverName"`
	Items          []LineItemResponse `json:"items"`
	TotalAmount    string             `json:"totalAmount"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	KitchenReadyAt *time.Time         `json:"kitchenReadyAt"`
	PaidAt         *time.Time         `json:"paidAt"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.Lines))
	for i, l := range o.Lines {
		items[i] = LineItemResponse{
			MenuItemID:   l.MenuItemID,
			MenuItemName: l.MenuItemName,
			Quantity:     l.Quantity,
			Price:        l.UnitPrice.StringFixed(2),
			Subtotal:     l.Subtotal().StringFixed(2),
		}
	}

	return OrderResponse{
		ID:             o.ID,
		TableNumber:    o.TableNumber,
		ServerID:       o.ServerID,
		ServerName:     o.ServerName,
		Items:          items,
		TotalAmount:    o.TotalAmount.StringFixed(2),
		Status:         o.Status.String(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		KitchenReadyAt: o.KitchenReadyAt,
		PaidAt:         o.PaidAt,
	}
}

func NewOrderListResponse(orders []*domain.Order) OrderListResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return OrderListResponse{Orders: out}
}
