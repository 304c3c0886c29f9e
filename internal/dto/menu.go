package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"tableside/internal/domain"
)

type MenuItemRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

type MenuItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MenuListResponse struct {
	Items []MenuItemResponse `json:"items"`
}

func NewMenuItemResponse(m *domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price.StringFixed(2),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewMenuListResponse(items []*domain.MenuItem) MenuListResponse {
	out := make([]MenuItemResponse, len(items))
	for i, m := range items {
		out[i] = NewMenuItemResponse(m)
	}
	return MenuListResponse{Items: out}
}
