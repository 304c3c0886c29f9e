package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []LineItem
		want  string
	}{
		{"no lines", nil, "0"},
		{"single line", []LineItem{{Quantity: 3, UnitPrice: dec("5.00")}}, "15.00"},
		{"two lines", []LineItem{
			{Quantity: 2, UnitPrice: dec("5.00")},
			{Quantity: 1, UnitPrice: dec("3.00")},
		}, "13.00"},
		{"free item", []LineItem{{Quantity: 4, UnitPrice: decimal.Zero}}, "0"},
		{"no float drift", []LineItem{
			{Quantity: 1, UnitPrice: dec("0.10")},
			{Quantity: 1, UnitPrice: dec("0.20")},
		}, "0.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.lines)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestTotal_ManySmallLines(t *testing.T) {
	lines := make([]LineItem, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, LineItem{Quantity: 1, UnitPrice: dec("0.01")})
	}

	assert.Equal(t, "10.00", Total(lines).StringFixed(2))
}

func TestLineItem_Subtotal(t *testing.T) {
	line := LineItem{Quantity: 3, UnitPrice: dec("18.50")}
	assert.True(t, line.Subtotal().Equal(dec("55.50")))
}
