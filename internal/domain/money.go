package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds keep every accepted line representable in the orders schema:
// unit_price DECIMAL(10,2), quantity INT and total_amount DECIMAL(12,2) for
// up to 100 lines.
const (
	MaxQuantity = 1000
	PriceScale  = 2
)

var MaxUnitPrice = decimal.New(999999, -PriceScale)

// PriceProblem describes why p is not an acceptable unit price, or returns
// "" when it is.
func PriceProblem(p decimal.Decimal) string {
	switch {
	case p.IsNegative():
		return "price must be non-negative"
	case !p.Equal(p.Truncate(PriceScale)):
		return fmt.Sprintf("price must have at most %d decimal places", PriceScale)
	case p.GreaterThan(MaxUnitPrice):
		return fmt.Sprintf("price must not exceed %s", MaxUnitPrice.StringFixed(PriceScale))
	}
	return ""
}

// QuantityProblem describes why q is not an acceptable line quantity, or
// returns "" when it is.
func QuantityProblem(q int) string {
	if q < 1 {
		return "quantity must be a positive integer"
	}
	if q > MaxQuantity {
		return fmt.Sprintf("quantity must not exceed %d", MaxQuantity)
	}
	return ""
}
