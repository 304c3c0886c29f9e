package domain

import "github.com/shopspring/decimal"

func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total is the sum of quantity x unit price over lines, computed in decimal
// arithmetic so no binary rounding error accumulates.
func Total(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
