package domain

import "fmt"

// OrderStatus is the lifecycle state of an order.
//
//	in_kitchen --(kitchen)--> ready --(cashier)--> paid
//
// StatusPending is reserved: it exists in the stored domain but no operation
// ever assigns it.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusInKitchen OrderStatus = "in_kitchen"
	StatusReady     OrderStatus = "ready"
	StatusPaid      OrderStatus = "paid"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInKitchen, StatusReady, StatusPaid:
		return true
	}
	return false
}

// Assignable reports whether an operation may move an order into s.
func (s OrderStatus) Assignable() bool {
	return s.Valid() && s != StatusPending
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) String() string {
	return string(s)
}
