package access

import (
	"fmt"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

// listingStatuses is the status scope per role; nil means unrestricted.
func listingStatuses(role domain.Role) []domain.OrderStatus {
	switch role {
	case domain.RoleKitchen:
		return []domain.OrderStatus{domain.StatusInKitchen, domain.StatusReady}
	case domain.RoleCashier:
		return []domain.OrderStatus{domain.StatusReady, domain.StatusPaid}
	}
	return nil
}

// Scope returns the repository filter selecting every order id may list.
func Scope(id domain.Identity) (domain.OrderFilter, error) {
	switch id.Role {
	case domain.RoleServer:
		if id.ID == "" {
			return domain.OrderFilter{}, apperrors.NewForbiddenRuleError(RuleOwner, "server identity has no id")
		}
		return domain.OrderFilter{ServerID: id.ID}, nil
	case domain.RoleKitchen, domain.RoleCashier:
		return domain.OrderFilter{Statuses: listingStatuses(id.Role)}, nil
	case domain.RoleAdmin:
		return domain.OrderFilter{}, nil
	}
	return domain.OrderFilter{}, apperrors.NewForbiddenRuleError(RuleRole, fmt.Sprintf("unknown role %q", id.Role))
}

// Visible reports whether id may see o in a listing or a single fetch.
func Visible(id domain.Identity, o *domain.Order) bool {
	return Authorize(GetOrder, id.Role, Facts{Owner: o.OwnedBy(id.ID), Status: o.Status}) == nil
}

// Filter keeps the orders visible to id, preserving order.
func Filter(id domain.Identity, orders []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if Visible(id, o) {
			out = append(out, o)
		}
	}
	return out
}
