// Package access holds the role matrix that gates every order mutation and
// the visibility scopes applied to order reads.
package access

import (
	"fmt"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

type Operation int

const (
	Unknown Operation = iota
	CreateOrder
	EditLines
	SetStatusReady
	SetStatusPaid
	SetStatusAdmin
	ListOrders
	GetOrder
	DeleteOrder
	ViewDailyStats
	ExportOrders
	ManageMenu
	ManageUsers
)

var operationNames = map[Operation]string{
	Unknown:        "Unknown",
	CreateOrder:    "CreateOrder",
	EditLines:      "EditLines",
	SetStatusReady: "SetStatusReady",
	SetStatusPaid:  "SetStatusPaid",
	SetStatusAdmin: "SetStatusAdmin",
	ListOrders:     "ListOrders",
	GetOrder:       "GetOrder",
	DeleteOrder:    "DeleteOrder",
	ViewDailyStats: "ViewDailyStats",
	ExportOrders:   "ExportOrders",
	ManageMenu:     "ManageMenu",
	ManageUsers:    "ManageUsers",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Rule identifiers reported in ForbiddenError.Rule.
const (
	RuleRole      = "role"
	RuleOwner     = "owner"
	RuleStatus    = "status"
	RuleOperation = "operation"
)

// Facts are the per-order details some rows of the matrix depend on.
type Facts struct {
	Owner       bool
	Status      domain.OrderStatus
	TableNumber int
}

// Authorize returns nil when role may perform op given facts. Denials are
// *errors.ForbiddenError; an out-of-range table on CreateOrder is a
// *errors.ValidationError.
func Authorize(op Operation, role domain.Role, facts Facts) error {
	if !role.Valid() {
		return apperrors.NewForbiddenRuleError(RuleRole, fmt.Sprintf("unknown role %q", role))
	}

	switch op {
	case CreateOrder:
		if role != domain.RoleServer {
			return denyRole(op, role)
		}
		if !domain.ValidTableNumber(facts.TableNumber) {
			return apperrors.NewValidationError("invalid table number", apperrors.ValidationDetail{
				Field:   "tableNumber",
				Message: fmt.Sprintf("tableNumber must be between %d and %d", domain.MinTableNumber, domain.MaxTableNumber),
			})
		}
		return nil

	case EditLines:
		switch role {
		case domain.RoleServer:
			if !facts.Owner {
				return apperrors.NewForbiddenRuleError(RuleOwner, "you can only modify your own orders")
			}
		case domain.RoleAdmin:
		default:
			return denyRole(op, role)
		}
		// Admins get no exemption here: lines are frozen once the kitchen is done.
		if facts.Status != domain.StatusInKitchen {
			return apperrors.NewForbiddenRuleError(RuleStatus,
				fmt.Sprintf("cannot modify lines of an order in status %s", facts.Status))
		}
		return nil

	case SetStatusReady:
		if role != domain.RoleKitchen {
			return denyRole(op, role)
		}
		return requireStatus(facts.Status, domain.StatusInKitchen, domain.StatusReady)

	case SetStatusPaid:
		if role != domain.RoleCashier {
			return denyRole(op, role)
		}
		return requireStatus(facts.Status, domain.StatusReady, domain.StatusPaid)

	case SetStatusAdmin, DeleteOrder, ExportOrders, ManageUsers:
		if role != domain.RoleAdmin {
			return denyRole(op, role)
		}
		return nil

	case ListOrders:
		return nil

	case GetOrder:
		if role == domain.RoleServer && !facts.Owner {
			return apperrors.NewForbiddenRuleError(RuleOwner, "order belongs to another server")
		}
		if statuses := listingStatuses(role); statuses != nil && !containsStatus(statuses, facts.Status) {
			return apperrors.NewForbiddenRuleError(RuleStatus,
				fmt.Sprintf("role %s cannot see orders in status %s", role, facts.Status))
		}
		return nil

	case ViewDailyStats:
		if role != domain.RoleAdmin && role != domain.RoleCashier {
			return denyRole(op, role)
		}
		return nil

	case ManageMenu:
		if role != domain.RoleAdmin && role != domain.RoleKitchen {
			return denyRole(op, role)
		}
		return nil
	}

	return apperrors.NewForbiddenRuleError(RuleOperation, fmt.Sprintf("operation %s is not permitted", op))
}

// StatusOperation maps a requested target status to the matrix row that
// governs it for role. Admins always go through SetStatusAdmin.
func StatusOperation(role domain.Role, target domain.OrderStatus) Operation {
	if role == domain.RoleAdmin {
		return SetStatusAdmin
	}
	switch target {
	case domain.StatusReady:
		return SetStatusReady
	case domain.StatusPaid:
		return SetStatusPaid
	}
	return Unknown
}

func denyRole(op Operation, role domain.Role) error {
	return apperrors.NewForbiddenRuleError(RuleRole, fmt.Sprintf("role %s may not perform %s", role, op))
}

func requireStatus(current, want, target domain.OrderStatus) error {
	if current != want {
		return apperrors.NewForbiddenRuleError(RuleStatus,
			fmt.Sprintf("order must be %s to become %s, it is %s", want, target, current))
	}
	return nil
}

func containsStatus(set []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
