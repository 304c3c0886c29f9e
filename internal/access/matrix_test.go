package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

func assertForbidden(t *testing.T, err error, rule string) {
	t.Helper()
	fe, ok := apperrors.IsForbiddenError(err)
	if assert.True(t, ok, "expected ForbiddenError, got %T (%v)", err, err) {
		assert.Equal(t, rule, fe.Rule)
	}
}

func TestAuthorize_CreateOrder(t *testing.T) {
	assert.NoError(t, Authorize(CreateOrder, domain.RoleServer, Facts{TableNumber: 3}))

	for _, role := range []domain.Role{domain.RoleKitchen, domain.RoleCashier, domain.RoleAdmin} {
		assertForbidden(t, Authorize(CreateOrder, role, Facts{TableNumber: 3}), RuleRole)
	}
}

func TestAuthorize_CreateOrder_TableBounds(t *testing.T) {
	for n := 1; n <= 8; n++ {
		assert.NoError(t, Authorize(CreateOrder, domain.RoleServer, Facts{TableNumber: n}), "table %d", n)
	}
	for _, n := range []int{0, 9, -1, 15} {
		err := Authorize(CreateOrder, domain.RoleServer, Facts{TableNumber: n})
		ve, ok := apperrors.IsValidationError(err)
		if assert.True(t, ok, "table %d", n) {
			assert.Equal(t, "tableNumber", ve.Details[0].Field)
		}
	}
}

func TestAuthorize_EditLines(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.Role
		facts Facts
		rule  string
	}{
		{"owner in kitchen", domain.RoleServer, Facts{Owner: true, Status: domain.StatusInKitchen}, ""},
		{"admin in kitchen", domain.RoleAdmin, Facts{Status: domain.StatusInKitchen}, ""},
		{"other server", domain.RoleServer, Facts{Owner: false, Status: domain.StatusInKitchen}, RuleOwner},
		{"owner after ready", domain.RoleServer, Facts{Owner: true, Status: domain.StatusReady}, RuleStatus},
		{"owner after paid", domain.RoleServer, Facts{Owner: true, Status: domain.StatusPaid}, RuleStatus},
		{"admin after ready", domain.RoleAdmin, Facts{Status: domain.StatusReady}, RuleStatus},
		{"admin after paid", domain.RoleAdmin, Facts{Status: domain.StatusPaid}, RuleStatus},
		{"kitchen", domain.RoleKitchen, Facts{Status: domain.StatusInKitchen}, RuleRole},
		{"cashier", domain.RoleCashier, Facts{Status: domain.StatusInKitchen}, RuleRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(EditLines, tt.role, tt.facts)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			assertForbidden(t, err, tt.rule)
		})
	}
}

func TestAuthorize_StatusTransitions(t *testing.T) {
	assert.NoError(t, Authorize(SetStatusReady, domain.RoleKitchen, Facts{Status: domain.StatusInKitchen}))
	assertForbidden(t, Authorize(SetStatusReady, domain.RoleKitchen, Facts{Status: domain.StatusReady}), RuleStatus)
	assertForbidden(t, Authorize(SetStatusReady, domain.RoleKitchen, Facts{Status: domain.StatusPaid}), RuleStatus)
	assertForbidden(t, Authorize(SetStatusReady, domain.RoleCashier, Facts{Status: domain.StatusInKitchen}), RuleRole)
	assertForbidden(t, Authorize(SetStatusReady, domain.RoleServer, Facts{Status: domain.StatusInKitchen, Owner: true}), RuleRole)

	assert.NoError(t, Authorize(SetStatusPaid, domain.RoleCashier, Facts{Status: domain.StatusReady}))
	assertForbidden(t, Authorize(SetStatusPaid, domain.RoleCashier, Facts{Status: domain.StatusInKitchen}), RuleStatus)
	assertForbidden(t, Authorize(SetStatusPaid, domain.RoleCashier, Facts{Status: domain.StatusPaid}), RuleStatus)
	assertForbidden(t, Authorize(SetStatusPaid, domain.RoleKitchen, Facts{Status: domain.StatusReady}), RuleRole)

	for _, s := range []domain.OrderStatus{domain.StatusInKitchen, domain.StatusReady, domain.StatusPaid} {
		assert.NoError(t, Authorize(SetStatusAdmin, domain.RoleAdmin, Facts{Status: s}))
	}
	assertForbidden(t, Authorize(SetStatusAdmin, domain.RoleKitchen, Facts{}), RuleRole)
}

func TestAuthorize_AdministrativeOperations(t *testing.T) {
	tests := []struct {
		op      Operation
		allowed []domain.Role
	}{
		{DeleteOrder, []domain.Role{domain.RoleAdmin}},
		{ExportOrders, []domain.Role{domain.RoleAdmin}},
		{ManageUsers, []domain.Role{domain.RoleAdmin}},
		{ViewDailyStats, []domain.Role{domain.RoleAdmin, domain.RoleCashier}},
		{ManageMenu, []domain.Role{domain.RoleAdmin, domain.RoleKitchen}},
		{ListOrders, domain.Roles()},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			for _, role := range domain.Roles() {
				err := Authorize(tt.op, role, Facts{})
				if containsRole(tt.allowed, role) {
					assert.NoError(t, err, "role %s", role)
				} else {
					assertForbidden(t, err, RuleRole)
				}
			}
		})
	}
}

func TestAuthorize_UnknownOperationAndRole(t *testing.T) {
	assertForbidden(t, Authorize(Unknown, domain.RoleAdmin, Facts{}), RuleOperation)
	assertForbidden(t, Authorize(Operation(99), domain.RoleAdmin, Facts{}), RuleOperation)
	assertForbidden(t, Authorize(ListOrders, domain.Role("chef"), Facts{}), RuleRole)
}

func TestStatusOperation(t *testing.T) {
	assert.Equal(t, SetStatusReady, StatusOperation(domain.RoleKitchen, domain.StatusReady))
	assert.Equal(t, SetStatusPaid, StatusOperation(domain.RoleCashier, domain.StatusPaid))
	assert.Equal(t, SetStatusPaid, StatusOperation(domain.RoleKitchen, domain.StatusPaid))
	assert.Equal(t, Unknown, StatusOperation(domain.RoleKitchen, domain.StatusInKitchen))
	assert.Equal(t, SetStatusAdmin, StatusOperation(domain.RoleAdmin, domain.StatusInKitchen))
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "EditLines", EditLines.String())
	assert.Equal(t, "Operation(42)", Operation(42).String())
}

func containsRole(set []domain.Role, r domain.Role) bool {
	for _, v := range set {
		if v == r {
			return true
		}
	}
	return false
}
