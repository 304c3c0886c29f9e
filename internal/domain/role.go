package domain

import "fmt"

// Role is the closed set of staff roles an identity can hold.
type Role string

const (
	RoleServer  Role = "server"
	RoleKitchen Role = "kitchen"
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
)

var roles = []Role{RoleServer, RoleKitchen, RoleCashier, RoleAdmin}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func (r Role) Valid() bool {
	switch r {
	case RoleServer, RoleKitchen, RoleCashier, RoleAdmin:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) String() string {
	return string(r)
}

// Identity is the verified caller of an operation.
type Identity struct {
	ID   string
	Name string
	Role Role
}
