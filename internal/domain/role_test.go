package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := ParseRole("chef")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusInKitchen, StatusReady, StatusPaid} {
		parsed, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseOrderStatus("cancelled")
	assert.Error(t, err)
}

func TestOrderStatus_Assignable(t *testing.T) {
	assert.False(t, StatusPending.Assignable())
	assert.True(t, StatusInKitchen.Assignable())
	assert.True(t, StatusReady.Assignable())
	assert.True(t, StatusPaid.Assignable())
	assert.False(t, OrderStatus("bogus").Assignable())
}

func TestUser_Identity(t *testing.T) {
	u := User{ID: "u1", Username: "bob", Role: RoleCashier}
	assert.Equal(t, Identity{ID: "u1", Name: "bob", Role: RoleCashier}, u.Identity())
}
