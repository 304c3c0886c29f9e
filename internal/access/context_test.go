package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tableside/internal/domain"
)

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	want := domain.Identity{ID: "u1", Name: "alice", Role: domain.RoleServer}
	got, ok := IdentityFrom(WithIdentity(context.Background(), want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
