package commons

import (
	"net/http"

	"tableside/internal/access"
	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

// Caller returns the identity the bearer middleware attached to r.
func Caller(r *http.Request) (domain.Identity, error) {
	id, ok := access.IdentityFrom(r.Context())
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorizedError("authentication required")
	}
	return id, nil
}
