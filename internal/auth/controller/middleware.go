package controller

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tableside/internal/access"
	"tableside/internal/commons"
	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

type Verifier interface {
	Verify(ctx context.Context, credential string) (domain.Identity, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func Authenticate(verifier Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := commons.TraceID(r)

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				commons.WriteError(w, traceID, apperrors.NewUnauthorizedError("missing or malformed bearer token"), logger)
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				commons.WriteError(w, traceID, err, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
