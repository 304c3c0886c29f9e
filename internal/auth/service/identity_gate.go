package service

import (
	"context"

	"go.uber.org/zap"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

type UserReader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityGate turns a bearer credential into a verified Identity. The user
// is reloaded on every call so deleted accounts lose access immediately.
type IdentityGate struct {
	tokens *TokenManager
	users  UserReader
	logger *zap.Logger
}

func NewIdentityGate(tokens *TokenManager, users UserReader, logger *zap.Logger) *IdentityGate {
	return &IdentityGate{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

func (g *IdentityGate) Verify(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, apperrors.NewUnauthorizedError("missing credential")
	}

	userID, err := g.tokens.Subject(credential)
	if err != nil {
		g.logger.Debug("token rejected", zap.Error(err))
		return domain.Identity{}, apperrors.NewUnauthorizedError("could not validate credentials")
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return domain.Identity{}, apperrors.NewUnauthorizedError("could not validate credentials")
		}
		return domain.Identity{}, err
	}
	if !user.Role.Valid() {
		return domain.Identity{}, apperrors.NewUnauthorizedError("account has an unknown role")
	}

	return user.Identity(), nil
}
