package auth

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"tableside/internal/auth/controller"
	"tableside/internal/auth/repository"
	"tableside/internal/auth/service"
	"tableside/internal/config"
)

type Module struct {
	Controller   *controller.AuthController
	Users        *service.UserService
	Gate         *service.IdentityGate
	Authenticate func(http.Handler) http.Handler
}

// NewModule wires the identity gate and user administration over the
// configured storage. db is only used when the storage driver is mysql.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	var repo service.UserRepository
	if cfg.Storage.Driver == config.StorageMySQL {
		repo = repository.NewMySQLUserRepository(db)
	} else {
		repo = repository.NewMemoryUserRepository()
	}

	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	users := service.NewUserService(repo, tokens, logger)
	gate := service.NewIdentityGate(tokens, repo, logger)

	return &Module{
		Controller:   controller.NewAuthController(users, logger),
		Users:        users,
		Gate:         gate,
		Authenticate: controller.Authenticate(gate, logger),
	}
}
