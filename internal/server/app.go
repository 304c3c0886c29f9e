package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"tableside/internal/auth"
	"tableside/internal/commons"
	"tableside/internal/config"
	"tableside/internal/menu"
	"tableside/internal/order"
	"tableside/internal/stats"
)

// NewApp wires every module over the configured storage, applies the seed
// file and returns the HTTP handler. db may be nil for memory storage.
func NewApp(ctx context.Context, cfg *config.Config, db *sql.DB, logger *zap.Logger) (http.Handler, error) {
	authModule := auth.NewModule(db, cfg, logger)
	menuModule := menu.NewModule(db, cfg, logger)
	orderModule := order.NewModule(db, cfg, menuModule.Service, logger)
	statsCtrl := stats.NewModule(orderModule.Repository, logger)

	if cfg.Seed.File != "" {
		seed, err := commons.LoadSeed(cfg.Seed.File)
		if err != nil {
			return nil, err
		}
		if err := applySeed(ctx, seed, authModule, menuModule, logger); err != nil {
			return nil, err
		}
	}

	handlers := Handlers{
		Auth:   authModule.Controller,
		Menu:   menuModule.Controller,
		Orders: orderModule.Controller,
		Stats:  statsCtrl,
	}
	return NewRouter(handlers, authModule.Authenticate, cfg.Server.CORSAllowedOrigins, logger), nil
}

func applySeed(ctx context.Context, seed *commons.Seed, authModule *auth.Module, menuModule *menu.Module, logger *zap.Logger) error {
	for _, u := range seed.Users {
		created, err := authModule.Users.EnsureUser(ctx, u.Username, u.Password, u.Role)
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", u.Username, err)
		}
		if created {
			logger.Info("seeded user", zap.String("username", u.Username), zap.String("role", u.Role))
		}
	}

	for _, m := range seed.Menu {
		price, err := m.DecimalPrice()
		if err != nil {
			return err
		}
		created, err := menuModule.Service.EnsureItem(ctx, m.Name, m.Description, price)
		if err != nil {
			return fmt.Errorf("seeding menu item %s: %w", m.Name, err)
		}
		if created {
			logger.Info("seeded menu item", zap.String("name", m.Name))
		}
	}
	return nil
}
