package menu

import (
	"database/sql"

	"go.uber.org/zap"

	"tableside/internal/config"
	"tableside/internal/menu/controller"
	"tableside/internal/menu/repository"
	"tableside/internal/menu/service"
)

type Module struct {
	Controller *controller.MenuController
	Service    *service.MenuService
}

// NewModule wires the menu catalog over the configured storage. db is only
// used when the storage driver is mysql.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	var repo service.Repository
	if cfg.Storage.Driver == config.StorageMySQL {
		repo = repository.NewMySQLMenuRepository(db)
	} else {
		repo = repository.NewMemoryMenuRepository()
	}

	svc := service.NewMenuService(repo, logger)
	return &Module{
		Controller: controller.NewMenuController(svc, logger),
		Service:    svc,
	}
}
