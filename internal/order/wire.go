package order

import (
	"database/sql"

	"go.uber.org/zap"

	"tableside/internal/config"
	"tableside/internal/order/controller"
	"tableside/internal/order/repository"
	"tableside/internal/order/service"
	"tableside/internal/order/usecase"
)

// Repository is the full order store surface shared by the lifecycle, the
// read paths and the statistics module.
type Repository interface {
	service.OrderRepository
	usecase.OrderReader
}

type Module struct {
	Controller *controller.OrderController
	Repository Repository
}

func NewRepository(db *sql.DB, cfg *config.Config) Repository {
	if cfg.Storage.Driver == config.StorageMySQL {
		return repository.NewMySQLOrderRepository(db, cfg.Order.TxTimeout)
	}
	return repository.NewMemoryOrderRepository()
}

// NewModule wires the order lifecycle. menu resolves line names and prices
// when the catalog is the price source.
func NewModule(db *sql.DB, cfg *config.Config, menu usecase.MenuCatalog, logger *zap.Logger) *Module {
	repo := NewRepository(db, cfg)
	lifecycle := service.NewLifecycleService(repo, logger)
	uc := usecase.NewOrderUseCase(lifecycle, repo, menu, cfg.Order.PriceSource, logger)

	return &Module{
		Controller: controller.NewOrderController(uc, logger),
		Repository: repo,
	}
}

var (
	_ Repository = (*repository.MemoryOrderRepository)(nil)
	_ Repository = (*repository.MySQLOrderRepository)(nil)
)
