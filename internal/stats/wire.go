package stats

import (
	"go.uber.org/zap"

	"tableside/internal/stats/controller"
	"tableside/internal/stats/service"
)

func NewModule(orders service.OrderFinder, logger *zap.Logger) *controller.StatsController {
	svc := service.NewStatsService(orders, logger)
	return controller.NewStatsController(svc, logger)
}
