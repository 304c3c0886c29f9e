package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"tableside/internal/commons"
	"tableside/internal/domain"
	"tableside/internal/dto"
	"tableside/internal/stats/service"
)

type StatsService interface {
	Daily(ctx context.Context, caller domain.Identity) (*service.DailyStats, error)
	Export(ctx context.Context, caller domain.Identity) ([]*domain.Order, error)
}

type StatsController struct {
	service StatsService
	logger  *zap.Logger
}

func NewStatsController(service StatsService, logger *zap.Logger) *StatsController {
	return &StatsController{
		service: service,
		logger:  logger,
	}
}

func (c *StatsController) Daily(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	stats, err := c.service.Daily(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.DailyStatsResponse{
		Date:         stats.Date.Format("2006-01-02"),
		TotalOrders:  stats.TotalOrders,
		PaidOrders:   stats.PaidOrders,
		TotalRevenue: stats.TotalRevenue.StringFixed(2),
	}, c.logger)
}

func (c *StatsController) Export(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	orders, err := c.service.Export(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderListResponse(orders), c.logger)
}
