package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tableside/internal/commons"
	"tableside/internal/domain"
	"tableside/internal/dto"
	"tableside/internal/menu/service"
)

type MenuService interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Create(ctx context.Context, caller domain.Identity, in service.Input) (*domain.MenuItem, error)
	Update(ctx context.Context, caller domain.Identity, id string, in service.Input) (*domain.MenuItem, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

type MenuController struct {
	service MenuService
	logger  *zap.Logger
}

func NewMenuController(service MenuService, logger *zap.Logger) *MenuController {
	return &MenuController{
		service: service,
		logger:  logger,
	}
}

func (c *MenuController) List(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	items, err := c.service.List(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewMenuListResponse(items), c.logger)
}

func (c *MenuController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.MenuItemRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	item, err := c.service.Create(r.Context(), caller, toInput(req))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusCreated, dto.NewMenuItemResponse(item), c.logger)
}

func (c *MenuController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.MenuItemRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	item, err := c.service.Update(r.Context(), caller, chi.URLParam(r, "id"), toInput(req))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewMenuItemResponse(item), c.logger)
}

func (c *MenuController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "menu item deleted"}, c.logger)
}

func toInput(req dto.MenuItemRequest) service.Input {
	return service.Input{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
}
