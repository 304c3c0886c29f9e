package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tableside/internal/commons"
	"tableside/internal/domain"
	"tableside/internal/dto"
	apperrors "tableside/internal/errors"
	"tableside/internal/order/service"
)

type OrderUseCase interface {
	Create(ctx context.Context, caller domain.Identity, req dto.CreateOrderRequest) (*domain.Order, error)
	Update(ctx context.Context, caller domain.Identity, id string, req dto.UpdateOrderRequest) (*domain.Order, error)
	List(ctx context.Context, caller domain.Identity) ([]*domain.Order, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if err := validateItems(req.Items); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.useCase.Create(r.Context(), caller, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(order), logger)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	orders, err := c.useCase.List(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderListResponse(orders), logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.useCase.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), logger)
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)
	orderID := chi.URLParam(r, "id")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("orderId", orderID))

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.UpdateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if req.Items != nil {
		if err := validateItems(req.Items); err != nil {
			commons.WriteError(w, traceID, err, logger)
			return
		}
	}

	order, err := c.useCase.Update(r.Context(), caller, orderID, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), logger)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if err := c.useCase.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "order deleted"}, logger)
}

// validateItems checks the request shape that does not depend on the
// catalog: item count, ids, quantities and any submitted price.
func validateItems(items []dto.LineItemRequest) error {
	var details []apperrors.ValidationDetail

	if len(items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}
	if len(items) > service.MaxLines {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: fmt.Sprintf("items exceeds maximum of %d", service.MaxLines),
		})
	}

	for idx, item := range items {
		prefix := "items[" + strconv.Itoa(idx) + "]."
		if item.MenuItemID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "menuItemId",
				Message: "menuItemId is required",
			})
		}
		if problem := domain.QuantityProblem(item.Quantity); problem != "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "quantity",
				Message: problem,
			})
		}
		if item.Price != nil {
			if problem := domain.PriceProblem(*item.Price); problem != "" {
				details = append(details, apperrors.ValidationDetail{
					Field:   prefix + "price",
					Message: problem,
				})
			}
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
