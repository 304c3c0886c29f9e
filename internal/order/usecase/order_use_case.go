package usecase

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"tableside/internal/access"
	"tableside/internal/config"
	"tableside/internal/domain"
	"tableside/internal/dto"
	apperrors "tableside/internal/errors"
	"tableside/internal/order/service"
)

type Lifecycle interface {
	Create(ctx context.Context, caller domain.Identity, tableNumber int, lines []domain.LineItem) (*domain.Order, error)
	Apply(ctx context.Context, caller domain.Identity, orderID string, change service.Change) (*domain.Order, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type MenuCatalog interface {
	Lookup(ctx context.Context, id string) (*domain.MenuItem, error)
}

// OrderUseCase turns order requests into lifecycle calls: it resolves
// submitted lines against the menu according to the price source and
// scopes every read to what the caller may see.
type OrderUseCase struct {
	lifecycle   Lifecycle
	orders      OrderReader
	menu        MenuCatalog
	priceSource string
	logger      *zap.Logger
}

func NewOrderUseCase(lifecycle Lifecycle, orders OrderReader, menu MenuCatalog, priceSource string, logger *zap.Logger) *OrderUseCase {
	return &OrderUseCase{
		lifecycle:   lifecycle,
		orders:      orders,
		menu:        menu,
		priceSource: priceSource,
		logger:      logger,
	}
}

func (uc *OrderUseCase) Create(ctx context.Context, caller domain.Identity, req dto.CreateOrderRequest) (*domain.Order, error) {
	// Reject the wrong role before touching the catalog.
	if err := access.Authorize(access.CreateOrder, caller.Role, access.Facts{TableNumber: req.TableNumber}); err != nil {
		return nil, err
	}

	lines, err := uc.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	return uc.lifecycle.Create(ctx, caller, req.TableNumber, lines)
}

func (uc *OrderUseCase) Update(ctx context.Context, caller domain.Identity, id string, req dto.UpdateOrderRequest) (*domain.Order, error) {
	var change service.Change

	if req.Status != nil {
		status, err := domain.ParseOrderStatus(*req.Status)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
				Field:   "status",
				Message: err.Error(),
			})
		}
		change.Status = &status
	}

	if req.Items != nil {
		lines, err := uc.resolveLines(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		change.Lines = lines
	}

	return uc.lifecycle.Apply(ctx, caller, id, change)
}

func (uc *OrderUseCase) List(ctx context.Context, caller domain.Identity) ([]*domain.Order, error) {
	if err := access.Authorize(access.ListOrders, caller.Role, access.Facts{}); err != nil {
		return nil, err
	}
	filter, err := access.Scope(caller)
	if err != nil {
		return nil, err
	}
	return uc.orders.FindAll(ctx, filter)
}

// Get returns the order only if the caller could see it in a listing;
// otherwise the order is reported as not found.
func (uc *OrderUseCase) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	order, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Visible(caller, order) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return order, nil
}

func (uc *OrderUseCase) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if err := access.Authorize(access.DeleteOrder, caller.Role, access.Facts{}); err != nil {
		return err
	}
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("order deleted", zap.String("orderId", id), zap.String("callerId", caller.ID))
	return nil
}

// resolveLines converts request lines into order lines. With the catalog
// price source the name and unit price come from the menu; with the client
// source the submitted values are used as given.
func (uc *OrderUseCase) resolveLines(ctx context.Context, items []dto.LineItemRequest) ([]domain.LineItem, error) {
	lines := make([]domain.LineItem, 0, len(items))
	var details []apperrors.ValidationDetail

	for idx, item := range items {
		prefix := "items[" + strconv.Itoa(idx) + "]."
		line := domain.LineItem{
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
		}

		if uc.priceSource == config.PriceSourceClient {
			if item.Price == nil {
				details = append(details, apperrors.ValidationDetail{
					Field:   prefix + "price",
					Message: "price is required",
				})
			} else {
				line.UnitPrice = *item.Price
			}
		} else if item.MenuItemID != "" {
			menuItem, err := uc.menu.Lookup(ctx, item.MenuItemID)
			if err != nil {
				if _, ok := apperrors.IsNotFoundError(err); !ok {
					return nil, err
				}
				details = append(details, apperrors.ValidationDetail{
					Field:   prefix + "menuItemId",
					Message: fmt.Sprintf("unknown menu item %s", item.MenuItemID),
				})
			} else {
				line.MenuItemName = menuItem.Name
				line.UnitPrice = menuItem.Price
			}
		}

		lines = append(lines, line)
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}
	return lines, nil
}
