package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableside/internal/access"
	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

const MaxLines = 100

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, id string, mutate func(order *domain.Order) error) (*domain.Order, error)
}

// Change is a mutation request against one order. A nil Lines leaves the
// lines untouched; a nil Status leaves the status untouched.
type Change struct {
	Lines  []domain.LineItem
	Status *domain.OrderStatus
}

type Option func(*LifecycleService)

func WithClock(now func() time.Time) Option {
	return func(s *LifecycleService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *LifecycleService) { s.newID = newID }
}

// LifecycleService is the order state machine. Every mutation is checked
// against the role matrix using the order state read inside the
// repository's atomic update, so a check and its write can never be split
// by a concurrent request.
type LifecycleService struct {
	repo   OrderRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewLifecycleService(repo OrderRepository, logger *zap.Logger, opts ...Option) *LifecycleService {
	s := &LifecycleService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LifecycleService) Create(ctx context.Context, caller domain.Identity, tableNumber int, lines []domain.LineItem) (*domain.Order, error) {
	if err := access.Authorize(access.CreateOrder, caller.Role, access.Facts{TableNumber: tableNumber}); err != nil {
		s.logger.Warn("create order rejected", zap.String("callerId", caller.ID), zap.String("role", caller.Role.String()), zap.Int("tableNumber", tableNumber), zap.Error(err))
		return nil, err
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	order := domain.NewOrder(s.newID(), tableNumber, caller, lines, s.now())
	if err := s.repo.Insert(ctx, order); err != nil {
		s.logger.Error("failed to insert order", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.String("serverId", caller.ID),
		zap.Int("tableNumber", tableNumber),
		zap.Int("lineCount", len(order.Lines)),
		zap.String("totalAmount", order.TotalAmount.StringFixed(2)),
	)
	return order, nil
}

func (s *LifecycleService) EditLines(ctx context.Context, caller domain.Identity, orderID string, lines []domain.LineItem) (*domain.Order, error) {
	if lines == nil {
		lines = []domain.LineItem{}
	}
	return s.Apply(ctx, caller, orderID, Change{Lines: lines})
}

func (s *LifecycleService) SetStatus(ctx context.Context, caller domain.Identity, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	return s.Apply(ctx, caller, orderID, Change{Status: &status})
}

// Apply validates change, then performs the line replacement and/or the
// status transition as one atomic update. Both are authorized against the
// state the order was in before the update; if either is denied nothing is
// written.
func (s *LifecycleService) Apply(ctx context.Context, caller domain.Identity, orderID string, change Change) (*domain.Order, error) {
	if change.Lines == nil && change.Status == nil {
		return nil, apperrors.NewValidationError("nothing to update", apperrors.ValidationDetail{
			Field:   "body",
			Message: "either items or status must be provided",
		})
	}
	if change.Lines != nil {
		if err := ValidateLines(change.Lines); err != nil {
			return nil, err
		}
	}
	if change.Status != nil && !change.Status.Assignable() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("status %q cannot be assigned", *change.Status),
		})
	}

	logger := s.logger.With(zap.String("orderId", orderID), zap.String("callerId", caller.ID), zap.String("role", caller.Role.String()))

	order, err := s.repo.Update(ctx, orderID, func(o *domain.Order) error {
		facts := access.Facts{Owner: o.OwnedBy(caller.ID), Status: o.Status}
		now := s.now()

		if change.Lines != nil {
			if err := access.Authorize(access.EditLines, caller.Role, facts); err != nil {
				return err
			}
			o.ReplaceLines(change.Lines)
		}

		if change.Status != nil {
			op := access.StatusOperation(caller.Role, *change.Status)
			if err := access.Authorize(op, caller.Role, facts); err != nil {
				return err
			}
			transition(o, *change.Status, now)
		}

		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		if _, ok := apperrors.IsForbiddenError(err); ok {
			logger.Warn("order change rejected", zap.Error(err))
		} else if _, ok := apperrors.IsConflictError(err); ok {
			logger.Warn("order change lost a concurrent update", zap.Error(err))
		}
		return nil, err
	}

	fields := []zap.Field{zap.String("status", order.Status.String()), zap.Int("version", order.Version)}
	if change.Lines != nil {
		fields = append(fields, zap.String("totalAmount", order.TotalAmount.StringFixed(2)))
	}
	logger.Info("order updated", fields...)
	return order, nil
}

// transition moves o to target. The ready and paid timestamps are stamped
// the first time the order reaches those states, whichever role moved it
// there, and are never overwritten afterwards.
func transition(o *domain.Order, target domain.OrderStatus, now time.Time) {
	o.Status = target
	switch target {
	case domain.StatusReady:
		if o.KitchenReadyAt == nil {
			t := now
			o.KitchenReadyAt = &t
		}
	case domain.StatusPaid:
		if o.PaidAt == nil {
			t := now
			o.PaidAt = &t
		}
	}
}

// ValidateLines checks the shape of a full line sequence.
func ValidateLines(lines []domain.LineItem) error {
	var details []apperrors.ValidationDetail

	if len(lines) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}
	if len(lines) > MaxLines {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: fmt.Sprintf("items exceeds maximum of %d", MaxLines),
		})
	}

	for idx, line := range lines {
		prefix := "items[" + strconv.Itoa(idx) + "]."
		if line.MenuItemID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "menuItemId",
				Message: "menuItemId is required",
			})
		}
		if line.MenuItemName == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "menuItemName",
				Message: "menuItemName is required",
			})
		}
		if problem := domain.QuantityProblem(line.Quantity); problem != "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "quantity",
				Message: problem,
			})
		}
		if problem := domain.PriceProblem(line.UnitPrice); problem != "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "price",
				Message: problem,
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
