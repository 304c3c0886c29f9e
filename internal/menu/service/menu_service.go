package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tableside/internal/access"
	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	FindByName(ctx context.Context, name string) (*domain.MenuItem, error)
	FindAll(ctx context.Context) ([]*domain.MenuItem, error)
	Insert(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) error
}

type Input struct {
	Name        string
	Description string
	Price       *decimal.Decimal
}

// MenuService is the menu catalog: price and name lookups for order lines
// plus the admin/kitchen maintenance operations.
type MenuService struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewMenuService(repo Repository, logger *zap.Logger) *MenuService {
	return &MenuService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *MenuService) Lookup(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MenuService) List(ctx context.Context) ([]*domain.MenuItem, error) {
	return s.repo.FindAll(ctx)
}

func (s *MenuService) Create(ctx context.Context, caller domain.Identity, in Input) (*domain.MenuItem, error) {
	if err := access.Authorize(access.ManageMenu, caller.Role, access.Facts{}); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.MenuItem{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       *in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item created", zap.String("menuItemId", item.ID), zap.String("callerId", caller.ID))
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, caller domain.Identity, id string, in Input) (*domain.MenuItem, error) {
	if err := access.Authorize(access.ManageMenu, caller.Role, access.Facts{}); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Price = *in.Price
	item.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item updated", zap.String("menuItemId", id), zap.String("callerId", caller.ID))
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if err := access.Authorize(access.ManageMenu, caller.Role, access.Facts{}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("menu item deleted", zap.String("menuItemId", id), zap.String("callerId", caller.ID))
	return nil
}

// EnsureItem inserts a menu item unless one with the same name exists.
func (s *MenuService) EnsureItem(ctx context.Context, name, description string, price decimal.Decimal) (bool, error) {
	_, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return false, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return false, err
	}

	now := s.now()
	item := &domain.MenuItem{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

func validateInput(in Input) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(in.Name) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}
	if in.Price == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: "price is required",
		})
	} else if problem := domain.PriceProblem(*in.Price); problem != "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: problem,
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
