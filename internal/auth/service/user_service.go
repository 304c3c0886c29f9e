package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tableside/internal/access"
	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

// bcrypt only hashes the first 72 bytes.
const maxPasswordBytes = 72

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	repo   UserRepository
	tokens *TokenManager
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	cost   int
}

func NewUserService(repo UserRepository, tokens *TokenManager, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		cost:   bcrypt.DefaultCost,
	}
}

// Login checks the password and returns a fresh bearer token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return "", nil, apperrors.NewUnauthorizedError("incorrect username or password")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		s.logger.Info("login failed", zap.String("username", username))
		return "", nil, apperrors.NewUnauthorizedError("incorrect username or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.String("userId", user.ID), zap.String("role", user.Role.String()))
	return token, user, nil
}

func (s *UserService) Me(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	return s.repo.FindByID(ctx, caller.ID)
}

func (s *UserService) Register(ctx context.Context, caller domain.Identity, username, password, role string) (*domain.User, error) {
	if err := access.Authorize(access.ManageUsers, caller.Role, access.Facts{}); err != nil {
		return nil, err
	}

	user, err := s.create(ctx, username, password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("userId", user.ID),
		zap.String("role", user.Role.String()),
		zap.String("callerId", caller.ID),
	)
	return user, nil
}

func (s *UserService) List(ctx context.Context, caller domain.Identity) ([]*domain.User, error) {
	if err := access.Authorize(access.ManageUsers, caller.Role, access.Facts{}); err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx)
}

func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if err := access.Authorize(access.ManageUsers, caller.Role, access.Facts{}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("userId", id), zap.String("callerId", caller.ID))
	return nil
}

// EnsureUser creates the account unless the username is already taken.
func (s *UserService) EnsureUser(ctx context.Context, username, password, role string) (bool, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return false, err
	}

	if _, err := s.create(ctx, username, password, role); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) create(ctx context.Context, username, password, role string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	var details []apperrors.ValidationDetail
	if username == "" {
		details = append(details, apperrors.ValidationDetail{Field: "username", Message: "username is required"})
	}
	if password == "" {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password is required"})
	} else if len(password) > maxPasswordBytes {
		details = append(details, apperrors.ValidationDetail{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
		})
	}
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "role",
			Message: fmt.Sprintf("role must be one of %v", domain.Roles()),
		})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: hash,
		Role:         parsedRole,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return nil, apperrors.NewValidationError("username already registered", apperrors.ValidationDetail{
				Field:   "username",
				Message: "username already registered",
			})
		}
		return nil, err
	}
	return user, nil
}
