package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tableside/internal/commons"
	"tableside/internal/domain"
	"tableside/internal/dto"
)

type UserService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Me(ctx context.Context, caller domain.Identity) (*domain.User, error)
	Register(ctx context.Context, caller domain.Identity, username, password, role string) (*domain.User, error)
	List(ctx context.Context, caller domain.Identity) ([]*domain.User, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}

type AuthController struct {
	users  UserService
	logger *zap.Logger
}

func NewAuthController(users UserService, logger *zap.Logger) *AuthController {
	return &AuthController{
		users:  users,
		logger: logger,
	}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	var req dto.LoginRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	token, user, err := c.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.NewUserResponse(user),
	}, c.logger)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	user, err := c.users.Me(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewUserResponse(user), c.logger)
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.RegisterRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	user, err := c.users.Register(r.Context(), caller, req.Username, req.Password, req.Role)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusCreated, dto.NewUserResponse(user), c.logger)
}

func (c *AuthController) ListUsers(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	users, err := c.users.List(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewUserListResponse(users), c.logger)
}

func (c *AuthController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r)

	caller, err := commons.Caller(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.users.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "user deleted"}, c.logger)
}
