package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tableside/internal/access"
	"tableside/internal/domain"
	"tableside/internal/dto"
	apperrors "tableside/internal/errors"
	"tableside/internal/menu/service"
)

// Mock implementations

type mockMenuService struct {
	ListFunc   func(ctx context.Context) ([]*domain.MenuItem, error)
	CreateFunc func(ctx context.Context, caller domain.Identity, in service.Input) (*domain.MenuItem, error)
	UpdateFunc func(ctx context.Context, caller domain.Identity, id string, in service.Input) (*domain.MenuItem, error)
	DeleteFunc func(ctx context.Context, caller domain.Identity, id string) error
}

func (m *mockMenuService) List(ctx context.Context) ([]*domain.MenuItem, error) {
	return m.ListFunc(ctx)
}

func (m *mockMenuService) Create(ctx context.Context, caller domain.Identity, in service.Input) (*domain.MenuItem, error) {
	return m.CreateFunc(ctx, caller, in)
}

func (m *mockMenuService) Update(ctx context.Context, caller domain.Identity, id string, in service.Input) (*domain.MenuItem, error) {
	return m.UpdateFunc(ctx, caller, id, in)
}

func (m *mockMenuService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	return m.DeleteFunc(ctx, caller, id)
}

func newRouter(svc MenuService, caller *domain.Identity) http.Handler {
	c := NewMenuController(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if caller != nil {
				req = req.WithContext(access.WithIdentity(req.Context(), *caller))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/menu", c.List)
	r.Post("/menu", c.Create)
	r.Put("/menu/{id}", c.Update)
	r.Delete("/menu/{id}", c.Delete)
	return r
}

// Tests

func TestMenuController_List(t *testing.T) {
	svc := &mockMenuService{
		ListFunc: func(ctx context.Context) ([]*domain.MenuItem, error) {
			return []*domain.MenuItem{{ID: "m1", Name: "Thé", Price: decimal.RequireFromString("4")}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body dto.MenuListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "4.00", body.Items[0].Price)
}

func TestMenuController_Create(t *testing.T) {
	chef := domain.Identity{ID: "k1", Role: domain.RoleKitchen}
	var got service.Input
	svc := &mockMenuService{
		CreateFunc: func(ctx context.Context, caller domain.Identity, in service.Input) (*domain.MenuItem, error) {
			got = in
			assert.Equal(t, chef, caller)
			return &domain.MenuItem{ID: "m9", Name: in.Name, Price: *in.Price}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/menu", strings.NewReader(`{"name":"Soup","price":"5.5"}`))
	newRouter(svc, &chef).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Soup", got.Name)
	assert.Equal(t, "5.50", got.Price.StringFixed(2))
}

func TestMenuController_Create_Unauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/menu", strings.NewReader(`{"name":"Soup","price":1}`))
	newRouter(&mockMenuService{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMenuController_Update_PassesPathID(t *testing.T) {
	admin := domain.Identity{ID: "a1", Role: domain.RoleAdmin}
	svc := &mockMenuService{
		UpdateFunc: func(ctx context.Context, caller domain.Identity, id string, in service.Input) (*domain.MenuItem, error) {
			assert.Equal(t, "m1", id)
			return nil, apperrors.NewNotFoundError("menu item with id m1 not found")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/menu/m1", strings.NewReader(`{"name":"x","price":1}`))
	newRouter(svc, &admin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMenuController_Delete_Forbidden(t *testing.T) {
	server := domain.Identity{ID: "s1", Role: domain.RoleServer}
	svc := &mockMenuService{
		DeleteFunc: func(ctx context.Context, caller domain.Identity, id string) error {
			return apperrors.NewForbiddenRuleError("role", "role server may not perform ManageMenu")
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc, &server).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/menu/m1", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMenuController_Create_BadJSON(t *testing.T) {
	admin := domain.Identity{ID: "a1", Role: domain.RoleAdmin}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/menu", strings.NewReader(`{"name":`))
	newRouter(&mockMenuService{}, &admin).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
