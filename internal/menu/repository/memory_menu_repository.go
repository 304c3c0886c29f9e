package repository

import (
	"context"
	"fmt"
	"sync"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

type MemoryMenuRepository struct {
	mu    sync.RWMutex
	items map[string]domain.MenuItem
	ids   []string
}

func NewMemoryMenuRepository() *MemoryMenuRepository {
	return &MemoryMenuRepository{items: make(map[string]domain.MenuItem)}
}

func (r *MemoryMenuRepository) FindByID(_ context.Context, id string) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, menuNotFound(id)
	}
	return &item, nil
}

func (r *MemoryMenuRepository) FindByName(_ context.Context, name string) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.ids {
		if item := r.items[id]; item.Name == name {
			return &item, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item named %s not found", name))
}

func (r *MemoryMenuRepository) FindAll(_ context.Context) ([]*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.MenuItem, 0, len(r.ids))
	for _, id := range r.ids {
		item := r.items[id]
		items = append(items, &item)
	}
	return items, nil
}

func (r *MemoryMenuRepository) Insert(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("menu item with id %s already exists", item.ID))
	}
	r.items[item.ID] = *item
	r.ids = append(r.ids, item.ID)
	return nil
}

func (r *MemoryMenuRepository) Update(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return menuNotFound(item.ID)
	}
	updated := *item
	updated.CreatedAt = existing.CreatedAt
	r.items[item.ID] = updated
	return nil
}

func (r *MemoryMenuRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return menuNotFound(id)
	}
	delete(r.items, id)
	for i, v := range r.ids {
		if v == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}
