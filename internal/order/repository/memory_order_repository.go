package repository

import (
	"context"
	"fmt"
	"sync"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

type orderEntry struct {
	mu      sync.Mutex
	order   *domain.Order
	deleted bool
}

// MemoryOrderRepository keeps orders in process memory. Each order has its
// own lock, so updates to different orders never wait on each other while
// updates to the same order are serialized. Stored orders are never handed
// out; callers always get clones.
type MemoryOrderRepository struct {
	mu      sync.RWMutex
	entries map[string]*orderEntry
	ids     []string
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{entries: make(map[string]*orderEntry)}
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	entry, ok := r.entry(id)
	if !ok {
		return nil, notFound(id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, notFound(id)
	}
	return entry.order.Clone(), nil
}

func (r *MemoryOrderRepository) FindAll(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	entries := make([]*orderEntry, 0, len(r.ids))
	for _, id := range r.ids {
		entries = append(entries, r.entries[id])
	}
	r.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if !entry.deleted && filter.Matches(entry.order) {
			orders = append(orders, entry.order.Clone())
		}
		entry.mu.Unlock()
	}
	return orders, nil
}

func (r *MemoryOrderRepository) Insert(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[order.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("order with id %s already exists", order.ID))
	}
	r.entries[order.ID] = &orderEntry{order: order.Clone()}
	r.ids = append(r.ids, order.ID)
	return nil
}

// Update runs mutate on a copy of the order while holding the order's lock
// and stores the copy only if mutate succeeds.
func (r *MemoryOrderRepository) Update(ctx context.Context, id string, mutate func(order *domain.Order) error) (*domain.Order, error) {
	entry, ok := r.entry(id)
	if !ok {
		return nil, notFound(id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.deleted {
		return nil, notFound(id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := entry.order.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.Version = entry.order.Version + 1
	entry.order = next

	return next.Clone(), nil
}

func (r *MemoryOrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
		for i, v := range r.ids {
			if v == id {
				r.ids = append(r.ids[:i], r.ids[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if !ok {
		return notFound(id)
	}

	entry.mu.Lock()
	entry.deleted = true
	entry.mu.Unlock()
	return nil
}

func (r *MemoryOrderRepository) entry(id string) (*orderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

func notFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
}
