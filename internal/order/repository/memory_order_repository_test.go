package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

func newTestOrder(id, serverID string, status domain.OrderStatus) *domain.Order {
	o := domain.NewOrder(id, 3, domain.Identity{ID: serverID, Name: serverID, Role: domain.RoleServer}, []domain.LineItem{
		{MenuItemID: "m1", MenuItemName: "Couscous Royal", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{MenuItemID: "m2", MenuItemName: "Thé à la menthe", Quantity: 1, UnitPrice: decimal.RequireFromString("3.00")},
	}, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	o.Status = status
	return o
}

func TestMemoryOrderRepository_InsertAndFind(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))

	order, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Len(t, order.Lines, 2)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("13.00")))
}

func TestMemoryOrderRepository_Insert_Duplicate(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))
	err := repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen))

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_FindByID_NotFound(t *testing.T) {
	repo := NewMemoryOrderRepository()

	order, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, order)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	original := newTestOrder("o1", "srv-1", domain.StatusInKitchen)
	require.NoError(t, repo.Insert(ctx, original))

	original.Lines[0].Quantity = 99
	fetched, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	fetched.Status = domain.StatusPaid

	again, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Lines[0].Quantity)
	assert.Equal(t, domain.StatusInKitchen, again.Status)
}

func TestMemoryOrderRepository_Update(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))

	updated, err := repo.Update(ctx, "o1", func(o *domain.Order) error {
		o.Status = domain.StatusReady
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, updated.Status)
	assert.Equal(t, 2, updated.Version)

	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, stored.Status)
}

func TestMemoryOrderRepository_Update_MutateErrorLeavesOrderUntouched(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))

	denied := apperrors.NewForbiddenError("denied")
	_, err := repo.Update(ctx, "o1", func(o *domain.Order) error {
		o.Status = domain.StatusPaid
		o.ReplaceLines(nil)
		return denied
	})
	assert.True(t, errors.Is(err, denied))

	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInKitchen, stored.Status)
	assert.Len(t, stored.Lines, 2)
	assert.Equal(t, 1, stored.Version)
}

func TestMemoryOrderRepository_Update_NotFound(t *testing.T) {
	repo := NewMemoryOrderRepository()

	_, err := repo.Update(context.Background(), "missing", func(o *domain.Order) error { return nil })
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_Update_CanceledContext(t *testing.T) {
	repo := NewMemoryOrderRepository()
	require.NoError(t, repo.Insert(context.Background(), newTestOrder("o1", "srv-1", domain.StatusInKitchen)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := repo.Update(ctx, "o1", func(o *domain.Order) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemoryOrderRepository_Update_SerializesSameOrder(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "o1", func(o *domain.Order) error {
				lines := append([]domain.LineItem(nil), o.Lines...)
				lines[0].Quantity++
				o.ReplaceLines(lines)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 2+workers, stored.Lines[0].Quantity)
	assert.Equal(t, 1+workers, stored.Version)
	assert.True(t, stored.TotalAmount.Equal(domain.Total(stored.Lines)))
}

func TestMemoryOrderRepository_FindAll_FilterAndOrder(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))
	require.NoError(t, repo.Insert(ctx, newTestOrder("o2", "srv-2", domain.StatusReady)))
	require.NoError(t, repo.Insert(ctx, newTestOrder("o3", "srv-1", domain.StatusPaid)))

	all, err := repo.FindAll(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2", "o3"}, orderIDs(all))

	own, err := repo.FindAll(ctx, domain.OrderFilter{ServerID: "srv-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o3"}, orderIDs(own))

	cashier, err := repo.FindAll(ctx, domain.OrderFilter{Statuses: []domain.OrderStatus{domain.StatusReady, domain.StatusPaid}})
	require.NoError(t, err)
	assert.Equal(t, []string{"o2", "o3"}, orderIDs(cashier))
}

func TestMemoryOrderRepository_Delete(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newTestOrder("o1", "srv-1", domain.StatusInKitchen)))

	require.NoError(t, repo.Delete(ctx, "o1"))

	_, err := repo.FindByID(ctx, "o1")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	all, err := repo.FindAll(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	err = repo.Delete(ctx, "o1")
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMemoryOrderRepository_ParallelDifferentOrders(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		require.NoError(t, repo.Insert(ctx, newTestOrder(fmt.Sprintf("o%d", i), "srv-1", domain.StatusInKitchen)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.Update(ctx, id, func(o *domain.Order) error {
				o.Status = domain.StatusReady
				return nil
			})
			assert.NoError(t, err)
		}(fmt.Sprintf("o%d", i))
	}
	wg.Wait()

	ready, err := repo.FindAll(ctx, domain.OrderFilter{Statuses: []domain.OrderStatus{domain.StatusReady}})
	require.NoError(t, err)
	assert.Len(t, ready, 20)
}

func orderIDs(orders []*domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
