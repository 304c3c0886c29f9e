package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
	"tableside/internal/infrastructure/mysql"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const orderColumns = `id, table_number, server_id, server_name, total_amount, status,
	created_at, updated_at, kitchen_ready_at, paid_at, version`

type MySQLOrderRepository struct {
	db        *sql.DB
	txTimeout time.Duration
}

func NewMySQLOrderRepository(db *sql.DB, txTimeout time.Duration) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, txTimeout: txTimeout}
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findByID(ctx, r.db, id, false)
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	var where []string
	var args []any

	if filter.ServerID != "" {
		where = append(where, "server_id = ?")
		args = append(args, filter.ServerID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if !filter.CreatedFrom.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, filter.CreatedTo.UTC())
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	if len(orders) == 0 {
		return []*domain.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := loadLines(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Lines = lines[o.ID]
	}

	return orders, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, table_number, server_id, server_name, total_amount, status,
		                    created_at, updated_at, kitchen_ready_at, paid_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(txCtx, query,
		order.ID, order.TableNumber, order.ServerID, order.ServerName, order.TotalAmount,
		string(order.Status), order.CreatedAt.UTC(), order.UpdatedAt.UTC(),
		nullTime(order.KitchenReadyAt), nullTime(order.PaidAt), order.Version,
	)
	if err != nil {
		if mysql.IsDuplicateEntry(err) {
			return apperrors.NewConflictError(fmt.Sprintf("order with id %s already exists", order.ID))
		}
		return fmt.Errorf("inserting order: %w", err)
	}

	if err := insertLines(txCtx, tx, order.ID, order.Lines); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order insert: %w", err)
	}
	return nil
}

// Update locks the order row, hands a copy of the current state to mutate
// and writes the result back in the same transaction. The write is guarded
// by the version read under the lock, so a row changed by anyone else
// yields a ConflictError instead of being overwritten.
func (r *MySQLOrderRepository) Update(ctx context.Context, id string, mutate func(order *domain.Order) error) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := r.findByID(txCtx, tx, id, true)
	if err != nil {
		return nil, lockError(err)
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.Version = current.Version + 1

	query := `
		UPDATE orders
		SET total_amount = ?, status = ?, updated_at = ?, kitchen_ready_at = ?, paid_at = ?, version = ?
		WHERE id = ? AND version = ?
	`
	result, err := tx.ExecContext(txCtx, query,
		next.TotalAmount, string(next.Status), next.UpdatedAt.UTC(),
		nullTime(next.KitchenReadyAt), nullTime(next.PaidAt), next.Version,
		id, current.Version,
	)
	if err != nil {
		return nil, lockError(fmt.Errorf("updating order: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s was modified concurrently", id))
	}

	if !sameLines(current.Lines, next.Lines) {
		if _, err := tx.ExecContext(txCtx, `DELETE FROM order_lines WHERE order_id = ?`, id); err != nil {
			return nil, lockError(fmt.Errorf("deleting order lines: %w", err))
		}
		if err := insertLines(txCtx, tx, id, next.Lines); err != nil {
			return nil, lockError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, lockError(fmt.Errorf("committing order update: %w", err))
	}

	return next, nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return lockError(fmt.Errorf("deleting order: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return nil
}

func (r *MySQLOrderRepository) findByID(ctx context.Context, q queryer, id string, forUpdate bool) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	order, err := scanOrder(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	lines, err := loadLines(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[id]

	return order, nil
}

func scanOrder(scan func(dest ...any) error) (*domain.Order, error) {
	var (
		order   domain.Order
		status  string
		readyAt sql.NullTime
		paidAt  sql.NullTime
	)
	err := scan(
		&order.ID, &order.TableNumber, &order.ServerID, &order.ServerName, &order.TotalAmount, &status,
		&order.CreatedAt, &order.UpdatedAt, &readyAt, &paidAt, &order.Version,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	if readyAt.Valid {
		t := readyAt.Time
		order.KitchenReadyAt = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}
	return &order, nil
}

// loadLines returns the lines of every id, each in position order. Ids
// without lines map to an empty slice.
func loadLines(ctx context.Context, q queryer, ids []string) (map[string][]domain.LineItem, error) {
	result := make(map[string][]domain.LineItem, len(ids))
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		result[id] = []domain.LineItem{}
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT order_id, menu_item_id, menu_item_name, quantity, unit_price
		FROM order_lines
		WHERE order_id IN (%s)
		ORDER BY order_id, position`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var line domain.LineItem
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.MenuItemName, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		result[orderID] = append(result[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}

	return result, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, orderID string, lines []domain.LineItem) error {
	if len(lines) == 0 {
		return nil
	}

	placeholders := make([]string, len(lines))
	args := make([]any, 0, len(lines)*6)
	for i, l := range lines {
		placeholders[i] = "(?, ?, ?, ?, ?, ?)"
		args = append(args, orderID, i, l.MenuItemID, l.MenuItemName, l.Quantity, l.UnitPrice)
	}

	query := `INSERT INTO order_lines (order_id, position, menu_item_id, menu_item_name, quantity, unit_price) VALUES ` +
		strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting order lines: %w", err)
	}
	return nil
}

func sameLines(a, b []domain.LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].MenuItemID != b[i].MenuItemID ||
			a[i].MenuItemName != b[i].MenuItemName ||
			a[i].Quantity != b[i].Quantity ||
			!a[i].UnitPrice.Equal(b[i].UnitPrice) {
			return false
		}
	}
	return true
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func lockError(err error) error {
	if mysql.IsLockConflict(err) {
		return apperrors.NewConflictError("order is locked by a concurrent update, retry")
	}
	return err
}
