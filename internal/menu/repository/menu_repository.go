package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

const menuColumns = `id, name, description, price, created_at, updated_at`

type MySQLMenuRepository struct {
	db *sql.DB
}

func NewMySQLMenuRepository(db *sql.DB) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db}
}

func (r *MySQLMenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ?`
	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, menuNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu item: %w", err)
	}
	return item, nil
}

func (r *MySQLMenuRepository) FindByName(ctx context.Context, name string) (*domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE name = ? ORDER BY created_at, id LIMIT 1`
	item, err := scanMenuItem(r.db.QueryRowContext(ctx, query, name).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item named %s not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu item by name: %w", err)
	}
	return item, nil
}

func (r *MySQLMenuRepository) FindAll(ctx context.Context) ([]*domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	items := []*domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}
	return items, nil
}

func (r *MySQLMenuRepository) Insert(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Description, item.Price, item.CreatedAt.UTC(), item.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting menu item: %w", err)
	}
	return nil
}

func (r *MySQLMenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = ?, description = ?, price = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, item.Name, item.Description, item.Price, item.UpdatedAt.UTC(), item.ID)
	if err != nil {
		return fmt.Errorf("updating menu item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// MySQL reports zero affected rows when nothing changed, so confirm
		// the row exists before calling it missing.
		if _, err := r.FindByID(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLMenuRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting menu item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return menuNotFound(id)
	}
	return nil
}

func scanMenuItem(scan func(dest ...any) error) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func menuNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("menu item with id %s not found", id))
}
