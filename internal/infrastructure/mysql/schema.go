package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []struct {
	name  string
	query string
}{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) NOT NULL PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARBINARY(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		created_at DATETIME(6) NOT NULL
	)`},
	{"menu_items", `
	CREATE TABLE IF NOT EXISTS menu_items (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`},
	{"orders", `
	CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		table_number TINYINT NOT NULL,
		server_id CHAR(36) NOT NULL,
		server_name VARCHAR(100) NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		status VARCHAR(20) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		kitchen_ready_at DATETIME(6) NULL,
		paid_at DATETIME(6) NULL,
		version INT UNSIGNED NOT NULL DEFAULT 1,
		INDEX idx_server (server_id),
		INDEX idx_status (status),
		INDEX idx_created (created_at)
	)`},
	{"order_lines", `
	CREATE TABLE IF NOT EXISTS order_lines (
		order_id CHAR(36) NOT NULL,
		position INT NOT NULL,
		menu_item_id VARCHAR(64) NOT NULL,
		menu_item_name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		PRIMARY KEY (order_id, position),
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`},
}

// EnsureSchema creates any missing table. It is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, tbl := range schema {
		if _, err := db.ExecContext(ctx, tbl.query); err != nil {
			return fmt.Errorf("creating table %s: %w", tbl.name, err)
		}
	}
	return nil
}

// Tables lists managed tables, children first, for cleanup in tests.
func Tables() []string {
	return []string{"order_lines", "orders", "menu_items", "users"}
}
