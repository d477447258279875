package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect hides the catalog queries and placeholder style of a specific
// store. Implementations must be stateless and safe for concurrent use.
type Dialect interface {
	Name() string

	// Placeholder returns the bind marker for the n-th parameter (1-based).
	Placeholder(n int) string

	// Tables lists base table names in the store's catalog ordering.
	Tables(ctx context.Context, db *sql.DB) ([]string, error)

	// Columns returns column metadata in the store's native column order.
	// The PrimaryKey flag is left unset; the introspector attaches it.
	Columns(ctx context.Context, db *sql.DB, table string) ([]Column, error)

	// PrimaryKeys returns the primary-key column names in key order.
	PrimaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error)

	// Normalize folds a native type name into the closed DataType set.
	Normalize(nativeType string) DataType
}

// ForName resolves a dialect by the database type used in configuration.
func ForName(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return postgresDialect{}, nil
	case "sqlite":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", name)
	}
}
