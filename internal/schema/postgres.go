package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgresDialect) Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		AND table_schema = current_schema()
		ORDER BY table_name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read table metadata: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (d postgresDialect) Columns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	const query = `
		SELECT
			column_name,
			data_type,
			is_nullable,
			column_default,
			is_identity,
			character_maximum_length
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var isNullable, isIdentity string
		var defaultValue sql.NullString
		var maxLength sql.NullInt64

		err := rows.Scan(
			&col.Name,
			&col.NativeType,
			&isNullable,
			&defaultValue,
			&isIdentity,
			&maxLength,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to read column metadata: %w", err)
		}

		col.Type = d.Normalize(col.NativeType)
		col.Nullable = isNullable == "YES"
		col.AutoGenerated = isIdentity == "YES" ||
			(defaultValue.Valid && strings.HasPrefix(defaultValue.String, "nextval("))
		if maxLength.Valid {
			col.MaxLength = int(maxLength.Int64)
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Zero rows can mean either an unknown table or one with no columns;
	// only the former is an error.
	if len(columns) == 0 {
		exists, err := d.tableExists(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("table %s does not exist", table)
		}
	}
	return columns, nil
}

func (postgresDialect) tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	const query = `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	`

	var count int
	if err := db.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return count > 0, nil
}

func (postgresDialect) PrimaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	const query = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		AND tc.table_schema = current_schema() AND tc.table_name = $1
		ORDER BY kcu.ordinal_position
	`

	rows, err := db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key metadata: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read primary key metadata: %w", err)
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}

// Postgres reports spelled-out type names that the substring rules miss.
var postgresTypes = map[string]DataType{
	"double precision":            Decimal,
	"real":                        Decimal,
	"money":                       Decimal,
	"timestamp without time zone": Timestamp,
	"timestamp with time zone":    Timestamp,
	"timestamptz":                 Timestamp,
}

func (postgresDialect) Normalize(nativeType string) DataType {
	if t, ok := postgresTypes[strings.ToLower(strings.TrimSpace(nativeType))]; ok {
		return t
	}
	return normalizeTypeName(nativeType)
}
