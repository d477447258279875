package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	const query = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
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

func (d sqliteDialect) Columns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	// PRAGMA arguments cannot be bound; the identifier is quoted instead.
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer rows.Close()

	var columns []Column
	keyCount, keyIndex := 0, -1
	for rows.Next() {
		var cid, notNull, pk int
		var name, nativeType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &nativeType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to read column metadata: %w", err)
		}

		columns = append(columns, Column{
			Name:       name,
			NativeType: nativeType,
			Type:       d.Normalize(nativeType),
			Nullable:   notNull == 0,
			MaxLength:  declaredLength(nativeType),
		})
		if pk > 0 {
			keyCount++
			if pk == 1 {
				keyIndex = len(columns) - 1
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Only a column declared exactly INTEGER aliases the rowid and is
	// assigned by the store. BIGINT and friends do not, and composite
	// keys never do.
	if keyCount == 1 && keyIndex >= 0 && strings.EqualFold(columns[keyIndex].NativeType, "INTEGER") {
		columns[keyIndex].AutoGenerated = true
	}

	// table_info is silent for unknown tables; tell absence apart from a
	// (theoretical) zero-column table.
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

func (d sqliteDialect) PrimaryKeys(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key metadata: %w", err)
	}
	defer rows.Close()

	type keyColumn struct {
		name string
		pos  int
	}
	var keys []keyColumn
	for rows.Next() {
		var cid, notNull, pk int
		var name, nativeType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &nativeType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to read primary key metadata: %w", err)
		}
		if pk > 0 {
			keys = append(keys, keyColumn{name: name, pos: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(keys))
	for pos := 1; pos <= len(keys); pos++ {
		for _, k := range keys {
			if k.pos == pos {
				names = append(names, k.name)
			}
		}
	}
	return names, nil
}

func (sqliteDialect) tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	const query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	var count int
	if err := db.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return count > 0, nil
}

var sqliteTypes = map[string]DataType{
	"REAL":     Decimal,
	"DOUBLE":   Decimal,
	"FLOAT":    Decimal,
	"DATETIME": Timestamp,
}

func (sqliteDialect) Normalize(nativeType string) DataType {
	base := strings.ToUpper(strings.TrimSpace(nativeType))
	if paren := strings.Index(base, "("); paren != -1 {
		base = base[:paren]
	}
	if t, ok := sqliteTypes[base]; ok {
		return t
	}
	return normalizeTypeName(base)
}

// declaredLength extracts the size from declarations such as VARCHAR(120).
func declaredLength(nativeType string) int {
	start := strings.Index(nativeType, "(")
	end := strings.Index(nativeType, ")")
	if start == -1 || end == -1 || end <= start+1 {
		return 0
	}
	size := strings.TrimSpace(strings.Split(nativeType[start+1:end], ",")[0])
	n, err := strconv.Atoi(size)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func quoteIdent(input string) string {
	return `"` + strings.ReplaceAll(input, `"`, `""`) + `"`
}
