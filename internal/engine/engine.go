// Package engine implements the metadata-driven CRUD core: it introspects
// a table's schema, derives validation and coercion rules from column
// types, and builds parameterized statements for arbitrary tables.
package engine

import (
	"context"
	"database/sql"

	"github.com/karayel/tabled/internal/schema"
	"github.com/karayel/tabled/pkg/logger"
)

// Row is a single record keyed by column name. Values are typed the way
// the driver reports them, with byte slices folded to strings.
type Row map[string]any

// Editor exposes list/insert/update/delete over any table the store
// reports. It is stateless between calls apart from the introspector's
// metadata cache and safe for concurrent use.
type Editor struct {
	db      *sql.DB
	intr    *schema.Introspector
	dialect schema.Dialect
	log     *logger.Logger
}

func NewEditor(db *sql.DB, intr *schema.Introspector, log *logger.Logger) *Editor {
	return &Editor{
		db:      db,
		intr:    intr,
		dialect: intr.Dialect(),
		log:     log,
	}
}

// Tables lists editable tables.
func (e *Editor) Tables(ctx context.Context) ([]string, error) {
	return e.intr.Tables(ctx)
}

// Columns returns the column metadata snapshot for a table.
func (e *Editor) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}
	return e.intr.Columns(ctx, table)
}

// Refresh drops the cached metadata for a table.
func (e *Editor) Refresh(table string) {
	e.intr.Refresh(table)
}

// ListRows reads every row of a table.
func (e *Editor) ListRows(ctx context.Context, table string) ([]Row, error) {
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, buildSelect(table))
	if err != nil {
		return nil, &ExecError{Table: table, Op: "select", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecError{Table: table, Op: "select", Err: err}
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, &ExecError{Table: table, Op: "select", Err: err}
		}

		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecError{Table: table, Op: "select", Err: err}
	}
	return result, nil
}

// InsertRow validates the raw row against the table's metadata, coerces
// it, and inserts the columns it names. Auto-generated columns are left
// to the store.
func (e *Editor) InsertRow(ctx context.Context, table string, row map[string]string) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	columns, err := e.intr.Columns(ctx, table)
	if err != nil {
		return err
	}
	if err := Validate(columns, row, ModeInsert); err != nil {
		return err
	}

	stmt := buildInsert(e.dialect, table, columns, row)
	e.log.Debugf("insert: %s", stmt.sql)
	if _, err := e.db.ExecContext(ctx, stmt.sql, stmt.args...); err != nil {
		return &ExecError{Table: table, Op: "insert", Err: err}
	}
	return nil
}

// UpdateRow changes the named columns of the row identified by the
// table's primary key. Columns absent from the row stay untouched.
func (e *Editor) UpdateRow(ctx context.Context, table string, row map[string]string, keyValue any) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	columns, err := e.intr.Columns(ctx, table)
	if err != nil {
		return err
	}
	if err := Validate(columns, row, ModeUpdate); err != nil {
		return err
	}

	stmt, err := buildUpdate(e.dialect, table, columns, row, keyValue)
	if err != nil {
		return err
	}
	e.log.Debugf("update: %s", stmt.sql)
	if _, err := e.db.ExecContext(ctx, stmt.sql, stmt.args...); err != nil {
		return &ExecError{Table: table, Op: "update", Err: err}
	}
	return nil
}

// DeleteRow removes the row identified by the table's primary key.
func (e *Editor) DeleteRow(ctx context.Context, table string, keyValue any) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	columns, err := e.intr.Columns(ctx, table)
	if err != nil {
		return err
	}

	stmt, err := buildDelete(e.dialect, table, columns, keyValue)
	if err != nil {
		return err
	}
	e.log.Debugf("delete: %s", stmt.sql)
	if _, err := e.db.ExecContext(ctx, stmt.sql, stmt.args...); err != nil {
		return &ExecError{Table: table, Op: "delete", Err: err}
	}
	return nil
}

func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
