package engine

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/karayel/tabled/internal/schema"
	"github.com/karayel/tabled/pkg/logger"
)

func newTestEditor(t *testing.T, ddl ...string) *Editor {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range ddl {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	d, err := schema.ForName("sqlite")
	require.NoError(t, err)

	log := logger.NewLogger(false)
	intr := schema.NewIntrospector(db, d, schema.Options{}, log)
	return NewEditor(db, intr, log)
}

const productsDDL = `
	CREATE TABLE PRODUCTS (
		ID INTEGER PRIMARY KEY AUTOINCREMENT,
		PRODUCT_NAME VARCHAR(120) NOT NULL,
		PRICE DECIMAL(10,2) NOT NULL,
		ACTIVE BOOLEAN
	)`

func TestEditorProductScenario(t *testing.T) {
	editor := newTestEditor(t, productsDDL)
	ctx := context.Background()

	err := editor.InsertRow(ctx, "PRODUCTS", map[string]string{
		"PRODUCT_NAME": "Widget",
		"PRICE":        "9.99",
		"ACTIVE":       "true",
	})
	require.NoError(t, err)

	rows, err := editor.ListRows(ctx, "PRODUCTS")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(1), row["ID"], "store should generate the key")
	assert.Equal(t, "Widget", row["PRODUCT_NAME"])
	assert.EqualValues(t, 9.99, row["PRICE"])
	assert.EqualValues(t, 1, row["ACTIVE"])

	err = editor.UpdateRow(ctx, "PRODUCTS", map[string]string{"PRICE": "12.50"}, row["ID"])
	require.NoError(t, err)

	rows, err = editor.ListRows(ctx, "PRODUCTS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 12.50, rows[0]["PRICE"])
	assert.Equal(t, "Widget", rows[0]["PRODUCT_NAME"], "untouched columns keep their values")

	err = editor.DeleteRow(ctx, "PRODUCTS", row["ID"])
	require.NoError(t, err)

	rows, err = editor.ListRows(ctx, "PRODUCTS")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEditorRowKeysMatchColumns(t *testing.T) {
	editor := newTestEditor(t, productsDDL)
	ctx := context.Background()

	require.NoError(t, editor.InsertRow(ctx, "PRODUCTS", map[string]string{
		"PRODUCT_NAME": "Widget",
		"PRICE":        "9.99",
	}))

	columns, err := editor.Columns(ctx, "PRODUCTS")
	require.NoError(t, err)
	known := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		known[col.Name] = struct{}{}
	}

	rows, err := editor.ListRows(ctx, "PRODUCTS")
	require.NoError(t, err)
	for _, row := range rows {
		for name := range row {
			_, ok := known[name]
			assert.True(t, ok, "row key %q has no column", name)
		}
	}
}

func TestEditorInsertAbsentNullableColumn(t *testing.T) {
	editor := newTestEditor(t, productsDDL)
	ctx := context.Background()

	// ACTIVE is absent: it must not appear in the statement at all.
	require.NoError(t, editor.InsertRow(ctx, "PRODUCTS", map[string]string{
		"PRODUCT_NAME": "Widget",
		"PRICE":        "9.99",
	}))

	rows, err := editor.ListRows(ctx, "PRODUCTS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["ACTIVE"])
}

func TestEditorValidationBlocksBadInsert(t *testing.T) {
	editor := newTestEditor(t, productsDDL)
	ctx := context.Background()

	err := editor.InsertRow(ctx, "PRODUCTS", map[string]string{
		"PRODUCT_NAME": "Widget",
		"PRICE":        "expensive",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "PRICE", verr.Column)

	rows, err := editor.ListRows(ctx, "PRODUCTS")
	require.NoError(t, err)
	assert.Empty(t, rows, "nothing may be written when validation fails")
}

func TestEditorTableWithoutPrimaryKey(t *testing.T) {
	editor := newTestEditor(t, `CREATE TABLE AUDIT_LOG (MESSAGE TEXT NOT NULL, LEVEL VARCHAR(10))`)
	ctx := context.Background()

	require.NoError(t, editor.InsertRow(ctx, "AUDIT_LOG", map[string]string{
		"MESSAGE": "started",
		"LEVEL":   "info",
	}))

	rows, err := editor.ListRows(ctx, "AUDIT_LOG")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var kerr *NoPrimaryKeyError
	err = editor.UpdateRow(ctx, "AUDIT_LOG", map[string]string{"LEVEL": "warn"}, 1)
	require.ErrorAs(t, err, &kerr)

	err = editor.DeleteRow(ctx, "AUDIT_LOG", 1)
	require.ErrorAs(t, err, &kerr)
}

func TestEditorInsertIncludesBigintKey(t *testing.T) {
	editor := newTestEditor(t, `
		CREATE TABLE EVENTS (
			ID BIGINT PRIMARY KEY,
			NAME TEXT NOT NULL
		)`)
	ctx := context.Background()

	err := editor.InsertRow(ctx, "EVENTS", map[string]string{"ID": "7", "NAME": "boot"})
	require.NoError(t, err)

	rows, err := editor.ListRows(ctx, "EVENTS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 7, rows[0]["ID"], "explicit key must be written, not dropped")

	// The stored key addresses the row for the rest of the lifecycle.
	require.NoError(t, editor.UpdateRow(ctx, "EVENTS", map[string]string{"NAME": "shutdown"}, rows[0]["ID"]))
	require.NoError(t, editor.DeleteRow(ctx, "EVENTS", rows[0]["ID"]))

	rows, err = editor.ListRows(ctx, "EVENTS")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEditorRejectsUnsafeTableName(t *testing.T) {
	editor := newTestEditor(t, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`)
	ctx := context.Background()

	_, err := editor.ListRows(ctx, "users; DROP TABLE users")
	var ierr *IdentifierError
	require.ErrorAs(t, err, &ierr)

	// The original table must be untouched.
	rows, err := editor.ListRows(ctx, "users")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEditorUnknownTable(t *testing.T) {
	editor := newTestEditor(t, productsDDL)
	ctx := context.Background()

	_, err := editor.Columns(ctx, "MISSING")
	var serr *schema.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "MISSING", serr.Table)
}

func TestEditorStoreErrorsPropagate(t *testing.T) {
	editor := newTestEditor(t, `
		CREATE TABLE ACCOUNTS (
			ID INTEGER PRIMARY KEY AUTOINCREMENT,
			EMAIL VARCHAR(200) NOT NULL UNIQUE
		)`)
	ctx := context.Background()

	require.NoError(t, editor.InsertRow(ctx, "ACCOUNTS", map[string]string{"EMAIL": "a@example.com"}))

	err := editor.InsertRow(ctx, "ACCOUNTS", map[string]string{"EMAIL": "a@example.com"})
	var xerr *ExecError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "insert", xerr.Op)
	assert.Equal(t, "ACCOUNTS", xerr.Table)
	assert.Error(t, xerr.Unwrap())
}

func TestEditorEmptyUpdateRejected(t *testing.T) {
	editor := newTestEditor(t, productsDDL)
	ctx := context.Background()

	err := editor.UpdateRow(ctx, "PRODUCTS", map[string]string{}, int64(1))
	var uerr *EmptyUpdateError
	require.ErrorAs(t, err, &uerr)
}
