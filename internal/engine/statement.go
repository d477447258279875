package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/karayel/tabled/internal/schema"
)

// Identifiers are restricted rather than quoted; values always travel as
// bound parameters.
var identPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func checkIdentifier(name string) error {
	if !identPattern.MatchString(name) {
		return &IdentifierError{Name: name}
	}
	return nil
}

type statement struct {
	sql  string
	args []any
}

func buildSelect(table string) string {
	return fmt.Sprintf("SELECT * FROM %s", table)
}

// buildInsert includes a column when the submitted row contains its key,
// auto-generated columns excepted. An explicit blank is included (and
// coerces to nil); an absent key is not.
func buildInsert(dialect schema.Dialect, table string, columns []schema.Column, row map[string]string) statement {
	var names []string
	var placeholders []string
	var args []any

	for _, col := range columns {
		if col.AutoGenerated {
			continue
		}
		raw, ok := row[col.Name]
		if !ok {
			continue
		}
		names = append(names, col.Name)
		placeholders = append(placeholders, dialect.Placeholder(len(args)+1))
		args = append(args, Coerce(raw, col.Type))
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)
	return statement{sql: sql, args: args}
}

func buildUpdate(dialect schema.Dialect, table string, columns []schema.Column, row map[string]string, keyValue any) (statement, error) {
	keyColumn, err := primaryKeyColumn(table, columns)
	if err != nil {
		return statement{}, err
	}

	var assignments []string
	var args []any

	for _, col := range columns {
		if col.PrimaryKey || col.AutoGenerated {
			continue
		}
		raw, ok := row[col.Name]
		if !ok {
			continue
		}
		args = append(args, Coerce(raw, col.Type))
		assignments = append(assignments, fmt.Sprintf("%s = %s", col.Name, dialect.Placeholder(len(args))))
	}

	if len(assignments) == 0 {
		return statement{}, &EmptyUpdateError{Table: table}
	}

	args = append(args, keyValue)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		table,
		strings.Join(assignments, ", "),
		keyColumn,
		dialect.Placeholder(len(args)),
	)
	return statement{sql: sql, args: args}, nil
}

// buildDelete binds the supplied key value directly; the caller provides
// it already typed, typically echoed back from a prior read.
func buildDelete(dialect schema.Dialect, table string, columns []schema.Column, keyValue any) (statement, error) {
	keyColumn, err := primaryKeyColumn(table, columns)
	if err != nil {
		return statement{}, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, keyColumn, dialect.Placeholder(1))
	return statement{sql: sql, args: []any{keyValue}}, nil
}

// primaryKeyColumn resolves the single usable key column. With a
// composite key the first key column in catalog order wins.
func primaryKeyColumn(table string, columns []schema.Column) (string, error) {
	for _, col := range columns {
		if col.PrimaryKey {
			return col.Name, nil
		}
	}
	return "", &NoPrimaryKeyError{Table: table}
}
