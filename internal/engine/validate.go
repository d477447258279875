package engine

import (
	"strconv"
	"strings"

	"github.com/karayel/tabled/internal/schema"
)

// Mode selects which columns Validate considers.
type Mode int

const (
	// ModeInsert validates every column except auto-generated ones and
	// treats a missing non-nullable column as a failure.
	ModeInsert Mode = iota
	// ModeUpdate validates only the columns present in the row; absent
	// columns simply stay untouched by the update.
	ModeUpdate
)

// Validate checks a raw text row against column metadata and reports the
// first failing column in metadata order.
func Validate(columns []schema.Column, row map[string]string, mode Mode) error {
	for _, col := range columns {
		if mode == ModeInsert && col.AutoGenerated {
			continue
		}

		raw, present := row[col.Name]
		if mode == ModeUpdate && !present {
			continue
		}
		value := strings.TrimSpace(raw)

		if !col.Nullable && value == "" {
			return &ValidationError{Column: col.Name, Reason: ReasonRequired}
		}

		if value != "" {
			if err := checkSyntax(col, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkSyntax applies the per-type syntactic rule to a trimmed, non-blank
// value. Timestamp and Text carry no rule.
func checkSyntax(col schema.Column, value string) error {
	switch col.Type {
	case schema.Integer:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return mismatch(col)
		}
	case schema.Decimal:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return mismatch(col)
		}
	case schema.Boolean:
		if !strings.EqualFold(value, "true") && !strings.EqualFold(value, "false") {
			return mismatch(col)
		}
	case schema.Date:
		if len(strings.Split(value, "-")) != 3 {
			return mismatch(col)
		}
	}
	return nil
}

func mismatch(col schema.Column) error {
	return &ValidationError{Column: col.Name, Reason: ReasonTypeMismatch, Expected: col.Type}
}
