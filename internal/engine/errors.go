package engine

import (
	"fmt"

	"github.com/karayel/tabled/internal/schema"
)

// IdentifierError reports a table name that failed the safe-identifier
// check before any SQL was built.
type IdentifierError struct {
	Name string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Name)
}

// Reason classifies a validation failure.
type Reason string

const (
	ReasonRequired     Reason = "required"
	ReasonTypeMismatch Reason = "type_mismatch"
)

// ValidationError carries the failing column and why it failed, so a
// caller can render a user-facing message without parsing text.
type ValidationError struct {
	Column   string
	Reason   Reason
	Expected schema.DataType
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonRequired {
		return fmt.Sprintf("column %q cannot be null or empty", e.Column)
	}
	return fmt.Sprintf("column %q must be a valid %s", e.Column, e.Expected)
}

// NoPrimaryKeyError reports an update or delete attempted on a table
// with no usable primary-key column.
type NoPrimaryKeyError struct {
	Table string
}

func (e *NoPrimaryKeyError) Error() string {
	return fmt.Sprintf("no primary key found for table %s", e.Table)
}

// EmptyUpdateError reports an update request that named no settable
// columns. Rejected up front rather than sending broken SQL to the store.
type EmptyUpdateError struct {
	Table string
}

func (e *EmptyUpdateError) Error() string {
	return fmt.Sprintf("no updatable columns supplied for table %s", e.Table)
}

// ExecError wraps a statement the store rejected. The driver error is
// preserved for inspection; the engine never retries.
type ExecError struct {
	Table string
	Op    string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s on table %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
