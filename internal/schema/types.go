package schema

import "strings"

// DataType is the normalized type tag the editor works with. Every native
// type name a dialect reports is folded into one of these before any
// validation or coercion happens.
type DataType int

const (
	Text DataType = iota
	Integer
	Decimal
	Boolean
	Date
	Timestamp
)

func (t DataType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Decimal:
		return "DECIMAL"
	case Boolean:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// Column is an immutable metadata snapshot for a single table column,
// taken at introspection time.
type Column struct {
	Name          string
	NativeType    string
	Type          DataType
	Nullable      bool
	PrimaryKey    bool
	AutoGenerated bool
	MaxLength     int // declared size, 0 when the store reports none
}

// normalizeTypeName folds a native type name into a DataType using the
// shared substring rules. Dialects consult their exact-match table first
// and fall back to this.
func normalizeTypeName(native string) DataType {
	name := strings.ToUpper(strings.TrimSpace(native))
	switch {
	case strings.Contains(name, "INT"):
		return Integer
	case strings.Contains(name, "DECIMAL"), strings.Contains(name, "NUMERIC"):
		return Decimal
	case name == "BOOLEAN" || name == "BOOL":
		return Boolean
	case name == "DATE":
		return Date
	case strings.Contains(name, "TIMESTAMP"):
		return Timestamp
	default:
		return Text
	}
}
