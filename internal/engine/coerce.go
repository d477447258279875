package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/karayel/tabled/internal/schema"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Coerce converts raw text input to the column's native representation.
// Blank input becomes nil. When conversion fails the trimmed original
// text is returned unchanged; Validate is the gate that catches bad
// input before it reaches this point.
func Coerce(raw string, dataType schema.DataType) any {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	switch dataType {
	case schema.Integer:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case schema.Decimal:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case schema.Boolean:
		if strings.EqualFold(value, "true") {
			return true
		}
		if strings.EqualFold(value, "false") {
			return false
		}
	case schema.Date:
		if t, err := time.Parse(dateLayout, value); err == nil {
			return t
		}
	case schema.Timestamp:
		if t, err := time.Parse(timestampLayout, value); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
	}

	return value
}
