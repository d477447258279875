package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karayel/tabled/internal/schema"
)

func TestCoerceBlankToNil(t *testing.T) {
	assert.Nil(t, Coerce("", schema.Integer))
	assert.Nil(t, Coerce("   ", schema.Text))
}

func TestCoerceInteger(t *testing.T) {
	assert.Equal(t, int64(42), Coerce("42", schema.Integer))
	assert.Equal(t, int64(-3), Coerce(" -3 ", schema.Integer))
}

func TestCoerceDecimal(t *testing.T) {
	assert.Equal(t, 9.99, Coerce("9.99", schema.Decimal))
}

func TestCoerceBoolean(t *testing.T) {
	assert.Equal(t, true, Coerce("true", schema.Boolean))
	assert.Equal(t, true, Coerce("TRUE", schema.Boolean))
	assert.Equal(t, false, Coerce("False", schema.Boolean))
}

func TestCoerceDate(t *testing.T) {
	got := Coerce("2024-03-01", schema.Date)
	parsed, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 1, parsed.Day())
}

func TestCoerceTimestampLayouts(t *testing.T) {
	_, ok := Coerce("2024-03-01 13:45:00", schema.Timestamp).(time.Time)
	assert.True(t, ok)

	_, ok = Coerce("2024-03-01T13:45:00Z", schema.Timestamp).(time.Time)
	assert.True(t, ok)
}

func TestCoerceText(t *testing.T) {
	assert.Equal(t, "Widget", Coerce("  Widget  ", schema.Text))
}

func TestCoerceFallsBackToOriginalText(t *testing.T) {
	// Failed conversions keep the trimmed input instead of erroring;
	// Validate is the layer that rejects such input upstream.
	assert.Equal(t, "abc", Coerce("abc", schema.Integer))
	assert.Equal(t, "soon", Coerce(" soon ", schema.Timestamp))
	assert.Equal(t, "maybe", Coerce("maybe", schema.Boolean))
}
