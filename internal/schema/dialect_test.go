package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName(t *testing.T) {
	for _, name := range []string{"postgres", "sqlite"} {
		d, err := ForName(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	_, err := ForName("oracle")
	assert.Error(t, err)
}

func TestPlaceholderStyles(t *testing.T) {
	pg, err := ForName("postgres")
	require.NoError(t, err)
	assert.Equal(t, "$1", pg.Placeholder(1))
	assert.Equal(t, "$3", pg.Placeholder(3))

	lite, err := ForName("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "?", lite.Placeholder(1))
	assert.Equal(t, "?", lite.Placeholder(3))
}

func TestPostgresNormalize(t *testing.T) {
	d := postgresDialect{}

	cases := map[string]DataType{
		"integer":                     Integer,
		"bigint":                      Integer,
		"smallint":                    Integer,
		"numeric":                     Decimal,
		"double precision":            Decimal,
		"real":                        Decimal,
		"boolean":                     Boolean,
		"date":                        Date,
		"timestamp without time zone": Timestamp,
		"timestamp with time zone":    Timestamp,
		"character varying":           Text,
		"text":                        Text,
		"uuid":                        Text,
	}
	for native, expected := range cases {
		assert.Equal(t, expected, d.Normalize(native), "type %q", native)
	}
}

func TestSqliteNormalize(t *testing.T) {
	d := sqliteDialect{}

	cases := map[string]DataType{
		"INTEGER":        Integer,
		"INT":            Integer,
		"TINYINT":        Integer,
		"DECIMAL(10,2)":  Decimal,
		"NUMERIC":        Decimal,
		"REAL":           Decimal,
		"DOUBLE":         Decimal,
		"BOOLEAN":        Boolean,
		"DATE":           Date,
		"TIMESTAMP":      Timestamp,
		"DATETIME":       Timestamp,
		"VARCHAR(120)":   Text,
		"TEXT":           Text,
		"BLOB":           Text,
		"unknown gadget": Text,
	}
	for native, expected := range cases {
		assert.Equal(t, expected, d.Normalize(native), "type %q", native)
	}
}

func TestDeclaredLength(t *testing.T) {
	assert.Equal(t, 120, declaredLength("VARCHAR(120)"))
	assert.Equal(t, 10, declaredLength("DECIMAL(10,2)"))
	assert.Equal(t, 0, declaredLength("TEXT"))
	assert.Equal(t, 0, declaredLength("VARCHAR()"))
	assert.Equal(t, 0, declaredLength("VARCHAR(abc)"))
}
