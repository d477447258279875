package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karayel/tabled/internal/schema"
)

func productColumns() []schema.Column {
	return []schema.Column{
		{Name: "ID", Type: schema.Integer, PrimaryKey: true, AutoGenerated: true},
		{Name: "PRODUCT_NAME", Type: schema.Text, MaxLength: 120},
		{Name: "PRICE", Type: schema.Decimal},
		{Name: "ACTIVE", Type: schema.Boolean, Nullable: true},
	}
}

func TestValidateRequiredOnBlankText(t *testing.T) {
	columns := []schema.Column{{Name: "name", Type: schema.Text}}

	err := Validate(columns, map[string]string{"name": ""}, ModeInsert)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Column)
	assert.Equal(t, ReasonRequired, verr.Reason)
}

func TestValidateRequiredTreatsWhitespaceAsBlank(t *testing.T) {
	columns := []schema.Column{{Name: "name", Type: schema.Text}}

	err := Validate(columns, map[string]string{"name": "   "}, ModeInsert)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonRequired, verr.Reason)
}

func TestValidateIntegerSyntax(t *testing.T) {
	columns := []schema.Column{{Name: "age", Type: schema.Integer, Nullable: true}}

	err := Validate(columns, map[string]string{"age": "abc"}, ModeInsert)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonTypeMismatch, verr.Reason)
	assert.Equal(t, schema.Integer, verr.Expected)

	assert.NoError(t, Validate(columns, map[string]string{"age": "42"}, ModeInsert))
	assert.NoError(t, Validate(columns, map[string]string{"age": "-7"}, ModeInsert))
}

func TestValidateBooleanAcceptsTrueFalseOnly(t *testing.T) {
	columns := []schema.Column{{Name: "active", Type: schema.Boolean, Nullable: true}}

	assert.NoError(t, Validate(columns, map[string]string{"active": "true"}, ModeInsert))
	assert.NoError(t, Validate(columns, map[string]string{"active": "FALSE"}, ModeInsert))

	err := Validate(columns, map[string]string{"active": "1"}, ModeInsert)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonTypeMismatch, verr.Reason)
}

func TestValidateDateNeedsThreeSegments(t *testing.T) {
	columns := []schema.Column{{Name: "born", Type: schema.Date, Nullable: true}}

	assert.NoError(t, Validate(columns, map[string]string{"born": "1990-06-15"}, ModeInsert))

	err := Validate(columns, map[string]string{"born": "1990-06"}, ModeInsert)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schema.Date, verr.Expected)
}

func TestValidateInsertSkipsAutoGenerated(t *testing.T) {
	// ID is non-nullable and absent, but the store assigns it.
	err := Validate(productColumns(), map[string]string{
		"PRODUCT_NAME": "Widget",
		"PRICE":        "9.99",
	}, ModeInsert)
	assert.NoError(t, err)
}

func TestValidateInsertRequiresAbsentColumns(t *testing.T) {
	err := Validate(productColumns(), map[string]string{
		"PRODUCT_NAME": "Widget",
	}, ModeInsert)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "PRICE", verr.Column)
	assert.Equal(t, ReasonRequired, verr.Reason)
}

func TestValidateUpdateIgnoresAbsentColumns(t *testing.T) {
	// Partial update: only PRICE is submitted.
	err := Validate(productColumns(), map[string]string{"PRICE": "12.50"}, ModeUpdate)
	assert.NoError(t, err)
}

func TestValidateUpdateChecksPresentColumns(t *testing.T) {
	err := Validate(productColumns(), map[string]string{"PRICE": "cheap"}, ModeUpdate)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "PRICE", verr.Column)
	assert.Equal(t, ReasonTypeMismatch, verr.Reason)
}

func TestValidateUpdateDoesNotSkipAutoGenerated(t *testing.T) {
	// An auto-generated column included in an update is still subject to
	// the required check.
	err := Validate(productColumns(), map[string]string{"ID": " "}, ModeUpdate)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ID", verr.Column)
	assert.Equal(t, ReasonRequired, verr.Reason)
}

func TestValidateReportsFirstFailureInColumnOrder(t *testing.T) {
	err := Validate(productColumns(), map[string]string{
		"PRODUCT_NAME": "",
		"PRICE":        "abc",
	}, ModeInsert)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "PRODUCT_NAME", verr.Column)
}
