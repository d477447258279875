package explorer

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/karayel/tabled/internal/schema"
)

// FieldKind selects the widget used for a column.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldCheckbox
)

// FieldSpec describes one form field derived from column metadata.
type FieldSpec struct {
	Column    string
	Label     string
	Kind      FieldKind
	Required  bool
	MaxLength int
}

// FieldSpecFromColumn maps column metadata to a form field. Pure; the
// same metadata always yields the same spec.
func FieldSpecFromColumn(col schema.Column) FieldSpec {
	spec := FieldSpec{
		Column:    col.Name,
		Label:     fmt.Sprintf("%s (%s)", col.Name, col.Type),
		Required:  !col.Nullable,
		MaxLength: col.MaxLength,
	}
	if col.Type == schema.Boolean {
		spec.Kind = FieldCheckbox
	}
	if spec.Required {
		spec.Label += " *"
	}
	return spec
}

// editableFields returns the specs for columns a form can set. Inserts
// exclude auto-generated columns; edits additionally exclude the key.
func editableFields(columns []schema.Column, editing bool) []FieldSpec {
	var fields []FieldSpec
	for _, col := range columns {
		if col.AutoGenerated {
			continue
		}
		if editing && col.PrimaryKey {
			continue
		}
		fields = append(fields, FieldSpecFromColumn(col))
	}
	return fields
}

// buildRowForm renders the field specs as a tview form. The submitted
// raw values arrive at onSubmit keyed by column name.
func buildRowForm(title string, fields []FieldSpec, initial map[string]string, onSubmit func(map[string]string), onCancel func()) *tview.Form {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		value := initial[field.Column]
		if field.Kind == FieldCheckbox && value != "true" {
			value = "false"
		}
		values[field.Column] = value
	}

	form := tview.NewForm()
	for _, field := range fields {
		field := field
		switch field.Kind {
		case FieldCheckbox:
			form.AddCheckbox(field.Label, initial[field.Column] == "true", func(checked bool) {
				if checked {
					values[field.Column] = "true"
				} else {
					values[field.Column] = "false"
				}
			})
		default:
			width := 40
			if field.MaxLength > 0 && field.MaxLength < width {
				width = field.MaxLength
			}
			form.AddInputField(field.Label, initial[field.Column], width, nil, func(text string) {
				values[field.Column] = text
			})
		}
	}

	form.AddButton("Save", func() {
		onSubmit(values)
	})
	form.AddButton("Cancel", onCancel)
	form.SetBorder(true).SetTitle(title)
	return form
}
