package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/karayel/tabled/internal/engine"
	"github.com/karayel/tabled/internal/schema"
	"github.com/karayel/tabled/pkg/interactive"
)

// Application drives the menu-based record-editing session on a terminal.
type Application struct {
	editor   *engine.Editor
	prompter *interactive.Prompter
	out      io.Writer
}

func NewApplication(editor *engine.Editor, in io.Reader, out io.Writer) *Application {
	if out == nil {
		out = os.Stdout
	}
	return &Application{
		editor:   editor,
		prompter: interactive.NewPrompter(in, out),
		out:      out,
	}
}

func (a *Application) Run(ctx context.Context) error {
	for {
		tables, err := a.editor.Tables(ctx)
		if err != nil {
			return err
		}

		table, err := a.prompter.SelectTable(tables)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out, "\nExiting.")
				return nil
			}
			return err
		}

		if done, err := a.editTable(ctx, table); done {
			return err
		}
	}
}

// editTable runs the per-table menu until the user switches tables or
// exits. The returned bool means the whole session is over.
func (a *Application) editTable(ctx context.Context, table string) (bool, error) {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "Table %s — select an operation:\n", table)
		fmt.Fprintln(a.out, "  1) List rows")
		fmt.Fprintln(a.out, "  2) Insert a row")
		fmt.Fprintln(a.out, "  3) Update a row")
		fmt.Fprintln(a.out, "  4) Delete a row")
		fmt.Fprintln(a.out, "  5) Show columns")
		fmt.Fprintln(a.out, "  6) Refresh metadata")
		fmt.Fprintln(a.out, "  7) Switch table")
		fmt.Fprintln(a.out, "  8) Exit")
		fmt.Fprint(a.out, "\nChoice: ")

		choice, err := a.readChoice()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out, "\nExiting.")
				return true, nil
			}
			return true, err
		}

		switch choice {
		case "1", "list":
			err = a.listRows(ctx, table)
		case "2", "insert":
			err = a.insertRow(ctx, table)
		case "3", "update":
			err = a.updateRow(ctx, table)
		case "4", "delete":
			err = a.deleteRow(ctx, table)
		case "5", "columns":
			err = a.showColumns(ctx, table)
		case "6", "refresh":
			a.editor.Refresh(table)
			fmt.Fprintln(a.out, "Metadata refreshed.")
		case "7", "switch":
			return false, nil
		case "8", "exit", "quit":
			return true, nil
		default:
			fmt.Fprintln(a.out, "Please choose a value between 1 and 8.")
			continue
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out, "\nExiting.")
				return true, nil
			}
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func (a *Application) listRows(ctx context.Context, table string) error {
	columns, err := a.editor.Columns(ctx, table)
	if err != nil {
		return err
	}
	rows, err := a.editor.ListRows(ctx, table)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No rows.")
		return nil
	}

	names := columnNames(columns, rows)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, strings.Join(names, " | "))
	fmt.Fprintln(a.out, strings.Repeat("-", len(strings.Join(names, " | "))))
	for _, row := range rows {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = formatCell(row[name])
		}
		fmt.Fprintln(a.out, strings.Join(cells, " | "))
	}
	fmt.Fprintf(a.out, "(%d rows)\n", len(rows))
	return nil
}

func (a *Application) insertRow(ctx context.Context, table string) error {
	columns, err := a.editor.Columns(ctx, table)
	if err != nil {
		return err
	}

	row, err := a.prompter.PromptInsert(columns)
	if err != nil {
		return err
	}
	if err := a.editor.InsertRow(ctx, table, row); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Row inserted.")
	return nil
}

func (a *Application) updateRow(ctx context.Context, table string) error {
	columns, err := a.editor.Columns(ctx, table)
	if err != nil {
		return err
	}
	key, err := a.promptKey(columns, table)
	if err != nil {
		return err
	}

	row, err := a.prompter.PromptUpdate(columns)
	if err != nil {
		return err
	}
	if err := a.editor.UpdateRow(ctx, table, row, key); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Row updated.")
	return nil
}

func (a *Application) deleteRow(ctx context.Context, table string) error {
	columns, err := a.editor.Columns(ctx, table)
	if err != nil {
		return err
	}
	key, err := a.promptKey(columns, table)
	if err != nil {
		return err
	}

	if !a.prompter.ConfirmAction("delete", fmt.Sprintf("%s row %v", table, key)) {
		fmt.Fprintln(a.out, "Delete cancelled.")
		return nil
	}
	if err := a.editor.DeleteRow(ctx, table, key); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Row deleted.")
	return nil
}

func (a *Application) showColumns(ctx context.Context, table string) error {
	columns, err := a.editor.Columns(ctx, table)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "%-24s %-12s %-10s %-6s %-6s %s\n", "Name", "Type", "Native", "Null", "PK", "Auto")
	for _, col := range columns {
		fmt.Fprintf(a.out, "%-24s %-12s %-10s %-6v %-6v %v\n",
			col.Name, col.Type, col.NativeType, col.Nullable, col.PrimaryKey, col.AutoGenerated)
	}
	return nil
}

// promptKey asks for the primary-key value and coerces it to the key
// column's native type before handing it to the engine.
func (a *Application) promptKey(columns []schema.Column, table string) (any, error) {
	for _, col := range columns {
		if !col.PrimaryKey {
			continue
		}
		raw, err := a.prompter.PromptKey(col)
		if err != nil {
			return nil, err
		}
		return engine.Coerce(raw, col.Type), nil
	}
	return nil, &engine.NoPrimaryKeyError{Table: table}
}

func (a *Application) readChoice() (string, error) {
	line, err := a.prompter.ReadLine()
	return strings.ToLower(line), err
}

// columnNames prefers metadata order and falls back to sorted row keys
// for columns the metadata does not know.
func columnNames(columns []schema.Column, rows []engine.Row) []string {
	if len(columns) > 0 {
		names := make([]string, len(columns))
		for i, col := range columns {
			names[i] = col.Name
		}
		return names
	}

	seen := make(map[string]struct{})
	var names []string
	for _, row := range rows {
		for name := range row {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func formatCell(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", value)
}
