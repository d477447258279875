package explorer

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/karayel/tabled/internal/engine"
	"github.com/karayel/tabled/internal/schema"
)

// session holds the explorer's view state: the table under edit and the
// last rendered snapshot of its metadata and rows.
type session struct {
	editor  *engine.Editor
	app     *tview.Application
	pages   *tview.Pages
	list    *tview.List
	grid    *tview.Table
	meta    *tview.TextView
	tables  []string
	current string
	columns []schema.Column
	rows    []engine.Row
}

// Run starts the terminal explorer on top of the editor engine.
func Run(editor *engine.Editor, databaseName string) error {
	ctx := context.Background()

	tables, err := editor.Tables(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("no tables found in %s", databaseName)
	}

	s := &session{
		editor: editor,
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		list:   tview.NewList().ShowSecondaryText(false),
		grid:   tview.NewTable().SetFixed(1, 0).SetSelectable(true, false),
		meta:   tview.NewTextView().SetDynamicColors(true),
		tables: tables,
	}

	for _, table := range tables {
		table := table
		s.list.AddItem(table, "", 0, func() {
			s.show(table)
		})
	}
	s.list.SetChangedFunc(func(index int, main, secondary string, shortcut rune) {
		if index >= 0 && index < len(s.tables) {
			s.show(s.tables[index])
		}
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(s.list.SetBorder(true).SetTitle("Tables"), 30, 1, true).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(s.grid.SetBorder(true).SetTitle("Rows"), 0, 3, false).
			AddItem(s.meta.SetBorder(true).SetTitle("Details"), 8, 1, false),
			0, 3, false)

	s.pages.AddPage("main", layout, true, true)

	s.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if name, _ := s.pages.GetFrontPage(); name != "main" {
			return event
		}
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch event.Rune() {
		case 'q', 'Q':
			s.app.Stop()
			return nil
		case 'r', 'R':
			if s.current != "" {
				s.editor.Refresh(s.current)
				s.show(s.current)
			}
			return nil
		case 'n', 'N':
			s.openInsertForm()
			return nil
		case 'e', 'E':
			s.openEditForm()
			return nil
		case 'd', 'D':
			s.confirmDelete()
			return nil
		}
		return event
	})

	s.show(tables[0])
	s.meta.SetText("'n' new row • 'e' edit • 'd' delete • 'r' refresh • 'q' exit")

	if err := s.app.SetRoot(s.pages, true).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// show renders a table's rows asynchronously.
func (s *session) show(table string) {
	s.current = table
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		columns, err := s.editor.Columns(ctx, table)
		if err != nil {
			s.showError(err)
			return
		}
		rows, err := s.editor.ListRows(ctx, table)
		if err != nil {
			s.showError(err)
			return
		}

		queueUpdate(s.app, func() {
			s.columns = columns
			s.rows = rows
			s.renderGrid()
		})
	}()
}

func (s *session) renderGrid() {
	s.grid.Clear()
	for i, col := range s.columns {
		header := col.Name
		if col.PrimaryKey {
			header += " [yellow]PK[-]"
		}
		cell := tview.NewTableCell(header).
			SetSelectable(false).
			SetAlign(tview.AlignCenter).
			SetAttributes(tcell.AttrBold)
		s.grid.SetCell(0, i, cell)
	}
	for r, row := range s.rows {
		for c, col := range s.columns {
			s.grid.SetCell(r+1, c, tview.NewTableCell(formatCell(row[col.Name])).SetExpansion(1))
		}
	}

	s.meta.SetText(fmt.Sprintf("[::b]%s[-:-:-]\nRows: %d  Columns: %d\n'n' new row • 'e' edit • 'd' delete • 'r' refresh • 'q' exit",
		s.current, len(s.rows), len(s.columns)))
}

func (s *session) openInsertForm() {
	if s.current == "" {
		return
	}
	fields := editableFields(s.columns, false)
	s.openForm(fmt.Sprintf("New row in %s", s.current), fields, nil, func(values map[string]string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.editor.InsertRow(ctx, s.current, values)
	})
}

func (s *session) openEditForm() {
	row, key, ok := s.selectedRow()
	if !ok {
		return
	}

	fields := editableFields(s.columns, true)
	initial := make(map[string]string, len(fields))
	for _, field := range fields {
		if value := row[field.Column]; value != nil {
			initial[field.Column] = formatCell(value)
		}
	}

	s.openForm(fmt.Sprintf("Edit %s row", s.current), fields, initial, func(values map[string]string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.editor.UpdateRow(ctx, s.current, values, key)
	})
}

func (s *session) openForm(title string, fields []FieldSpec, initial map[string]string, submit func(map[string]string) error) {
	const pageName = "row-form"

	dismiss := func() {
		s.pages.RemovePage(pageName)
		s.app.SetFocus(s.list)
	}

	form := buildRowForm(title, fields, initial, func(values map[string]string) {
		if err := submit(values); err != nil {
			s.meta.SetText(fmt.Sprintf("[red]%v", err))
			return
		}
		dismiss()
		s.show(s.current)
	}, dismiss)

	s.pages.AddPage(pageName, newModal(form, 70, len(fields)*2+5), true, true)
	s.app.SetFocus(form)
}

func (s *session) confirmDelete() {
	_, key, ok := s.selectedRow()
	if !ok {
		return
	}

	const pageName = "confirm-delete"
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete row %v from %s?", key, s.current)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			s.pages.RemovePage(pageName)
			s.app.SetFocus(s.list)
			if buttonLabel != "Delete" {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.editor.DeleteRow(ctx, s.current, key); err != nil {
				s.meta.SetText(fmt.Sprintf("[red]%v", err))
				return
			}
			s.show(s.current)
		})

	s.pages.AddPage(pageName, modal, true, true)
}

// selectedRow resolves the highlighted grid row and its primary-key
// value, echoed back exactly as it was read.
func (s *session) selectedRow() (engine.Row, any, bool) {
	index, _ := s.grid.GetSelection()
	index-- // header row
	if index < 0 || index >= len(s.rows) {
		return nil, nil, false
	}

	row := s.rows[index]
	for _, col := range s.columns {
		if col.PrimaryKey {
			return row, row[col.Name], true
		}
	}
	s.meta.SetText(fmt.Sprintf("[red]table %s has no primary key; editing is disabled", s.current))
	return nil, nil, false
}

func (s *session) showError(err error) {
	queueUpdate(s.app, func() {
		s.meta.SetText(fmt.Sprintf("[red]%v", err))
	})
}

func formatCell(value any) string {
	if value == nil {
		return "NULL"
	}
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
