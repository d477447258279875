// Package export streams table contents out of the editor as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/karayel/tabled/internal/engine"
	"github.com/karayel/tabled/pkg/progress"
)

type Options struct {
	// ShowProgress renders a progress bar on stderr while writing.
	ShowProgress bool
}

// WriteCSV writes a header row from the table's column metadata followed
// by every row, in column order. NULL renders as an empty cell.
func WriteCSV(ctx context.Context, editor *engine.Editor, table string, w io.Writer, opts Options) (int, error) {
	columns, err := editor.Columns(ctx, table)
	if err != nil {
		return 0, err
	}

	rows, err := editor.ListRows(ctx, table)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Name
	}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	var bar *progress.Bar
	if opts.ShowProgress {
		bar = progress.NewBar(int64(len(rows)), fmt.Sprintf("Exporting %s", table))
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = formatValue(row[col.Name])
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV record: %w", err)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return len(rows), nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
