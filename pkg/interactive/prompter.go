package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/karayel/tabled/internal/schema"
)

// Prompter reads record-editing input from a terminal session.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &Prompter{
		reader: bufio.NewReader(r),
		out:    w,
	}
}

// SelectTable shows a numbered table list and returns the chosen name.
func (p *Prompter) SelectTable(tables []string) (string, error) {
	if len(tables) == 0 {
		return "", fmt.Errorf("no tables found")
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Available tables:")
	fmt.Fprintln(p.out, strings.Repeat("=", 50))
	for i, table := range tables {
		fmt.Fprintf(p.out, "%-4d %s\n", i+1, table)
	}
	fmt.Fprintln(p.out, strings.Repeat("=", 50))

	for {
		fmt.Fprintf(p.out, "\nSelect a table number (1-%d): ", len(tables))

		input, err := p.readLine()
		if err != nil {
			return "", err
		}
		if input == "" {
			fmt.Fprintln(p.out, "Please enter a number.")
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(tables) {
			fmt.Fprintf(p.out, "Please select a number between 1 and %d.\n", len(tables))
			continue
		}

		return tables[choice-1], nil
	}
}

// PromptInsert collects a raw value for every column an insert can set.
// Empty input on a nullable column submits an explicit null.
func (p *Prompter) PromptInsert(columns []schema.Column) (map[string]string, error) {
	row := make(map[string]string)
	fmt.Fprintln(p.out)

	for _, col := range columns {
		if col.AutoGenerated {
			continue
		}
		value, err := p.promptField(col)
		if err != nil {
			return nil, err
		}
		row[col.Name] = value
	}
	return row, nil
}

// PromptUpdate collects new values for an update; empty input leaves a
// column untouched so only answered fields are submitted.
func (p *Prompter) PromptUpdate(columns []schema.Column) (map[string]string, error) {
	row := make(map[string]string)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Leave a field empty to keep its current value.")

	for _, col := range columns {
		if col.PrimaryKey || col.AutoGenerated {
			continue
		}
		value, err := p.promptField(col)
		if err != nil {
			return nil, err
		}
		if value != "" {
			row[col.Name] = value
		}
	}
	return row, nil
}

// PromptKey asks for the primary-key value identifying a row.
func (p *Prompter) PromptKey(column schema.Column) (string, error) {
	fmt.Fprintf(p.out, "%s (%s): ", column.Name, column.Type)
	return p.readLine()
}

// ConfirmAction asks for a yes/no confirmation before a destructive step.
func (p *Prompter) ConfirmAction(action, target string) bool {
	fmt.Fprintf(p.out, "\nConfirm %s for %s (y/N): ", action, target)

	input, err := p.readLine()
	if err != nil {
		return false
	}

	input = strings.ToLower(input)
	return input == "y" || input == "yes"
}

func (p *Prompter) promptField(col schema.Column) (string, error) {
	label := fmt.Sprintf("%s (%s", col.Name, col.Type)
	if col.MaxLength > 0 {
		label += fmt.Sprintf(", max %d", col.MaxLength)
	}
	if !col.Nullable {
		label += ", required"
	}
	label += ")"

	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine()
}

// ReadLine reads one trimmed line of input.
func (p *Prompter) ReadLine() (string, error) {
	return p.readLine()
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
