package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	HeaderStyle lipgloss.Style

	// ColumnStyles style the cells of each column in order; columns past
	// the end use CellStyle.
	ColumnStyles []lipgloss.Style
	CellStyle    lipgloss.Style
}

// DefaultTableStyle returns the default table style: a faint rounded border,
// bold headers and nouns in the first column.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:       lipgloss.RoundedBorder(),
		BorderColor:  ColorBorder,
		HeaderStyle:  StyleSummary.Padding(0, 1),
		ColumnStyles: []lipgloss.Style{StyleNoun.Padding(0, 1)},
		CellStyle:    lipgloss.NewStyle().Padding(0, 1),
	}
}

// Table is a styled table built row by row.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// String renders the table.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			if col < len(t.style.ColumnStyles) {
				return t.style.ColumnStyles[col]
			}
			return t.style.CellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}
	return tbl.String()
}

// RenderTemplateTable renders template output names with their notes.
// names and notes are parallel; a missing note renders as an empty cell.
func RenderTemplateTable(names, notes []string) string {
	t := NewTable("TEMPLATE", "PRODUCES")
	for i, name := range names {
		var note string
		if i < len(notes) {
			note = notes[i]
		}
		t.Row(name, note)
	}
	return t.String()
}
