package categorize

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a CSV file held as a header plus string rows. Rows may be shorter
// or longer than the header; missing cells read as empty strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable reads a whole CSV. An empty input yields an empty Table.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// Column returns the index of a header field, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns row[col], or "" when the column is absent or the row is short.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// SetCell sets row[col], growing a short row to the header width first.
func (t *Table) SetCell(row, col int, value string) {
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = value
}

// WriteQuoted writes the header and rows with every field quoted. Short rows
// are padded to the header width.
func (t *Table) WriteQuoted(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := writeQuotedRecord(bw, t.Header, len(t.Header)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeQuotedRecord(bw, row, len(t.Header)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return bw.Flush()
}

func writeQuotedRecord(w *bufio.Writer, rec []string, width int) error {
	n := max(len(rec), width)
	for i := range n {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		var v string
		if i < len(rec) {
			v = rec[i]
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(v, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
