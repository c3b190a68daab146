// Package csvutil holds the delimited-text helpers shared by the lead and
// client import/export endpoints.
package csvutil

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyFile = errors.New("csv file is empty")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// MissingColumnsError is returned when the header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// Row is one data record, fitted to the header width.
type Row struct {
	Line   int // 1-based line number in the source file
	Fields []string
}

// Table is a parsed CSV document.
type Table struct {
	Columns []string       // normalized header names, in file order
	Index   map[string]int // normalized header name -> column index
	Rows    []Row
}

// Get returns the trimmed value of column name in row, or "" when the column
// is absent.
func (t *Table) Get(row Row, name string) string {
	idx, ok := t.Index[name]
	if !ok || idx >= len(row.Fields) {
		return ""
	}
	return strings.TrimSpace(row.Fields[idx])
}

// Has reports whether the header contains column name.
func (t *Table) Has(name string) bool {
	_, ok := t.Index[name]
	return ok
}

// SplitLine splits a single delimited line into fields.
// Quoted fields may contain commas and doubled quotes ("") which decode to a
// single quote. A blank line yields one empty field.
func SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return []string{""}
	}

	r := newReader(strings.NewReader(line))
	record, err := r.Read()
	if err != nil {
		// LazyQuotes accepts nearly everything; fall back to a plain split
		return strings.Split(line, ",")
	}
	return record
}

// Fit pads fields with empty strings or truncates them so exactly n fields
// are returned.
func Fit(fields []string, n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	copy(out, fields)
	return out
}

// NormalizeHeader turns "Property Interest " into "property_interest".
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}

// ReadAll parses a whole document: header row first, then data rows.
// Blank rows are skipped and every row is fitted to the header width.
func ReadAll(src io.Reader, required ...string) (*Table, error) {
	br := bufio.NewReader(src)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := newReader(br)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{
		Columns: make([]string, len(header)),
		Index:   make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := NormalizeHeader(h)
		table.Columns[i] = name
		if _, dup := table.Index[name]; !dup && name != "" {
			table.Index[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if !table.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if isBlank(record) {
			continue
		}

		line, _ := r.FieldPos(0)
		table.Rows = append(table.Rows, Row{
			Line:   line,
			Fields: Fit(record, len(header)),
		})
	}

	return table, nil
}

func newReader(src io.Reader) *csv.Reader {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	// Spreadsheets often write `, "` between fields; the quote must still open a quoted field.
	r.TrimLeadingSpace = true
	return r
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
