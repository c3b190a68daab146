// Package tabular renders list exports as CSV or Excel and carries the
// result types of CSV imports.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"realestate-backend/pkg/csvutil"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format (use csv or xlsx)")

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns e.g. leads-20260301-101500.csv
func (f Format) Filename(base string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, now.UTC().Format("20060102-150405"), f)
}

// Write renders header + rows in format.
func Write(w io.Writer, format Format, sheet string, header []string, rows [][]string) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, sheet, header, rows)
	case FormatCSV:
		cw := csvutil.NewWriter(w)
		if err := cw.WriteRow(header); err != nil {
			return err
		}
		return cw.WriteAll(rows)
	default:
		return ErrUnsupportedFormat
	}
}

func writeXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	return f.Write(w)
}

// RowError describes why one import row was skipped.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Skip records a rejected row.
func (r *ImportResult) Skip(line int, field, message string) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Line: line, Field: field, Message: message})
}
