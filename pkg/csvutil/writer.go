package csvutil

import (
	"bufio"
	"io"
	"strings"
)

// EscapeField quotes s when it contains a comma, a quote or a line break.
// Embedded quotes are doubled.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Writer emits comma separated rows terminated by CRLF.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) WriteRow(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.w.WriteString(EscapeField(f)); err != nil {
			return err
		}
	}
	_, err := w.w.WriteString("\r\n")
	return err
}

func (w *Writer) WriteAll(rows [][]string) error {
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
