package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseOptionalDecimal parses money columns from CSV/form input.
// Blank means nil; thousands separators and a leading currency sign are
// ignored.
func ParseOptionalDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥₫")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DecimalString renders a budget for export; nil is blank.
func DecimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

// NullIfEmpty trims s and returns nil for empty strings.
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *s or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
