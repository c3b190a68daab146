package utils

import (
	"strings"
	"time"
)

// DatePlaceholder is shown for missing or unparseable dates.
const DatePlaceholder = "N/A"

const DefaultLocale = "en-US"

var displayLayouts = map[string]string{
	"en-US": "01/02/2006",
	"en-GB": "02/01/2006",
	"vi-VN": "02/01/2006",
	"fr-FR": "02/01/2006",
	"de-DE": "02.01.2006",
	"ja-JP": "2006/01/02",
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DisplayLayout returns the date layout of locale, falling back to en-US.
func DisplayLayout(locale string) string {
	if layout, ok := displayLayouts[locale]; ok {
		return layout
	}
	return displayLayouts[DefaultLocale]
}

// SupportedLocale reports whether locale has its own display layout.
func SupportedLocale(locale string) bool {
	_, ok := displayLayouts[locale]
	return ok
}

// ParseISO accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseISO(iso string) (time.Time, bool) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders an ISO timestamp as a locale date. The calendar
// day is taken in the timestamp's own offset.
func FormatDisplayDate(iso, locale string) string {
	t, ok := ParseISO(iso)
	if !ok {
		return DatePlaceholder
	}
	return t.Format(DisplayLayout(locale))
}

// ParseDisplayDate inverts FormatDisplayDate, returning YYYY-MM-DD.
func ParseDisplayDate(display, locale string) (string, bool) {
	t, err := time.Parse(DisplayLayout(locale), strings.TrimSpace(display))
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// FormatTime is FormatDisplayDate for time values; the zero time yields the
// placeholder.
func FormatTime(t time.Time, locale string) string {
	if t.IsZero() {
		return DatePlaceholder
	}
	return t.Format(DisplayLayout(locale))
}

func FormatTimePtr(t *time.Time, locale string) string {
	if t == nil {
		return DatePlaceholder
	}
	return FormatTime(*t, locale)
}

// ISOPtr renders t as RFC3339 or nil.
func ISOPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ResolveLocale returns requested when it is supported, otherwise fallback.
func ResolveLocale(requested, fallback string) string {
	if SupportedLocale(requested) {
		return requested
	}
	return fallback
}
