package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDisplayDate(t *testing.T) {
	tests := []struct {
		iso, locale, want string
	}{
		{"2026-03-04T10:20:30Z", "en-US", "03/04/2026"},
		{"2026-03-04T10:20:30Z", "en-GB", "04/03/2026"},
		{"2026-03-04T10:20:30.123456Z", "vi-VN", "04/03/2026"},
		{"2026-03-04T23:30:00-05:00", "de-DE", "04.03.2026"},
		{"2026-03-04", "ja-JP", "2026/03/04"},
		{"2026-03-04", "xx-XX", "03/04/2026"},
		{"", "en-US", DatePlaceholder},
		{"not a date", "en-US", DatePlaceholder},
		{"2026-02-30", "en-US", DatePlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.iso+"/"+tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDisplayDate(tt.iso, tt.locale))
		})
	}
}

func TestDisplayDate_RoundTrip(t *testing.T) {
	for locale := range displayLayouts {
		for _, iso := range []string{"2026-01-31", "1999-12-01", "2024-02-29"} {
			display := FormatDisplayDate(iso, locale)
			back, ok := ParseDisplayDate(display, locale)
			assert.True(t, ok, "%s %s", locale, display)
			assert.Equal(t, iso, back, locale)
		}
	}
}

func TestParseDisplayDate_Invalid(t *testing.T) {
	_, ok := ParseDisplayDate(DatePlaceholder, "en-US")
	assert.False(t, ok)

	_, ok = ParseDisplayDate("31/01/2026", "en-US")
	assert.False(t, ok)
}

func TestFormatTimeHelpers(t *testing.T) {
	ts := time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "09/07/2026", FormatTime(ts, "fr-FR"))
	assert.Equal(t, DatePlaceholder, FormatTime(time.Time{}, "fr-FR"))
	assert.Equal(t, DatePlaceholder, FormatTimePtr(nil, "fr-FR"))

	assert.Nil(t, ISOPtr(nil))
	assert.Equal(t, "2026-07-09T00:00:00Z", *ISOPtr(&ts))
}

func TestResolveLocale(t *testing.T) {
	assert.Equal(t, "de-DE", ResolveLocale("de-DE", "en-US"))
	assert.Equal(t, "en-GB", ResolveLocale("xx-YY", "en-GB"))
	assert.Equal(t, "en-GB", ResolveLocale("", "en-GB"))
}
