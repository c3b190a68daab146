package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Rock & Roll: 2026 Edition!", "rock-roll-2026-edition"},
		{"multiple---hyphens -- here", "multiple-hyphens-here"},
		{"Căn hộ Riverside 3PN", "can-ho-riverside-3pn"},
		{"Đường Nguyễn Huệ", "duong-nguyen-hue"},
		{"Café Crème Brûlée", "cafe-creme-brulee"},
		{"tab\tand\nnewline", "tab-and-newline"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestGenerateSlug_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello World", "Căn hộ 3PN", "a--b"} {
		once := GenerateSlug(in)
		assert.Equal(t, once, GenerateSlug(once))
	}
}

func TestSlugWithSuffix(t *testing.T) {
	assert.Equal(t, "post", SlugWithSuffix("post", 1))
	assert.Equal(t, "post-2", SlugWithSuffix("post", 2))
	assert.Equal(t, "post-10", SlugWithSuffix("post", 10))
}
