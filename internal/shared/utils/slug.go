package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugSeparators = regexp.MustCompile(`[\s-]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes     = regexp.MustCompile(`-+`)

	// letters that do not decompose into base + combining mark
	strokeLetters = strings.NewReplacer("đ", "d", "Đ", "D", "ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "ß", "ss")
)

// GenerateSlug turns a title into a URL slug:
// "Căn hộ  Riverside -- 3PN!" -> "can-ho-riverside-3pn"
func GenerateSlug(input string) string {
	s := strings.ToLower(RemoveDiacritics(input))
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugWithSuffix returns slug for n <= 1 and slug-n otherwise.
func SlugWithSuffix(slug string, n int) string {
	if n <= 1 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n)
}

// RemoveDiacritics strips combining marks: "Nguyễn Ánh" -> "Nguyen Anh".
func RemoveDiacritics(input string) string {
	input = strokeLetters.Replace(input)

	// transform.Chain is stateful, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}
