package csvutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"space before quote", `a, "b,c",d`, []string{"a", "b,c", "d"}},
		{"doubled quote", `"He said ""hi""",x`, []string{`He said "hi"`, "x"}},
		{"trailing empty", "a,b,", []string{"a", "b", ""}},
		{"blank", "", []string{""}},
		{"crlf", "a,b\r\n", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestFit(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, Fit([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, Fit([]string{"a", "b", "c"}, 2))
	assert.Empty(t, Fit([]string{"a"}, 0))
}

func TestReadAll(t *testing.T) {
	src := "\xEF\xBB\xBFName, Phone ,Property Interest\r\n" +
		"Jane,0901,\"Villa, District 2\"\r\n" +
		"\r\n" +
		",,\r\n" +
		"John,0902\r\n"

	table, err := ReadAll(strings.NewReader(src), "name", "phone")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "phone", "property_interest"}, table.Columns)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Jane", table.Get(first, "name"))
	assert.Equal(t, "Villa, District 2", table.Get(first, "property_interest"))

	second := table.Rows[1]
	assert.Equal(t, 5, second.Line)
	assert.Len(t, second.Fields, 3)
	assert.Equal(t, "", table.Get(second, "property_interest"))
	assert.Equal(t, "", table.Get(second, "unknown"))
}

func TestReadAll_MissingColumns(t *testing.T) {
	_, err := ReadAll(strings.NewReader("name,email\nJane,j@x.io\n"), "name", "phone")

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"phone"}, missing.Columns)
}

func TestReadAll_Empty(t *testing.T) {
	_, err := ReadAll(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestEscapeField(t *testing.T) {
	assert.Equal(t, "plain", EscapeField("plain"))
	assert.Equal(t, `"a,b"`, EscapeField("a,b"))
	assert.Equal(t, `"say ""hi"""`, EscapeField(`say "hi"`))
	assert.Equal(t, "\"line\nbreak\"", EscapeField("line\nbreak"))
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteAll([][]string{
		{"name", "notes"},
		{"Jane", `likes "sea view", 3br`},
	}))

	assert.Equal(t, "name,notes\r\nJane,\"likes \"\"sea view\"\", 3br\"\r\n", buf.String())

	table, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, `likes "sea view", 3br`, table.Get(table.Rows[0], "notes"))
}
