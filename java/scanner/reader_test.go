package scanner

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src string) ([]Line, *Reader) {
	t.Helper()
	r := NewReader(strings.NewReader(src))
	var lines []Line
	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			return lines, r
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestReaderScrubSingleLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "public class A {", "public class A {"},
		{"line comment", "int x; // trailing {", "int x; "},
		{"line comment at start", "// class Foo {", ""},
		{"block comment", "a /* b { */ c", "a  c"},
		{"two block comments", "/* x */a/* y */b", "ab"},
		{"string literal", `String s = "{";`, "String s = ;"},
		{"char literal", "char c = '}';", "char c = ;"},
		{"line comment inside string", `url = "http://x"; y`, "url = ; y"},
		{"block open inside string", `s = "/*"; t`, "s = ; t"},
		{"quote inside char", `c = '"'; d`, "c = ; d"},
		{"comment after literal", `f("a"); // done`, "f(); "},
		{"self overlapping open", "/*/ x */ y", " y"},
		{"empty block comment", "a/**/b", "ab"},
		{"unterminated literal kept", `s = "abc`, `s = "abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, r := readAll(t, tt.input)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Text)
			assert.Equal(t, 1, lines[0].Number)
			assert.False(t, r.InComment())
		})
	}
}

func TestReaderLineCommentTruncates(t *testing.T) {
	inputs := []string{
		"class A {} // class B {}",
		"x = 1;//y",
		"   //",
	}
	for _, input := range inputs {
		lines, _ := readAll(t, input)
		require.Len(t, lines, 1)
		assert.Equal(t, input[:strings.Index(input, "//")], lines[0].Text)
	}
}

func TestReaderBlockCommentAcrossLines(t *testing.T) {
	src := strings.Join([]string{
		"a /* start {",
		"class Hidden {",
		"end } */ b",
		"c",
	}, "\n")

	r := NewReader(strings.NewReader(src))

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a ", line.Text)
	assert.True(t, r.InComment())

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "", line.Text)
	assert.True(t, r.InComment())

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, " b", line.Text)
	assert.False(t, r.InComment())

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", line.Text)
	assert.Equal(t, 4, line.Number)
	assert.Equal(t, 4, r.LineNumber())

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderCloseThenLineComment(t *testing.T) {
	src := "/* doc {\n * more } */ public class A { // trailing\n"
	lines, r := readAll(t, src)
	require.Len(t, lines, 2)
	assert.Equal(t, "", lines[0].Text)
	assert.Equal(t, " public class A { ", lines[1].Text)
	assert.False(t, r.InComment())
}

func TestReaderUnterminatedBlockComment(t *testing.T) {
	lines, r := readAll(t, "keep /* never closed\nclass A {\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "keep ", lines[0].Text)
	assert.Equal(t, "", lines[1].Text)
	assert.True(t, r.InComment())
}

func TestReaderStripsCarriageReturn(t *testing.T) {
	lines, _ := readAll(t, "class A {\r\n}\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "class A {", lines[0].Text)
	assert.Equal(t, "}", lines[1].Text)
}

func TestReaderDropsOversizedLine(t *testing.T) {
	r := NewReader(strings.NewReader("short\n" + strings.Repeat("x", 40) + "\nafter\n"))
	r.maxLine = 16

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "short", line.Text)

	line, err = r.Next()
	require.NoError(t, err)
	assert.True(t, line.Dropped)
	assert.Equal(t, "", line.Text)
	assert.Equal(t, 2, line.Number)

	line, err = r.Next()
	require.NoError(t, err)
	assert.False(t, line.Dropped)
	assert.Equal(t, "after", line.Text)
	assert.Equal(t, 3, line.Number)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}
