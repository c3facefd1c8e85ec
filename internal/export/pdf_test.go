package export

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/RichardoC/docsx/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.

Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.`

func flatten(pages [][]string) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p...)
	}
	return out
}

func TestWrap_FitsWidthAndKeepsWords(t *testing.T) {
	opts := DefaultOptions()
	l := newLayout(opts)
	lines := Wrap(sample, opts)

	require.Greater(t, len(lines), 3)
	for _, line := range lines {
		assert.LessOrEqual(t, l.width(line), l.maxWidth, line)
	}
	assert.Equal(t, strings.Fields(sample), strings.Fields(strings.Join(lines, " ")))
	// The blank line between paragraphs survives.
	assert.Contains(t, lines, "")
}

func TestWrap_SplitsOversizedWord(t *testing.T) {
	opts := DefaultOptions()
	l := newLayout(opts)
	word := strings.Repeat("m", 400)

	lines := Wrap(word, opts)
	require.Greater(t, len(lines), 1)
	assert.Equal(t, word, strings.Join(lines, ""))
	for _, line := range lines {
		assert.LessOrEqual(t, l.width(line), l.maxWidth)
	}
}

func TestLayout_ConcatenatesToWrap(t *testing.T) {
	opts := DefaultOptions()
	text := strings.Repeat(sample+"\n", 20)

	pages := Layout(text, opts)
	require.Greater(t, len(pages), 1)
	assert.Equal(t, Wrap(text, opts), flatten(pages))

	perPage := newLayout(opts).perPage
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), perPage)
	}
}

func TestLayout_EmptyTextHasOnePage(t *testing.T) {
	pages := Layout("", DefaultOptions())
	require.Len(t, pages, 1)
}

func TestLayout_IgnoresStyling(t *testing.T) {
	opts := DefaultOptions()
	plain := editor.NewDocument(sample)
	styled := editor.NewDocument(sample)
	require.NoError(t, styled.ApplyStyle(editor.Range{Start: 0, End: 40}, editor.CommandFontSize, "1.5rem"))
	require.NoError(t, styled.ApplyStyle(editor.Range{Start: 10, End: 90}, editor.CommandForeColor, "#dc2626"))

	assert.Equal(t, Layout(plain.PlainText(), opts), Layout(styled.PlainText(), opts))
}

func TestRender_WritesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, strings.Repeat(sample+"\n", 20), DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

// pdfString returns line as it appears in an uncompressed content stream:
// UTF-16BE code units with the PDF string delimiters escaped.
func pdfString(line string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(line)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`).Replace(b.String())
}

func TestRender_DrawsEveryLineVerbatim(t *testing.T) {
	opts := DefaultOptions()
	opts.Compress = false
	text := "Привет мир naïve café — “quotes” (x)\n" + sample

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, text, opts))

	lines := Wrap(text, opts)
	require.Greater(t, len(lines), 2)
	for _, line := range lines {
		if line == "" {
			continue
		}
		assert.Contains(t, buf.String(), "("+pdfString(line)+") Tj", line)
	}
}

func TestRender_RejectsCharactersWithoutGlyphs(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "Привет 你好 мир 你", DefaultOptions())
	require.ErrorIs(t, err, ErrUnsupportedText)
	assert.Contains(t, err.Error(), `"你好"`)
	assert.Zero(t, buf.Len())
}

func TestWrap_CollapsesTabsAndNonBreakingSpaces(t *testing.T) {
	lines := Wrap("a\t\tb\u00a0\u00a0c   d", DefaultOptions())
	assert.Equal(t, []string{"a b c d"}, lines)
}
