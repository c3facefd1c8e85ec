// Package export lays the document's plain text out on fixed-width pages and
// renders it as a PDF. Styling is not carried over.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

const (
	Filename    = "symphony-of-silence.pdf"
	ContentType = "application/pdf"

	// FontFamily is the embedded UTF-8 font every export is set in.
	FontFamily = "GoRegular"
)

// ErrUnsupportedText is returned when the text holds characters the embedded
// font has no glyph for.
var ErrUnsupportedText = errors.New("text contains characters the export font cannot draw")

var face = mustParseFace()

func mustParseFace() *sfnt.Font {
	f, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("export: parse embedded font: %v", err))
	}
	return f
}

type Options struct {
	PageSize   string
	Margin     float64
	Top        float64
	Bottom     float64
	FontSize   float64
	LineHeight float64
	// Compress deflates page content streams.
	Compress bool
}

func DefaultOptions() Options {
	return Options{
		PageSize:   "A4",
		Margin:     40,
		Top:        60,
		Bottom:     40,
		FontSize:   12,
		LineHeight: 12 * 1.15,
		Compress:   true,
	}
}

type layout struct {
	pdf      *fpdf.Fpdf
	opts     Options
	maxWidth float64
	perPage  int
}

func newLayout(opts Options) *layout {
	pdf := fpdf.New("P", "pt", opts.PageSize, "")
	pdf.SetMargins(opts.Margin, opts.Top, opts.Margin)
	pdf.SetAutoPageBreak(false, opts.Bottom)
	pdf.SetCompression(opts.Compress)
	pdf.AddUTF8FontFromBytes(FontFamily, "", goregular.TTF)
	pdf.SetFont(FontFamily, "", opts.FontSize)

	w, h := pdf.GetPageSize()
	perPage := int(math.Floor((h-opts.Bottom-opts.Top)/opts.LineHeight)) + 1
	return &layout{
		pdf:      pdf,
		opts:     opts,
		maxWidth: w - 2*opts.Margin,
		perPage:  max(perPage, 1),
	}
}

func (l *layout) width(s string) float64 {
	return l.pdf.GetStringWidth(s)
}

// missingGlyphs returns the distinct characters of text, in code point order,
// that the embedded font maps to the notdef glyph.
func missingGlyphs(text string) []rune {
	var buf sfnt.Buffer
	seen := map[rune]bool{}
	var missing []rune
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) || seen[r] {
			continue
		}
		seen[r] = true
		idx, err := face.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			missing = append(missing, r)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// wrap breaks text into lines no wider than the printable width. Paragraph
// breaks are kept, runs of spaces collapse, and words that do not fit on a
// line by themselves are split between characters.
func (l *layout) wrap(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			if line == "" {
				line = l.fitWord(word, &lines)
				continue
			}
			if l.width(line+" "+word) <= l.maxWidth {
				line += " " + word
				continue
			}
			lines = append(lines, line)
			line = l.fitWord(word, &lines)
		}
		lines = append(lines, line)
	}
	return lines
}

// fitWord emits full-width chunks of an oversized word and returns the rest.
func (l *layout) fitWord(word string, lines *[]string) string {
	if l.width(word) <= l.maxWidth {
		return word
	}
	rs := []rune(word)
	start := 0
	for i := 1; i <= len(rs); i++ {
		if l.width(string(rs[start:i])) > l.maxWidth && i-1 > start {
			*lines = append(*lines, string(rs[start:i-1]))
			start = i - 1
		}
	}
	return string(rs[start:])
}

func (l *layout) paginate(lines []string) [][]string {
	pages := [][]string{}
	for len(lines) > l.perPage {
		pages = append(pages, lines[:l.perPage])
		lines = lines[l.perPage:]
	}
	return append(pages, lines)
}

// Wrap returns the word-wrapped lines of text.
func Wrap(text string, opts Options) []string {
	return newLayout(opts).wrap(text)
}

// Layout returns the wrapped lines of text grouped into pages. There is
// always at least one page.
func Layout(text string, opts Options) [][]string {
	l := newLayout(opts)
	return l.paginate(l.wrap(text))
}

// Render writes text to w as a paginated PDF. Text the embedded font cannot
// draw fails with ErrUnsupportedText before anything is written.
func Render(w io.Writer, text string, opts Options) error {
	if missing := missingGlyphs(text); len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrUnsupportedText, string(missing))
	}
	l := newLayout(opts)
	l.pdf.SetTitle("DocsX document", true)
	l.pdf.SetCreator("docsx", true)

	for _, page := range l.paginate(l.wrap(text)) {
		l.pdf.AddPage()
		for i, line := range page {
			l.pdf.Text(opts.Margin, opts.Top+float64(i)*opts.LineHeight, line)
		}
	}
	if err := l.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
