// Package editor holds the editable document: a sequence of styled text runs
// addressed by rune offsets into the document's plain text.
package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSelectionOutside = errors.New("selection is outside the document")
	ErrNoSelection      = errors.New("selection is empty")
)

type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Range is a half-open span of rune offsets into the plain text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Empty() bool { return r.Start == r.End }

// Document is not safe for concurrent use.
type Document struct {
	runs []Run
}

func NewDocument(text string) *Document {
	return &Document{runs: normalize([]Run{{Text: text, Style: DefaultStyle}})}
}

func (d *Document) Runs() []Run {
	out := make([]Run, len(d.runs))
	copy(out, d.runs)
	return out
}

// Len returns the length of the plain text in runes.
func (d *Document) Len() int {
	n := 0
	for _, r := range d.runs {
		n += len([]rune(r.Text))
	}
	return n
}

func (d *Document) PlainText() string {
	var b strings.Builder
	for _, r := range d.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (d *Document) SetText(text string) {
	d.runs = normalize([]Run{{Text: text, Style: DefaultStyle}})
}

func (d *Document) check(rg Range) error {
	if rg.Start < 0 || rg.End < rg.Start || rg.End > d.Len() {
		return fmt.Errorf("%w: [%d,%d) of %d", ErrSelectionOutside, rg.Start, rg.End, d.Len())
	}
	return nil
}

// Selected returns the text covered by rg. A range that covers only
// whitespace reports ErrNoSelection.
func (d *Document) Selected(rg Range) (string, error) {
	if err := d.check(rg); err != nil {
		return "", err
	}
	_, mid, _ := cut(d.runs, rg.Start, rg.End)
	var b strings.Builder
	for _, r := range mid {
		b.WriteString(r.Text)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSelection
	}
	return text, nil
}

// ApplyStyle sets one style property on every character in rg.
func (d *Document) ApplyStyle(rg Range, command, value string) error {
	set, err := styler(command, value)
	if err != nil {
		return err
	}
	if err := d.check(rg); err != nil {
		return err
	}
	if rg.Empty() {
		return nil
	}
	before, mid, after := cut(d.runs, rg.Start, rg.End)
	for i := range mid {
		mid[i].Style = set(mid[i].Style)
	}
	d.runs = normalize(concat(before, mid, after))
	return nil
}

// Replace swaps the text in rg for text and returns the collapsed selection
// at the end of the inserted text. The inserted text takes the style of the
// first replaced character. The document is only modified once the new run
// list is fully built.
func (d *Document) Replace(rg Range, text string) (Range, error) {
	if err := d.check(rg); err != nil {
		return rg, err
	}
	style := d.styleAt(rg.Start)
	before, _, after := cut(d.runs, rg.Start, rg.End)
	next := normalize(concat(before, []Run{{Text: text, Style: style}}, after))

	d.runs = next
	end := rg.Start + len([]rune(text))
	return Range{Start: end, End: end}, nil
}

// styleAt returns the style of the character at offset, or of the last
// character when offset is at the end.
func (d *Document) styleAt(offset int) Style {
	pos := 0
	last := DefaultStyle
	for _, r := range d.runs {
		n := len([]rune(r.Text))
		if offset < pos+n {
			return r.Style
		}
		pos += n
		last = r.Style
	}
	return last
}

// cut splits runs at start and end. The returned slices share no backing
// storage with runs.
func cut(runs []Run, start, end int) (before, mid, after []Run) {
	pos := 0
	for _, r := range runs {
		rs := []rune(r.Text)
		lo, hi := pos, pos+len(rs)
		if lo < start {
			before = append(before, Run{Text: string(rs[:min(hi, start)-lo]), Style: r.Style})
		}
		if s, e := max(lo, start), min(hi, end); s < e {
			mid = append(mid, Run{Text: string(rs[s-lo : e-lo]), Style: r.Style})
		}
		if hi > end {
			after = append(after, Run{Text: string(rs[max(lo, end)-lo:]), Style: r.Style})
		}
		pos = hi
	}
	return before, mid, after
}

func concat(parts ...[]Run) []Run {
	var out []Run
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// normalize drops empty runs and merges neighbours with equal style.
func normalize(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
