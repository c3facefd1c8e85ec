package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// policy keeps only the markup the editor can represent: inline spans and
// legacy <font> tags carrying font, size and color, plus line structure.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("span", "font", "br", "p", "div", "b", "i", "u", "strong", "em")
	p.AllowStyles("font-family").MatchingHandler(func(v string) bool {
		_, ok := normalizeFont(v)
		return ok
	}).Globally()
	p.AllowStyles("font-size").MatchingHandler(func(v string) bool {
		_, ok := normalizeSize(v)
		return ok
	}).Globally()
	p.AllowStyles("color").MatchingHandler(func(v string) bool {
		_, ok := normalizeColor(v)
		return ok
	}).Globally()
	p.AllowAttrs("face").OnElements("font")
	p.AllowAttrs("size").Matching(regexp.MustCompile(`^[1-7]$`)).OnElements("font")
	p.AllowAttrs("color").Matching(regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)).OnElements("font")
	return p
}

// Markup serializes the document as inline-styled spans with <br> line breaks.
func (d *Document) Markup() string {
	var b strings.Builder
	for _, r := range d.runs {
		fmt.Fprintf(&b, `<span style="%s">`, html.EscapeString(r.Style.css()))
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("</span>")
	}
	return b.String()
}

// SetMarkup replaces the document with the content of markup. Anything the
// sanitizer rejects is dropped before parsing.
func (d *Document) SetMarkup(markup string) error {
	runs, err := ParseMarkup(markup)
	if err != nil {
		return err
	}
	d.runs = runs
	return nil
}

func ParseMarkup(markup string) ([]Run, error) {
	clean := policy.Sanitize(markup)
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(clean), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	// Re-parent the fragment so top-level nodes see their siblings.
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	w := &walker{}
	w.walk(root, DefaultStyle)
	return normalize(w.runs), nil
}

// walker renders nodes the way the editor displays them: blocks sit on their
// own lines and indentation whitespace between blocks is not text.
type walker struct {
	runs []Run
	// A line break owed before the next text, set at block boundaries.
	pendingBreak bool
}

func (w *walker) endsWithNewline() bool {
	if len(w.runs) == 0 {
		return true
	}
	return strings.HasSuffix(w.runs[len(w.runs)-1].Text, "\n")
}

func (w *walker) text(s string, style Style) {
	if s == "" {
		return
	}
	if w.pendingBreak {
		w.runs = append(w.runs, Run{Text: "\n", Style: style})
		w.pendingBreak = false
	}
	w.runs = append(w.runs, Run{Text: s, Style: style})
}

func (w *walker) breakLine() {
	if !w.endsWithNewline() {
		w.pendingBreak = true
	}
}

func isBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Div)
}

// betweenBlocks reports whether a text node sits directly inside a block with
// only blocks or container edges on either side.
func betweenBlocks(n *html.Node) bool {
	if !isBlock(n.Parent) {
		return false
	}
	return (n.PrevSibling == nil || isBlock(n.PrevSibling)) &&
		(n.NextSibling == nil || isBlock(n.NextSibling))
}

func (w *walker) walk(n *html.Node, style Style) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" && betweenBlocks(n) {
			return
		}
		w.text(n.Data, style)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			w.text("\n", style)
			return
		case atom.Font:
			for _, a := range n.Attr {
				switch a.Key {
				case "face":
					if f, ok := normalizeFont(a.Val); ok {
						style.FontFamily = f
					}
				case "size":
					if size, ok := normalizeSize(a.Val); ok {
						style.FontSize = size
					}
				case "color":
					if c, ok := normalizeColor(a.Val); ok {
						style.Color = c
					}
				}
			}
		}
		for _, a := range n.Attr {
			if a.Key == "style" {
				style = style.withCSS(a.Val)
			}
		}
	}
	block := isBlock(n)
	if block {
		w.breakLine()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, style)
	}
	if block {
		w.breakLine()
	}
}
