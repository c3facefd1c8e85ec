package editor

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidStyle = errors.New("invalid style")

type Style struct {
	FontFamily string `json:"font_family"`
	FontSize   string `json:"font_size"`
	Color      string `json:"color"`
}

var DefaultStyle = Style{
	FontFamily: "Inter, sans-serif",
	FontSize:   "1rem",
	Color:      "#1f2937",
}

// Option lists offered by the toolbar.
var (
	Fonts = []string{
		"Inter, sans-serif",
		"Georgia, serif",
		"Arial, sans-serif",
		"Courier New, monospace",
	}
	Sizes  = []string{"0.8rem", "1rem", "1.2rem", "1.5rem"}
	Colors = []string{"#1f2937", "#dc2626", "#22c55e", "#3b82f6"}
)

// execCommand fontSize uses 1-7; only the codes the toolbar emits are mapped.
var sizeCodes = map[string]string{
	"2": "0.8rem",
	"3": "1rem",
	"4": "1.2rem",
	"5": "1.5rem",
}

const (
	CommandFontName  = "fontName"
	CommandFontSize  = "fontSize"
	CommandForeColor = "foreColor"
)

func normalizeFont(v string) (string, bool) {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	joined := strings.Join(parts, ", ")
	for _, f := range Fonts {
		if strings.EqualFold(f, joined) {
			return f, true
		}
	}
	// A bare family name such as "Georgia" picks the matching option.
	for _, f := range Fonts {
		if strings.EqualFold(strings.SplitN(f, ",", 2)[0], parts[0]) {
			return f, true
		}
	}
	return "", false
}

func normalizeSize(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if rem, ok := sizeCodes[v]; ok {
		return rem, true
	}
	for _, s := range Sizes {
		if s == v {
			return s, true
		}
	}
	return "", false
}

func normalizeColor(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, c := range Colors {
		if c == v {
			return c, true
		}
	}
	return "", false
}

// styler returns a function that sets one style property, validating the value.
func styler(command, value string) (func(Style) Style, error) {
	switch command {
	case CommandFontName:
		f, ok := normalizeFont(value)
		if !ok {
			return nil, fmt.Errorf("%w: unknown font %q", ErrInvalidStyle, value)
		}
		return func(s Style) Style { s.FontFamily = f; return s }, nil
	case CommandFontSize:
		size, ok := normalizeSize(value)
		if !ok {
			return nil, fmt.Errorf("%w: unknown size %q", ErrInvalidStyle, value)
		}
		return func(s Style) Style { s.FontSize = size; return s }, nil
	case CommandForeColor:
		c, ok := normalizeColor(value)
		if !ok {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidStyle, value)
		}
		return func(s Style) Style { s.Color = c; return s }, nil
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidStyle, command)
	}
}

func (s Style) css() string {
	return fmt.Sprintf("font-family: %s; font-size: %s; color: %s", s.FontFamily, s.FontSize, s.Color)
}

// withCSS applies the recognised declarations of a style attribute on top of s.
// Unrecognised properties and values are ignored.
func (s Style) withCSS(decls string) Style {
	for _, decl := range strings.Split(decls, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(prop)) {
		case "font-family":
			if f, ok := normalizeFont(val); ok {
				s.FontFamily = f
			}
		case "font-size":
			if size, ok := normalizeSize(val); ok {
				s.FontSize = size
			}
		case "color":
			if c, ok := normalizeColor(val); ok {
				s.Color = c
			}
		}
	}
	return s
}
