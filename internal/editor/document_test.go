package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_PlainTextAndLen(t *testing.T) {
	d := NewDocument("héllo\nworld")
	assert.Equal(t, "héllo\nworld", d.PlainText())
	assert.Equal(t, 11, d.Len())
	assert.Len(t, d.Runs(), 1)
}

func TestDocument_Selected(t *testing.T) {
	d := NewDocument("one two three")

	tests := []struct {
		name    string
		rg      Range
		want    string
		wantErr error
	}{
		{name: "middle word", rg: Range{4, 7}, want: "two"},
		{name: "whole", rg: Range{0, 13}, want: "one two three"},
		{name: "empty", rg: Range{3, 3}, wantErr: ErrNoSelection},
		{name: "whitespace only", rg: Range{3, 4}, wantErr: ErrNoSelection},
		{name: "past end", rg: Range{10, 20}, wantErr: ErrSelectionOutside},
		{name: "negative", rg: Range{-1, 2}, wantErr: ErrSelectionOutside},
		{name: "reversed", rg: Range{5, 2}, wantErr: ErrSelectionOutside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Selected(tt.rg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_ApplyStyle(t *testing.T) {
	d := NewDocument("one two three")

	require.NoError(t, d.ApplyStyle(Range{4, 7}, CommandForeColor, "#DC2626"))
	runs := d.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, "one ", runs[0].Text)
	assert.Equal(t, DefaultStyle, runs[0].Style)
	assert.Equal(t, "two", runs[1].Text)
	assert.Equal(t, "#dc2626", runs[1].Style.Color)
	assert.Equal(t, " three", runs[2].Text)

	// execCommand size codes map onto rem sizes.
	require.NoError(t, d.ApplyStyle(Range{0, 13}, CommandFontSize, "4"))
	for _, r := range d.Runs() {
		assert.Equal(t, "1.2rem", r.Style.FontSize)
	}

	require.NoError(t, d.ApplyStyle(Range{0, 3}, CommandFontName, "Georgia"))
	assert.Equal(t, "Georgia, serif", d.Runs()[0].Style.FontFamily)

	// Styling never changes the text.
	assert.Equal(t, "one two three", d.PlainText())
}

func TestDocument_ApplyStyleErrors(t *testing.T) {
	d := NewDocument("abc")

	require.ErrorIs(t, d.ApplyStyle(Range{0, 1}, "bold", "x"), ErrInvalidStyle)
	require.ErrorIs(t, d.ApplyStyle(Range{0, 1}, CommandForeColor, "#000000"), ErrInvalidStyle)
	require.ErrorIs(t, d.ApplyStyle(Range{0, 1}, CommandFontSize, "7"), ErrInvalidStyle)
	require.ErrorIs(t, d.ApplyStyle(Range{0, 9}, CommandForeColor, "#dc2626"), ErrSelectionOutside)

	require.NoError(t, d.ApplyStyle(Range{1, 1}, CommandForeColor, "#dc2626"))
	assert.Len(t, d.Runs(), 1)
}

func TestDocument_ReplaceKeepsSurroundings(t *testing.T) {
	d := NewDocument("The quick brown fox")
	require.NoError(t, d.ApplyStyle(Range{4, 9}, CommandForeColor, "#3b82f6"))

	sel, err := d.Replace(Range{4, 9}, "speedy")
	require.NoError(t, err)

	assert.Equal(t, "The speedy brown fox", d.PlainText())
	assert.Equal(t, Range{10, 10}, sel)

	runs := d.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, "speedy", runs[1].Text)
	assert.Equal(t, "#3b82f6", runs[1].Style.Color)
}

func TestDocument_ReplaceAcrossRuns(t *testing.T) {
	d := NewDocument("aaabbbccc")
	require.NoError(t, d.ApplyStyle(Range{3, 6}, CommandForeColor, "#22c55e"))

	sel, err := d.Replace(Range{2, 7}, "XY")
	require.NoError(t, err)
	assert.Equal(t, "aaXYcc", d.PlainText())
	assert.Equal(t, Range{4, 4}, sel)

	// Takes the style of the first replaced character, which is unstyled.
	assert.Len(t, d.Runs(), 1)
}

func TestDocument_ReplaceOutsideLeavesDocument(t *testing.T) {
	d := NewDocument("abc")
	_, err := d.Replace(Range{1, 5}, "zzz")
	require.ErrorIs(t, err, ErrSelectionOutside)
	assert.Equal(t, "abc", d.PlainText())
}

func TestDocument_ReplaceAtEndInheritsLastStyle(t *testing.T) {
	d := NewDocument("abc")
	require.NoError(t, d.ApplyStyle(Range{2, 3}, CommandForeColor, "#dc2626"))

	_, err := d.Replace(Range{3, 3}, "d")
	require.NoError(t, err)
	runs := d.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "cd", runs[1].Text)
}

func TestDocument_SetTextDropsStyling(t *testing.T) {
	d := NewDocument("abc")
	require.NoError(t, d.ApplyStyle(Range{0, 1}, CommandForeColor, "#dc2626"))

	d.SetText("fresh")
	require.Len(t, d.Runs(), 1)
	assert.Equal(t, Run{Text: "fresh", Style: DefaultStyle}, d.Runs()[0])

	d.SetText("")
	assert.Empty(t, d.Runs())
	assert.Equal(t, 0, d.Len())
}
