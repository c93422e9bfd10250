package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invoicestudio/backend/internal/domain/design"
)

func TestComputeText(t *testing.T) {
	tests := []struct {
		name     string
		settings design.TextSettings
		expected ComputedText
	}{
		{
			name: "valid settings",
			settings: design.TextSettings{
				Align:  design.AlignRight,
				Size:   "14",
				Weight: design.WeightBold,
				Color:  "#ff0000",
			},
			expected: ComputedText{SizePx: 14, Weight: 700, Color: "#ff0000", Align: design.AlignRight},
		},
		{
			name:     "empty settings fall back to defaults",
			settings: design.TextSettings{},
			expected: ComputedText{SizePx: 12, Weight: 400, Color: "#111827", Align: design.AlignLeft},
		},
		{
			name: "malformed size and color fall back",
			settings: design.TextSettings{
				Align:  design.AlignCenter,
				Size:   "big",
				Weight: design.WeightMedium,
				Color:  "red",
			},
			expected: ComputedText{SizePx: 12, Weight: 500, Color: "#111827", Align: design.AlignCenter},
		},
		{
			name: "fractional size",
			settings: design.TextSettings{
				Size: "10.5",
			},
			expected: ComputedText{SizePx: 10.5, Weight: 400, Color: "#111827", Align: design.AlignLeft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeText(tt.settings))
		})
	}
}

func TestParseHex(t *testing.T) {
	fallback := RGB{R: 0.5, G: 0.5, B: 0.5}

	tests := []struct {
		name     string
		hex      string
		expected RGB
	}{
		{"six digit white", "#ffffff", RGB{R: 1, G: 1, B: 1}},
		{"six digit black", "#000000", RGB{R: 0, G: 0, B: 0}},
		{"three digit expands", "#f00", RGB{R: 1, G: 0, B: 0}},
		{"missing hash falls back", "ffffff", fallback},
		{"garbage falls back", "#zzzzzz", fallback},
		{"empty falls back", "", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseHex(tt.hex, fallback))
		})
	}
}

func TestBorderCSS(t *testing.T) {
	assert.Equal(t, "none", BorderCSS(design.BorderNone, "#e5e7eb"))
	assert.Equal(t, "1px solid #e5e7eb", BorderCSS(design.BorderSubtle, "#e5e7eb"))
	assert.Equal(t, "2px solid #111827", BorderCSS(design.BorderStrong, "#111827"))
	assert.Equal(t, "1px solid #e5e7eb", BorderCSS(design.BorderSubtle, "not-a-color"))
}

func TestComputeSpacing(t *testing.T) {
	compact := ComputeSpacing(design.SpacingCompact)
	comfortable := ComputeSpacing(design.SpacingComfortable)
	assert.Less(t, compact.SectionGap, comfortable.SectionGap)
	assert.Less(t, compact.CellPad, comfortable.CellPad)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"one"}, SplitLines("one"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitLines("a\nb\nc"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}
