// Package render contains the adapters that turn a resolved design and
// invoice data into output surfaces: HTML/CSS preview markup, a native
// PDF document, and a headless-browser PDF capture.
//
// Style computation lives here once: both the HTML and PDF adapters map
// tokens through the same functions, so visual parity between surfaces
// is a property of the data, not of two parallel implementations.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/invoicestudio/backend/internal/domain/design"
)

// Last-resort render defaults. A missing or malformed token never
// aborts a render; it degrades to these values.
const (
	defaultFontSizePx = 12.0
	defaultTextColor  = "#111827"
)

// ComputedText is the platform-neutral style derived from TextSettings
type ComputedText struct {
	SizePx float64
	Weight int
	Color  string
	Align  design.TextAlign
}

// ComputeText resolves TextSettings into concrete values, applying the
// per-field defaults for anything missing or malformed.
func ComputeText(s design.TextSettings) ComputedText {
	out := ComputedText{
		SizePx: defaultFontSizePx,
		Weight: s.Weight.Numeric(),
		Color:  defaultTextColor,
		Align:  design.AlignLeft,
	}
	if size, err := strconv.ParseFloat(strings.TrimSpace(s.Size), 64); err == nil && size > 0 {
		out.SizePx = size
	}
	if design.IsHexColor(s.Color) {
		out.Color = s.Color
	}
	if s.Align.IsValid() {
		out.Align = s.Align
	}
	return out
}

// CSS returns the inline style declaration for the computed text
func (c ComputedText) CSS() string {
	return fmt.Sprintf("font-size:%gpx;font-weight:%d;color:%s;text-align:%s",
		c.SizePx, c.Weight, c.Color, c.Align)
}

// FontStack maps a font family token to its CSS font stack
func FontStack(f design.FontFamily) string {
	switch f {
	case design.FontFamilyGeist:
		return `"Geist","Geist Fallback",ui-sans-serif,sans-serif`
	case design.FontFamilyInter:
		return `"Inter","Inter Fallback",ui-sans-serif,sans-serif`
	default:
		return `ui-sans-serif,system-ui,-apple-system,"Segoe UI",Roboto,sans-serif`
	}
}

// BaseSizePx maps the document size scale to a body font size
func BaseSizePx(s design.BaseTextSize) float64 {
	switch s {
	case design.TextSizeSM:
		return 11
	case design.TextSizeLG:
		return 14
	default:
		return 12
	}
}

// Spacing holds the paddings derived from the spacing scale, in px
type Spacing struct {
	SectionGap float64
	CellPad    float64
	PagePad    float64
}

// ComputeSpacing maps the spacing token to concrete paddings
func ComputeSpacing(s design.SpacingScale) Spacing {
	if s == design.SpacingCompact {
		return Spacing{SectionGap: 14, CellPad: 6, PagePad: 28}
	}
	return Spacing{SectionGap: 24, CellPad: 10, PagePad: 40}
}

// BorderCSS maps the border token to a CSS border declaration
func BorderCSS(b design.BorderStyle, color string) string {
	if !design.IsHexColor(color) {
		color = "#e5e7eb"
	}
	switch b {
	case design.BorderNone:
		return "none"
	case design.BorderStrong:
		return "2px solid " + color
	default:
		return "1px solid " + color
	}
}

// RGB is a normalized color with channels in [0, 1], the PDF color space
type RGB struct {
	R, G, B float64
}

// ParseHex converts a CSS hex color to normalized RGB. Malformed input
// yields the given fallback rather than an error: render paths must not
// fail on a bad color token.
func ParseHex(hex string, fallback RGB) RGB {
	if !design.IsHexColor(hex) {
		return fallback
	}
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	r, err1 := strconv.ParseUint(h[0:2], 16, 8)
	g, err2 := strconv.ParseUint(h[2:4], 16, 8)
	b, err3 := strconv.ParseUint(h[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return fallback
	}
	return RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// SplitLines breaks a free-text block into its lines for render targets
// that have no native multi-line text primitive. Windows line endings
// are tolerated; blank interior lines are preserved.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}
