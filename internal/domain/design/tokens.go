package design

import "regexp"

// FontFamily selects the typeface family for the whole document
type FontFamily string

const (
	FontFamilySystem FontFamily = "system"
	FontFamilyGeist  FontFamily = "geist"
	FontFamilyInter  FontFamily = "inter"
)

// IsValid checks if the FontFamily is a valid value
func (f FontFamily) IsValid() bool {
	switch f {
	case FontFamilySystem, FontFamilyGeist, FontFamilyInter:
		return true
	}
	return false
}

// String returns the string representation of FontFamily
func (f FontFamily) String() string {
	return string(f)
}

// BaseTextSize is the document-wide size scale
type BaseTextSize string

const (
	TextSizeSM BaseTextSize = "sm"
	TextSizeMD BaseTextSize = "md"
	TextSizeLG BaseTextSize = "lg"
)

// IsValid checks if the BaseTextSize is a valid value
func (s BaseTextSize) IsValid() bool {
	switch s {
	case TextSizeSM, TextSizeMD, TextSizeLG:
		return true
	}
	return false
}

// String returns the string representation of BaseTextSize
func (s BaseTextSize) String() string {
	return string(s)
}

// SpacingScale controls vertical rhythm and padding density
type SpacingScale string

const (
	SpacingCompact     SpacingScale = "compact"
	SpacingComfortable SpacingScale = "comfortable"
)

// IsValid checks if the SpacingScale is a valid value
func (s SpacingScale) IsValid() bool {
	return s == SpacingCompact || s == SpacingComfortable
}

// String returns the string representation of SpacingScale
func (s SpacingScale) String() string {
	return string(s)
}

// BorderStyle controls table and section border weight
type BorderStyle string

const (
	BorderNone   BorderStyle = "none"
	BorderSubtle BorderStyle = "subtle"
	BorderStrong BorderStyle = "strong"
)

// IsValid checks if the BorderStyle is a valid value
func (b BorderStyle) IsValid() bool {
	switch b {
	case BorderNone, BorderSubtle, BorderStrong:
		return true
	}
	return false
}

// String returns the string representation of BorderStyle
func (b BorderStyle) String() string {
	return string(b)
}

// LogoPosition places the organization logo in the document header
type LogoPosition string

const (
	LogoLeft  LogoPosition = "left"
	LogoRight LogoPosition = "right"
	LogoTop   LogoPosition = "top"
)

// IsValid checks if the LogoPosition is a valid value
func (l LogoPosition) IsValid() bool {
	switch l {
	case LogoLeft, LogoRight, LogoTop:
		return true
	}
	return false
}

// String returns the string representation of LogoPosition
func (l LogoPosition) String() string {
	return string(l)
}

// PageSize is the physical output page format
type PageSize string

const (
	PageSizeA4     PageSize = "A4"     // 210mm x 297mm
	PageSizeLetter PageSize = "Letter" // 215.9mm x 279.4mm
)

// IsValid checks if the PageSize is a valid value
func (p PageSize) IsValid() bool {
	return p == PageSizeA4 || p == PageSizeLetter
}

// String returns the string representation of PageSize
func (p PageSize) String() string {
	return string(p)
}

// Dimensions returns the page dimensions in millimeters (width, height)
func (p PageSize) Dimensions() (width, height float64) {
	switch p {
	case PageSizeLetter:
		return 215.9, 279.4
	default:
		return 210, 297
	}
}

// TokenSet is the page-level visual configuration of an invoice.
// It is an immutable value object: edits produce a new TokenSet, one
// instance is never mutated across a render boundary.
type TokenSet struct {
	FontFamily     FontFamily   `json:"fontFamily"`
	BaseTextSize   BaseTextSize `json:"baseTextSize"`
	AccentColorHex string       `json:"accentColorHex"`
	SpacingScale   SpacingScale `json:"spacingScale"`
	BorderStyle    BorderStyle  `json:"borderStyle"`
	LogoPosition   LogoPosition `json:"logoPosition"`
	PageSize       PageSize     `json:"pageSize"`
}

// DefaultTokenSet returns the baseline page configuration
func DefaultTokenSet() TokenSet {
	return TokenSet{
		FontFamily:     FontFamilySystem,
		BaseTextSize:   TextSizeMD,
		AccentColorHex: "#1f2937",
		SpacingScale:   SpacingComfortable,
		BorderStyle:    BorderSubtle,
		LogoPosition:   LogoLeft,
		PageSize:       PageSizeA4,
	}
}

// Normalize returns a copy with every invalid or zero field replaced by
// its default, so a resolved token set never carries a missing value.
func (t TokenSet) Normalize() TokenSet {
	def := DefaultTokenSet()
	if !t.FontFamily.IsValid() {
		t.FontFamily = def.FontFamily
	}
	if !t.BaseTextSize.IsValid() {
		t.BaseTextSize = def.BaseTextSize
	}
	if !IsHexColor(t.AccentColorHex) {
		t.AccentColorHex = def.AccentColorHex
	}
	if !t.SpacingScale.IsValid() {
		t.SpacingScale = def.SpacingScale
	}
	if !t.BorderStyle.IsValid() {
		t.BorderStyle = def.BorderStyle
	}
	if !t.LogoPosition.IsValid() {
		t.LogoPosition = def.LogoPosition
	}
	if !t.PageSize.IsValid() {
		t.PageSize = def.PageSize
	}
	return t
}

// TokenPatch is a partial TokenSet: nil fields fall through to the base
// template's defaults when the patch is applied.
type TokenPatch struct {
	FontFamily     *FontFamily   `json:"fontFamily,omitempty"`
	BaseTextSize   *BaseTextSize `json:"baseTextSize,omitempty"`
	AccentColorHex *string       `json:"accentColorHex,omitempty"`
	SpacingScale   *SpacingScale `json:"spacingScale,omitempty"`
	BorderStyle    *BorderStyle  `json:"borderStyle,omitempty"`
	LogoPosition   *LogoPosition `json:"logoPosition,omitempty"`
	PageSize       *PageSize     `json:"pageSize,omitempty"`
}

// Apply overlays the patch onto base, present keys win, absent keys fall
// through. The merge touches only the keys the patch names.
func (p *TokenPatch) Apply(base TokenSet) TokenSet {
	if p == nil {
		return base
	}
	if p.FontFamily != nil {
		base.FontFamily = *p.FontFamily
	}
	if p.BaseTextSize != nil {
		base.BaseTextSize = *p.BaseTextSize
	}
	if p.AccentColorHex != nil {
		base.AccentColorHex = *p.AccentColorHex
	}
	if p.SpacingScale != nil {
		base.SpacingScale = *p.SpacingScale
	}
	if p.BorderStyle != nil {
		base.BorderStyle = *p.BorderStyle
	}
	if p.LogoPosition != nil {
		base.LogoPosition = *p.LogoPosition
	}
	if p.PageSize != nil {
		base.PageSize = *p.PageSize
	}
	return base
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a CSS hex color (#rgb or #rrggbb)
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
