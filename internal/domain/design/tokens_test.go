package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetNormalize(t *testing.T) {
	def := DefaultTokenSet()

	tests := []struct {
		name     string
		input    TokenSet
		expected TokenSet
	}{
		{
			name:     "zero value gets all defaults",
			input:    TokenSet{},
			expected: def,
		},
		{
			name: "valid fields survive",
			input: TokenSet{
				FontFamily:     FontFamilyInter,
				BaseTextSize:   TextSizeLG,
				AccentColorHex: "#ff0000",
				SpacingScale:   SpacingCompact,
				BorderStyle:    BorderStrong,
				LogoPosition:   LogoTop,
				PageSize:       PageSizeLetter,
			},
			expected: TokenSet{
				FontFamily:     FontFamilyInter,
				BaseTextSize:   TextSizeLG,
				AccentColorHex: "#ff0000",
				SpacingScale:   SpacingCompact,
				BorderStyle:    BorderStrong,
				LogoPosition:   LogoTop,
				PageSize:       PageSizeLetter,
			},
		},
		{
			name: "invalid fields replaced individually",
			input: TokenSet{
				FontFamily:     FontFamily("comic-sans"),
				BaseTextSize:   TextSizeSM,
				AccentColorHex: "red",
				SpacingScale:   SpacingComfortable,
				BorderStyle:    BorderStyle("dashed"),
				LogoPosition:   LogoRight,
				PageSize:       PageSize("A5"),
			},
			expected: TokenSet{
				FontFamily:     def.FontFamily,
				BaseTextSize:   TextSizeSM,
				AccentColorHex: def.AccentColorHex,
				SpacingScale:   SpacingComfortable,
				BorderStyle:    def.BorderStyle,
				LogoPosition:   LogoRight,
				PageSize:       def.PageSize,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Normalize())
		})
	}
}

func TestTokenPatchApply(t *testing.T) {
	base := DefaultTokenSet()

	t.Run("nil patch returns base unchanged", func(t *testing.T) {
		var patch *TokenPatch
		assert.Equal(t, base, patch.Apply(base))
	})

	t.Run("single key override does not widen", func(t *testing.T) {
		accent := "#ff0000"
		patch := &TokenPatch{AccentColorHex: &accent}

		merged := patch.Apply(base)

		assert.Equal(t, accent, merged.AccentColorHex)
		assert.Equal(t, base.FontFamily, merged.FontFamily)
		assert.Equal(t, base.BaseTextSize, merged.BaseTextSize)
		assert.Equal(t, base.SpacingScale, merged.SpacingScale)
		assert.Equal(t, base.BorderStyle, merged.BorderStyle)
		assert.Equal(t, base.LogoPosition, merged.LogoPosition)
		assert.Equal(t, base.PageSize, merged.PageSize)
	})

	t.Run("apply is idempotent", func(t *testing.T) {
		size := TextSizeLG
		patch := &TokenPatch{BaseTextSize: &size}

		once := patch.Apply(base)
		twice := patch.Apply(once)

		assert.Equal(t, once, twice)
	})

	t.Run("apply does not mutate base", func(t *testing.T) {
		family := FontFamilyGeist
		patch := &TokenPatch{FontFamily: &family}

		_ = patch.Apply(base)

		assert.Equal(t, DefaultTokenSet(), base)
	})
}

func TestVisibilityPatchApply(t *testing.T) {
	base := DefaultSectionVisibility()

	t.Run("single flag override does not widen", func(t *testing.T) {
		hidden := false
		patch := &VisibilityPatch{TaxRow: &hidden}

		merged := patch.Apply(base)

		assert.False(t, merged.TaxRow)
		assert.True(t, merged.CompanyDetails)
		assert.True(t, merged.ClientDetails)
		assert.True(t, merged.Notes)
		assert.True(t, merged.Terms)
		assert.True(t, merged.PaymentDetails)
		assert.True(t, merged.DiscountRow)
		assert.True(t, merged.Footer)
	})

	t.Run("nil patch returns base", func(t *testing.T) {
		var patch *VisibilityPatch
		assert.Equal(t, base, patch.Apply(base))
	})
}

func TestIsHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#ffffff", true},
		{"#FFF", true},
		{"#1a2B3c", true},
		{"ffffff", false},
		{"#ffff", false},
		{"#gggggg", false},
		{"", false},
		{"red", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsHexColor(tt.input))
		})
	}
}

func TestFontWeightNumeric(t *testing.T) {
	assert.Equal(t, 400, WeightNormal.Numeric())
	assert.Equal(t, 500, WeightMedium.Numeric())
	assert.Equal(t, 600, WeightSemibold.Numeric())
	assert.Equal(t, 700, WeightBold.Numeric())
	// Unknown weights fall back to normal rather than failing a render.
	assert.Equal(t, 400, FontWeight("Heavy").Numeric())
}
