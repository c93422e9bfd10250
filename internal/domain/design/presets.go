package design

// Built-in preset identifiers. Presets are compiled in and resolved by
// name; a preset id is never persisted as a template foreign key.
const (
	PresetClassic = "classic"
	PresetModern  = "modern"
	PresetCompact = "compact"
)

// Preset is a built-in, read-only template definition
type Preset struct {
	ID         string
	Name       string
	Tokens     TokenSet
	Visibility SectionVisibility
	Table      TableSettings
}

var builtinPresets = map[string]Preset{
	PresetClassic: {
		ID:         PresetClassic,
		Name:       "Classic",
		Tokens:     DefaultTokenSet(),
		Visibility: DefaultSectionVisibility(),
		Table:      DefaultTableSettings(),
	},
	PresetModern: {
		ID:   PresetModern,
		Name: "Modern",
		Tokens: TokenSet{
			FontFamily:     FontFamilyInter,
			BaseTextSize:   TextSizeMD,
			AccentColorHex: "#2563eb",
			SpacingScale:   SpacingComfortable,
			BorderStyle:    BorderNone,
			LogoPosition:   LogoRight,
			PageSize:       PageSizeA4,
		},
		Visibility: DefaultSectionVisibility(),
		Table:      DefaultTableSettings(),
	},
	PresetCompact: {
		ID:   PresetCompact,
		Name: "Compact",
		Tokens: TokenSet{
			FontFamily:     FontFamilyGeist,
			BaseTextSize:   TextSizeSM,
			AccentColorHex: "#111827",
			SpacingScale:   SpacingCompact,
			BorderStyle:    BorderStrong,
			LogoPosition:   LogoTop,
			PageSize:       PageSizeA4,
		},
		Visibility: SectionVisibility{
			CompanyDetails: true,
			ClientDetails:  true,
			Notes:          false,
			Terms:          false,
			PaymentDetails: true,
			TaxRow:         true,
			DiscountRow:    true,
			Footer:         false,
		},
		Table: DefaultTableSettings(),
	},
}

// PresetByID looks up a built-in preset by id
func PresetByID(id string) (Preset, bool) {
	p, ok := builtinPresets[id]
	return p, ok
}

// IsPresetID reports whether id names a built-in preset
func IsPresetID(id string) bool {
	_, ok := builtinPresets[id]
	return ok
}

// AllPresets returns the built-in presets in a stable order
func AllPresets() []Preset {
	return []Preset{
		builtinPresets[PresetClassic],
		builtinPresets[PresetModern],
		builtinPresets[PresetCompact],
	}
}
