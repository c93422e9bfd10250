package design

// TextAlign is the horizontal alignment of a text element
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// IsValid checks if the TextAlign is a valid value
func (a TextAlign) IsValid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// String returns the string representation of TextAlign
func (a TextAlign) String() string {
	return string(a)
}

// FontWeight is a named weight attached to a text element
type FontWeight string

const (
	WeightNormal   FontWeight = "Normal"
	WeightMedium   FontWeight = "Medium"
	WeightSemibold FontWeight = "Semibold"
	WeightBold     FontWeight = "Bold"
)

// IsValid checks if the FontWeight is a valid value
func (w FontWeight) IsValid() bool {
	switch w {
	case WeightNormal, WeightMedium, WeightSemibold, WeightBold:
		return true
	}
	return false
}

// String returns the string representation of FontWeight
func (w FontWeight) String() string {
	return string(w)
}

// Numeric maps the named weight to its CSS numeric weight.
// Every render target derives weights from this one table so the HTML
// preview and the PDF document cannot drift apart.
func (w FontWeight) Numeric() int {
	switch w {
	case WeightMedium:
		return 500
	case WeightSemibold:
		return 600
	case WeightBold:
		return 700
	default:
		return 400
	}
}

// TextSettings is the per-element style attached to every editable text
// node: titles, labels, values, table headers and rows.
type TextSettings struct {
	Align  TextAlign  `json:"align"`
	Size   string     `json:"size"` // font size in px, string-encoded
	Weight FontWeight `json:"weight"`
	Color  string     `json:"color"` // CSS hex
}

// DefaultTextSettings returns the baseline style for body text
func DefaultTextSettings() TextSettings {
	return TextSettings{
		Align:  AlignLeft,
		Size:   "12",
		Weight: WeightNormal,
		Color:  "#111827",
	}
}

// Normalize replaces invalid fields with their defaults so renderers
// never see a missing value
func (s TextSettings) Normalize() TextSettings {
	def := DefaultTextSettings()
	if !s.Align.IsValid() {
		s.Align = def.Align
	}
	if s.Size == "" {
		s.Size = def.Size
	}
	if !s.Weight.IsValid() {
		s.Weight = def.Weight
	}
	if !IsHexColor(s.Color) {
		s.Color = def.Color
	}
	return s
}

// ColumnSettings extends TextSettings with an optional display label,
// used for the four line-item columns.
type ColumnSettings struct {
	TextSettings
	Label string `json:"label,omitempty"`
}

// TableSettings carries independent header and row styles for each of
// the four line-item columns plus table-level colors.
type TableSettings struct {
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`

	DescriptionHeaderSettings ColumnSettings `json:"descriptionHeaderSettings"`
	QuantityHeaderSettings    ColumnSettings `json:"quantityHeaderSettings"`
	UnitPriceHeaderSettings   ColumnSettings `json:"unitPriceHeaderSettings"`
	AmountHeaderSettings      ColumnSettings `json:"amountHeaderSettings"`

	DescriptionRowSettings TextSettings `json:"descriptionRowSettings"`
	QuantityRowSettings    TextSettings `json:"quantityRowSettings"`
	UnitPriceRowSettings   TextSettings `json:"unitPriceRowSettings"`
	AmountRowSettings      TextSettings `json:"amountRowSettings"`
}

// DefaultTableSettings returns the baseline line-item table style
func DefaultTableSettings() TableSettings {
	header := func(label string, align TextAlign) ColumnSettings {
		return ColumnSettings{
			TextSettings: TextSettings{
				Align:  align,
				Size:   "11",
				Weight: WeightSemibold,
				Color:  "#6b7280",
			},
			Label: label,
		}
	}
	row := func(align TextAlign) TextSettings {
		return TextSettings{
			Align:  align,
			Size:   "12",
			Weight: WeightNormal,
			Color:  "#111827",
		}
	}
	return TableSettings{
		BackgroundColor: "#ffffff",
		BorderColor:     "#e5e7eb",

		DescriptionHeaderSettings: header("Description", AlignLeft),
		QuantityHeaderSettings:    header("Qty", AlignRight),
		UnitPriceHeaderSettings:   header("Unit Price", AlignRight),
		AmountHeaderSettings:      header("Amount", AlignRight),

		DescriptionRowSettings: row(AlignLeft),
		QuantityRowSettings:    row(AlignRight),
		UnitPriceRowSettings:   row(AlignRight),
		AmountRowSettings:      row(AlignRight),
	}
}
