package design

// SectionVisibility gates the optional sections of an invoice document.
// All sections default to visible unless a template overrides them.
type SectionVisibility struct {
	CompanyDetails bool `json:"companyDetails"`
	ClientDetails  bool `json:"clientDetails"`
	Notes          bool `json:"notes"`
	Terms          bool `json:"terms"`
	PaymentDetails bool `json:"paymentDetails"`
	TaxRow         bool `json:"taxRow"`
	DiscountRow    bool `json:"discountRow"`
	Footer         bool `json:"footer"`
}

// DefaultSectionVisibility returns all sections visible
func DefaultSectionVisibility() SectionVisibility {
	return SectionVisibility{
		CompanyDetails: true,
		ClientDetails:  true,
		Notes:          true,
		Terms:          true,
		PaymentDetails: true,
		TaxRow:         true,
		DiscountRow:    true,
		Footer:         true,
	}
}

// VisibilityPatch is a partial SectionVisibility: nil flags fall through
// to the base template's defaults.
type VisibilityPatch struct {
	CompanyDetails *bool `json:"companyDetails,omitempty"`
	ClientDetails  *bool `json:"clientDetails,omitempty"`
	Notes          *bool `json:"notes,omitempty"`
	Terms          *bool `json:"terms,omitempty"`
	PaymentDetails *bool `json:"paymentDetails,omitempty"`
	TaxRow         *bool `json:"taxRow,omitempty"`
	DiscountRow    *bool `json:"discountRow,omitempty"`
	Footer         *bool `json:"footer,omitempty"`
}

// Apply overlays the patch onto base; present flags win, absent flags
// fall through
func (p *VisibilityPatch) Apply(base SectionVisibility) SectionVisibility {
	if p == nil {
		return base
	}
	if p.CompanyDetails != nil {
		base.CompanyDetails = *p.CompanyDetails
	}
	if p.ClientDetails != nil {
		base.ClientDetails = *p.ClientDetails
	}
	if p.Notes != nil {
		base.Notes = *p.Notes
	}
	if p.Terms != nil {
		base.Terms = *p.Terms
	}
	if p.PaymentDetails != nil {
		base.PaymentDetails = *p.PaymentDetails
	}
	if p.TaxRow != nil {
		base.TaxRow = *p.TaxRow
	}
	if p.DiscountRow != nil {
		base.DiscountRow = *p.DiscountRow
	}
	if p.Footer != nil {
		base.Footer = *p.Footer
	}
	return base
}
