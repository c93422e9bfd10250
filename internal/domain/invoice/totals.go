package invoice

import "github.com/shopspring/decimal"

// TaxMode selects how the tax amount is derived. The two modes mirror
// the two invoice flows: the studio editor enters tax as a percentage
// of the subtotal, the organization flow enters a flat amount directly.
type TaxMode string

const (
	TaxModePercent TaxMode = "percent"
	TaxModeFlat    TaxMode = "flat"
)

// IsValid checks if the TaxMode is a valid value
func (m TaxMode) IsValid() bool {
	return m == TaxModePercent || m == TaxModeFlat
}

// Totals is the derived financial state of an invoice
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// CalculateTotals derives subtotal, tax amount and total from line items
// and the tax/fee/discount inputs. Each returned line item carries a
// freshly computed Amount; the input slice is not mutated.
//
// The invariant, in either tax mode:
//
//	subtotal  = sum(quantity * unitPrice)
//	taxAmount = subtotal * taxRate/100   (percent mode)
//	taxAmount = flatTax                  (flat mode)
//	total     = subtotal + taxAmount + fees - discounts
func CalculateTotals(items []LineItem, mode TaxMode, taxRate, flatTax, fees, discounts decimal.Decimal) ([]LineItem, Totals) {
	recalculated := make([]LineItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		recalculated[i] = item.Recalculate()
		subtotal = subtotal.Add(recalculated[i].Amount)
	}

	var taxAmount decimal.Decimal
	switch mode {
	case TaxModeFlat:
		taxAmount = flatTax
	default:
		taxAmount = subtotal.Mul(taxRate).Div(decimal.NewFromInt(100))
	}

	total := subtotal.Add(taxAmount).Add(fees).Sub(discounts)

	return recalculated, Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     total,
	}
}
