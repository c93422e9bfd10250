package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// LineItem is one billable row on an invoice. Amount is always derived
// from Quantity * UnitPrice and is never stored independently of its
// inputs: every mutation path recomputes it.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLineItem creates a line item with its amount computed
func NewLineItem(description string, quantity, unitPrice decimal.Decimal) (LineItem, error) {
	if strings.TrimSpace(description) == "" {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item description cannot be empty")
	}
	if quantity.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_LINE_ITEM", "Line item unit price cannot be negative")
	}

	item := LineItem{
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	item.Amount = item.Quantity.Mul(item.UnitPrice)
	return item, nil
}

// Recalculate returns a copy with Amount recomputed from its inputs
func (i LineItem) Recalculate() LineItem {
	i.Amount = i.Quantity.Mul(i.UnitPrice)
	return i
}
