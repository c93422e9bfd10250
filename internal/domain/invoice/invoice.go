package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// Invoice is the aggregate root for a billed document. Its derived
// totals are recomputed inside every mutating method, never lazily at
// render time, so a persisted invoice always carries consistent money
// fields.
type Invoice struct {
	shared.OrgAggregateRoot
	Number    string // Invoice number as shown to the client
	Currency  string // ISO 4217 code
	ClientID  *uuid.UUID
	BillTo    string // Client details block, multi-line free text
	IssueDate time.Time
	DueDate   *time.Time

	LineItems []LineItem

	TaxMode   TaxMode
	TaxRate   decimal.Decimal // percentage, used in percent mode
	FlatTax   decimal.Decimal // pre-entered amount, used in flat mode
	Fees      decimal.Decimal
	Discounts decimal.Decimal

	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal

	Notes string
	Terms string

	// Snapshot of the resolved design captured at save time. Immutable
	// once taken; zero value means no snapshot exists yet.
	DesignSnapshot design.Snapshot
}

// NewInvoice creates an invoice with no line items
func NewInvoice(orgID uuid.UUID, number, currency string) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a three-letter ISO code")
	}

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           strings.TrimSpace(number),
		Currency:         currency,
		TaxMode:          TaxModePercent,
		IssueDate:        time.Now(),
		LineItems:        make([]LineItem, 0),
	}
	inv.recalculate()

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AddLineItem appends a line item and recomputes totals
func (inv *Invoice) AddLineItem(description string, quantity, unitPrice decimal.Decimal) error {
	item, err := NewLineItem(description, quantity, unitPrice)
	if err != nil {
		return err
	}

	inv.LineItems = append(inv.LineItems, item)
	inv.touch()

	return nil
}

// UpdateLineItem replaces the item at index and recomputes totals
func (inv *Invoice) UpdateLineItem(index int, description string, quantity, unitPrice decimal.Decimal) error {
	if index < 0 || index >= len(inv.LineItems) {
		return shared.NewDomainError("INVALID_LINE_ITEM", "Line item index out of range")
	}
	item, err := NewLineItem(description, quantity, unitPrice)
	if err != nil {
		return err
	}

	inv.LineItems[index] = item
	inv.touch()

	return nil
}

// ReplaceLineItems swaps the whole item list and recomputes totals.
// Items must already be validated through NewLineItem.
func (inv *Invoice) ReplaceLineItems(items []LineItem) {
	inv.LineItems = items
	inv.touch()
}

// RemoveLineItem deletes the item at index and recomputes totals
func (inv *Invoice) RemoveLineItem(index int) error {
	if index < 0 || index >= len(inv.LineItems) {
		return shared.NewDomainError("INVALID_LINE_ITEM", "Line item index out of range")
	}

	inv.LineItems = append(inv.LineItems[:index], inv.LineItems[index+1:]...)
	inv.touch()

	return nil
}

// SetPercentTax switches to percentage tax and recomputes totals
func (inv *Invoice) SetPercentTax(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax rate cannot be negative")
	}

	inv.TaxMode = TaxModePercent
	inv.TaxRate = rate
	inv.touch()

	return nil
}

// SetFlatTax switches to a pre-entered flat tax amount and recomputes totals
func (inv *Invoice) SetFlatTax(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax amount cannot be negative")
	}

	inv.TaxMode = TaxModeFlat
	inv.FlatTax = amount
	inv.touch()

	return nil
}

// SetFees sets additional fees and recomputes totals
func (inv *Invoice) SetFees(fees decimal.Decimal) error {
	if fees.IsNegative() {
		return shared.NewDomainError("INVALID_FEES", "Fees cannot be negative")
	}

	inv.Fees = fees
	inv.touch()

	return nil
}

// SetDiscounts sets discounts and recomputes totals
func (inv *Invoice) SetDiscounts(discounts decimal.Decimal) error {
	if discounts.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNTS", "Discounts cannot be negative")
	}

	inv.Discounts = discounts
	inv.touch()

	return nil
}

// SetBillTo sets the client details block
func (inv *Invoice) SetBillTo(billTo string) {
	inv.BillTo = billTo
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// SetDates sets the issue date and optional due date
func (inv *Invoice) SetDates(issueDate time.Time, dueDate *time.Time) error {
	if dueDate != nil && dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DATES", "Due date cannot be before the issue date")
	}

	inv.IssueDate = issueDate
	inv.DueDate = dueDate
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// SetNotes sets the free-text notes section
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// SetTerms sets the free-text terms section
func (inv *Invoice) SetTerms(terms string) {
	inv.Terms = terms
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// TakeDesignSnapshot captures the resolved design onto the invoice.
// A snapshot, once taken, can only be replaced wholesale by a newer
// one; it never changes when the source template does.
func (inv *Invoice) TakeDesignSnapshot(resolved design.Resolved, at time.Time) {
	inv.DesignSnapshot = design.TakeSnapshot(resolved, at)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewDesignSnapshotTakenEvent(inv))
}

// HasDesignSnapshot reports whether a snapshot has been captured
func (inv *Invoice) HasDesignSnapshot() bool {
	return !inv.DesignSnapshot.IsZero()
}

// touch recomputes derived totals and bumps version metadata.
// Every financial mutation funnels through here.
func (inv *Invoice) touch() {
	inv.recalculate()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceTotalsChangedEvent(inv))
}

func (inv *Invoice) recalculate() {
	items, totals := CalculateTotals(inv.LineItems, inv.TaxMode, inv.TaxRate, inv.FlatTax, inv.Fees, inv.Discounts)
	inv.LineItems = items
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
}
