// Package studio holds the self-contained invoice document used by the
// standalone editing mode. Unlike an organization invoice, a studio
// document references no external template: every label and value pair
// carries its own text settings, making it the design-token model in
// its most complete form.
package studio

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/invoice"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// TextField is an editable text value with its own style
type TextField struct {
	Value    string              `json:"value"`
	Settings design.TextSettings `json:"settings"`
}

// LabeledField is a label/value pair where each side styles independently
type LabeledField struct {
	Label         string              `json:"label"`
	Value         string              `json:"value"`
	LabelSettings design.TextSettings `json:"labelSettings"`
	ValueSettings design.TextSettings `json:"valueSettings"`
}

// TotalsRow is one row of the totals block (subtotal, tax, total, ...)
type TotalsRow struct {
	Label         string              `json:"label"`
	LabelSettings design.TextSettings `json:"labelSettings"`
	ValueSettings design.TextSettings `json:"valueSettings"`
}

// Document is a standalone studio invoice
type Document struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Tokens     design.TokenSet          `json:"tokens"`
	Visibility design.SectionVisibility `json:"visibility"`
	Table      design.TableSettings     `json:"tableSettings"`

	Title       TextField    `json:"title"`
	InvoiceNo   LabeledField `json:"invoiceNo"`
	IssueDate   LabeledField `json:"issueDate"`
	DueDate     LabeledField `json:"dueDate"`
	Seller      TextField    `json:"seller"` // multi-line free text
	Client      TextField    `json:"client"` // multi-line free text
	LogoImageID string       `json:"logoImageId,omitempty"`

	Currency string             `json:"currency"`
	Items    []invoice.LineItem `json:"items"`

	TaxRate   decimal.Decimal `json:"taxRate"` // percent of subtotal
	Fees      decimal.Decimal `json:"fees"`
	Discounts decimal.Decimal `json:"discounts"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`

	SubtotalRow  TotalsRow `json:"subtotalRow"`
	TaxRow       TotalsRow `json:"taxRow"`
	FeesRow      TotalsRow `json:"feesRow"`
	DiscountsRow TotalsRow `json:"discountsRow"`
	TotalRow     TotalsRow `json:"totalRow"`

	Terms TextField `json:"terms"`
}

// Recalculate recomputes every derived money field. The studio flow
// always treats tax as a percentage of the subtotal.
func (d *Document) Recalculate() {
	items, totals := invoice.CalculateTotals(d.Items, invoice.TaxModePercent, d.TaxRate, decimal.Zero, d.Fees, d.Discounts)
	d.Items = items
	d.Subtotal = totals.Subtotal
	d.TaxAmount = totals.TaxAmount
	d.Total = totals.Total
}

// ToTree converts the document into a plain nested tree for path-based
// editing. Decimals serialize as JSON strings, keeping money exact.
func (d *Document) ToTree() (map[string]any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document cannot be serialized")
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document cannot be converted to a tree")
	}
	return tree, nil
}

// FromTree rebuilds a typed document from a path-edited tree
func FromTree(tree map[string]any) (*Document, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Tree cannot be serialized")
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Tree does not map onto a document")
	}
	return &doc, nil
}

// FinancialPaths lists the top-level path prefixes whose edits require
// a totals recalculation
var FinancialPaths = []string{"items", "taxRate", "fees", "discounts"}
