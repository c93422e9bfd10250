package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
)

// Event type constants
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceTotalsChanged = "InvoiceTotalsChanged"
	EventTypeDesignSnapshotTaken  = "InvoiceDesignSnapshotTaken"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	Currency  string    `json:"currency"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInvoiceCreated,
			AggregateTypeInvoice,
			inv.ID,
			inv.OrgID,
		),
		InvoiceID: inv.ID,
		Number:    inv.Number,
		Currency:  inv.Currency,
	}
}

// InvoiceTotalsChangedEvent is published after any mutation that
// recomputed the derived totals
type InvoiceTotalsChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// NewInvoiceTotalsChangedEvent creates a new InvoiceTotalsChangedEvent
func NewInvoiceTotalsChangedEvent(inv *Invoice) *InvoiceTotalsChangedEvent {
	return &InvoiceTotalsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeInvoiceTotalsChanged,
			AggregateTypeInvoice,
			inv.ID,
			inv.OrgID,
		),
		InvoiceID: inv.ID,
		Subtotal:  inv.Subtotal,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
	}
}

// DesignSnapshotTakenEvent is published when a design snapshot is
// captured onto an invoice
type DesignSnapshotTakenEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID  `json:"invoice_id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

// NewDesignSnapshotTakenEvent creates a new DesignSnapshotTakenEvent
func NewDesignSnapshotTakenEvent(inv *Invoice) *DesignSnapshotTakenEvent {
	return &DesignSnapshotTakenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDesignSnapshotTaken,
			AggregateTypeInvoice,
			inv.ID,
			inv.OrgID,
		),
		InvoiceID:  inv.ID,
		TemplateID: inv.DesignSnapshot.TemplateID,
	}
}
