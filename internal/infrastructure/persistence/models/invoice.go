package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/invoice"
)

var invoiceLogger = zap.L().Named("invoice.models")

// InvoiceModel is the GORM model for the invoices table. Line items and
// the design snapshot persist as JSON documents; every money field is a
// fixed-point decimal column.
type InvoiceModel struct {
	OrgAggregateModel
	Number    string     `gorm:"type:varchar(100);not null;index"`
	Currency  string     `gorm:"type:varchar(3);not null"`
	ClientID  *uuid.UUID `gorm:"column:client_id;type:uuid;index"`
	BillTo    string     `gorm:"column:bill_to;type:text"`
	IssueDate time.Time  `gorm:"column:issue_date;not null"`
	DueDate   *time.Time `gorm:"column:due_date"`

	LineItemsJSON string `gorm:"column:line_items;type:jsonb;not null;default:'[]'"`

	TaxMode   string          `gorm:"column:tax_mode;type:varchar(20);not null;default:'percent'"`
	TaxRate   decimal.Decimal `gorm:"column:tax_rate;type:decimal(18,4);not null;default:0"`
	FlatTax   decimal.Decimal `gorm:"column:flat_tax;type:decimal(18,4);not null;default:0"`
	Fees      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discounts decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount decimal.Decimal `gorm:"column:tax_amount;type:decimal(18,4);not null;default:0"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Notes string `gorm:"type:text"`
	Terms string `gorm:"type:text"`

	// Full design.Snapshot as one JSON document: templateId (null for
	// presets), tokens, visibility, logoPosition, takenAt. The snapshot
	// is self-contained and must survive template deletion, so no
	// foreign key column exists. Empty when no snapshot has been taken.
	DesignSnapshotJSON string `gorm:"column:design_snapshot;type:jsonb"`
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts InvoiceModel to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		Number:    m.Number,
		Currency:  m.Currency,
		ClientID:  m.ClientID,
		BillTo:    m.BillTo,
		IssueDate: m.IssueDate,
		DueDate:   m.DueDate,
		LineItems: make([]invoice.LineItem, 0),
		TaxMode:   invoice.TaxMode(m.TaxMode),
		TaxRate:   m.TaxRate,
		FlatTax:   m.FlatTax,
		Fees:      m.Fees,
		Discounts: m.Discounts,
		Subtotal:  m.Subtotal,
		TaxAmount: m.TaxAmount,
		Total:     m.Total,
		Notes:     m.Notes,
		Terms:     m.Terms,
	}
	m.PopulateOrgAggregateRoot(&inv.OrgAggregateRoot)

	if m.LineItemsJSON != "" && m.LineItemsJSON != "[]" {
		var items []invoice.LineItem
		if err := json.Unmarshal([]byte(m.LineItemsJSON), &items); err != nil {
			invoiceLogger.Warn("failed to parse line_items JSON",
				zap.String("invoice_number", m.Number),
				zap.Error(err))
		} else {
			inv.LineItems = items
		}
	}

	if m.DesignSnapshotJSON != "" {
		var snapshot design.Snapshot
		if err := json.Unmarshal([]byte(m.DesignSnapshotJSON), &snapshot); err != nil {
			invoiceLogger.Warn("failed to parse design_snapshot JSON",
				zap.String("invoice_number", m.Number),
				zap.Error(err))
		} else {
			inv.DesignSnapshot = snapshot
		}
	}

	return inv
}

// InvoiceModelFromDomain creates an InvoiceModel from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	model := &InvoiceModel{
		Number:    inv.Number,
		Currency:  inv.Currency,
		ClientID:  inv.ClientID,
		BillTo:    inv.BillTo,
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		TaxMode:   string(inv.TaxMode),
		TaxRate:   inv.TaxRate,
		FlatTax:   inv.FlatTax,
		Fees:      inv.Fees,
		Discounts: inv.Discounts,
		Subtotal:  inv.Subtotal,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
		Notes:     inv.Notes,
		Terms:     inv.Terms,
	}
	model.FromDomainOrgAggregateRoot(inv.OrgAggregateRoot)

	items, err := json.Marshal(inv.LineItems)
	if err != nil {
		invoiceLogger.Warn("failed to serialize line items",
			zap.String("invoice_number", inv.Number), zap.Error(err))
		model.LineItemsJSON = "[]"
	} else {
		model.LineItemsJSON = string(items)
	}

	if !inv.DesignSnapshot.IsZero() {
		snapshot, err := json.Marshal(inv.DesignSnapshot)
		if err != nil {
			invoiceLogger.Warn("failed to serialize design snapshot",
				zap.String("invoice_number", inv.Number), zap.Error(err))
		} else {
			model.DesignSnapshotJSON = string(snapshot)
		}
	}

	return model
}
