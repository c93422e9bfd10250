package invoice

import (
	"time"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/invoice"
)

// Monetary values cross the API boundary as decimal strings, never as
// floats.

// LineItemDTO represents one invoice line
type LineItemDTO struct {
	Description string `json:"description" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Amount      string `json:"amount,omitempty"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	Number    string        `json:"number" binding:"required,max=50"`
	Currency  string        `json:"currency" binding:"required,len=3"`
	BillTo    string        `json:"bill_to"`
	IssueDate *time.Time    `json:"issue_date"`
	DueDate   *time.Time    `json:"due_date"`
	Items     []LineItemDTO `json:"items"`
	TaxMode   string        `json:"tax_mode" binding:"omitempty,oneof=percent flat"`
	TaxRate   string        `json:"tax_rate"`
	FlatTax   string        `json:"flat_tax"`
	Fees      string        `json:"fees"`
	Discounts string        `json:"discounts"`
	Notes     string        `json:"notes"`
	Terms     string        `json:"terms"`
}

// UpdateInvoiceRequest represents a request to update an invoice.
// Item lists replace wholesale; scalar fields patch individually.
type UpdateInvoiceRequest struct {
	Number    *string        `json:"number" binding:"omitempty,max=50"`
	BillTo    *string        `json:"bill_to"`
	IssueDate *time.Time     `json:"issue_date"`
	DueDate   *time.Time     `json:"due_date"`
	Items     *[]LineItemDTO `json:"items"`
	TaxMode   *string        `json:"tax_mode" binding:"omitempty,oneof=percent flat"`
	TaxRate   *string        `json:"tax_rate"`
	FlatTax   *string        `json:"flat_tax"`
	Fees      *string        `json:"fees"`
	Discounts *string        `json:"discounts"`
	Notes     *string        `json:"notes"`
	Terms     *string        `json:"terms"`
}

// ListInvoicesRequest represents a request to list invoices
type ListInvoicesRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// InvoiceResponse represents an invoice
type InvoiceResponse struct {
	ID          string           `json:"id"`
	OrgID       string           `json:"org_id"`
	Number      string           `json:"number"`
	Currency    string           `json:"currency"`
	BillTo      string           `json:"bill_to"`
	IssueDate   time.Time        `json:"issue_date"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Items       []LineItemDTO    `json:"items"`
	TaxMode     string           `json:"tax_mode"`
	TaxRate     string           `json:"tax_rate"`
	FlatTax     string           `json:"flat_tax"`
	Fees        string           `json:"fees"`
	Discounts   string           `json:"discounts"`
	Subtotal    string           `json:"subtotal"`
	TaxAmount   string           `json:"tax_amount"`
	Total       string           `json:"total"`
	Notes       string           `json:"notes"`
	Terms       string           `json:"terms"`
	HasSnapshot bool             `json:"has_snapshot"`
	Snapshot    *design.Snapshot `json:"snapshot,omitempty"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ListInvoicesResponse represents a paginated invoice list
type ListInvoicesResponse struct {
	Items []InvoiceResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

// DesignOverridesDTO carries the live design state for preview and
// export. Empty means: use the invoice's snapshot if it has one,
// otherwise the organization's default design.
type DesignOverridesDTO struct {
	TemplateID string                  `json:"template_id"`
	Tokens     *design.TokenPatch      `json:"tokens"`
	Visibility *design.VisibilityPatch `json:"visibility"`
}

// IsZero reports whether no live design state was supplied
func (d DesignOverridesDTO) IsZero() bool {
	return d.TemplateID == "" && d.Tokens == nil && d.Visibility == nil
}

// PreviewRequest asks for the HTML preview of an invoice
type PreviewRequest struct {
	Design  DesignOverridesDTO `json:"design"`
	Seller  string             `json:"seller"`
	LogoURL string             `json:"logo_url"`
}

// Export modes
const (
	ExportModeCapture  = "capture"  // browser print engine
	ExportModeDocument = "document" // native PDF writer
)

// ExportRequest asks for a PDF export of an invoice
type ExportRequest struct {
	Design  DesignOverridesDTO `json:"design"`
	Seller  string             `json:"seller"`
	LogoURL string             `json:"logo_url"`
	Mode    string             `json:"mode" binding:"omitempty,oneof=capture document"`
}

// SnapshotRequest stamps the current resolved design onto an invoice
type SnapshotRequest struct {
	Design DesignOverridesDTO `json:"design"`
}

func toInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	items := make([]LineItemDTO, len(inv.LineItems))
	for i, item := range inv.LineItems {
		items[i] = LineItemDTO{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.String(),
			Amount:      item.Amount.String(),
		}
	}

	resp := &InvoiceResponse{
		ID:          inv.ID.String(),
		OrgID:       inv.OrgID.String(),
		Number:      inv.Number,
		Currency:    inv.Currency,
		BillTo:      inv.BillTo,
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		Items:       items,
		TaxMode:     string(inv.TaxMode),
		TaxRate:     inv.TaxRate.String(),
		FlatTax:     inv.FlatTax.String(),
		Fees:        inv.Fees.String(),
		Discounts:   inv.Discounts.String(),
		Subtotal:    inv.Subtotal.String(),
		TaxAmount:   inv.TaxAmount.String(),
		Total:       inv.Total.String(),
		Notes:       inv.Notes,
		Terms:       inv.Terms,
		HasSnapshot: inv.HasDesignSnapshot(),
		Version:     inv.Version,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if inv.HasDesignSnapshot() {
		snapshot := inv.DesignSnapshot
		resp.Snapshot = &snapshot
	}
	return resp
}
