// Package invoice is the application service for organization
// invoices: CRUD with always-consistent totals, design snapshotting at
// save time, and the preview/export render paths.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appdesign "github.com/invoicestudio/backend/internal/application/design"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/invoice"
	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/invoicestudio/backend/internal/domain/studio"
	"github.com/invoicestudio/backend/internal/infrastructure/render"
)

// DesignResolver resolves a template id plus overrides into a complete
// design for an organization
type DesignResolver interface {
	ResolveDesign(ctx context.Context, orgID uuid.UUID, req appdesign.ResolveDesignRequest) (*appdesign.ResolvedResponse, error)
}

// DocumentRenderer produces a PDF directly from a document
type DocumentRenderer interface {
	Render(ctx context.Context, doc *studio.Document) ([]byte, error)
}

// Service handles invoice business operations
type Service struct {
	invoiceRepo invoice.Repository
	designSvc   DesignResolver
	html        *render.HTMLRenderer
	capturer    render.PDFCapturer
	pdfdoc      DocumentRenderer
	logger      *zap.Logger
}

// NewService creates a new invoice Service
func NewService(
	invoiceRepo invoice.Repository,
	designSvc DesignResolver,
	html *render.HTMLRenderer,
	capturer render.PDFCapturer,
	pdfdoc DocumentRenderer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		invoiceRepo: invoiceRepo,
		designSvc:   designSvc,
		html:        html,
		capturer:    capturer,
		pdfdoc:      pdfdoc,
		logger:      logger,
	}
}

// CreateInvoice creates a new invoice. Totals are computed before the
// first save; an invoice row never carries stale money fields.
func (s *Service) CreateInvoice(ctx context.Context, orgID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := invoice.NewInvoice(orgID, req.Number, req.Currency)
	if err != nil {
		return nil, err
	}

	if req.IssueDate != nil || req.DueDate != nil {
		issueDate := inv.IssueDate
		if req.IssueDate != nil {
			issueDate = *req.IssueDate
		}
		if err := inv.SetDates(issueDate, req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.BillTo != "" {
		inv.SetBillTo(req.BillTo)
	}

	for _, item := range req.Items {
		quantity, err := parseAmount("quantity", item.Quantity)
		if err != nil {
			return nil, err
		}
		unitPrice, err := parseAmount("unit_price", item.UnitPrice)
		if err != nil {
			return nil, err
		}
		if err := inv.AddLineItem(item.Description, quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.applyFinancials(inv, req.TaxMode, req.TaxRate, req.FlatTax, req.Fees, req.Discounts); err != nil {
		return nil, err
	}

	if req.Notes != "" {
		inv.SetNotes(req.Notes)
	}
	if req.Terms != "" {
		inv.SetTerms(req.Terms)
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("invoice created",
		zap.String("id", inv.ID.String()),
		zap.String("number", inv.Number),
		zap.String("total", inv.Total.String()))

	return toInvoiceResponse(inv), nil
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices retrieves a paginated list of invoices
func (s *Service) ListInvoices(ctx context.Context, orgID uuid.UUID, req ListInvoicesRequest) (*ListInvoicesResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	invoices, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	total, err := s.invoiceRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = *toInvoiceResponse(&invoices[i])
	}

	return &ListInvoicesResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// UpdateInvoice updates an existing invoice. Any financial change
// recomputes the totals before the save.
func (s *Service) UpdateInvoice(ctx context.Context, orgID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.IssueDate != nil || req.DueDate != nil {
		issueDate := inv.IssueDate
		if req.IssueDate != nil {
			issueDate = *req.IssueDate
		}
		dueDate := inv.DueDate
		if req.DueDate != nil {
			dueDate = req.DueDate
		}
		if err := inv.SetDates(issueDate, dueDate); err != nil {
			return nil, err
		}
	}
	if req.BillTo != nil {
		inv.SetBillTo(*req.BillTo)
	}

	if req.Items != nil {
		items := make([]invoice.LineItem, 0, len(*req.Items))
		for _, dto := range *req.Items {
			quantity, err := parseAmount("quantity", dto.Quantity)
			if err != nil {
				return nil, err
			}
			unitPrice, err := parseAmount("unit_price", dto.UnitPrice)
			if err != nil {
				return nil, err
			}
			item, err := invoice.NewLineItem(dto.Description, quantity, unitPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		inv.ReplaceLineItems(items)
	}

	var taxMode, taxRate, flatTax, fees, discounts string
	if req.TaxMode != nil {
		taxMode = *req.TaxMode
	}
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if req.FlatTax != nil {
		flatTax = *req.FlatTax
	}
	if req.Fees != nil {
		fees = *req.Fees
	}
	if req.Discounts != nil {
		discounts = *req.Discounts
	}
	if err := s.applyFinancials(inv, taxMode, taxRate, flatTax, fees, discounts); err != nil {
		return nil, err
	}

	if req.Notes != nil {
		inv.SetNotes(*req.Notes)
	}
	if req.Terms != nil {
		inv.SetTerms(*req.Terms)
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("invoice updated",
		zap.String("id", inv.ID.String()),
		zap.String("total", inv.Total.String()))

	return toInvoiceResponse(inv), nil
}

// DeleteInvoice deletes an invoice
func (s *Service) DeleteInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) error {
	if _, err := s.findInvoice(ctx, orgID, invoiceID); err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.logger.Info("invoice deleted", zap.String("id", invoiceID.String()))
	return nil
}

// SaveWithSnapshot resolves the current design and stamps it onto the
// invoice. From then on the invoice renders from its own copy: later
// edits to the source template do not touch it.
func (s *Service) SaveWithSnapshot(ctx context.Context, orgID, invoiceID uuid.UUID, req SnapshotRequest) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolveLive(ctx, orgID, req.Design)
	if err != nil {
		return nil, err
	}
	inv.TakeDesignSnapshot(resolved, time.Now())

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("design snapshot taken",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("template_id", resolved.TemplateID))

	return toInvoiceResponse(inv), nil
}

// RenderPreview produces the HTML preview of an invoice. Live design
// state wins over the saved snapshot; with neither, the organization's
// default design applies.
func (s *Service) RenderPreview(ctx context.Context, orgID, invoiceID uuid.UUID, req PreviewRequest) (string, error) {
	inv, err := s.findInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return "", err
	}

	resolved, err := s.resolveFor(ctx, orgID, inv, req.Design)
	if err != nil {
		return "", err
	}

	doc := buildDocument(inv, resolved, req.Seller)
	return s.html.Render(doc, render.HTMLOptions{LogoURL: req.LogoURL})
}

// ExportPDF produces the PDF bytes for an invoice. The default capture
// mode prints the HTML preview through the browser engine; document
// mode writes the PDF natively.
func (s *Service) ExportPDF(ctx context.Context, orgID, invoiceID uuid.UUID, req ExportRequest) ([]byte, error) {
	inv, err := s.findInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolveFor(ctx, orgID, inv, req.Design)
	if err != nil {
		return nil, err
	}

	doc := buildDocument(inv, resolved, req.Seller)

	if req.Mode == ExportModeDocument {
		return s.pdfdoc.Render(ctx, doc)
	}

	html, err := s.html.Render(doc, render.HTMLOptions{LogoURL: req.LogoURL})
	if err != nil {
		return nil, err
	}

	result, err := s.capturer.Capture(ctx, &render.CaptureRequest{
		HTML:     html,
		PageSize: resolved.Tokens.PageSize,
		Margins:  render.DefaultMargins(),
		Title:    inv.Number,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

func (s *Service) findInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// applyFinancials applies tax, fee and discount inputs. Each tax mode
// consumes only its own amount field: "flat" reads flat_tax, "percent"
// reads tax_rate, and an omitted amount keeps the stored value, so a
// bare mode switch never resets the amount it switches to.
func (s *Service) applyFinancials(inv *invoice.Invoice, taxMode, taxRate, flatTax, fees, discounts string) error {
	switch taxMode {
	case string(invoice.TaxModeFlat):
		amount := inv.FlatTax
		if flatTax != "" {
			parsed, err := parseAmount("flat_tax", flatTax)
			if err != nil {
				return err
			}
			amount = parsed
		}
		if err := inv.SetFlatTax(amount); err != nil {
			return err
		}
	case string(invoice.TaxModePercent):
		rate := inv.TaxRate
		if taxRate != "" {
			parsed, err := parseAmount("tax_rate", taxRate)
			if err != nil {
				return err
			}
			rate = parsed
		}
		if err := inv.SetPercentTax(rate); err != nil {
			return err
		}
	default:
		if taxRate != "" {
			rate, err := parseAmount("tax_rate", taxRate)
			if err != nil {
				return err
			}
			if err := inv.SetPercentTax(rate); err != nil {
				return err
			}
		}
	}

	if fees != "" {
		amount, err := parseAmount("fees", fees)
		if err != nil {
			return err
		}
		if err := inv.SetFees(amount); err != nil {
			return err
		}
	}
	if discounts != "" {
		amount, err := parseAmount("discounts", discounts)
		if err != nil {
			return err
		}
		if err := inv.SetDiscounts(amount); err != nil {
			return err
		}
	}
	return nil
}

// resolveFor picks the design source for a render: explicit live state
// first, then the invoice's snapshot, then the org default.
func (s *Service) resolveFor(ctx context.Context, orgID uuid.UUID, inv *invoice.Invoice, d DesignOverridesDTO) (design.Resolved, error) {
	if d.IsZero() && inv.HasDesignSnapshot() {
		return inv.DesignSnapshot.Resolved(), nil
	}
	return s.resolveLive(ctx, orgID, d)
}

func (s *Service) resolveLive(ctx context.Context, orgID uuid.UUID, d DesignOverridesDTO) (design.Resolved, error) {
	resp, err := s.designSvc.ResolveDesign(ctx, orgID, appdesign.ResolveDesignRequest{
		TemplateID: d.TemplateID,
		Tokens:     d.Tokens,
		Visibility: d.Visibility,
	})
	if err != nil {
		return design.Resolved{}, fmt.Errorf("failed to resolve design: %w", err)
	}
	return design.Resolved{
		TemplateID: resp.TemplateID,
		Tokens:     resp.Tokens,
		Visibility: resp.Visibility,
		Table:      resp.Table,
	}, nil
}

// buildDocument projects an organization invoice into the render
// document shape both PDF adapters and the HTML preview consume
func buildDocument(inv *invoice.Invoice, resolved design.Resolved, seller string) *studio.Document {
	doc := studio.NewDocument()

	doc.Tokens = resolved.Tokens
	doc.Visibility = resolved.Visibility
	doc.Table = resolved.Table

	doc.InvoiceNo.Value = inv.Number
	doc.IssueDate.Value = inv.IssueDate.Format("2006-01-02")
	if inv.DueDate != nil {
		doc.DueDate.Value = inv.DueDate.Format("2006-01-02")
	}
	doc.Seller.Value = seller
	doc.Client.Value = inv.BillTo
	doc.Currency = inv.Currency
	doc.Items = inv.LineItems
	doc.Terms.Value = inv.Terms

	// Copy the invoice's already-consistent money fields instead of
	// recalculating: the studio recalculation only knows percent tax,
	// the invoice may be in flat mode.
	doc.TaxRate = inv.TaxRate
	doc.Fees = inv.Fees
	doc.Discounts = inv.Discounts
	doc.Subtotal = inv.Subtotal
	doc.TaxAmount = inv.TaxAmount
	doc.Total = inv.Total

	return doc
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_INPUT", field+" must be a decimal number")
	}
	return amount, nil
}
