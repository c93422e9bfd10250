package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoiceapp "github.com/invoicestudio/backend/internal/application/invoice"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoiceapp.Service
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoiceapp.Service) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// PreviewHTMLResponse carries the rendered invoice markup
//
//	@Description	Rendered HTML preview
type PreviewHTMLResponse struct {
	HTML string `json:"html"`
}

// CreateInvoice godoc
//
//	@ID				createInvoice
//
//	@Summary		Create an invoice
//	@Description	Create an invoice with line items. Totals are computed server-side from the items and tax settings.
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invoiceapp.CreateInvoiceRequest	true	"Invoice to create"
//	@Success		201		{object}	APIResponse[invoiceapp.InvoiceResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req invoiceapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.CreateInvoice(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetInvoice godoc
//
//	@ID				getInvoice
//
//	@Summary		Get an invoice
//	@Description	Retrieve a single invoice with its line items, totals and design snapshot
//	@Tags			invoices
//	@Produce		json
//	@Param			id	path		string	true	"Invoice ID"
//	@Success		200	{object}	APIResponse[invoiceapp.InvoiceResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	result, err := h.invoiceService.GetInvoice(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListInvoices godoc
//
//	@ID				listInvoices
//
//	@Summary		List invoices
//	@Description	List the organization's invoices with pagination and search
//	@Tags			invoices
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			search		query		string	false	"Search by number or recipient"
//	@Success		200			{object}	APIResponse[invoiceapp.ListInvoicesResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Router			/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	req := invoiceapp.ListInvoicesRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// UpdateInvoice godoc
//
//	@ID				updateInvoice
//
//	@Summary		Update an invoice
//	@Description	Patch invoice fields. When items or tax settings change, totals are recomputed.
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Invoice ID"
//	@Param			request	body		invoiceapp.UpdateInvoiceRequest	true	"Fields to update"
//	@Success		200		{object}	APIResponse[invoiceapp.InvoiceResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoiceapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.UpdateInvoice(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteInvoice godoc
//
//	@ID				deleteInvoice
//
//	@Summary		Delete an invoice
//	@Description	Delete an invoice by ID
//	@Tags			invoices
//	@Produce		json
//	@Param			id	path	string	true	"Invoice ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), orgID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SaveSnapshot godoc
//
//	@ID				saveInvoiceSnapshot
//
//	@Summary		Stamp the resolved design onto an invoice
//	@Description	Resolve the given design state and persist it inside the invoice so later renders survive template edits and deletions
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Invoice ID"
//	@Param			request	body		invoiceapp.SnapshotRequest	true	"Design state to snapshot"
//	@Success		200		{object}	APIResponse[invoiceapp.InvoiceResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/invoices/{id}/snapshot [post]
func (h *InvoiceHandler) SaveSnapshot(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoiceapp.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.SaveWithSnapshot(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// PreviewInvoice godoc
//
//	@ID				previewInvoice
//
//	@Summary		Preview an invoice as HTML
//	@Description	Render the invoice to self-contained HTML using the supplied design state, the invoice's snapshot, or the organization default
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Invoice ID"
//	@Param			request	body		invoiceapp.PreviewRequest	true	"Preview request"
//	@Success		200		{object}	APIResponse[PreviewHTMLResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/invoices/{id}/preview [post]
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoiceapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	html, err := h.invoiceService.RenderPreview(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, PreviewHTMLResponse{HTML: html})
}

// ExportInvoice godoc
//
//	@ID				exportInvoicePDF
//
//	@Summary		Export an invoice as PDF
//	@Description	Render the invoice to PDF. Mode "capture" prints through a headless browser; mode "document" uses the native PDF writer.
//	@Tags			invoices
//	@Accept			json
//	@Produce		application/pdf
//	@Param			id		path		string						true	"Invoice ID"
//	@Param			request	body		invoiceapp.ExportRequest	true	"Export request"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		504		{object}	ErrorResponse
//	@Router			/invoices/{id}/export [post]
func (h *InvoiceHandler) ExportInvoice(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoiceapp.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pdf, err := h.invoiceService.ExportPDF(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", invoiceID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
