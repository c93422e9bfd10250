package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	studioapp "github.com/invoicestudio/backend/internal/application/studio"
)

// StudioHandler handles the live document editing API
type StudioHandler struct {
	BaseHandler
	studioService *studioapp.Service
}

// NewStudioHandler creates a new StudioHandler
func NewStudioHandler(studioService *studioapp.Service) *StudioHandler {
	return &StudioHandler{
		studioService: studioService,
	}
}

// UpdateFieldRequest targets one document field by its dotted path
//
//	@Description	A single field edit
type UpdateFieldRequest struct {
	Path  string `json:"path" binding:"required"`
	Value any    `json:"value"`
}

// SelectTemplateRequest applies a template to the open document
//
//	@Description	Template selection
type SelectTemplateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}

// SessionStateResponse reports the editing session state
//
//	@Description	Editing session state
type SessionStateResponse struct {
	DocumentID string `json:"document_id"`
	Dirty      bool   `json:"dirty"`
}

// CreateDocument godoc
//
//	@ID				createStudioDocument
//
//	@Summary		Create a document
//	@Description	Create a fresh invoice document seeded with the classic design and default sections
//	@Tags			studio
//	@Produce		json
//	@Success		201	{object}	APIResponse[studio.Document]
//	@Failure		503	{object}	ErrorResponse
//	@Router			/studio/documents [post]
func (h *StudioHandler) CreateDocument(c *gin.Context) {
	doc, err := h.studioService.CreateDocument(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}

// GetDocument godoc
//
//	@ID				getStudioDocument
//
//	@Summary		Get a document
//	@Description	Retrieve a document. When an editing session is open, the live state is returned.
//	@Tags			studio
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	APIResponse[studio.Document]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/documents/{id} [get]
func (h *StudioHandler) GetDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.studioService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// ListDocuments godoc
//
//	@ID				listStudioDocuments
//
//	@Summary		List documents
//	@Description	List all stored documents
//	@Tags			studio
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]studio.Document]
//	@Failure		503	{object}	ErrorResponse
//	@Router			/studio/documents [get]
func (h *StudioHandler) ListDocuments(c *gin.Context) {
	docs, err := h.studioService.ListDocuments(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, docs)
}

// DeleteDocument godoc
//
//	@ID				deleteStudioDocument
//
//	@Summary		Delete a document
//	@Description	Delete a document. Any open editing session is closed without saving.
//	@Tags			studio
//	@Produce		json
//	@Param			id	path	string	true	"Document ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/documents/{id} [delete]
func (h *StudioHandler) DeleteDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	if err := h.studioService.DeleteDocument(c.Request.Context(), documentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// OpenSession godoc
//
//	@ID				openStudioSession
//
//	@Summary		Open an editing session
//	@Description	Open (or join) the editing session for a document. Edits are autosaved after a short debounce.
//	@Tags			studio
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	APIResponse[studio.Document]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/documents/{id}/session [post]
func (h *StudioHandler) OpenSession(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	session, err := h.studioService.OpenSession(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	doc := session.Document()
	h.Success(c, doc)
}

// CloseSession godoc
//
//	@ID				closeStudioSession
//
//	@Summary		Close an editing session
//	@Description	Flush pending edits and close the document's editing session
//	@Tags			studio
//	@Produce		json
//	@Param			id	path	string	true	"Document ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/documents/{id}/session [delete]
func (h *StudioHandler) CloseSession(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	if err := h.studioService.CloseSession(c.Request.Context(), documentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// UpdateField godoc
//
//	@ID				updateStudioField
//
//	@Summary		Edit one document field
//	@Description	Apply a single typed edit addressed by dotted path, e.g. items[0].quantity. Financial edits recompute totals before the response.
//	@Tags			studio
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Document ID"
//	@Param			request	body		UpdateFieldRequest	true	"Field edit"
//	@Success		200		{object}	APIResponse[studio.Document]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/studio/documents/{id}/fields [patch]
func (h *StudioHandler) UpdateField(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.studioService.OpenSession(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if err := session.UpdateField(req.Path, req.Value); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	doc := session.Document()
	h.Success(c, doc)
}

// SelectTemplate godoc
//
//	@ID				selectStudioTemplate
//
//	@Summary		Apply a template to the open document
//	@Description	Replace the document's design with the named preset or saved template, discarding any local design edits
//	@Tags			studio
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Document ID"
//	@Param			request	body		SelectTemplateRequest	true	"Template selection"
//	@Success		200		{object}	APIResponse[studio.Document]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/studio/documents/{id}/template [post]
func (h *StudioHandler) SelectTemplate(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req SelectTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.studioService.OpenSession(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if err := session.SelectTemplate(c.Request.Context(), req.TemplateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	doc := session.Document()
	h.Success(c, doc)
}

// SaveDocument godoc
//
//	@ID				saveStudioDocument
//
//	@Summary		Save the open document now
//	@Description	Persist pending edits immediately instead of waiting for the autosave debounce
//	@Tags			studio
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	APIResponse[SessionStateResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/studio/documents/{id}/save [post]
func (h *StudioHandler) SaveDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	session, err := h.studioService.OpenSession(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if err := session.Save(c.Request.Context()); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, SessionStateResponse{
		DocumentID: documentID.String(),
		Dirty:      session.Dirty(),
	})
}

// SaveAsTemplate godoc
//
//	@ID				saveStudioDocumentAsTemplate
//
//	@Summary		Save the document's design as a template
//	@Description	Capture the document's current tokens, visibility and table settings as a reusable named template
//	@Tags			studio
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Document ID"
//	@Param			request	body		studioapp.SaveTemplateRequest	true	"Template name and description"
//	@Success		201		{object}	APIResponse[design.Template]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/studio/documents/{id}/save-as-template [post]
func (h *StudioHandler) SaveAsTemplate(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req studioapp.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tmpl, err := h.studioService.SaveAsTemplate(c.Request.Context(), documentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tmpl)
}

// ListTemplates godoc
//
//	@ID				listStudioTemplates
//
//	@Summary		List saved templates
//	@Description	List templates saved from documents in this workspace
//	@Tags			studio
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]design.Template]
//	@Failure		503	{object}	ErrorResponse
//	@Router			/studio/templates [get]
func (h *StudioHandler) ListTemplates(c *gin.Context) {
	templates, err := h.studioService.ListTemplates(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, templates)
}

// DeleteTemplate godoc
//
//	@ID				deleteStudioTemplate
//
//	@Summary		Delete a saved template
//	@Description	Delete a saved template by ID
//	@Tags			studio
//	@Produce		json
//	@Param			id	path	string	true	"Template ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/templates/{id} [delete]
func (h *StudioHandler) DeleteTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.studioService.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// UploadImage godoc
//
//	@ID				uploadStudioImage
//
//	@Summary		Upload a logo image
//	@Description	Store a PNG, JPEG or SVG image for use as an invoice logo. Data is base64 in the JSON body, limited to 5 MB.
//	@Tags			studio
//	@Accept			json
//	@Produce		json
//	@Param			request	body		studioapp.UploadImageRequest	true	"Image to upload"
//	@Success		201		{object}	APIResponse[studioapp.StoredImage]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		507		{object}	ErrorResponse
//	@Router			/studio/images [post]
func (h *StudioHandler) UploadImage(c *gin.Context) {
	var req studioapp.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	img, err := h.studioService.UploadImage(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, img)
}

// GetImage godoc
//
//	@ID				getStudioImage
//
//	@Summary		Download an image
//	@Description	Stream a stored image with its original content type
//	@Tags			studio
//	@Produce		image/png
//	@Param			id	path		string	true	"Image ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/images/{id} [get]
func (h *StudioHandler) GetImage(c *gin.Context) {
	img, err := h.studioService.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, img.MimeType, img.Data)
}

// DeleteImage godoc
//
//	@ID				deleteStudioImage
//
//	@Summary		Delete an image
//	@Description	Delete a stored image by ID
//	@Tags			studio
//	@Produce		json
//	@Param			id	path	string	true	"Image ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/images/{id} [delete]
func (h *StudioHandler) DeleteImage(c *gin.Context) {
	if err := h.studioService.DeleteImage(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// PreviewDocument godoc
//
//	@ID				previewStudioDocument
//
//	@Summary		Preview a document as HTML
//	@Description	Render the document (live session state when open) to a self-contained HTML page suitable for an iframe
//	@Tags			studio
//	@Produce		html
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{string}	string	"HTML page"
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/studio/documents/{id}/preview [get]
func (h *StudioHandler) PreviewDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	html, err := h.studioService.PreviewHTML(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ExportDocument godoc
//
//	@ID				exportStudioDocumentPDF
//
//	@Summary		Export a document as PDF
//	@Description	Render the document (live session state when open) to PDF. Mode "capture" prints through a headless browser; mode "document" uses the native PDF writer.
//	@Tags			studio
//	@Produce		application/pdf
//	@Param			id		path		string	true	"Document ID"
//	@Param			mode	query		string	false	"Export mode"	Enums(capture, document)
//	@Success		200		{file}		binary
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		504		{object}	ErrorResponse
//	@Router			/studio/documents/{id}/export [post]
func (h *StudioHandler) ExportDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	mode := studioapp.ExportMode(c.DefaultQuery("mode", string(studioapp.ExportModeCapture)))
	if mode != studioapp.ExportModeCapture && mode != studioapp.ExportModeDocument {
		h.BadRequest(c, "Export mode must be capture or document")
		return
	}

	pdf, err := h.studioService.ExportPDF(c.Request.Context(), documentID, mode)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+documentID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
