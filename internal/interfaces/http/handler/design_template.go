package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	designapp "github.com/invoicestudio/backend/internal/application/design"
)

// DesignTemplateHandler handles design template API endpoints
type DesignTemplateHandler struct {
	BaseHandler
	designService *designapp.Service
}

// NewDesignTemplateHandler creates a new DesignTemplateHandler
func NewDesignTemplateHandler(designService *designapp.Service) *DesignTemplateHandler {
	return &DesignTemplateHandler{
		designService: designService,
	}
}

// CreateTemplate godoc
//
//	@ID				createDesignTemplate
//
//	@Summary		Create a design template
//	@Description	Create a named design template from a token patch over the classic defaults
//	@Tags			design-templates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		designapp.CreateTemplateRequest	true	"Template to create"
//	@Success		201		{object}	APIResponse[designapp.TemplateResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/design/templates [post]
func (h *DesignTemplateHandler) CreateTemplate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req designapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.designService.CreateTemplate(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetTemplate godoc
//
//	@ID				getDesignTemplate
//
//	@Summary		Get a design template
//	@Description	Retrieve a single design template by ID
//	@Tags			design-templates
//	@Produce		json
//	@Param			id	path		string	true	"Template ID"
//	@Success		200	{object}	APIResponse[designapp.TemplateResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/design/templates/{id} [get]
func (h *DesignTemplateHandler) GetTemplate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.designService.GetTemplate(c.Request.Context(), orgID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListTemplates godoc
//
//	@ID				listDesignTemplates
//
//	@Summary		List design templates
//	@Description	List the organization's design templates with pagination and search
//	@Tags			design-templates
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			search		query		string	false	"Search by name or description"
//	@Success		200			{object}	APIResponse[designapp.ListTemplatesResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Router			/design/templates [get]
func (h *DesignTemplateHandler) ListTemplates(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	req := designapp.ListTemplatesRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.designService.ListTemplates(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// UpdateTemplate godoc
//
//	@ID				updateDesignTemplate
//
//	@Summary		Update a design template
//	@Description	Patch a design template's name, description, tokens, visibility or table settings
//	@Tags			design-templates
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Template ID"
//	@Param			request	body		designapp.UpdateTemplateRequest	true	"Fields to update"
//	@Success		200		{object}	APIResponse[designapp.TemplateResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/design/templates/{id} [put]
func (h *DesignTemplateHandler) UpdateTemplate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req designapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.designService.UpdateTemplate(c.Request.Context(), orgID, templateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteTemplate godoc
//
//	@ID				deleteDesignTemplate
//
//	@Summary		Delete a design template
//	@Description	Delete a design template. Invoices that snapshotted it keep rendering from their snapshot.
//	@Tags			design-templates
//	@Produce		json
//	@Param			id	path	string	true	"Template ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/design/templates/{id} [delete]
func (h *DesignTemplateHandler) DeleteTemplate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.designService.DeleteTemplate(c.Request.Context(), orgID, templateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// SetDefaultTemplate godoc
//
//	@ID				setDefaultDesignTemplate
//
//	@Summary		Set the default design template
//	@Description	Make this template the organization's default design. Clears the flag on any previous default.
//	@Tags			design-templates
//	@Produce		json
//	@Param			id	path		string	true	"Template ID"
//	@Success		200	{object}	APIResponse[designapp.TemplateResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/design/templates/{id}/default [post]
func (h *DesignTemplateHandler) SetDefaultTemplate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.designService.SetDefaultTemplate(c.Request.Context(), orgID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPresets godoc
//
//	@ID				listDesignPresets
//
//	@Summary		List built-in design presets
//	@Description	Returns the built-in presets (classic, modern, compact) with their full token sets
//	@Tags			design-templates
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]designapp.PresetResponse]
//	@Router			/design/presets [get]
func (h *DesignTemplateHandler) ListPresets(c *gin.Context) {
	h.Success(c, h.designService.ListPresets())
}

// ResolveDesign godoc
//
//	@ID				resolveDesign
//
//	@Summary		Resolve a design
//	@Description	Merge a template (preset or custom) with live overrides into a render-ready design. Unknown template IDs fall back to the classic preset.
//	@Tags			design-templates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		designapp.ResolveDesignRequest	true	"Resolution request"
//	@Success		200		{object}	APIResponse[designapp.ResolvedResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Router			/design/resolve [post]
func (h *DesignTemplateHandler) ResolveDesign(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req designapp.ResolveDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.designService.ResolveDesign(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
