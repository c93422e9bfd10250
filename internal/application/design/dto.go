package design

import (
	"time"

	"github.com/invoicestudio/backend/internal/domain/design"
)

// =============================================================================
// Template DTOs
// =============================================================================

// CreateTemplateRequest represents a request to create a design template
type CreateTemplateRequest struct {
	Name        string                  `json:"name" binding:"required,min=1,max=100"`
	Description string                  `json:"description" binding:"max=500"`
	Tokens      *design.TokenPatch      `json:"tokens"`
	Visibility  *design.VisibilityPatch `json:"visibility"`
	Table       *design.TableSettings   `json:"table"`
	SetDefault  bool                    `json:"set_default"`
}

// UpdateTemplateRequest represents a request to update a design template
type UpdateTemplateRequest struct {
	Name        *string                 `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string                 `json:"description" binding:"omitempty,max=500"`
	Tokens      *design.TokenPatch      `json:"tokens"`
	Visibility  *design.VisibilityPatch `json:"visibility"`
	Table       *design.TableSettings   `json:"table"`
}

// ListTemplatesRequest represents a request to list templates
type ListTemplatesRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// TemplateResponse represents a design template response
type TemplateResponse struct {
	ID          string                   `json:"id"`
	OrgID       string                   `json:"org_id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Tokens      design.TokenSet          `json:"tokens"`
	Visibility  design.SectionVisibility `json:"visibility"`
	Table       design.TableSettings     `json:"table"`
	IsDefault   bool                     `json:"is_default"`
	Version     int                      `json:"version"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ListTemplatesResponse represents a paginated template list
type ListTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

// PresetResponse represents a built-in preset
type PresetResponse struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Tokens     design.TokenSet          `json:"tokens"`
	Visibility design.SectionVisibility `json:"visibility"`
	Table      design.TableSettings     `json:"table"`
}

// =============================================================================
// Resolution DTOs
// =============================================================================

// ResolveDesignRequest asks for the render-ready design of a template
// id (preset name or custom template uuid) plus optional live
// overrides. An empty template id resolves the organization's default.
type ResolveDesignRequest struct {
	TemplateID string                  `json:"template_id"`
	Tokens     *design.TokenPatch      `json:"tokens"`
	Visibility *design.VisibilityPatch `json:"visibility"`
}

// ResolvedResponse is the fully merged design
type ResolvedResponse struct {
	TemplateID string                   `json:"template_id"`
	Tokens     design.TokenSet          `json:"tokens"`
	Visibility design.SectionVisibility `json:"visibility"`
	Table      design.TableSettings     `json:"table"`
}

func toTemplateResponse(t *design.Template) *TemplateResponse {
	return &TemplateResponse{
		ID:          t.ID.String(),
		OrgID:       t.OrgID.String(),
		Name:        t.Name,
		Description: t.Description,
		Tokens:      t.Tokens,
		Visibility:  t.Visibility,
		Table:       t.Table,
		IsDefault:   t.IsDefault,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toResolvedResponse(r design.Resolved) *ResolvedResponse {
	return &ResolvedResponse{
		TemplateID: r.TemplateID,
		Tokens:     r.Tokens,
		Visibility: r.Visibility,
		Table:      r.Table,
	}
}
