// Package design is the application service for design templates:
// org-scoped template CRUD, the built-in preset catalog, and the
// resolution of template + overrides into a render-ready design.
package design

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// ResolvedCache caches resolved designs for the read-heavy preview
// path. Implementations degrade silently: a miss and a backend outage
// look the same to the service.
type ResolvedCache interface {
	Get(ctx context.Context, key string) (*design.Resolved, bool)
	Set(ctx context.Context, key string, resolved design.Resolved)
}

// Service handles design template business operations
type Service struct {
	templateRepo design.TemplateRepository
	cache        ResolvedCache
	logger       *zap.Logger
}

// NewService creates a new design Service. cache may be nil.
func NewService(templateRepo design.TemplateRepository, cache ResolvedCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		templateRepo: templateRepo,
		cache:        cache,
		logger:       logger,
	}
}

// CreateTemplate creates a new design template
func (s *Service) CreateTemplate(ctx context.Context, orgID uuid.UUID, req CreateTemplateRequest) (*TemplateResponse, error) {
	exists, err := s.templateRepo.ExistsByName(ctx, orgID, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check template existence: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
	}

	tokens := req.Tokens.Apply(design.DefaultTokenSet())
	visibility := req.Visibility.Apply(design.DefaultSectionVisibility())

	template, err := design.NewTemplate(orgID, req.Name, tokens, visibility)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := template.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Table != nil {
		if err := template.SetTableSettings(*req.Table); err != nil {
			return nil, err
		}
	}
	if req.SetDefault {
		if err := s.templateRepo.ClearDefaultForOrg(ctx, orgID); err != nil {
			return nil, fmt.Errorf("failed to clear default template: %w", err)
		}
		template.SetAsDefault()
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Info("design template created",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name))

	return toTemplateResponse(template), nil
}

// GetTemplate retrieves a template by ID
func (s *Service) GetTemplate(ctx context.Context, orgID, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return toTemplateResponse(template), nil
}

// ListTemplates retrieves a paginated list of templates
func (s *Service) ListTemplates(ctx context.Context, orgID uuid.UUID, req ListTemplatesRequest) (*ListTemplatesResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	templates, err := s.templateRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	total, err := s.templateRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	items := make([]TemplateResponse, len(templates))
	for i := range templates {
		items[i] = *toTemplateResponse(&templates[i])
	}

	return &ListTemplatesResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// UpdateTemplate updates an existing template
func (s *Service) UpdateTemplate(ctx context.Context, orgID, templateID uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if req.Name != nil && *req.Name != template.Name {
		exists, err := s.templateRepo.ExistsByName(ctx, orgID, *req.Name, &templateID)
		if err != nil {
			return nil, fmt.Errorf("failed to check template existence: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
		}
	}

	if req.Name != nil || req.Description != nil {
		name := template.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := template.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := template.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Tokens != nil {
		if err := template.SetTokens(req.Tokens.Apply(template.Tokens)); err != nil {
			return nil, err
		}
	}
	if req.Visibility != nil {
		template.SetVisibility(req.Visibility.Apply(template.Visibility))
	}
	if req.Table != nil {
		if err := template.SetTableSettings(*req.Table); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Info("design template updated",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name))

	return toTemplateResponse(template), nil
}

// DeleteTemplate deletes a template. Invoices that snapshotted this
// template keep rendering from their saved copies.
func (s *Service) DeleteTemplate(ctx context.Context, orgID, templateID uuid.UUID) error {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return fmt.Errorf("failed to get template: %w", err)
	}

	if template.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete the default template. Set another template as default first.")
	}

	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.logger.Info("design template deleted", zap.String("id", templateID.String()))
	return nil
}

// SetDefaultTemplate makes a template the org's default
func (s *Service) SetDefaultTemplate(ctx context.Context, orgID, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := s.templateRepo.ClearDefaultForOrg(ctx, orgID); err != nil {
		return nil, fmt.Errorf("failed to clear default template: %w", err)
	}
	template.SetAsDefault()

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	return toTemplateResponse(template), nil
}

// ListPresets returns the built-in preset catalog
func (s *Service) ListPresets() []PresetResponse {
	presets := design.AllPresets()
	items := make([]PresetResponse, len(presets))
	for i, p := range presets {
		items[i] = PresetResponse{
			ID:         p.ID,
			Name:       p.Name,
			Tokens:     p.Tokens,
			Visibility: p.Visibility,
			Table:      p.Table,
		}
	}
	return items
}

// ResolveDesign merges a template with live overrides into a complete
// design. It never fails on bad template ids; the worst case is the
// classic preset with defaults.
func (s *Service) ResolveDesign(ctx context.Context, orgID uuid.UUID, req ResolveDesignRequest) (*ResolvedResponse, error) {
	templateID := req.TemplateID
	if templateID == "" {
		templateID = s.defaultTemplateID(ctx, orgID)
	}

	overrides := &design.Overrides{
		TemplateID: templateID,
		Tokens:     req.Tokens,
		Visibility: req.Visibility,
	}

	key := cacheKey(orgID, templateID, overrides)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return toResolvedResponse(*cached), nil
		}
	}

	resolver := design.NewResolver(&orgTemplateSource{repo: s.templateRepo, orgID: orgID})
	resolved := resolver.Resolve(ctx, templateID, overrides)

	if s.cache != nil {
		s.cache.Set(ctx, key, resolved)
	}
	return toResolvedResponse(resolved), nil
}

func (s *Service) defaultTemplateID(ctx context.Context, orgID uuid.UUID) string {
	template, err := s.templateRepo.FindDefaultForOrg(ctx, orgID)
	if err != nil || template == nil {
		return design.PresetClassic
	}
	return template.ID.String()
}

// orgTemplateSource scopes custom template lookups to one organization
type orgTemplateSource struct {
	repo  design.TemplateRepository
	orgID uuid.UUID
}

func (s *orgTemplateSource) TemplateByID(ctx context.Context, id uuid.UUID) (*design.Template, error) {
	return s.repo.FindByIDForOrg(ctx, s.orgID, id)
}

func cacheKey(orgID uuid.UUID, templateID string, overrides *design.Overrides) string {
	payload, _ := json.Marshal(overrides)
	sum := sha256.Sum256(append([]byte(orgID.String()+":"+templateID+":"), payload...))
	return "design:resolved:" + hex.EncodeToString(sum[:])
}
