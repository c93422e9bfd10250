package design

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// Template is a named bundle of default design tokens and section
// visibility, reusable across invoices. It is the aggregate root for
// design-template operations.
type Template struct {
	shared.OrgAggregateRoot
	Name        string            // Template name
	Description string            // Template description
	Tokens      TokenSet          // Default page-level tokens
	Visibility  SectionVisibility // Default section visibility
	Table       TableSettings     // Default line-item table styles
	IsDefault   bool              // Whether this is the org's default template
}

// NewTemplate creates a new design template
func NewTemplate(orgID uuid.UUID, name string, tokens TokenSet, visibility SectionVisibility) (*Template, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}
	if err := validateTokens(tokens); err != nil {
		return nil, err
	}

	template := &Template{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             strings.TrimSpace(name),
		Tokens:           tokens.Normalize(),
		Visibility:       visibility,
		Table:            DefaultTableSettings(),
	}

	template.AddDomainEvent(NewTemplateCreatedEvent(template))

	return template, nil
}

// Update updates the template's basic information
func (t *Template) Update(name, description string) error {
	if err := validateTemplateName(name); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTemplateUpdatedEvent(t))

	return nil
}

// SetTokens replaces the template's default token set
func (t *Template) SetTokens(tokens TokenSet) error {
	if err := validateTokens(tokens); err != nil {
		return err
	}

	t.Tokens = tokens.Normalize()
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTemplateUpdatedEvent(t))

	return nil
}

// SetVisibility replaces the template's default section visibility
func (t *Template) SetVisibility(visibility SectionVisibility) {
	t.Visibility = visibility
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTemplateUpdatedEvent(t))
}

// SetTableSettings replaces the template's line-item table styles
func (t *Template) SetTableSettings(table TableSettings) error {
	if table.BackgroundColor != "" && !IsHexColor(table.BackgroundColor) {
		return shared.NewDomainError("INVALID_COLOR", "Table background color must be a hex color")
	}
	if table.BorderColor != "" && !IsHexColor(table.BorderColor) {
		return shared.NewDomainError("INVALID_COLOR", "Table border color must be a hex color")
	}

	t.Table = table
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTemplateUpdatedEvent(t))

	return nil
}

// SetAsDefault marks this template as the organization's default.
// The caller must ensure only one template per org carries the flag.
func (t *Template) SetAsDefault() {
	if t.IsDefault {
		return
	}
	t.IsDefault = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// UnsetDefault removes the default flag from this template
func (t *Template) UnsetDefault() {
	if !t.IsDefault {
		return
	}
	t.IsDefault = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Validation functions

func validateTemplateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(trimmed) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 100 characters")
	}
	return nil
}

func validateTokens(tokens TokenSet) error {
	if tokens.AccentColorHex != "" && !IsHexColor(tokens.AccentColorHex) {
		return shared.NewDomainError("INVALID_COLOR", "Accent color must be a hex color like #1a2b3c")
	}
	if tokens.FontFamily != "" && !tokens.FontFamily.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown font family: "+tokens.FontFamily.String())
	}
	if tokens.PageSize != "" && !tokens.PageSize.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown page size: "+tokens.PageSize.String())
	}
	return nil
}
