package design

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// TemplateRepository defines the interface for design template persistence
type TemplateRepository interface {
	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)

	// FindByIDForOrg finds a template by ID within a specific organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Template, error)

	// FindAllForOrg finds all templates for a specific organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Template, error)

	// FindDefaultForOrg finds the organization's default template.
	// Returns nil if no default template is set.
	FindDefaultForOrg(ctx context.Context, orgID uuid.UUID) (*Template, error)

	// Save saves a template (insert or update)
	Save(ctx context.Context, template *Template) error

	// Delete deletes a template by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForOrg returns the total count of templates for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByName checks if a template with the given name exists in the org
	ExistsByName(ctx context.Context, orgID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// ClearDefaultForOrg clears the default flag on every template of the org
	ClearDefaultForOrg(ctx context.Context, orgID uuid.UUID) error
}
