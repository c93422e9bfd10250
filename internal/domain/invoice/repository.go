package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// Repository defines the interface for invoice persistence
type Repository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForOrg finds an invoice by ID within a specific organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)

	// FindAllForOrg finds all invoices for a specific organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// Save saves an invoice (insert or update)
	Save(ctx context.Context, inv *Invoice) error

	// Delete deletes an invoice by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForOrg returns the total count of invoices for an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)
}
