package studio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/studio"
)

// StoredImage is an uploaded logo image kept in the local store
type StoredImage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the on-device persistence port for the standalone editing
// mode: documents, reusable templates, and logo images. Implementations
// translate backend failures into shared.ErrStorageUnavailable and
// shared.ErrStorageQuota so callers can show them instead of crashing
// the session.
type Store interface {
	SaveDocument(ctx context.Context, doc *studio.Document) error
	LoadDocument(ctx context.Context, id uuid.UUID) (*studio.Document, error)
	ListDocuments(ctx context.Context) ([]studio.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	SaveTemplate(ctx context.Context, template *design.Template) error
	TemplateByID(ctx context.Context, id uuid.UUID) (*design.Template, error)
	ListTemplates(ctx context.Context) ([]design.Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	SaveImage(ctx context.Context, img *StoredImage) error
	Image(ctx context.Context, id string) (*StoredImage, error)
	DeleteImage(ctx context.Context, id string) error
}
