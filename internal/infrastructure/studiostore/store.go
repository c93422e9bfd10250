// Package studiostore persists studio documents, templates and images
// in a local SQLite database. It backs the standalone editing mode, so
// failures map onto the storage errors the editing session knows how to
// surface instead of leaking driver details.
package studiostore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appstudio "github.com/invoicestudio/backend/internal/application/studio"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/invoicestudio/backend/internal/domain/studio"
)

// documentModel stores a whole studio document as one JSON payload.
// Documents are always loaded and saved as a unit, so per-field columns
// would only be dead weight here.
type documentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Title     string    `gorm:"type:varchar(255)"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (documentModel) TableName() string { return "studio_documents" }

type templateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (templateModel) TableName() string { return "studio_templates" }

type imageModel struct {
	ID        string    `gorm:"type:varchar(64);primary_key"`
	Name      string    `gorm:"type:varchar(255);not null"`
	MimeType  string    `gorm:"column:mime_type;type:varchar(100);not null"`
	Data      []byte    `gorm:"type:blob;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (imageModel) TableName() string { return "studio_images" }

// GormStore is the SQLite-backed studio store
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ appstudio.Store = (*GormStore)(nil)

// Open opens (and migrates) the studio database at path.
// ":memory:" gives an ephemeral store, useful in tests.
func Open(path string, log *zap.Logger) (*GormStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("failed to open studio database", zap.String("path", path), zap.Error(err))
		return nil, shared.ErrStorageUnavailable
	}

	if err := db.AutoMigrate(&documentModel{}, &templateModel{}, &imageModel{}); err != nil {
		log.Error("failed to migrate studio database", zap.Error(err))
		return nil, shared.ErrStorageUnavailable
	}

	return &GormStore{db: db, logger: log}, nil
}

// Close closes the underlying database
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveDocument inserts or updates a document
func (s *GormStore) SaveDocument(ctx context.Context, doc *studio.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document cannot be serialized")
	}

	model := documentModel{
		ID:        doc.ID,
		Title:     doc.Title.Value,
		Payload:   string(payload),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return s.translate("save document", err)
	}
	return nil
}

// LoadDocument loads a document by id
func (s *GormStore) LoadDocument(ctx context.Context, id uuid.UUID) (*studio.Document, error) {
	var model documentModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, s.translate("load document", err)
	}

	var doc studio.Document
	if err := json.Unmarshal([]byte(model.Payload), &doc); err != nil {
		s.logger.Error("corrupt studio document payload",
			zap.String("document_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Stored document is corrupt")
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first
func (s *GormStore) ListDocuments(ctx context.Context) ([]studio.Document, error) {
	var rows []documentModel
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, s.translate("list documents", err)
	}

	docs := make([]studio.Document, 0, len(rows))
	for _, row := range rows {
		var doc studio.Document
		if err := json.Unmarshal([]byte(row.Payload), &doc); err != nil {
			s.logger.Warn("skipping corrupt studio document",
				zap.String("document_id", row.ID.String()), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DeleteDocument removes a document by id
func (s *GormStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&documentModel{}, "id = ?", id)
	if result.Error != nil {
		return s.translate("delete document", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveTemplate inserts or updates a design template
func (s *GormStore) SaveTemplate(ctx context.Context, template *design.Template) error {
	payload, err := json.Marshal(template)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Template cannot be serialized")
	}

	model := templateModel{
		ID:        template.ID,
		Name:      template.Name,
		Payload:   string(payload),
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return s.translate("save template", err)
	}
	return nil
}

// TemplateByID loads a design template by id
func (s *GormStore) TemplateByID(ctx context.Context, id uuid.UUID) (*design.Template, error) {
	var model templateModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, s.translate("load template", err)
	}

	var template design.Template
	if err := json.Unmarshal([]byte(model.Payload), &template); err != nil {
		s.logger.Error("corrupt studio template payload",
			zap.String("template_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INVALID_INPUT", "Stored template is corrupt")
	}
	return &template, nil
}

// ListTemplates returns all design templates by name
func (s *GormStore) ListTemplates(ctx context.Context) ([]design.Template, error) {
	var rows []templateModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, s.translate("list templates", err)
	}

	templates := make([]design.Template, 0, len(rows))
	for _, row := range rows {
		var template design.Template
		if err := json.Unmarshal([]byte(row.Payload), &template); err != nil {
			s.logger.Warn("skipping corrupt studio template",
				zap.String("template_id", row.ID.String()), zap.Error(err))
			continue
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// DeleteTemplate removes a design template by id
func (s *GormStore) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&templateModel{}, "id = ?", id)
	if result.Error != nil {
		return s.translate("delete template", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveImage stores an uploaded image
func (s *GormStore) SaveImage(ctx context.Context, img *appstudio.StoredImage) error {
	model := imageModel{
		ID:        img.ID,
		Name:      img.Name,
		MimeType:  img.MimeType,
		Data:      img.Data,
		CreatedAt: img.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return s.translate("save image", err)
	}
	return nil
}

// Image loads a stored image by id
func (s *GormStore) Image(ctx context.Context, id string) (*appstudio.StoredImage, error) {
	var model imageModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, s.translate("load image", err)
	}
	return &appstudio.StoredImage{
		ID:        model.ID,
		Name:      model.Name,
		MimeType:  model.MimeType,
		Data:      model.Data,
		CreatedAt: model.CreatedAt,
	}, nil
}

// DeleteImage removes a stored image by id
func (s *GormStore) DeleteImage(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&imageModel{}, "id = ?", id)
	if result.Error != nil {
		return s.translate("delete image", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// translate maps driver errors onto the storage errors the editing
// session surfaces to the user
func (s *GormStore) translate(op string, err error) error {
	s.logger.Error("studio store operation failed", zap.String("op", op), zap.Error(err))
	if strings.Contains(err.Error(), "disk is full") || strings.Contains(err.Error(), "disk full") {
		return shared.ErrStorageQuota
	}
	return shared.ErrStorageUnavailable
}
