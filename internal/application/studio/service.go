// Package studio wires the standalone editing mode: self-contained
// documents persisted on-device, live editing sessions with debounced
// autosave, reusable design templates, and logo images.
package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/invoicestudio/backend/internal/domain/studio"
	"github.com/invoicestudio/backend/internal/infrastructure/render"
)

// DocumentRenderer produces a PDF directly from a document
type DocumentRenderer interface {
	Render(ctx context.Context, doc *studio.Document) ([]byte, error)
}

// ExportMode selects how a PDF is produced
type ExportMode string

const (
	// ExportModeCapture prints the HTML preview through the browser engine
	ExportModeCapture ExportMode = "capture"
	// ExportModeDocument writes the PDF natively without a browser
	ExportModeDocument ExportMode = "document"
)

const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
}

// SaveTemplateRequest captures a document's current design as a template
type SaveTemplateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UploadImageRequest uploads a logo image into the store
type UploadImageRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	MimeType string `json:"mime_type" binding:"required"`
	Data     []byte `json:"data" binding:"required"`
}

// Service manages studio documents, their editing sessions, templates
// and images. One session per document: opening an already open
// document returns the existing live session.
type Service struct {
	store    Store
	html     *render.HTMLRenderer
	capturer render.PDFCapturer
	pdfdoc   DocumentRenderer
	logger   *zap.Logger
	autosave time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewService creates the studio service
func NewService(
	store Store,
	html *render.HTMLRenderer,
	capturer render.PDFCapturer,
	pdfdoc DocumentRenderer,
	autosave time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if autosave <= 0 {
		autosave = DefaultAutosaveDelay
	}
	return &Service{
		store:    store,
		html:     html,
		capturer: capturer,
		pdfdoc:   pdfdoc,
		logger:   logger,
		autosave: autosave,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// CreateDocument creates and persists a blank document
func (s *Service) CreateDocument(ctx context.Context) (*studio.Document, error) {
	doc := studio.NewDocument()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	s.logger.Info("studio document created", zap.String("document_id", doc.ID.String()))
	return doc, nil
}

// GetDocument returns a document. When a live session is open for it,
// the session's current state wins over what the store holds.
func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*studio.Document, error) {
	if session := s.sessionFor(id); session != nil {
		doc := session.Document()
		return &doc, nil
	}

	doc, err := s.store.LoadDocument(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns every stored document
func (s *Service) ListDocuments(ctx context.Context) ([]studio.Document, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document, closing its session if one is open
func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if session, ok := s.sessions[id]; ok {
		session.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Document not found")
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.logger.Info("studio document deleted", zap.String("document_id", id.String()))
	return nil
}

// OpenSession opens a live editing session for the document. Repeated
// calls for the same document return the same session.
func (s *Service) OpenSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	if session, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	doc, err := s.store.LoadDocument(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	session, err := NewSession(doc, s.store, SessionConfig{
		AutosaveDelay: s.autosave,
		Logger:        s.logger,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		session.Close()
		return existing, nil
	}
	s.sessions[id] = session
	return session, nil
}

// CloseSession saves and closes the document's session, if open
func (s *Service) CloseSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if session.Dirty() {
		if err := session.Save(ctx); err != nil {
			session.Close()
			return err
		}
	}
	session.Close()
	return nil
}

// Shutdown flushes and closes every open session. Dirty documents are
// saved before their session is torn down so a graceful stop never
// loses pending edits.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for id, session := range s.sessions {
		sessions = append(sessions, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	var firstErr error
	for _, session := range sessions {
		if session.Dirty() {
			if err := session.Save(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		session.Close()
	}
	return firstErr
}

// SaveAsTemplate captures the document's current design as a reusable
// template in the store
func (s *Service) SaveAsTemplate(ctx context.Context, documentID uuid.UUID, req SaveTemplateRequest) (*design.Template, error) {
	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	template, err := design.NewTemplate(uuid.Nil, req.Name, doc.Tokens, doc.Visibility)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := template.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if err := template.SetTableSettings(doc.Table); err != nil {
		return nil, err
	}

	if err := s.store.SaveTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	s.logger.Info("studio template saved",
		zap.String("template_id", template.ID.String()),
		zap.String("name", template.Name))
	return template, nil
}

// ListTemplates returns every stored design template
func (s *Service) ListTemplates(ctx context.Context) ([]design.Template, error) {
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// DeleteTemplate removes a stored template
func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// UploadImage stores a logo image after validating type and size
func (s *Service) UploadImage(ctx context.Context, req UploadImageRequest) (*StoredImage, error) {
	if !allowedImageTypes[req.MimeType] {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported image type: "+req.MimeType)
	}
	if len(req.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Image data is empty")
	}
	if len(req.Data) > maxImageBytes {
		return nil, shared.NewDomainError("INVALID_INPUT", "Image exceeds the 5 MB limit")
	}

	img := &StoredImage{
		ID:        uuid.New().String(),
		Name:      req.Name,
		MimeType:  req.MimeType,
		Data:      req.Data,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveImage(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	return img, nil
}

// GetImage returns a stored image
func (s *Service) GetImage(ctx context.Context, id string) (*StoredImage, error) {
	img, err := s.store.Image(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Image not found")
		}
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return img, nil
}

// DeleteImage removes a stored image
func (s *Service) DeleteImage(ctx context.Context, id string) error {
	if err := s.store.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Image not found")
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// PreviewHTML renders the document's live HTML preview. A logo image
// referenced by the document is inlined as a data URL so the preview
// needs no extra round trips.
func (s *Service) PreviewHTML(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.html.Render(doc, render.HTMLOptions{LogoURL: s.logoDataURL(ctx, doc)})
}

// ExportPDF produces the PDF bytes for a document in the chosen mode
func (s *Service) ExportPDF(ctx context.Context, documentID uuid.UUID, mode ExportMode) ([]byte, error) {
	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if mode == ExportModeDocument {
		return s.pdfdoc.Render(ctx, doc)
	}

	html, err := s.html.Render(doc, render.HTMLOptions{LogoURL: s.logoDataURL(ctx, doc)})
	if err != nil {
		return nil, err
	}

	// the preview renders normalized tokens, so the capture page size
	// must be normalized the same way
	result, err := s.capturer.Capture(ctx, &render.CaptureRequest{
		HTML:     html,
		PageSize: doc.Tokens.Normalize().PageSize,
		Margins:  render.DefaultMargins(),
		Title:    doc.Title.Value,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

func (s *Service) sessionFor(id uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// logoDataURL resolves the document's logo image to a data URL. A
// missing or unreadable image degrades to no logo.
func (s *Service) logoDataURL(ctx context.Context, doc *studio.Document) string {
	if doc.LogoImageID == "" {
		return ""
	}
	img, err := s.store.Image(ctx, doc.LogoImageID)
	if err != nil {
		s.logger.Warn("logo image unavailable",
			zap.String("image_id", doc.LogoImageID), zap.Error(err))
		return ""
	}
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
