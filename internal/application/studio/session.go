package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/invoicestudio/backend/internal/domain/shared/path"
	"github.com/invoicestudio/backend/internal/domain/studio"
)

// DefaultAutosaveDelay is how long the session waits after the last
// edit before persisting
const DefaultAutosaveDelay = 300 * time.Millisecond

// Subscriber receives a copy of the document after every applied edit
type Subscriber func(doc studio.Document)

// Session is one live editing session over a studio document. Edits
// arrive as (path, value) pairs, are validated against the document's
// path schema, applied copy-on-write, and persisted through a debounced
// autosave: a burst of edits coalesces into a single store write
// carrying the final state.
//
// Concurrent saves follow last-edit-wins: store writes are serialized
// and each one snapshots the then-current state, so the persisted
// document always reflects the newest applied edit.
type Session struct {
	mu     sync.Mutex
	doc    *studio.Document
	tree   map[string]any
	schema *path.Schema

	// saveMu serializes store writes. Without it a slow save carrying
	// an old snapshot could land in the store after a newer one.
	saveMu sync.Mutex

	store    Store
	resolver *design.Resolver
	delay    time.Duration
	logger   *zap.Logger

	timer        *time.Timer
	revision     uint64
	persistedRev uint64
	persisted    []byte // JSON form of the last persisted document
	subscribers  []Subscriber
	closed       bool
}

// SessionConfig tunes a session
type SessionConfig struct {
	// AutosaveDelay overrides DefaultAutosaveDelay
	AutosaveDelay time.Duration
	Logger        *zap.Logger
}

// NewSession starts a session over doc. The document is treated as
// already persisted: a fresh session is not dirty.
func NewSession(doc *studio.Document, store Store, cfg SessionConfig) (*Session, error) {
	if doc == nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Session needs a document")
	}

	schema, err := path.NewSchema(studio.Document{})
	if err != nil {
		return nil, err
	}
	tree, err := doc.ToTree()
	if err != nil {
		return nil, err
	}

	delay := cfg.AutosaveDelay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		doc:       doc,
		tree:      tree,
		schema:    schema,
		store:     store,
		resolver:  design.NewResolver(store),
		delay:     delay,
		logger:    logger,
		persisted: marshalDocument(doc),
	}, nil
}

// Document returns a copy of the current document state
func (s *Session) Document() studio.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.doc
}

// UpdateField applies one edit addressed by a dot/bracket path, e.g.
// "items[0].quantity" or "tokens.accentColorHex". The value is checked
// against the document schema before anything is touched; an edit that
// does not fit leaves the session state exactly as it was.
func (s *Session) UpdateField(fieldPath string, value any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return shared.NewDomainError("INVALID_STATE", "Session is closed")
	}

	if err := s.schema.Check(fieldPath, value); err != nil {
		s.mu.Unlock()
		return err
	}

	tree, err := path.Set(s.tree, fieldPath, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	doc, err := studio.FromTree(tree)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if isFinancialPath(fieldPath) {
		doc.Recalculate()
		// totals changed, rebuild the tree from the document
		if tree, err = doc.ToTree(); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	doc.UpdatedAt = time.Now()

	s.doc = doc
	s.tree = tree
	s.revision++
	s.scheduleAutosaveLocked()

	subscribers, snapshot := s.subscribers, *doc
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(snapshot)
	}
	return nil
}

// SelectTemplate replaces the document's design wholesale with the
// resolved template. In-progress token and visibility edits are
// discarded, which is the documented behavior of switching templates.
func (s *Session) SelectTemplate(ctx context.Context, templateID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return shared.NewDomainError("INVALID_STATE", "Session is closed")
	}

	resolved := s.resolver.Resolve(ctx, templateID, nil)

	doc := *s.doc
	doc.Tokens = resolved.Tokens
	doc.Visibility = resolved.Visibility
	doc.Table = resolved.Table
	doc.UpdatedAt = time.Now()

	tree, err := doc.ToTree()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.doc = &doc
	s.tree = tree
	s.revision++
	s.scheduleAutosaveLocked()

	subscribers, snapshot := s.subscribers, doc
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(snapshot)
	}
	return nil
}

// Subscribe registers a callback for applied edits
func (s *Session) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Save persists the current state immediately, bypassing the debounce
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return shared.NewDomainError("INVALID_STATE", "Session is closed")
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.flush(ctx)
}

// Dirty reports whether the current state differs structurally from
// the last persisted state
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !bytes.Equal(marshalDocument(s.doc), s.persisted)
}

// Close stops the session. A pending autosave is cancelled and
// in-flight save results are abandoned.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) scheduleAutosaveLocked() {
	if s.store == nil {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.flush(context.Background()); err != nil {
			s.logger.Warn("autosave failed", zap.Error(err))
		}
	})
}

// flush writes the current state to the store. The session stays
// editable while the write runs, but writes themselves are serialized
// and snapshotted fresh under saveMu, so the store only ever moves
// forward: a flush that raced a newer one either skips (already
// persisted) or carries the newer state.
func (s *Session) flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.closed || s.store == nil {
		s.mu.Unlock()
		return nil
	}
	if s.revision <= s.persistedRev {
		s.mu.Unlock()
		return nil
	}
	revision := s.revision
	snapshot := *s.doc
	s.mu.Unlock()

	if err := s.store.SaveDocument(ctx, &snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if revision > s.persistedRev {
		s.persistedRev = revision
		s.persisted = marshalDocument(&snapshot)
	}
	return nil
}

func isFinancialPath(fieldPath string) bool {
	segments, err := path.Parse(fieldPath)
	if err != nil || len(segments) == 0 {
		return false
	}
	for _, prefix := range studio.FinancialPaths {
		if segments[0].Key == prefix {
			return true
		}
	}
	return false
}

func marshalDocument(doc *studio.Document) []byte {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	return raw
}
