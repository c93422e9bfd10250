package studiostore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstudio "github.com/invoicestudio/backend/internal/application/studio"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/invoicestudio/backend/internal/domain/studio"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreDocumentRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := studio.NewDocument()
	doc.Title.Value = "Round trip"
	doc.Currency = "EUR"

	require.NoError(t, store.SaveDocument(ctx, doc))

	loaded, err := store.LoadDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, loaded.ID)
	assert.Equal(t, "Round trip", loaded.Title.Value)
	assert.Equal(t, "EUR", loaded.Currency)
	assert.Equal(t, doc.Tokens, loaded.Tokens)
}

func TestStoreDocumentUpdateOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := studio.NewDocument()
	require.NoError(t, store.SaveDocument(ctx, doc))

	doc.Title.Value = "Second save"
	doc.UpdatedAt = time.Now()
	require.NoError(t, store.SaveDocument(ctx, doc))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Second save", docs[0].Title.Value)
}

func TestStoreDocumentNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadDocument(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = store.DeleteDocument(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStoreTemplateRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tokens := design.DefaultTokenSet()
	tokens.AccentColorHex = "#00aa55"
	template, err := design.NewTemplate(uuid.Nil, "Brand", tokens, design.DefaultSectionVisibility())
	require.NoError(t, err)

	require.NoError(t, store.SaveTemplate(ctx, template))

	loaded, err := store.TemplateByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brand", loaded.Name)
	assert.Equal(t, "#00aa55", loaded.Tokens.AccentColorHex)

	templates, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	require.NoError(t, store.DeleteTemplate(ctx, template.ID))
	_, err = store.TemplateByID(ctx, template.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStoreImageRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	img := &appstudio.StoredImage{
		ID:        uuid.New().String(),
		Name:      "logo.png",
		MimeType:  "image/png",
		Data:      []byte{0x89, 0x50, 0x4e, 0x47},
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SaveImage(ctx, img))

	loaded, err := store.Image(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Data, loaded.Data)
	assert.Equal(t, "image/png", loaded.MimeType)

	require.NoError(t, store.DeleteImage(ctx, img.ID))
	_, err = store.Image(ctx, img.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
