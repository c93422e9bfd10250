package studio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/studio"
	"github.com/invoicestudio/backend/internal/infrastructure/render"
)

type fakeCapturer struct {
	lastReq *render.CaptureRequest
}

func (f *fakeCapturer) Capture(ctx context.Context, req *render.CaptureRequest) (*render.CaptureResult, error) {
	f.lastReq = req
	return &render.CaptureResult{PDFData: []byte("%PDF-capture")}, nil
}

func (f *fakeCapturer) Close() error { return nil }

type fakeDocRenderer struct {
	calls int
}

func (f *fakeDocRenderer) Render(ctx context.Context, doc *studio.Document) ([]byte, error) {
	f.calls++
	return []byte("%PDF-native"), nil
}

type serviceFixture struct {
	service  *Service
	store    *fakeStore
	capturer *fakeCapturer
	pdfdoc   *fakeDocRenderer
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store := newFakeStore()
	capturer := &fakeCapturer{}
	pdfdoc := &fakeDocRenderer{}
	html := render.NewHTMLRenderer(render.NewCurrencyFormatter("en-US"))
	service := NewService(store, html, capturer, pdfdoc, time.Hour, nil)
	return &serviceFixture{service: service, store: store, capturer: capturer, pdfdoc: pdfdoc}
}

func (f *serviceFixture) createDocument(t *testing.T) *studio.Document {
	t.Helper()
	doc, err := f.service.CreateDocument(context.Background())
	require.NoError(t, err)
	return doc
}

func TestServiceCreateDocument(t *testing.T) {
	f := newServiceFixture(t)

	doc := f.createDocument(t)

	assert.Equal(t, "USD", doc.Currency)
	assert.Equal(t, "Invoice", doc.Title.Value)
	assert.Equal(t, 1, f.store.saveCount())

	loaded, err := f.service.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, loaded.ID)
}

func TestServiceGetDocumentNotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GetDocument(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestServiceGetDocumentPrefersLiveSession(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	session, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, session.UpdateField("title.value", "Live edit"))

	current, err := f.service.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Live edit", current.Title.Value)
}

func TestServiceOpenSessionIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	first, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)
	second, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestServiceCloseSessionSavesDirtyState(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	session, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, session.UpdateField("title.value", "Closing soon"))

	require.NoError(t, f.service.CloseSession(context.Background(), doc.ID))

	stored, err := f.store.LoadDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Closing soon", stored.Title.Value)
}

func TestServiceDeleteDocumentClosesSession(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	session, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteDocument(context.Background(), doc.ID))

	err = session.UpdateField("title.value", "x")
	require.Error(t, err)
	_, err = f.service.GetDocument(context.Background(), doc.ID)
	require.Error(t, err)
}

func TestServiceSaveAsTemplate(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	session, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, session.UpdateField("tokens.accentColorHex", "#ff6600"))

	template, err := f.service.SaveAsTemplate(context.Background(), doc.ID, SaveTemplateRequest{
		Name:        "Orange brand",
		Description: "Used for Q4 statements",
	})
	require.NoError(t, err)

	assert.Equal(t, "Orange brand", template.Name)
	assert.Equal(t, "Used for Q4 statements", template.Description)
	assert.Equal(t, "#ff6600", template.Tokens.AccentColorHex)

	templates, err := f.service.ListTemplates(context.Background())
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestServiceUploadImageValidation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.UploadImage(context.Background(), UploadImageRequest{
		Name: "logo.bmp", MimeType: "image/bmp", Data: []byte{0x1},
	})
	require.Error(t, err)

	_, err = f.service.UploadImage(context.Background(), UploadImageRequest{
		Name: "logo.png", MimeType: "image/png",
	})
	require.Error(t, err)

	img, err := f.service.UploadImage(context.Background(), UploadImageRequest{
		Name: "logo.png", MimeType: "image/png", Data: []byte{0x89, 0x50},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, img.ID)

	fetched, err := f.service.GetImage(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", fetched.Name)

	require.NoError(t, f.service.DeleteImage(context.Background(), img.ID))
	_, err = f.service.GetImage(context.Background(), img.ID)
	require.Error(t, err)
}

func TestServicePreviewHTMLInlinesLogo(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	img, err := f.service.UploadImage(context.Background(), UploadImageRequest{
		Name: "logo.png", MimeType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)

	session, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, session.UpdateField("logoImageId", img.ID))
	require.NoError(t, session.UpdateField("title.value", "Preview me"))

	html, err := f.service.PreviewHTML(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.True(t, strings.Contains(html, "Preview me"))
	assert.True(t, strings.Contains(html, "data:image/png;base64,"))
}

func TestServiceExportPDFCaptureMode(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	data, err := f.service.ExportPDF(context.Background(), doc.ID, ExportModeCapture)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-capture"), data)
	require.NotNil(t, f.capturer.lastReq)
	assert.Equal(t, doc.Tokens.PageSize, f.capturer.lastReq.PageSize)
	assert.Equal(t, doc.Title.Value, f.capturer.lastReq.Title)
	assert.True(t, strings.Contains(f.capturer.lastReq.HTML, "invoice-root"))
}

func TestServiceExportPDFCaptureModeUsesNormalizedPageSize(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	session, err := f.service.OpenSession(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, session.UpdateField("tokens.pageSize", "Banana"))

	data, err := f.service.ExportPDF(context.Background(), doc.ID, ExportModeCapture)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-capture"), data)
	require.NotNil(t, f.capturer.lastReq)
	assert.Equal(t, design.PageSizeA4, f.capturer.lastReq.PageSize)
}

func TestServiceExportPDFDocumentMode(t *testing.T) {
	f := newServiceFixture(t)
	doc := f.createDocument(t)

	data, err := f.service.ExportPDF(context.Background(), doc.ID, ExportModeDocument)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-native"), data)
	assert.Equal(t, 1, f.pdfdoc.calls)
	assert.Nil(t, f.capturer.lastReq)
}
