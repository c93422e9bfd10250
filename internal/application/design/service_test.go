package design_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appdesign "github.com/invoicestudio/backend/internal/application/design"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*design.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*design.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*design.Template, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*design.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]design.Template, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]design.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindDefaultForOrg(ctx context.Context, orgID uuid.UUID) (*design.Template, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*design.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *design.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemplateRepository) ExistsByName(ctx context.Context, orgID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepository) ClearDefaultForOrg(ctx context.Context, orgID uuid.UUID) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

type recordingCache struct {
	entries map[string]design.Resolved
	sets    int
	hits    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string]design.Resolved{}}
}

func (c *recordingCache) Get(_ context.Context, key string) (*design.Resolved, bool) {
	if r, ok := c.entries[key]; ok {
		c.hits++
		return &r, true
	}
	return nil, false
}

func (c *recordingCache) Set(_ context.Context, key string, resolved design.Resolved) {
	c.sets++
	c.entries[key] = resolved
}

// =============================================================================
// Template CRUD
// =============================================================================

func TestService_CreateTemplate(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	accent := "#2563eb"
	repo.On("ExistsByName", mock.Anything, orgID, "Brand", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*design.Template")).Return(nil)

	resp, err := svc.CreateTemplate(context.Background(), orgID, appdesign.CreateTemplateRequest{
		Name:   "Brand",
		Tokens: &design.TokenPatch{AccentColorHex: &accent},
	})

	require.NoError(t, err)
	assert.Equal(t, "Brand", resp.Name)
	assert.Equal(t, accent, resp.Tokens.AccentColorHex)
	// unpatched tokens come from the defaults
	assert.Equal(t, design.FontFamilySystem, resp.Tokens.FontFamily)
	assert.False(t, resp.IsDefault)
	repo.AssertExpectations(t)
}

func TestService_CreateTemplate_DuplicateName(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	repo.On("ExistsByName", mock.Anything, orgID, "Brand", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.CreateTemplate(context.Background(), orgID, appdesign.CreateTemplateRequest{Name: "Brand"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_GetTemplate_NotFound(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()
	templateID := uuid.New()

	repo.On("FindByIDForOrg", mock.Anything, orgID, templateID).Return(nil, shared.ErrNotFound)

	_, err := svc.GetTemplate(context.Background(), orgID, templateID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestService_UpdateTemplate_AppliesPatch(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	template, err := design.NewTemplate(orgID, "Brand", design.DefaultTokenSet(), design.DefaultSectionVisibility())
	require.NoError(t, err)

	repo.On("FindByIDForOrg", mock.Anything, orgID, template.ID).Return(template, nil)
	repo.On("Save", mock.Anything, template).Return(nil)

	family := design.FontFamilyInter
	hidden := false
	resp, err := svc.UpdateTemplate(context.Background(), orgID, template.ID, appdesign.UpdateTemplateRequest{
		Tokens:     &design.TokenPatch{FontFamily: &family},
		Visibility: &design.VisibilityPatch{Footer: &hidden},
	})

	require.NoError(t, err)
	assert.Equal(t, design.FontFamilyInter, resp.Tokens.FontFamily)
	assert.False(t, resp.Visibility.Footer)
	// untouched visibility flags survive the patch
	assert.True(t, resp.Visibility.ClientDetails)
}

func TestService_DeleteTemplate_DefaultRefused(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	template, err := design.NewTemplate(orgID, "Brand", design.DefaultTokenSet(), design.DefaultSectionVisibility())
	require.NoError(t, err)
	template.SetAsDefault()

	repo.On("FindByIDForOrg", mock.Anything, orgID, template.ID).Return(template, nil)

	err = svc.DeleteTemplate(context.Background(), orgID, template.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_SetDefaultTemplate(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	template, err := design.NewTemplate(orgID, "Brand", design.DefaultTokenSet(), design.DefaultSectionVisibility())
	require.NoError(t, err)

	repo.On("FindByIDForOrg", mock.Anything, orgID, template.ID).Return(template, nil)
	repo.On("ClearDefaultForOrg", mock.Anything, orgID).Return(nil)
	repo.On("Save", mock.Anything, template).Return(nil)

	resp, err := svc.SetDefaultTemplate(context.Background(), orgID, template.ID)

	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	repo.AssertExpectations(t)
}

func TestService_ListPresets(t *testing.T) {
	svc := appdesign.NewService(new(MockTemplateRepository), nil, zap.NewNop())

	presets := svc.ListPresets()

	require.Len(t, presets, 3)
	ids := []string{presets[0].ID, presets[1].ID, presets[2].ID}
	assert.Contains(t, ids, design.PresetClassic)
	assert.Contains(t, ids, design.PresetModern)
	assert.Contains(t, ids, design.PresetCompact)
}

// =============================================================================
// Resolution
// =============================================================================

func TestService_ResolveDesign_PresetWithOverrides(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	accent := "#ff0000"
	resp, err := svc.ResolveDesign(context.Background(), orgID, appdesign.ResolveDesignRequest{
		TemplateID: design.PresetModern,
		Tokens:     &design.TokenPatch{AccentColorHex: &accent},
	})

	require.NoError(t, err)
	assert.Equal(t, design.PresetModern, resp.TemplateID)
	assert.Equal(t, accent, resp.Tokens.AccentColorHex)
	// the rest is the preset's defaults
	assert.Equal(t, design.FontFamilyInter, resp.Tokens.FontFamily)
}

func TestService_ResolveDesign_UnknownIDFallsBack(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()
	unknown := uuid.New()

	repo.On("FindByIDForOrg", mock.Anything, orgID, unknown).Return(nil, shared.ErrNotFound)

	resp, err := svc.ResolveDesign(context.Background(), orgID, appdesign.ResolveDesignRequest{
		TemplateID: unknown.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, design.PresetClassic, resp.TemplateID)
	assert.Equal(t, design.DefaultTokenSet(), resp.Tokens)
}

func TestService_ResolveDesign_EmptyIDUsesOrgDefault(t *testing.T) {
	repo := new(MockTemplateRepository)
	svc := appdesign.NewService(repo, nil, zap.NewNop())
	orgID := uuid.New()

	template, err := design.NewTemplate(orgID, "House Style", design.DefaultTokenSet(), design.DefaultSectionVisibility())
	require.NoError(t, err)

	repo.On("FindDefaultForOrg", mock.Anything, orgID).Return(template, nil)
	repo.On("FindByIDForOrg", mock.Anything, orgID, template.ID).Return(template, nil)

	resp, err := svc.ResolveDesign(context.Background(), orgID, appdesign.ResolveDesignRequest{})

	require.NoError(t, err)
	assert.Equal(t, template.ID.String(), resp.TemplateID)
}

func TestService_ResolveDesign_CachesResult(t *testing.T) {
	repo := new(MockTemplateRepository)
	cache := newRecordingCache()
	svc := appdesign.NewService(repo, cache, zap.NewNop())
	orgID := uuid.New()

	req := appdesign.ResolveDesignRequest{TemplateID: design.PresetClassic}

	first, err := svc.ResolveDesign(context.Background(), orgID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.ResolveDesign(context.Background(), orgID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}
