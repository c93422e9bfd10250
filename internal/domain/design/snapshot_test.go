package design

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeSnapshotFromPreset(t *testing.T) {
	r := NewResolver(nil)
	resolved := r.ResolveDefaults(context.Background(), PresetModern)

	snapshot := TakeSnapshot(resolved, time.Now())

	// Built-in preset ids are never stored as a template reference.
	assert.Nil(t, snapshot.TemplateID)
	assert.Equal(t, resolved.Tokens, snapshot.Tokens)
	assert.Equal(t, resolved.Visibility, snapshot.Visibility)
	assert.Equal(t, resolved.Tokens.LogoPosition, snapshot.LogoPosition)
	assert.False(t, snapshot.IsZero())
}

func TestTakeSnapshotFromCustomTemplate(t *testing.T) {
	template := customTemplate(t, "#00ff00")
	source := &stubTemplateSource{templates: map[uuid.UUID]*Template{template.ID: template}}
	r := NewResolver(source)

	resolved := r.ResolveDefaults(context.Background(), template.ID.String())
	snapshot := TakeSnapshot(resolved, time.Now())

	require.NotNil(t, snapshot.TemplateID)
	assert.Equal(t, template.ID, *snapshot.TemplateID)
}

func TestSnapshotImmutableAgainstTemplateEdits(t *testing.T) {
	template := customTemplate(t, "#00ff00")
	source := &stubTemplateSource{templates: map[uuid.UUID]*Template{template.ID: template}}
	r := NewResolver(source)

	resolved := r.ResolveDefaults(context.Background(), template.ID.String())
	snapshot := TakeSnapshot(resolved, time.Now())

	// Mutate the source template after the snapshot was taken.
	tokens := template.Tokens
	tokens.AccentColorHex = "#000000"
	require.NoError(t, template.SetTokens(tokens))

	// Deleting the template entirely must not matter either.
	delete(source.templates, template.ID)

	rendered := snapshot.Resolved()
	assert.Equal(t, "#00ff00", rendered.Tokens.AccentColorHex)
}

func TestSnapshotResolvedNormalizesTokens(t *testing.T) {
	snapshot := Snapshot{
		Tokens:     TokenSet{AccentColorHex: "#abcdef"},
		Visibility: DefaultSectionVisibility(),
		TakenAt:    time.Now(),
	}

	rendered := snapshot.Resolved()

	assert.Equal(t, "#abcdef", rendered.Tokens.AccentColorHex)
	assert.Equal(t, DefaultTokenSet().FontFamily, rendered.Tokens.FontFamily)
}

func TestSnapshotZero(t *testing.T) {
	assert.True(t, Snapshot{}.IsZero())
}
