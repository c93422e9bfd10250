package design

import (
	"context"

	"github.com/google/uuid"
)

// Overrides is a user's in-progress customization layered on top of a
// template's defaults. Absent keys always fall through to the base.
type Overrides struct {
	TemplateID string           `json:"templateId"`
	Tokens     *TokenPatch      `json:"tokens,omitempty"`
	Visibility *VisibilityPatch `json:"visibility,omitempty"`
}

// Resolved is the fully merged, render-ready design: no missing fields.
type Resolved struct {
	TemplateID string            `json:"templateId"`
	Tokens     TokenSet          `json:"tokens"`
	Visibility SectionVisibility `json:"visibility"`
	Table      TableSettings     `json:"table"`
}

// CustomTemplateSource looks up caller-supplied templates by id. Both
// the organization repository and the studio's on-device store satisfy
// it.
type CustomTemplateSource interface {
	TemplateByID(ctx context.Context, id uuid.UUID) (*Template, error)
}

// Resolver maps a template id plus overrides to a render-ready design.
// Resolution never fails: an unknown or malformed id falls back to the
// built-in classic preset. That silent-safe-default is deliberate.
type Resolver struct {
	custom CustomTemplateSource
}

// NewResolver creates a resolver. The custom source may be nil when
// only built-in presets are available.
func NewResolver(custom CustomTemplateSource) *Resolver {
	return &Resolver{custom: custom}
}

// Resolve merges defaults and overrides into a complete design.
// The merge is shallow, override keys win, and resolving twice with the
// same inputs yields identical output.
func (r *Resolver) Resolve(ctx context.Context, templateID string, overrides *Overrides) Resolved {
	base := r.lookupBase(ctx, templateID)

	if overrides != nil {
		base.Tokens = overrides.Tokens.Apply(base.Tokens)
		base.Visibility = overrides.Visibility.Apply(base.Visibility)
	}
	base.Tokens = base.Tokens.Normalize()

	return base
}

// ResolveDefaults resolves a template without any overrides
func (r *Resolver) ResolveDefaults(ctx context.Context, templateID string) Resolved {
	return r.Resolve(ctx, templateID, nil)
}

func (r *Resolver) lookupBase(ctx context.Context, templateID string) Resolved {
	if preset, ok := PresetByID(templateID); ok {
		return Resolved{
			TemplateID: preset.ID,
			Tokens:     preset.Tokens,
			Visibility: preset.Visibility,
			Table:      preset.Table,
		}
	}

	if r.custom != nil {
		if id, err := uuid.Parse(templateID); err == nil {
			if template, err := r.custom.TemplateByID(ctx, id); err == nil && template != nil {
				return Resolved{
					TemplateID: templateID,
					Tokens:     template.Tokens,
					Visibility: template.Visibility,
					Table:      template.Table,
				}
			}
		}
	}

	fallback := builtinPresets[PresetClassic]
	return Resolved{
		TemplateID: fallback.ID,
		Tokens:     fallback.Tokens,
		Visibility: fallback.Visibility,
		Table:      fallback.Table,
	}
}
