package design

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable copy of a resolved design captured onto an
// invoice at save time. Once taken it is independent of the template it
// was derived from: editing or deleting the source template later does
// not change what the snapshot renders to.
//
// Only custom template ids are kept as references; built-in presets are
// recorded by name inside the token payload, never as a foreign key.
type Snapshot struct {
	TemplateID   *uuid.UUID        `json:"templateId,omitempty"`
	Tokens       TokenSet          `json:"tokens"`
	Visibility   SectionVisibility `json:"visibility"`
	LogoPosition LogoPosition      `json:"logoPosition"`
	TakenAt      time.Time         `json:"takenAt"`
}

// TakeSnapshot captures a resolved design. The template reference is
// only retained when the resolved design came from a custom template.
func TakeSnapshot(resolved Resolved, at time.Time) Snapshot {
	var templateRef *uuid.UUID
	if !IsPresetID(resolved.TemplateID) {
		if id, err := uuid.Parse(resolved.TemplateID); err == nil {
			templateRef = &id
		}
	}

	return Snapshot{
		TemplateID:   templateRef,
		Tokens:       resolved.Tokens,
		Visibility:   resolved.Visibility,
		LogoPosition: resolved.Tokens.LogoPosition,
		TakenAt:      at,
	}
}

// Resolved converts the snapshot back into a render-ready design.
// No template lookup happens: the snapshot is self-contained.
func (s Snapshot) Resolved() Resolved {
	templateID := PresetClassic
	if s.TemplateID != nil {
		templateID = s.TemplateID.String()
	}
	return Resolved{
		TemplateID: templateID,
		Tokens:     s.Tokens.Normalize(),
		Visibility: s.Visibility,
		Table:      DefaultTableSettings(),
	}
}

// IsZero reports whether the snapshot was never taken
func (s Snapshot) IsZero() bool {
	return s.TakenAt.IsZero()
}
