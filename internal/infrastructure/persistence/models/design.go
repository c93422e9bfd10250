package models

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/invoicestudio/backend/internal/domain/design"
)

var designLogger = zap.L().Named("design.models")

// DesignTemplateModel is the GORM model for the design_templates table.
// Tokens, visibility and table settings persist as JSON documents: they
// are read and written as a unit and never queried field by field.
type DesignTemplateModel struct {
	OrgAggregateModel
	Name           string `gorm:"type:varchar(100);not null"`
	Description    string `gorm:"type:text"`
	TokensJSON     string `gorm:"column:tokens;type:jsonb;not null;default:'{}'"`
	VisibilityJSON string `gorm:"column:visibility;type:jsonb;not null;default:'{}'"`
	TableJSON      string `gorm:"column:table_settings;type:jsonb;not null;default:'{}'"`
	IsDefault      bool   `gorm:"column:is_default;not null;default:false"`
}

// TableName returns the table name for DesignTemplateModel
func (DesignTemplateModel) TableName() string {
	return "design_templates"
}

// ToDomain converts DesignTemplateModel to a domain Template.
// Malformed JSON degrades to the built-in defaults instead of failing
// the read; the row stays usable and the problem is logged.
func (m *DesignTemplateModel) ToDomain() *design.Template {
	template := &design.Template{
		Name:        m.Name,
		Description: m.Description,
		Tokens:      design.DefaultTokenSet(),
		Visibility:  design.DefaultSectionVisibility(),
		Table:       design.DefaultTableSettings(),
		IsDefault:   m.IsDefault,
	}
	m.PopulateOrgAggregateRoot(&template.OrgAggregateRoot)

	unmarshalColumn(m.TokensJSON, &template.Tokens, "tokens", m.Name)
	unmarshalColumn(m.VisibilityJSON, &template.Visibility, "visibility", m.Name)
	unmarshalColumn(m.TableJSON, &template.Table, "table_settings", m.Name)

	template.Tokens = template.Tokens.Normalize()
	return template
}

// DesignTemplateModelFromDomain creates a DesignTemplateModel from a domain Template
func DesignTemplateModelFromDomain(t *design.Template) *DesignTemplateModel {
	model := &DesignTemplateModel{
		Name:           t.Name,
		Description:    t.Description,
		TokensJSON:     marshalColumn(t.Tokens, "tokens", t.Name),
		VisibilityJSON: marshalColumn(t.Visibility, "visibility", t.Name),
		TableJSON:      marshalColumn(t.Table, "table_settings", t.Name),
		IsDefault:      t.IsDefault,
	}
	model.FromDomainOrgAggregateRoot(t.OrgAggregateRoot)
	return model
}

func unmarshalColumn(raw string, target any, column, name string) {
	if raw == "" || raw == "{}" {
		return
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		designLogger.Warn("failed to parse design JSON column",
			zap.String("column", column),
			zap.String("template", name),
			zap.Error(err))
	}
}

func marshalColumn(value any, column, name string) string {
	raw, err := json.Marshal(value)
	if err != nil {
		designLogger.Warn("failed to serialize design JSON column",
			zap.String("column", column),
			zap.String("template", name),
			zap.Error(err))
		return "{}"
	}
	return string(raw)
}
