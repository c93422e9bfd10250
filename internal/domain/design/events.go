package design

import (
	"github.com/google/uuid"
	"github.com/invoicestudio/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeTemplate = "DesignTemplate"
)

// Event type constants for Template
const (
	EventTypeTemplateCreated = "DesignTemplateCreated"
	EventTypeTemplateUpdated = "DesignTemplateUpdated"
	EventTypeTemplateDeleted = "DesignTemplateDeleted"
)

// TemplateCreatedEvent is published when a new design template is created
type TemplateCreatedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID `json:"template_id"`
	Name       string    `json:"name"`
}

// NewTemplateCreatedEvent creates a new TemplateCreatedEvent
func NewTemplateCreatedEvent(template *Template) *TemplateCreatedEvent {
	return &TemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateCreated,
			AggregateTypeTemplate,
			template.ID,
			template.OrgID,
		),
		TemplateID: template.ID,
		Name:       template.Name,
	}
}

// TemplateUpdatedEvent is published when a design template is updated
type TemplateUpdatedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID `json:"template_id"`
	Name       string    `json:"name"`
}

// NewTemplateUpdatedEvent creates a new TemplateUpdatedEvent
func NewTemplateUpdatedEvent(template *Template) *TemplateUpdatedEvent {
	return &TemplateUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateUpdated,
			AggregateTypeTemplate,
			template.ID,
			template.OrgID,
		),
		TemplateID: template.ID,
		Name:       template.Name,
	}
}

// TemplateDeletedEvent is published when a design template is deleted
type TemplateDeletedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID `json:"template_id"`
}

// NewTemplateDeletedEvent creates a new TemplateDeletedEvent
func NewTemplateDeletedEvent(orgID, templateID uuid.UUID) *TemplateDeletedEvent {
	return &TemplateDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeTemplateDeleted,
			AggregateTypeTemplate,
			templateID,
			orgID,
		),
		TemplateID: templateID,
	}
}
