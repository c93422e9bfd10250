package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/invoicestudio/backend/internal/infrastructure/persistence/models"
)

// GormDesignTemplateRepository implements design.TemplateRepository using GORM
type GormDesignTemplateRepository struct {
	db *gorm.DB
}

// NewGormDesignTemplateRepository creates a new GormDesignTemplateRepository
func NewGormDesignTemplateRepository(db *gorm.DB) *GormDesignTemplateRepository {
	return &GormDesignTemplateRepository{db: db}
}

// FindByID finds a template by ID
func (r *GormDesignTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*design.Template, error) {
	var model models.DesignTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds a template by ID within a specific organization
func (r *GormDesignTemplateRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*design.Template, error) {
	var model models.DesignTemplateModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds all templates for a specific organization
func (r *GormDesignTemplateRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]design.Template, error) {
	var templateModels []models.DesignTemplateModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DesignTemplateModel{}).Where("org_id = ?", orgID), filter)

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}

	templates := make([]design.Template, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// FindDefaultForOrg finds the organization's default template.
// Returns nil without error when no default is set.
func (r *GormDesignTemplateRepository) FindDefaultForOrg(ctx context.Context, orgID uuid.UUID) (*design.Template, error) {
	var model models.DesignTemplateModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND is_default = ?", orgID, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save saves a template (insert or update)
func (r *GormDesignTemplateRepository) Save(ctx context.Context, template *design.Template) error {
	model := models.DesignTemplateModelFromDomain(template)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a template by ID
func (r *GormDesignTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DesignTemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForOrg returns the total count of templates for an organization
func (r *GormDesignTemplateRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DesignTemplateModel{}).Where("org_id = ?", orgID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a template with the given name exists in the org
func (r *GormDesignTemplateRepository) ExistsByName(ctx context.Context, orgID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.DesignTemplateModel{}).
		Where("org_id = ? AND name = ?", orgID, name)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearDefaultForOrg clears the default flag on every template of the org
func (r *GormDesignTemplateRepository) ClearDefaultForOrg(ctx context.Context, orgID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.DesignTemplateModel{}).
		Where("org_id = ? AND is_default = ?", orgID, true).
		Update("is_default", false).Error
}

// applyFilter applies filter options to the query
func (r *GormDesignTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, DesignTemplateSortFields, "")
		if sortField != "" {
			query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies search filtering only
func (r *GormDesignTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", search, search)
	}
	return query
}
