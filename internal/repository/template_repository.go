package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mimi/internal/model"
)

// TemplateRepository handles CRUD for chore templates.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, template *model.Template) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound when no template has the id.
func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*model.Template, error) {
	var template model.Template
	if err := r.db.WithContext(ctx).First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// List returns templates by display order; ties keep creation order.
func (r *TemplateRepository) List(ctx context.Context, activeOnly bool) ([]model.Template, error) {
	var templates []model.Template
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Order("sort_order ASC, id ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (r *TemplateRepository) Save(ctx context.Context, template *model.Template) error {
	if err := r.db.WithContext(ctx).Save(template).Error; err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// Delete removes a template and reports whether it existed.
func (r *TemplateRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Template{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete template: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
