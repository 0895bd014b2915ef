package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Create(ctx context.Context, field *domain.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

func (r *FieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	var field domain.Field
	query := r.db.WithContext(ctx).
		Preload("Farm").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *FieldRepository) Update(ctx context.Context, field *domain.Field) error {
	return r.db.WithContext(ctx).Save(field).Error
}

func (r *FieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Field{}, "id = ?", id).Error
}

func (r *FieldRepository) List(ctx context.Context, page, pageSize int, farmID *uuid.UUID, commodity *domain.Commodity, search string) ([]domain.Field, int64, error) {
	var fields []domain.Field
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Field{}).Preload("Farm")
	query = ApplyGrowerFilter(ctx, query)

	if farmID != nil {
		query = query.Where("farm_id = ?", *farmID)
	}

	if commodity != nil {
		query = query.Where("commodity = ?", *commodity)
	}

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(variety) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&fields).Error

	return fields, total, err
}

func (r *FieldRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]domain.Field, error) {
	var fields []domain.Field
	query := r.db.WithContext(ctx).Where("farm_id = ?", farmID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("name ASC").Find(&fields).Error
	return fields, err
}
