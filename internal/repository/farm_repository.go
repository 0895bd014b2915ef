package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

func (r *FarmRepository) Create(ctx context.Context, farm *domain.Farm) error {
	return r.db.WithContext(ctx).Create(farm).Error
}

func (r *FarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	var farm domain.Farm
	query := r.db.WithContext(ctx).
		Preload("Fields").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&farm).Error
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

func (r *FarmRepository) Update(ctx context.Context, farm *domain.Farm) error {
	return r.db.WithContext(ctx).Save(farm).Error
}

func (r *FarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Farm{}, "id = ?", id).Error
}

func (r *FarmRepository) List(ctx context.Context, page, pageSize int, search string, activeOnly bool) ([]domain.Farm, int64, error) {
	var farms []domain.Farm
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Farm{}).Preload("Fields")
	query = ApplyGrowerFilter(ctx, query)

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(county) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&farms).Error

	return farms, total, err
}

func (r *FarmRepository) Count(ctx context.Context) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Farm{})
	query = ApplyGrowerFilter(ctx, query)
	err := query.Count(&count).Error
	return int(count), err
}
