package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) Create(ctx context.Context, settlement *domain.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *SettlementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	var settlement domain.Settlement
	query := r.db.WithContext(ctx).
		Preload("Pool").
		Preload("GradeLines").
		Preload("Deductions").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&settlement).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *SettlementRepository) Update(ctx context.Context, settlement *domain.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *SettlementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Settlement{}, "id = ?", id).Error
}

func (r *SettlementRepository) List(ctx context.Context, page, pageSize int, poolID, fieldID *uuid.UUID) ([]domain.Settlement, int64, error) {
	var settlements []domain.Settlement
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Settlement{}).Preload("Pool")
	query = ApplyGrowerFilter(ctx, query)

	if poolID != nil {
		query = query.Where("pool_id = ?", *poolID)
	}

	if fieldID != nil {
		query = query.Where("field_id = ?", *fieldID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("statement_date DESC").
		Find(&settlements).Error

	return settlements, total, err
}

// ListByPool returns all settlements in a pool with lines preloaded
func (r *SettlementRepository) ListByPool(ctx context.Context, poolID uuid.UUID) ([]domain.Settlement, error) {
	var settlements []domain.Settlement
	query := r.db.WithContext(ctx).
		Preload("GradeLines").
		Preload("Deductions").
		Where("pool_id = ?", poolID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("statement_date ASC").Find(&settlements).Error
	return settlements, err
}

// ListBySeason returns settlements within a date range without pagination,
// used by the funnel and size distribution calculators
func (r *SettlementRepository) ListBySeason(ctx context.Context, from, to time.Time) ([]domain.Settlement, error) {
	var settlements []domain.Settlement
	query := r.db.WithContext(ctx).
		Preload("GradeLines").
		Preload("Pool").
		Where("statement_date >= ? AND statement_date <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("statement_date ASC").Find(&settlements).Error
	return settlements, err
}

// MaxUpdatedAt returns the newest updated_at across settlements in the range,
// used for analytics cache invalidation
func (r *SettlementRepository) MaxUpdatedAt(ctx context.Context, from, to time.Time) (time.Time, error) {
	var maxTime *time.Time
	query := r.db.WithContext(ctx).Model(&domain.Settlement{}).
		Where("statement_date >= ? AND statement_date <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Select("MAX(updated_at)").Scan(&maxTime).Error
	if err != nil || maxTime == nil {
		return time.Time{}, err
	}
	return *maxTime, nil
}
