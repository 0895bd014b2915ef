package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type PackoutRepository struct {
	db *gorm.DB
}

func NewPackoutRepository(db *gorm.DB) *PackoutRepository {
	return &PackoutRepository{db: db}
}

func (r *PackoutRepository) Create(ctx context.Context, report *domain.PackoutReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *PackoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PackoutReport, error) {
	var report domain.PackoutReport
	query := r.db.WithContext(ctx).
		Preload("Field").
		Preload("GradeLines").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *PackoutRepository) Update(ctx context.Context, report *domain.PackoutReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *PackoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PackoutReport{}, "id = ?", id).Error
}

func (r *PackoutRepository) List(ctx context.Context, page, pageSize int, poolID, fieldID *uuid.UUID) ([]domain.PackoutReport, int64, error) {
	var reports []domain.PackoutReport
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PackoutReport{}).
		Preload("Field").
		Preload("GradeLines")
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
		Order("period_end DESC").
		Find(&reports).Error

	return reports, total, err
}

// ListByPool returns all packout reports in a pool with grade lines preloaded
func (r *PackoutRepository) ListByPool(ctx context.Context, poolID uuid.UUID) ([]domain.PackoutReport, error) {
	var reports []domain.PackoutReport
	query := r.db.WithContext(ctx).
		Preload("Field").
		Preload("GradeLines").
		Where("pool_id = ?", poolID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("period_end ASC").Find(&reports).Error
	return reports, err
}

// ListBySeason returns packout reports whose period overlaps the date range,
// used by the funnel calculator
func (r *PackoutRepository) ListBySeason(ctx context.Context, from, to time.Time) ([]domain.PackoutReport, error) {
	var reports []domain.PackoutReport
	query := r.db.WithContext(ctx).
		Preload("GradeLines").
		Where("period_end >= ? AND period_start <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("period_end ASC").Find(&reports).Error
	return reports, err
}

// MaxUpdatedAt returns the newest updated_at across packout reports whose
// period overlaps the range, used for analytics cache invalidation
func (r *PackoutRepository) MaxUpdatedAt(ctx context.Context, from, to time.Time) (time.Time, error) {
	var maxTime *time.Time
	query := r.db.WithContext(ctx).Model(&domain.PackoutReport{}).
		Where("period_end >= ? AND period_start <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Select("MAX(updated_at)").Scan(&maxTime).Error
	if err != nil || maxTime == nil {
		return time.Time{}, err
	}
	return *maxTime, nil
}
