package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type HarvestRepository struct {
	db *gorm.DB
}

func NewHarvestRepository(db *gorm.DB) *HarvestRepository {
	return &HarvestRepository{db: db}
}

func (r *HarvestRepository) Create(ctx context.Context, harvest *domain.Harvest) error {
	return r.db.WithContext(ctx).Create(harvest).Error
}

func (r *HarvestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Harvest, error) {
	var harvest domain.Harvest
	query := r.db.WithContext(ctx).
		Preload("Field").
		Preload("Field.Farm").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&harvest).Error
	if err != nil {
		return nil, err
	}
	return &harvest, nil
}

func (r *HarvestRepository) Update(ctx context.Context, harvest *domain.Harvest) error {
	return r.db.WithContext(ctx).Save(harvest).Error
}

func (r *HarvestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Harvest{}, "id = ?", id).Error
}

// HarvestFilters narrows harvest list queries
type HarvestFilters struct {
	FieldID  *uuid.UUID
	FarmID   *uuid.UUID
	Status   *domain.HarvestStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

func (r *HarvestRepository) List(ctx context.Context, page, pageSize int, filters HarvestFilters) ([]domain.Harvest, int64, error) {
	var harvests []domain.Harvest
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Harvest{}).
		Preload("Field").
		Preload("Field.Farm")
	query = ApplyGrowerFilterWithColumn(ctx, query, "harvests.grower_id")

	if filters.FieldID != nil {
		query = query.Where("field_id = ?", *filters.FieldID)
	}

	if filters.FarmID != nil {
		query = query.Joins("JOIN fields ON fields.id = harvests.field_id").
			Where("fields.farm_id = ?", *filters.FarmID)
	}

	if filters.Status != nil {
		query = query.Where("harvests.status = ?", *filters.Status)
	}

	if filters.DateFrom != nil {
		query = query.Where("harvest_date >= ?", *filters.DateFrom)
	}

	if filters.DateTo != nil {
		query = query.Where("harvest_date <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("harvest_date DESC, pick_number DESC").
		Find(&harvests).Error

	return harvests, total, err
}

// ListBySeason returns verified and in-progress harvests within a date range
// without pagination, used by the funnel calculator
func (r *HarvestRepository) ListBySeason(ctx context.Context, from, to time.Time) ([]domain.Harvest, error) {
	var harvests []domain.Harvest
	query := r.db.WithContext(ctx).
		Where("harvest_date >= ? AND harvest_date <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("harvest_date ASC").Find(&harvests).Error
	return harvests, err
}

// MaxUpdatedAt returns the newest updated_at across harvests in the range,
// used for analytics cache invalidation
func (r *HarvestRepository) MaxUpdatedAt(ctx context.Context, from, to time.Time) (time.Time, error) {
	var maxTime *time.Time
	query := r.db.WithContext(ctx).Model(&domain.Harvest{}).
		Where("harvest_date >= ? AND harvest_date <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Select("MAX(updated_at)").Scan(&maxTime).Error
	if err != nil || maxTime == nil {
		return time.Time{}, err
	}
	return *maxTime, nil
}

// LaborRepository manages crew labor totals recorded against harvests
type LaborRepository struct {
	db *gorm.DB
}

func NewLaborRepository(db *gorm.DB) *LaborRepository {
	return &LaborRepository{db: db}
}

func (r *LaborRepository) Create(ctx context.Context, entry *domain.LaborEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *LaborRepository) Update(ctx context.Context, entry *domain.LaborEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *LaborRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.LaborEntry{}, "id = ?", id).Error
}

func (r *LaborRepository) ListByHarvest(ctx context.Context, harvestID uuid.UUID) ([]domain.LaborEntry, error) {
	var entries []domain.LaborEntry
	query := r.db.WithContext(ctx).Where("harvest_id = ?", harvestID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("work_date ASC").Find(&entries).Error
	return entries, err
}
