package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	var delivery domain.Delivery
	query := r.db.WithContext(ctx).
		Preload("Pool").
		Preload("Field").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *DeliveryRepository) Update(ctx context.Context, delivery *domain.Delivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

func (r *DeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Delivery{}, "id = ?", id).Error
}

type DeliveryFilters struct {
	PoolID    *uuid.UUID
	FieldID   *uuid.UUID
	HarvestID *uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
	// UnlinkedOnly restricts results to deliveries not tied to a harvest record
	UnlinkedOnly bool
}

func (r *DeliveryRepository) List(ctx context.Context, page, pageSize int, filters DeliveryFilters) ([]domain.Delivery, int64, error) {
	var deliveries []domain.Delivery
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Delivery{}).
		Preload("Pool").
		Preload("Field")
	query = ApplyGrowerFilter(ctx, query)

	if filters.PoolID != nil {
		query = query.Where("pool_id = ?", *filters.PoolID)
	}

	if filters.FieldID != nil {
		query = query.Where("field_id = ?", *filters.FieldID)
	}

	if filters.HarvestID != nil {
		query = query.Where("harvest_id = ?", *filters.HarvestID)
	}

	if filters.UnlinkedOnly {
		query = query.Where("harvest_id IS NULL")
	}

	if filters.DateFrom != nil {
		query = query.Where("delivery_date >= ?", *filters.DateFrom)
	}

	if filters.DateTo != nil {
		query = query.Where("delivery_date <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("delivery_date DESC, ticket_number DESC").
		Find(&deliveries).Error

	return deliveries, total, err
}

// ListByHarvest returns all delivery tickets linked to a harvest record
func (r *DeliveryRepository) ListByHarvest(ctx context.Context, harvestID uuid.UUID) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	query := r.db.WithContext(ctx).Where("harvest_id = ?", harvestID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("delivery_date ASC").Find(&deliveries).Error
	return deliveries, err
}

// ListByPool returns all delivery tickets in a pool
func (r *DeliveryRepository) ListByPool(ctx context.Context, poolID uuid.UUID) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	query := r.db.WithContext(ctx).Preload("Field").Where("pool_id = ?", poolID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("delivery_date ASC").Find(&deliveries).Error
	return deliveries, err
}

// ListBySeason returns deliveries within a date range without pagination,
// used by the funnel calculator
func (r *DeliveryRepository) ListBySeason(ctx context.Context, from, to time.Time) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	query := r.db.WithContext(ctx).
		Where("delivery_date >= ? AND delivery_date <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Order("delivery_date ASC").Find(&deliveries).Error
	return deliveries, err
}

// MaxUpdatedAt returns the newest updated_at across deliveries in the range,
// used for analytics cache invalidation
func (r *DeliveryRepository) MaxUpdatedAt(ctx context.Context, from, to time.Time) (time.Time, error) {
	var maxTime *time.Time
	query := r.db.WithContext(ctx).Model(&domain.Delivery{}).
		Where("delivery_date >= ? AND delivery_date <= ?", from, to)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Select("MAX(updated_at)").Scan(&maxTime).Error
	if err != nil || maxTime == nil {
		return time.Time{}, err
	}
	return *maxTime, nil
}

// SumBinsByPool returns the total delivered bins in a pool
func (r *DeliveryRepository) SumBinsByPool(ctx context.Context, poolID uuid.UUID) (float64, error) {
	var total float64
	query := r.db.WithContext(ctx).Model(&domain.Delivery{}).
		Where("pool_id = ?", poolID)
	query = ApplyGrowerFilter(ctx, query)
	err := query.Select("COALESCE(SUM(bins), 0)").Scan(&total).Error
	return total, err
}
