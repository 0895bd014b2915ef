package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
)

type PoolRepository struct {
	db *gorm.DB
}

func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) Create(ctx context.Context, pool *domain.Pool) error {
	return r.db.WithContext(ctx).Create(pool).Error
}

func (r *PoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pool, error) {
	var pool domain.Pool
	query := r.db.WithContext(ctx).
		Preload("Packinghouse").
		Where("id = ?", id)
	query = ApplyGrowerFilter(ctx, query)
	err := query.First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (r *PoolRepository) Update(ctx context.Context, pool *domain.Pool) error {
	return r.db.WithContext(ctx).Save(pool).Error
}

func (r *PoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Pool{}, "id = ?", id).Error
}

func (r *PoolRepository) List(ctx context.Context, page, pageSize int, status *domain.PoolStatus, commodity *domain.Commodity, season, search string) ([]domain.Pool, int64, error) {
	var pools []domain.Pool
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Pool{}).Preload("Packinghouse")
	query = ApplyGrowerFilter(ctx, query)

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if commodity != nil {
		query = query.Where("commodity = ?", *commodity)
	}

	if season != "" {
		query = query.Where("season = ?", season)
	}

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&pools).Error

	return pools, total, err
}

// ListOpenBySeason returns active pools for a season, used by the nightly drift scan
func (r *PoolRepository) ListOpenBySeason(ctx context.Context, season string) ([]domain.Pool, error) {
	var pools []domain.Pool
	query := r.db.WithContext(ctx).Where("status = ?", domain.PoolStatusActive)
	if season != "" {
		query = query.Where("season = ?", season)
	}
	query = ApplyGrowerFilter(ctx, query)
	err := query.Find(&pools).Error
	return pools, err
}

// ListOpenByPackinghouse returns active pools for one packinghouse, used by
// the pack feed sync job
func (r *PoolRepository) ListOpenByPackinghouse(ctx context.Context, packinghouseID uuid.UUID) ([]domain.Pool, error) {
	var pools []domain.Pool
	err := r.db.WithContext(ctx).
		Where("packinghouse_id = ? AND status = ?", packinghouseID, domain.PoolStatusActive).
		Find(&pools).Error
	return pools, err
}

// PackinghouseRepository manages packinghouse master data
type PackinghouseRepository struct {
	db *gorm.DB
}

func NewPackinghouseRepository(db *gorm.DB) *PackinghouseRepository {
	return &PackinghouseRepository{db: db}
}

func (r *PackinghouseRepository) Create(ctx context.Context, house *domain.Packinghouse) error {
	return r.db.WithContext(ctx).Create(house).Error
}

func (r *PackinghouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Packinghouse, error) {
	var house domain.Packinghouse
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&house).Error
	if err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *PackinghouseRepository) Update(ctx context.Context, house *domain.Packinghouse) error {
	return r.db.WithContext(ctx).Save(house).Error
}

func (r *PackinghouseRepository) List(ctx context.Context) ([]domain.Packinghouse, error) {
	var houses []domain.Packinghouse
	err := r.db.WithContext(ctx).Order("name ASC").Find(&houses).Error
	return houses, err
}

// ListWithFeedCode returns packinghouses that have a pack feed code configured
func (r *PackinghouseRepository) ListWithFeedCode(ctx context.Context) ([]domain.Packinghouse, error) {
	var houses []domain.Packinghouse
	err := r.db.WithContext(ctx).
		Where("feed_code IS NOT NULL AND feed_code <> ''").
		Find(&houses).Error
	return houses, err
}
