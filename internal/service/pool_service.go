package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/mapper"
	"github.com/groveline/orchard-api/internal/repository"
)

type PoolService struct {
	poolRepo       *repository.PoolRepository
	houseRepo      *repository.PackinghouseRepository
	deliveryRepo   *repository.DeliveryRepository
	packoutRepo    *repository.PackoutRepository
	settlementRepo *repository.SettlementRepository
	logger         *zap.Logger
}

func NewPoolService(
	poolRepo *repository.PoolRepository,
	houseRepo *repository.PackinghouseRepository,
	deliveryRepo *repository.DeliveryRepository,
	packoutRepo *repository.PackoutRepository,
	settlementRepo *repository.SettlementRepository,
	logger *zap.Logger,
) *PoolService {
	return &PoolService{
		poolRepo:       poolRepo,
		houseRepo:      houseRepo,
		deliveryRepo:   deliveryRepo,
		packoutRepo:    packoutRepo,
		settlementRepo: settlementRepo,
		logger:         logger,
	}
}

func (s *PoolService) Create(ctx context.Context, req *domain.CreatePoolRequest) (*domain.PoolDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !req.Commodity.IsValid() {
		return nil, ErrInvalidCommodity
	}

	house, err := s.houseRepo.GetByID(ctx, req.PackinghouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get packinghouse: %w", err)
	}

	pool := &domain.Pool{
		GrowerID:       userCtx.GrowerID,
		PackinghouseID: req.PackinghouseID,
		Name:           req.Name,
		Commodity:      req.Commodity,
		Season:         req.Season,
		Status:         domain.PoolStatusActive,
	}

	if err := s.poolRepo.Create(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	s.logger.Info("pool created",
		zap.String("pool_id", pool.ID.String()),
		zap.String("packinghouse", house.Name),
		zap.String("commodity", string(pool.Commodity)),
		zap.String("season", pool.Season),
	)

	pool.Packinghouse = house
	dto := mapper.ToPoolDTO(pool)
	return &dto, nil
}

// CreatePackinghouse registers a packinghouse in the shared master data
func (s *PoolService) CreatePackinghouse(ctx context.Context, req *domain.CreatePackinghouseRequest) (*domain.PackinghouseDTO, error) {
	house := &domain.Packinghouse{
		Name:          req.Name,
		City:          req.City,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		FeedCode:      req.FeedCode,
		IsActive:      true,
	}

	if err := s.houseRepo.Create(ctx, house); err != nil {
		return nil, fmt.Errorf("failed to create packinghouse: %w", err)
	}

	dto := mapper.ToPackinghouseDTO(house)
	return &dto, nil
}

// ListPackinghouses returns all packinghouses ordered by name
func (s *PoolService) ListPackinghouses(ctx context.Context) ([]domain.PackinghouseDTO, error) {
	houses, err := s.houseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packinghouses: %w", err)
	}

	dtos := make([]domain.PackinghouseDTO, len(houses))
	for i := range houses {
		dtos[i] = mapper.ToPackinghouseDTO(&houses[i])
	}
	return dtos, nil
}

func (s *PoolService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PoolDTO, error) {
	pool, err := s.poolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	dto := mapper.ToPoolDTO(pool)
	return &dto, nil
}

func (s *PoolService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PoolStatus) (*domain.PoolDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}

	pool, err := s.poolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	pool.Status = status
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to update pool: %w", err)
	}

	dto := mapper.ToPoolDTO(pool)
	return &dto, nil
}

func (s *PoolService) List(ctx context.Context, page, pageSize int, status *domain.PoolStatus, commodity *domain.Commodity, season, search string) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	pools, total, err := s.poolRepo.List(ctx, page, pageSize, status, commodity, season, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	dtos := make([]domain.PoolDTO, len(pools))
	for i := range pools {
		dtos[i] = mapper.ToPoolDTO(&pools[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Summary assembles the joint pool dashboard. The pool record itself is
// required; deliveries, packout reports and settlements are each fetched
// independently so one failing section degrades to partial data instead of
// failing the whole summary.
func (s *PoolService) Summary(ctx context.Context, id uuid.UUID) (*domain.PoolSummaryDTO, error) {
	pool, err := s.poolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	summary := &domain.PoolSummaryDTO{
		Pool:           mapper.ToPoolDTO(pool),
		Deliveries:     []domain.DeliveryDTO{},
		PackoutReports: []domain.PackoutReportDTO{},
		Settlements:    []domain.SettlementDTO{},
	}

	deliveries, err := s.deliveryRepo.ListByPool(ctx, pool.ID)
	if err != nil {
		s.logger.Warn("pool summary: deliveries unavailable",
			zap.String("pool_id", pool.ID.String()), zap.Error(err))
		summary.Unavailable = append(summary.Unavailable, "deliveries")
	} else {
		for i := range deliveries {
			summary.Deliveries = append(summary.Deliveries, mapper.ToDeliveryDTO(&deliveries[i]))
			summary.TotalBins += deliveries[i].Bins
		}
	}

	packouts, err := s.packoutRepo.ListByPool(ctx, pool.ID)
	if err != nil {
		s.logger.Warn("pool summary: packout reports unavailable",
			zap.String("pool_id", pool.ID.String()), zap.Error(err))
		summary.Unavailable = append(summary.Unavailable, "packoutReports")
	} else {
		for i := range packouts {
			summary.PackoutReports = append(summary.PackoutReports, mapper.ToPackoutReportDTO(&packouts[i]))
		}
	}

	settlements, err := s.settlementRepo.ListByPool(ctx, pool.ID)
	if err != nil {
		s.logger.Warn("pool summary: settlements unavailable",
			zap.String("pool_id", pool.ID.String()), zap.Error(err))
		summary.Unavailable = append(summary.Unavailable, "settlements")
	} else {
		for i := range settlements {
			summary.Settlements = append(summary.Settlements, mapper.ToSettlementDTO(&settlements[i]))
		}
	}

	return summary, nil
}
