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

type DeliveryService struct {
	deliveryRepo   *repository.DeliveryRepository
	poolRepo       *repository.PoolRepository
	fieldRepo      *repository.FieldRepository
	harvestRecords *repository.HarvestRepository
	logger         *zap.Logger
}

func NewDeliveryService(
	deliveryRepo *repository.DeliveryRepository,
	poolRepo *repository.PoolRepository,
	fieldRepo *repository.FieldRepository,
	harvestRecords *repository.HarvestRepository,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo:   deliveryRepo,
		poolRepo:       poolRepo,
		fieldRepo:      fieldRepo,
		harvestRecords: harvestRecords,
		logger:         logger,
	}
}

func (s *DeliveryService) Create(ctx context.Context, req *domain.CreateDeliveryRequest) (*domain.DeliveryDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	pool, err := s.poolRepo.GetByID(ctx, req.PoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	if pool.Status == domain.PoolStatusSettled {
		return nil, ErrPoolClosed
	}

	field, err := s.fieldRepo.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	// The harvest link is optional but must resolve when given
	if req.HarvestID != nil {
		if _, err := s.harvestRecords.GetByID(ctx, *req.HarvestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get harvest: %w", err)
		}
	}

	delivery := &domain.Delivery{
		GrowerID:     userCtx.GrowerID,
		PoolID:       pool.ID,
		FieldID:      field.ID,
		HarvestID:    req.HarvestID,
		TicketNumber: req.TicketNumber,
		DeliveryDate: req.DeliveryDate,
		Bins:         req.Bins,
		FieldBoxes:   req.FieldBoxes,
		WeightLbs:    req.WeightLbs,
		Notes:        req.Notes,
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	s.logger.Info("delivery recorded",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("pool_id", delivery.PoolID.String()),
		zap.String("ticket_number", delivery.TicketNumber),
		zap.Float64("bins", delivery.Bins),
		zap.Bool("linked", delivery.IsLinked()),
	)

	delivery.Pool = pool
	delivery.Field = field
	dto := mapper.ToDeliveryDTO(delivery)
	return &dto, nil
}

func (s *DeliveryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryDTO, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	dto := mapper.ToDeliveryDTO(delivery)
	return &dto, nil
}

// LinkHarvest attaches a delivery ticket to a harvest record after the fact
func (s *DeliveryService) LinkHarvest(ctx context.Context, id, harvestID uuid.UUID) (*domain.DeliveryDTO, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	if _, err := s.harvestRecords.GetByID(ctx, harvestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get harvest: %w", err)
	}

	delivery.HarvestID = &harvestID
	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to link delivery: %w", err)
	}

	dto := mapper.ToDeliveryDTO(delivery)
	return &dto, nil
}

func (s *DeliveryService) Delete(ctx context.Context, id uuid.UUID) error {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get delivery: %w", err)
	}

	if delivery.Pool != nil && delivery.Pool.Status == domain.PoolStatusSettled {
		return ErrPoolClosed
	}

	return s.deliveryRepo.Delete(ctx, delivery.ID)
}

func (s *DeliveryService) List(ctx context.Context, page, pageSize int, filters repository.DeliveryFilters) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	deliveries, total, err := s.deliveryRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	dtos := make([]domain.DeliveryDTO, len(deliveries))
	for i := range deliveries {
		dtos[i] = mapper.ToDeliveryDTO(&deliveries[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}
