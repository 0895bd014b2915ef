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

type FarmService struct {
	farmRepo  *repository.FarmRepository
	fieldRepo *repository.FieldRepository
	logger    *zap.Logger
}

func NewFarmService(
	farmRepo *repository.FarmRepository,
	fieldRepo *repository.FieldRepository,
	logger *zap.Logger,
) *FarmService {
	return &FarmService{
		farmRepo:  farmRepo,
		fieldRepo: fieldRepo,
		logger:    logger,
	}
}

func (s *FarmService) Create(ctx context.Context, req *domain.CreateFarmRequest) (*domain.FarmDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	farm := &domain.Farm{
		GrowerID:   userCtx.GrowerID,
		Name:       req.Name,
		County:     req.County,
		Address:    req.Address,
		TotalAcres: req.TotalAcres,
		IsActive:   true,
	}

	if err := s.farmRepo.Create(ctx, farm); err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}

	s.logger.Info("farm created",
		zap.String("farm_id", farm.ID.String()),
		zap.String("grower_id", string(farm.GrowerID)),
	)

	dto := mapper.ToFarmDTO(farm)
	return &dto, nil
}

func (s *FarmService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FarmDTO, error) {
	farm, err := s.farmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}

	dto := mapper.ToFarmDTO(farm)
	return &dto, nil
}

func (s *FarmService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateFarmRequest) (*domain.FarmDTO, error) {
	farm, err := s.farmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}

	if req.Name != nil {
		farm.Name = *req.Name
	}
	if req.County != nil {
		farm.County = *req.County
	}
	if req.Address != nil {
		farm.Address = *req.Address
	}
	if req.TotalAcres != nil {
		farm.TotalAcres = *req.TotalAcres
	}
	if req.IsActive != nil {
		farm.IsActive = *req.IsActive
	}

	if err := s.farmRepo.Update(ctx, farm); err != nil {
		return nil, fmt.Errorf("failed to update farm: %w", err)
	}

	dto := mapper.ToFarmDTO(farm)
	return &dto, nil
}

func (s *FarmService) Delete(ctx context.Context, id uuid.UUID) error {
	farm, err := s.farmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get farm: %w", err)
	}

	return s.farmRepo.Delete(ctx, farm.ID)
}

func (s *FarmService) List(ctx context.Context, page, pageSize int, search string, activeOnly bool) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	farms, total, err := s.farmRepo.List(ctx, page, pageSize, search, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}

	dtos := make([]domain.FarmDTO, len(farms))
	for i := range farms {
		dtos[i] = mapper.ToFarmDTO(&farms[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *FarmService) CreateField(ctx context.Context, req *domain.CreateFieldRequest) (*domain.FieldDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if !req.Commodity.IsValid() {
		return nil, ErrInvalidCommodity
	}

	farm, err := s.farmRepo.GetByID(ctx, req.FarmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}

	field := &domain.Field{
		GrowerID:    userCtx.GrowerID,
		FarmID:      farm.ID,
		Name:        req.Name,
		Commodity:   req.Commodity,
		Variety:     req.Variety,
		Acres:       req.Acres,
		PlantedYear: req.PlantedYear,
		Rootstock:   req.Rootstock,
		IsActive:    true,
	}

	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}

	dto := mapper.ToFieldDTO(field)
	dto.FarmName = farm.Name
	return &dto, nil
}

func (s *FarmService) GetField(ctx context.Context, id uuid.UUID) (*domain.FieldDTO, error) {
	field, err := s.fieldRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	dto := mapper.ToFieldDTO(field)
	return &dto, nil
}

func (s *FarmService) ListFields(ctx context.Context, page, pageSize int, farmID *uuid.UUID, commodity *domain.Commodity, search string) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	fields, total, err := s.fieldRepo.List(ctx, page, pageSize, farmID, commodity, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}

	dtos := make([]domain.FieldDTO, len(fields))
	for i := range fields {
		dtos[i] = mapper.ToFieldDTO(&fields[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}
