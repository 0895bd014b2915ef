package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/mapper"
	"github.com/groveline/orchard-api/internal/repository"
)

type SettlementService struct {
	settlementRepo *repository.SettlementRepository
	poolRepo       *repository.PoolRepository
	notifications  *NotificationService
	logger         *zap.Logger
}

func NewSettlementService(
	settlementRepo *repository.SettlementRepository,
	poolRepo *repository.PoolRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		settlementRepo: settlementRepo,
		poolRepo:       poolRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

// Ingest stores an extracted settlement statement. Net return and amount due
// are derived here in cents, never trusted from the extraction.
func (s *SettlementService) Ingest(ctx context.Context, req *domain.CreateSettlementRequest) (*domain.SettlementDTO, error) {
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

	credits := decimal.NewFromFloat(req.TotalCredits)
	deductions := decimal.NewFromFloat(req.TotalDeductions)
	advances := decimal.NewFromFloat(req.PriorAdvances)
	netReturn := credits.Sub(deductions).Round(2)
	amountDue := netReturn.Sub(advances).Round(2)

	settlement := &domain.Settlement{
		GrowerID:        userCtx.GrowerID,
		PoolID:          pool.ID,
		FieldID:         req.FieldID,
		StatementDate:   req.StatementDate,
		StatementNumber: req.StatementNumber,
		TotalBins:       req.TotalBins,
		TotalCredits:    req.TotalCredits,
		TotalDeductions: req.TotalDeductions,
		NetReturn:       netReturn.InexactFloat64(),
		HouseAvgPerBin:  req.HouseAvgPerBin,
		PriorAdvances:   req.PriorAdvances,
		AmountDue:       amountDue.InexactFloat64(),
	}

	for _, line := range req.GradeLines {
		settlement.GradeLines = append(settlement.GradeLines, domain.SettlementGradeLine{
			Grade:       line.Grade,
			Size:        line.Size,
			Quantity:    line.Quantity,
			Percent:     line.Percent,
			FOBRate:     line.FOBRate,
			TotalAmount: line.TotalAmount,
		})
	}

	for _, ded := range req.Deductions {
		category := ded.Category
		if !category.IsValid() {
			category = domain.DeductionOther
		}
		settlement.Deductions = append(settlement.Deductions, domain.SettlementDeduction{
			Category:    category,
			Description: ded.Description,
			Quantity:    ded.Quantity,
			Unit:        ded.Unit,
			Rate:        ded.Rate,
			Amount:      ded.Amount,
		})
	}

	if err := s.settlementRepo.Create(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	s.logger.Info("settlement ingested",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("pool_id", settlement.PoolID.String()),
		zap.Float64("net_return", settlement.NetReturn),
	)

	s.notifications.NotifyGrower(ctx, settlement.GrowerID,
		domain.NotificationTypeSettlementPosted,
		"Settlement posted",
		fmt.Sprintf("A settlement statement was posted for pool '%s'", pool.Name),
		&settlement.ID, "settlement")

	settlement.Pool = pool
	dto := mapper.ToSettlementDTO(settlement)
	return &dto, nil
}

func (s *SettlementService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SettlementDTO, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	dto := mapper.ToSettlementDTO(settlement)
	return &dto, nil
}

func (s *SettlementService) List(ctx context.Context, page, pageSize int, poolID, fieldID *uuid.UUID) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	settlements, total, err := s.settlementRepo.List(ctx, page, pageSize, poolID, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	dtos := make([]domain.SettlementDTO, len(settlements))
	for i := range settlements {
		dtos[i] = mapper.ToSettlementDTO(&settlements[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Variance breaks a settlement down into per-bin figures, revenue shares and
// grouped deductions, with the optional house-average comparison
func (s *SettlementService) Variance(ctx context.Context, id uuid.UUID) (*analytics.VarianceResult, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	result := analytics.AnalyzeSettlement(settlement)
	return &result, nil
}

func (s *SettlementService) Delete(ctx context.Context, id uuid.UUID) error {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get settlement: %w", err)
	}
	return s.settlementRepo.Delete(ctx, settlement.ID)
}
