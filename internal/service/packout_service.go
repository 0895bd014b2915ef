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

type PackoutService struct {
	packoutRepo   *repository.PackoutRepository
	poolRepo      *repository.PoolRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewPackoutService(
	packoutRepo *repository.PackoutRepository,
	poolRepo *repository.PoolRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *PackoutService {
	return &PackoutService{
		packoutRepo:   packoutRepo,
		poolRepo:      poolRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Ingest stores an extracted packout statement with its grade lines
func (s *PackoutService) Ingest(ctx context.Context, req *domain.CreatePackoutReportRequest) (*domain.PackoutReportDTO, error) {
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

	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, ErrInvalidInput
	}

	report := &domain.PackoutReport{
		GrowerID:        userCtx.GrowerID,
		PoolID:          pool.ID,
		FieldID:         req.FieldID,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		BinsThisPeriod:  req.BinsThisPeriod,
		BinsCumulative:  req.BinsCumulative,
		PackedPercent:   req.PackedPercent,
		HouseAvgPercent: req.HouseAvgPercent,
	}

	for _, line := range req.GradeLines {
		report.GradeLines = append(report.GradeLines, domain.PackoutGradeLine{
			Grade:              line.Grade,
			Size:               line.Size,
			Quantity:           line.Quantity,
			Percent:            line.Percent,
			CumulativeQuantity: line.CumulativeQuantity,
			CumulativePercent:  line.CumulativePercent,
			HouseAvgPercent:    line.HouseAvgPercent,
		})
	}

	if err := s.packoutRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create packout report: %w", err)
	}

	s.logger.Info("packout report ingested",
		zap.String("report_id", report.ID.String()),
		zap.String("pool_id", report.PoolID.String()),
		zap.Int("grade_lines", len(report.GradeLines)),
	)

	s.notifications.NotifyGrower(ctx, report.GrowerID,
		domain.NotificationTypePackoutPosted,
		"Packout report posted",
		fmt.Sprintf("A new packout report was posted for pool '%s'", pool.Name),
		&report.ID, "packout_report")

	dto := mapper.ToPackoutReportDTO(report)
	return &dto, nil
}

func (s *PackoutService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PackoutReportDTO, error) {
	report, err := s.packoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get packout report: %w", err)
	}

	dto := mapper.ToPackoutReportDTO(report)
	return &dto, nil
}

func (s *PackoutService) List(ctx context.Context, page, pageSize int, poolID, fieldID *uuid.UUID) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	reports, total, err := s.packoutRepo.List(ctx, page, pageSize, poolID, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list packout reports: %w", err)
	}

	dtos := make([]domain.PackoutReportDTO, len(reports))
	for i := range reports {
		dtos[i] = mapper.ToPackoutReportDTO(&reports[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *PackoutService) Delete(ctx context.Context, id uuid.UUID) error {
	report, err := s.packoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get packout report: %w", err)
	}
	return s.packoutRepo.Delete(ctx, report.ID)
}
