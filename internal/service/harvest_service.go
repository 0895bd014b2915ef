package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/mapper"
	"github.com/groveline/orchard-api/internal/repository"
)

type HarvestService struct {
	harvestRecords *repository.HarvestRepository
	laborRepo      *repository.LaborRepository
	deliveryRepo   *repository.DeliveryRepository
	fieldRepo      *repository.FieldRepository
	notifications  *NotificationService
	logger         *zap.Logger
}

func NewHarvestService(
	harvestRecords *repository.HarvestRepository,
	laborRepo *repository.LaborRepository,
	deliveryRepo *repository.DeliveryRepository,
	fieldRepo *repository.FieldRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *HarvestService {
	return &HarvestService{
		harvestRecords: harvestRecords,
		laborRepo:      laborRepo,
		deliveryRepo:   deliveryRepo,
		fieldRepo:      fieldRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

func (s *HarvestService) Create(ctx context.Context, req *domain.CreateHarvestRequest) (*domain.HarvestDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	field, err := s.fieldRepo.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		// Default to the commodity's natural unit
		unit = analytics.UnitFor(field.Commodity).Unit
	}
	if unit != domain.UnitBins && unit != domain.UnitLbs {
		return nil, ErrInvalidUnit
	}

	binWeight := req.BinWeightLbs
	if binWeight <= 0 {
		binWeight = domain.DefaultBinWeightLbs
	}

	pickNumber := req.PickNumber
	if pickNumber < 1 {
		pickNumber = 1
	}

	harvest := &domain.Harvest{
		GrowerID:           userCtx.GrowerID,
		FieldID:            field.ID,
		FieldName:          field.Name,
		HarvestDate:        req.HarvestDate,
		PickNumber:         pickNumber,
		Variety:            req.Variety,
		Acres:              req.Acres,
		TotalQuantity:      req.TotalQuantity,
		Unit:               unit,
		BinWeightLbs:       binWeight,
		Status:             domain.HarvestStatusInProgress,
		PHIVerified:        req.PHIVerified,
		EquipmentCleaned:   req.EquipmentCleaned,
		ContaminationCheck: req.ContaminationCheck,
		CrewNames:          pq.StringArray(req.CrewNames),
		Notes:              req.Notes,
		RecordedByID:       userCtx.UserID.String(),
		RecordedByName:     userCtx.DisplayName,
	}
	if field.Farm != nil {
		harvest.FarmName = field.Farm.Name
	}
	if harvest.Variety == "" {
		harvest.Variety = field.Variety
	}

	if err := s.harvestRecords.Create(ctx, harvest); err != nil {
		return nil, fmt.Errorf("failed to create harvest: %w", err)
	}

	s.logger.Info("harvest recorded",
		zap.String("harvest_id", harvest.ID.String()),
		zap.String("field_id", harvest.FieldID.String()),
		zap.Float64("total_quantity", harvest.TotalQuantity),
		zap.String("unit", string(harvest.Unit)),
	)

	if !harvest.ComplianceComplete() {
		s.notifications.NotifyGrower(ctx, harvest.GrowerID,
			domain.NotificationTypeComplianceMissing,
			"Compliance checks incomplete",
			fmt.Sprintf("Harvest on %s (pick %d) is missing pre-harvest compliance checks", harvest.FieldName, harvest.PickNumber),
			&harvest.ID, "harvest")
	}

	dto := mapper.ToHarvestDTO(harvest)
	return &dto, nil
}

func (s *HarvestService) GetByID(ctx context.Context, id uuid.UUID) (*domain.HarvestDTO, error) {
	harvest, err := s.harvestRecords.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get harvest: %w", err)
	}

	dto := mapper.ToHarvestDTO(harvest)
	return &dto, nil
}

func (s *HarvestService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateHarvestRequest) (*domain.HarvestDTO, error) {
	harvest, err := s.harvestRecords.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get harvest: %w", err)
	}

	// Verified harvests are read-only unless the update reverts the status
	if harvest.Status == domain.HarvestStatusVerified {
		if req.Status == nil || *req.Status != domain.HarvestStatusInProgress {
			return nil, ErrHarvestVerified
		}
	}

	if req.HarvestDate != nil {
		harvest.HarvestDate = *req.HarvestDate
	}
	if req.PickNumber != nil {
		harvest.PickNumber = *req.PickNumber
	}
	if req.Variety != nil {
		harvest.Variety = *req.Variety
	}
	if req.Acres != nil {
		harvest.Acres = *req.Acres
	}
	if req.TotalQuantity != nil {
		harvest.TotalQuantity = *req.TotalQuantity
	}
	if req.BinWeightLbs != nil && *req.BinWeightLbs > 0 {
		harvest.BinWeightLbs = *req.BinWeightLbs
	}
	if req.Status != nil {
		harvest.Status = *req.Status
	}
	if req.PHIVerified != nil {
		harvest.PHIVerified = *req.PHIVerified
	}
	if req.EquipmentCleaned != nil {
		harvest.EquipmentCleaned = *req.EquipmentCleaned
	}
	if req.ContaminationCheck != nil {
		harvest.ContaminationCheck = *req.ContaminationCheck
	}
	if req.Notes != nil {
		harvest.Notes = *req.Notes
	}

	if err := s.harvestRecords.Update(ctx, harvest); err != nil {
		return nil, fmt.Errorf("failed to update harvest: %w", err)
	}

	dto := mapper.ToHarvestDTO(harvest)
	return &dto, nil
}

func (s *HarvestService) Delete(ctx context.Context, id uuid.UUID) error {
	harvest, err := s.harvestRecords.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get harvest: %w", err)
	}

	if harvest.Status == domain.HarvestStatusVerified {
		return ErrHarvestVerified
	}

	return s.harvestRecords.Delete(ctx, harvest.ID)
}

func (s *HarvestService) List(ctx context.Context, page, pageSize int, filters repository.HarvestFilters) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 20
	}

	harvests, total, err := s.harvestRecords.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list harvests: %w", err)
	}

	dtos := make([]domain.HarvestDTO, len(harvests))
	for i := range harvests {
		dtos[i] = mapper.ToHarvestDTO(&harvests[i])
	}

	return &domain.PaginatedResponse{
		Results:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Reconciliation compares the recorded harvest total against delivered bins
// and crew labor tallies. It never fails a harvest for a mismatch; drift
// surfaces as channel status and, for over-allocation, a warning notification.
func (s *HarvestService) Reconciliation(ctx context.Context, id uuid.UUID) (*analytics.ReconciliationStatus, error) {
	harvest, err := s.harvestRecords.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get harvest: %w", err)
	}

	deliveries, err := s.deliveryRepo.ListByHarvest(ctx, harvest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	labor, err := s.laborRepo.ListByHarvest(ctx, harvest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labor entries: %w", err)
	}

	status := analytics.ReconcileHarvest(harvest, deliveries, labor)

	if status.Loads.Status == analytics.ChannelOver || status.Labor.Status == analytics.ChannelOver {
		s.notifications.NotifyGrower(ctx, harvest.GrowerID,
			domain.NotificationTypeReconcileOver,
			"Over-allocation detected",
			fmt.Sprintf("Allocations for harvest on %s (pick %d) exceed the recorded total", harvest.FieldName, harvest.PickNumber),
			&harvest.ID, "harvest")
	}

	return &status, nil
}

// ScanRecentHarvests reconciles every harvest recorded since the given time
// and raises notifications for drifted channels. It powers the nightly drift
// scan and returns how many harvests were scanned and how many flagged.
func (s *HarvestService) ScanRecentHarvests(ctx context.Context, since time.Time) (scanned int, flagged int, err error) {
	harvests, err := s.harvestRecords.ListBySeason(ctx, since, time.Now().UTC())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list harvests: %w", err)
	}

	for i := range harvests {
		harvest := &harvests[i]
		scanned++

		deliveries, err := s.deliveryRepo.ListByHarvest(ctx, harvest.ID)
		if err != nil {
			s.logger.Warn("drift scan: failed to list deliveries",
				zap.String("harvest_id", harvest.ID.String()), zap.Error(err))
			continue
		}
		labor, err := s.laborRepo.ListByHarvest(ctx, harvest.ID)
		if err != nil {
			s.logger.Warn("drift scan: failed to list labor entries",
				zap.String("harvest_id", harvest.ID.String()), zap.Error(err))
			continue
		}

		status := analytics.ReconcileHarvest(harvest, deliveries, labor)
		if !status.HasMismatch() {
			continue
		}
		flagged++

		notifType := domain.NotificationTypeReconcileUnder
		if status.Loads.Status == analytics.ChannelOver || status.Labor.Status == analytics.ChannelOver {
			notifType = domain.NotificationTypeReconcileOver
		}
		s.notifications.NotifyGrower(ctx, harvest.GrowerID, notifType,
			"Reconciliation drift detected",
			fmt.Sprintf("Harvest on %s (pick %d): %s", harvest.FieldName, harvest.PickNumber, driftMessage(status)),
			&harvest.ID, "harvest")
	}

	return scanned, flagged, nil
}

func driftMessage(status analytics.ReconciliationStatus) string {
	if status.Loads.Status != analytics.ChannelMatch {
		return status.Loads.Message
	}
	return status.Labor.Message
}

func (s *HarvestService) AddLaborEntry(ctx context.Context, req *domain.CreateLaborEntryRequest) (*domain.LaborEntryDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	harvest, err := s.harvestRecords.GetByID(ctx, req.HarvestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get harvest: %w", err)
	}

	entry := &domain.LaborEntry{
		GrowerID:  userCtx.GrowerID,
		HarvestID: harvest.ID,
		CrewName:  req.CrewName,
		WorkDate:  req.WorkDate,
		Bins:      req.Bins,
		Workers:   req.Workers,
		Notes:     req.Notes,
	}

	if err := s.laborRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create labor entry: %w", err)
	}

	dto := mapper.ToLaborEntryDTO(entry)
	return &dto, nil
}

func (s *HarvestService) ListLaborEntries(ctx context.Context, harvestID uuid.UUID) ([]domain.LaborEntryDTO, error) {
	entries, err := s.laborRepo.ListByHarvest(ctx, harvestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labor entries: %w", err)
	}

	dtos := make([]domain.LaborEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToLaborEntryDTO(&entries[i])
	}
	return dtos, nil
}
