package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
)

// FunnelResponse wraps a funnel snapshot with the sequence token clients use
// to discard stale responses when requests resolve out of order. The sequence
// is assigned when the request is received, not when the computation finishes,
// so a superseded slow request always carries a lower sequence than the
// request that replaced it, even when it resolves last.
type FunnelResponse struct {
	Sequence uint64                 `json:"sequence"`
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Funnel   analytics.FunnelResult `json:"funnel"`
}

// SizeDistributionResponse wraps a size distribution snapshot
type SizeDistributionResponse struct {
	Sequence     uint64                     `json:"sequence"`
	From         string                     `json:"from"`
	To           string                     `json:"to"`
	GroupBy      analytics.GroupBy          `json:"groupBy"`
	Distribution analytics.SizeDistribution `json:"distribution"`
}

type AnalyticsService struct {
	harvestRecords *repository.HarvestRepository
	deliveryRepo   *repository.DeliveryRepository
	packoutRepo    *repository.PackoutRepository
	settlementRepo *repository.SettlementRepository
	fieldRepo      *repository.FieldRepository
	cache          *analytics.SnapshotCache
	sequence       atomic.Uint64
	logger         *zap.Logger
}

func NewAnalyticsService(
	harvestRecords *repository.HarvestRepository,
	deliveryRepo *repository.DeliveryRepository,
	packoutRepo *repository.PackoutRepository,
	settlementRepo *repository.SettlementRepository,
	fieldRepo *repository.FieldRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		harvestRecords: harvestRecords,
		deliveryRepo:   deliveryRepo,
		packoutRepo:    packoutRepo,
		settlementRepo: settlementRepo,
		fieldRepo:      fieldRepo,
		cache:          analytics.NewSnapshotCache(64),
		logger:         logger,
	}
}

// Funnel builds the four-stage pipeline snapshot for a date range. Snapshots
// are cached by content: the key folds in the newest updated_at of every
// collection the funnel reads, so a write to any of the four stages
// invalidates only affected ranges. Only the computed funnel is cached; the
// sequence token is per request.
func (s *AnalyticsService) Funnel(ctx context.Context, from, to time.Time) (*FunnelResponse, error) {
	seq := s.sequence.Add(1)

	growerID := ""
	if g := auth.GetEffectiveGrowerFilter(ctx); g != nil {
		growerID = string(*g)
	}

	harvestVersion, _ := s.harvestRecords.MaxUpdatedAt(ctx, from, to)
	deliveryVersion, _ := s.deliveryRepo.MaxUpdatedAt(ctx, from, to)
	packoutVersion, _ := s.packoutRepo.MaxUpdatedAt(ctx, from, to)
	settlementVersion, _ := s.settlementRepo.MaxUpdatedAt(ctx, from, to)

	key := analytics.SnapshotKey("funnel", growerID,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		harvestVersion.UnixNano(), deliveryVersion.UnixNano(),
		packoutVersion.UnixNano(), settlementVersion.UnixNano())

	if cached, ok := s.cache.Get(key); ok {
		if funnel, ok := cached.(analytics.FunnelResult); ok {
			return &FunnelResponse{
				Sequence: seq,
				From:     from.Format("2006-01-02"),
				To:       to.Format("2006-01-02"),
				Funnel:   funnel,
			}, nil
		}
	}

	harvests, err := s.harvestRecords.ListBySeason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load harvests: %w", err)
	}
	deliveries, err := s.deliveryRepo.ListBySeason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}
	packouts, err := s.packoutRepo.ListBySeason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load packout reports: %w", err)
	}
	settlements, err := s.settlementRepo.ListBySeason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	funnel := analytics.BuildFunnel(harvests, deliveries, packouts, settlements)
	s.cache.Put(key, funnel)

	s.logger.Debug("funnel snapshot computed",
		zap.String("grower_id", growerID),
		zap.Int("harvests", len(harvests)),
		zap.Int("deliveries", len(deliveries)),
		zap.Int("settlements", len(settlements)),
	)

	return &FunnelResponse{
		Sequence: seq,
		From:     from.Format("2006-01-02"),
		To:       to.Format("2006-01-02"),
		Funnel:   funnel,
	}, nil
}

// SizeDistribution aggregates settlement grade lines into per-farm or
// per-field size breakdowns. House-average percents come from packout report
// grade lines in the same range (filled by the pack feed sync) and are joined
// onto the settlement lines by size code, quantity-weighted.
func (s *AnalyticsService) SizeDistribution(ctx context.Context, from, to time.Time, groupBy analytics.GroupBy) (*SizeDistributionResponse, error) {
	if !groupBy.IsValid() {
		return nil, ErrInvalidGroupBy
	}

	seq := s.sequence.Add(1)

	growerID := ""
	if g := auth.GetEffectiveGrowerFilter(ctx); g != nil {
		growerID = string(*g)
	}

	settlementVersion, _ := s.settlementRepo.MaxUpdatedAt(ctx, from, to)
	packoutVersion, _ := s.packoutRepo.MaxUpdatedAt(ctx, from, to)

	key := analytics.SnapshotKey("sizes", growerID, string(groupBy),
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		settlementVersion.UnixNano(), packoutVersion.UnixNano())

	if cached, ok := s.cache.Get(key); ok {
		if dist, ok := cached.(analytics.SizeDistribution); ok {
			return &SizeDistributionResponse{
				Sequence:     seq,
				From:         from.Format("2006-01-02"),
				To:           to.Format("2006-01-02"),
				GroupBy:      groupBy,
				Distribution: dist,
			}, nil
		}
	}

	settlements, err := s.settlementRepo.ListBySeason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	packouts, err := s.packoutRepo.ListBySeason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load packout reports: %w", err)
	}

	lines, err := s.assembleGradeLines(ctx, settlements, houseAvgBySize(packouts), groupBy)
	if err != nil {
		return nil, err
	}

	dist := analytics.AggregateSizeDistribution(lines)
	s.cache.Put(key, dist)

	return &SizeDistributionResponse{
		Sequence:     seq,
		From:         from.Format("2006-01-02"),
		To:           to.Format("2006-01-02"),
		GroupBy:      groupBy,
		Distribution: dist,
	}, nil
}

// houseAvgBySize builds the per-size house-average lookup from packout grade
// lines, quantity-weighted across reports. Sizes the pack feed never reported
// stay absent, so the distribution degrades to a null baseline for them.
func houseAvgBySize(packouts []domain.PackoutReport) map[string]float64 {
	sums := make(map[string]float64)
	weights := make(map[string]float64)
	for i := range packouts {
		for _, line := range packouts[i].GradeLines {
			if line.HouseAvgPercent == nil || line.Quantity <= 0 {
				continue
			}
			sums[line.Size] += *line.HouseAvgPercent * line.Quantity
			weights[line.Size] += line.Quantity
		}
	}

	averages := make(map[string]float64, len(sums))
	for size, sum := range sums {
		averages[size] = sum / weights[size]
	}
	return averages
}

// assembleGradeLines flattens settlement grade lines into records tagged with
// the requested grouping and the per-size house average. Field-level
// settlements resolve through the field (and its farm); pool-level
// settlements group under the pool itself.
func (s *AnalyticsService) assembleGradeLines(ctx context.Context, settlements []domain.Settlement, houseAverages map[string]float64, groupBy analytics.GroupBy) ([]analytics.GradeLineRecord, error) {
	type groupRef struct {
		id   string
		name string
	}
	fieldGroups := make(map[string]groupRef)

	var lines []analytics.GradeLineRecord
	for i := range settlements {
		settlement := &settlements[i]

		var ref groupRef
		switch {
		case settlement.FieldID != nil:
			cacheKey := settlement.FieldID.String() + "/" + string(groupBy)
			if cached, ok := fieldGroups[cacheKey]; ok {
				ref = cached
			} else {
				field, err := s.fieldRepo.GetByID(ctx, *settlement.FieldID)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve field %s: %w", settlement.FieldID, err)
				}
				if groupBy == analytics.GroupByFarm {
					ref = groupRef{id: field.FarmID.String(), name: field.Name}
					if field.Farm != nil {
						ref.name = field.Farm.Name
					}
				} else {
					ref = groupRef{id: field.ID.String(), name: field.Name}
				}
				fieldGroups[cacheKey] = ref
			}
		case settlement.Pool != nil:
			ref = groupRef{id: settlement.PoolID.String(), name: settlement.Pool.Name}
		default:
			ref = groupRef{id: settlement.PoolID.String(), name: "Pool"}
		}

		for _, line := range settlement.GradeLines {
			record := analytics.GradeLineRecord{
				GroupID:   ref.id,
				GroupName: ref.name,
				Size:      line.Size,
				Quantity:  line.Quantity,
			}
			if avg, ok := houseAverages[line.Size]; ok {
				v := avg
				record.HouseAvgPercent = &v
			}
			lines = append(lines, record)
		}
	}

	return lines, nil
}
