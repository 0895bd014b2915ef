package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/packfeed"
	"github.com/groveline/orchard-api/internal/repository"
)

// PackFeedService pulls house-average benchmarks from the packinghouse
// reporting feed and applies them to local pools, packout reports and
// settlements. All feed access is read-only.
type PackFeedService struct {
	client         *packfeed.Client
	houseRepo      *repository.PackinghouseRepository
	poolRepo       *repository.PoolRepository
	packoutRepo    *repository.PackoutRepository
	settlementRepo *repository.SettlementRepository
	logger         *zap.Logger
}

func NewPackFeedService(
	client *packfeed.Client,
	houseRepo *repository.PackinghouseRepository,
	poolRepo *repository.PoolRepository,
	packoutRepo *repository.PackoutRepository,
	settlementRepo *repository.SettlementRepository,
	logger *zap.Logger,
) *PackFeedService {
	return &PackFeedService{
		client:         client,
		houseRepo:      houseRepo,
		poolRepo:       poolRepo,
		packoutRepo:    packoutRepo,
		settlementRepo: settlementRepo,
		logger:         logger,
	}
}

// IsEnabled reports whether the pack feed connection is configured
func (s *PackFeedService) IsEnabled() bool {
	return s.client != nil && s.client.IsEnabled()
}

// HealthCheck verifies feed connectivity
func (s *PackFeedService) HealthCheck(ctx context.Context) (*packfeed.HealthStatus, error) {
	if !s.IsEnabled() {
		return nil, ErrPackFeedDisabled
	}
	return s.client.HealthCheck(ctx), nil
}

// PoolBenchmark fetches the current house benchmark for a pool from the feed.
// Returns ErrPackFeedDisabled when no feed is configured and ErrNotFound when
// the pool's packinghouse has no feed code or the feed has no row for it.
func (s *PackFeedService) PoolBenchmark(ctx context.Context, poolID uuid.UUID) (*packfeed.PoolBenchmark, error) {
	if !s.IsEnabled() {
		return nil, ErrPackFeedDisabled
	}

	pool, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	house, err := s.houseRepo.GetByID(ctx, pool.PackinghouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get packinghouse: %w", err)
	}
	if house.FeedCode == "" {
		return nil, ErrNotFound
	}

	benchmark, err := s.client.FetchPoolBenchmark(ctx, house.FeedCode, pool.Season)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch benchmark: %w", err)
	}
	if benchmark == nil {
		return nil, ErrNotFound
	}
	return benchmark, nil
}

// SyncPoolBenchmarks walks every packinghouse with a feed code, fetches the
// house benchmark for each of its active pools, and stamps the house averages
// onto the latest packout report and any settlements still missing one.
// Returns the number of pools updated and the number of fetch failures.
func (s *PackFeedService) SyncPoolBenchmarks(ctx context.Context) (synced int, failed int, err error) {
	if !s.IsEnabled() {
		return 0, 0, ErrPackFeedDisabled
	}

	houses, err := s.houseRepo.ListWithFeedCode(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list packinghouses: %w", err)
	}

	for i := range houses {
		house := &houses[i]
		pools, err := s.poolRepo.ListOpenByPackinghouse(ctx, house.ID)
		if err != nil {
			s.logger.Warn("pack feed sync: failed to list pools",
				zap.String("packinghouse", house.Name), zap.Error(err))
			failed++
			continue
		}

		for j := range pools {
			pool := &pools[j]
			benchmark, err := s.client.FetchPoolBenchmark(ctx, house.FeedCode, pool.Season)
			if err != nil {
				s.logger.Warn("pack feed sync: benchmark fetch failed",
					zap.String("feed_code", house.FeedCode),
					zap.String("season", pool.Season),
					zap.Error(err))
				failed++
				continue
			}
			if benchmark == nil {
				continue
			}

			if err := s.applyBenchmark(ctx, pool, house.FeedCode, benchmark); err != nil {
				s.logger.Warn("pack feed sync: failed to apply benchmark",
					zap.String("pool_id", pool.ID.String()), zap.Error(err))
				failed++
				continue
			}
			synced++
		}
	}

	s.logger.Info("pack feed sync completed",
		zap.Int("pools_synced", synced),
		zap.Int("failures", failed))
	return synced, failed, nil
}

func (s *PackFeedService) applyBenchmark(ctx context.Context, pool *domain.Pool, feedCode string, benchmark *packfeed.PoolBenchmark) error {
	reports, err := s.packoutRepo.ListByPool(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("failed to list packout reports: %w", err)
	}

	if len(reports) > 0 {
		latest := &reports[len(reports)-1]
		latest.HouseAvgPercent = &benchmark.HouseAvgPercent

		sizeAverages, err := s.client.FetchSizeAverages(ctx, feedCode, pool.Season)
		if err != nil {
			s.logger.Warn("pack feed sync: size averages fetch failed",
				zap.String("feed_code", feedCode), zap.Error(err))
		} else {
			applySizeAverages(latest, sizeAverages)
		}

		if err := s.packoutRepo.Update(ctx, latest); err != nil {
			return fmt.Errorf("failed to update packout report: %w", err)
		}
	}

	settlements, err := s.settlementRepo.ListByPool(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("failed to list settlements: %w", err)
	}
	for k := range settlements {
		settlement := &settlements[k]
		if settlement.HouseAvgPerBin != nil {
			continue
		}
		avg := benchmark.HouseAvgPerBin
		settlement.HouseAvgPerBin = &avg
		if err := s.settlementRepo.Update(ctx, settlement); err != nil {
			return fmt.Errorf("failed to update settlement: %w", err)
		}
	}

	return nil
}

func applySizeAverages(report *domain.PackoutReport, averages []packfeed.SizeAverage) {
	index := make(map[string]float64, len(averages))
	for _, avg := range averages {
		index[avg.Size] = avg.AvgPercent
	}
	for i := range report.GradeLines {
		line := &report.GradeLines[i]
		if pct, ok := index[line.Size]; ok {
			v := pct
			line.HouseAvgPercent = &v
		}
	}
}
