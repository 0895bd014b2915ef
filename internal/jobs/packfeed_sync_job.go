package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/config"
	"github.com/groveline/orchard-api/internal/service"
)

// benchmarkSyncer is the slice of the pack feed service the sync job needs
type benchmarkSyncer interface {
	IsEnabled() bool
	SyncPoolBenchmarks(ctx context.Context) (synced int, failed int, err error)
}

// PackFeedSyncJob pulls house-average benchmarks from the packinghouse
// reporting feed and applies them to active pools.
type PackFeedSyncJob struct {
	feed    benchmarkSyncer
	logger  *zap.Logger
	timeout time.Duration
}

func NewPackFeedSyncJob(feed benchmarkSyncer, logger *zap.Logger) *PackFeedSyncJob {
	return &PackFeedSyncJob{
		feed:    feed,
		logger:  logger,
		timeout: 10 * time.Minute,
	}
}

// Run executes one benchmark sync pass
func (j *PackFeedSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("Starting pack feed benchmark sync")

	synced, failed, err := j.feed.SyncPoolBenchmarks(ctx)
	if err != nil {
		if errors.Is(err, service.ErrPackFeedDisabled) {
			j.logger.Warn("Pack feed sync skipped: feed not configured")
			return
		}
		j.logger.Error("Pack feed benchmark sync failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}

	j.logger.Info("Pack feed benchmark sync completed",
		zap.Int("pools_synced", synced),
		zap.Int("failures", failed),
		zap.Duration("duration", time.Since(start)))
}

// RunStartupSync runs an immediate sync, used right after boot so fresh
// benchmarks are available without waiting for the nightly schedule.
func (j *PackFeedSyncJob) RunStartupSync() {
	j.logger.Info("Running startup pack feed sync")
	j.Run()
}

// RegisterPackFeedSyncJob registers the benchmark sync with the scheduler.
// When the feed is disabled the job is not registered at all.
func RegisterPackFeedSyncJob(scheduler *Scheduler, feed benchmarkSyncer, cfg *config.JobsConfig, logger *zap.Logger, runOnStartup bool) error {
	if !feed.IsEnabled() {
		logger.Info("Pack feed disabled, benchmark sync job not registered")
		return nil
	}

	job := NewPackFeedSyncJob(feed, logger)

	if runOnStartup {
		go job.RunStartupSync()
	}

	return scheduler.AddJob("packfeed-sync", cfg.PackFeedSyncSchedule, job.Run)
}
