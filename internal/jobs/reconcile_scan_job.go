package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/config"
)

// harvestScanner is the slice of the harvest service the drift scan needs
type harvestScanner interface {
	ScanRecentHarvests(ctx context.Context, since time.Time) (scanned int, flagged int, err error)
}

// ReconcileScanJob runs the nightly reconciliation drift scan over recently
// recorded harvests and notifies growers about under/over allocated channels.
type ReconcileScanJob struct {
	harvests harvestScanner
	logger   *zap.Logger
	timeout  time.Duration
	lookback time.Duration
}

func NewReconcileScanJob(harvests harvestScanner, logger *zap.Logger) *ReconcileScanJob {
	return &ReconcileScanJob{
		harvests: harvests,
		logger:   logger,
		timeout:  15 * time.Minute,
		lookback: 30 * 24 * time.Hour,
	}
}

// Run executes one drift scan pass
func (j *ReconcileScanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("Starting reconciliation drift scan")

	since := start.Add(-j.lookback)
	scanned, flagged, err := j.harvests.ScanRecentHarvests(ctx, since)
	if err != nil {
		j.logger.Error("Reconciliation drift scan failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}

	j.logger.Info("Reconciliation drift scan completed",
		zap.Int("harvests_scanned", scanned),
		zap.Int("harvests_flagged", flagged),
		zap.Duration("duration", time.Since(start)))
}

// RegisterReconcileScanJob registers the drift scan with the scheduler
func RegisterReconcileScanJob(scheduler *Scheduler, harvests harvestScanner, cfg *config.JobsConfig, logger *zap.Logger) error {
	job := NewReconcileScanJob(harvests, logger)
	return scheduler.AddJob("reconcile-scan", cfg.ReconcileScanSchedule, job.Run)
}
