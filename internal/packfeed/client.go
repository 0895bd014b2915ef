// Package packfeed provides read-only connectivity to the packinghouse
// reporting database (MS SQL Server). It supplies pool-level house averages
// and cumulative packout benchmarks that growers are compared against.
package packfeed

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/config"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	defaultHealthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the packinghouse reporting database.
// It manages connection pooling and provides typed benchmark queries.
type Client struct {
	db           *sql.DB
	config       *config.PackFeedConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// PoolBenchmark is the house-wide benchmark row for one pool
type PoolBenchmark struct {
	FeedCode        string    `json:"feedCode"`
	Season          string    `json:"season"`
	HouseAvgPercent float64   `json:"houseAvgPercent"`
	HouseAvgPerBin  float64   `json:"houseAvgPerBin"`
	BinsCumulative  float64   `json:"binsCumulative"`
	AsOf            time.Time `json:"asOf"`
}

// SizeAverage is the house-wide packout share for one fruit size
type SizeAverage struct {
	Size       string  `json:"size"`
	AvgPercent float64 `json:"avgPercent"`
}

// HealthStatus represents the health check result for the pack feed connection
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient creates a new pack feed client with the given configuration.
// Returns nil if the pack feed is not enabled or not configured.
// The client establishes a connection pool with retry logic for transient failures.
func NewClient(cfg *config.PackFeedConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Pack feed connection disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Pack feed enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	logger.Info("Initializing pack feed connection",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting pack feed connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err != nil {
			logger.Warn("Failed to open pack feed connection",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.Warn("Pack feed ping failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			_ = db.Close()
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		logger.Info("Pack feed connection established",
			zap.Int("attempts_taken", attempt),
		)

		return &Client{
			db:           db,
			config:       cfg,
			logger:       logger,
			queryTimeout: cfg.QueryTimeoutDuration(),
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to pack feed after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string from the config.
// URL format expected: host:port/database or host:port (uses default database)
func buildConnectionString(cfg *config.PackFeedConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the pack feed connection.
// Should be called during application shutdown.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing pack feed connection")

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close pack feed connection: %w", err)
	}
	return nil
}

// IsEnabled returns true if the client is initialized and ready for queries.
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// HealthCheck performs a health check on the pack feed connection.
// Returns detailed status including connection pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{Status: "disabled"}
	}

	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		MaxOpen:    stats.MaxOpenConnections,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}

	if err != nil {
		c.logger.Warn("Pack feed health check failed",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

// FetchPoolBenchmark returns the house-wide benchmark for one pool, or nil
// when the house has not published numbers for the feed code and season yet
func (c *Client) FetchPoolBenchmark(ctx context.Context, feedCode, season string) (*PoolBenchmark, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("pack feed client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	const query = `	SELECT TOP 1 feed_code, season, house_avg_percent, house_avg_per_bin, bins_cumulative, as_of
	FROM dbo.pool_benchmarks
	WHERE feed_code = @p1 AND season = @p2
	ORDER BY as_of DESC`

	start := time.Now()
	row := c.db.QueryRowContext(ctx, query, feedCode, season)

	benchmark := &PoolBenchmark{}
	err := row.Scan(
		&benchmark.FeedCode,
		&benchmark.Season,
		&benchmark.HouseAvgPercent,
		&benchmark.HouseAvgPerBin,
		&benchmark.BinsCumulative,
		&benchmark.AsOf,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Pack feed benchmark query failed",
			zap.String("feed_code", feedCode),
			zap.String("season", season),
			zap.Error(err),
		)
		return nil, fmt.Errorf("benchmark query failed: %w", err)
	}

	c.logger.Debug("Pack feed benchmark fetched",
		zap.String("feed_code", feedCode),
		zap.String("season", season),
		zap.Duration("duration", time.Since(start)),
	)

	return benchmark, nil
}

// FetchSizeAverages returns house-wide packout shares per fruit size for a
// feed code and season, used for the size distribution comparison overlay
func (c *Client) FetchSizeAverages(ctx context.Context, feedCode, season string) ([]SizeAverage, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("pack feed client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	const query = `	SELECT size, avg_percent
	FROM dbo.size_averages
	WHERE feed_code = @p1 AND season = @p2
	ORDER BY size`

	rows, err := c.db.QueryContext(ctx, query, feedCode, season)
	if err != nil {
		return nil, fmt.Errorf("size averages query failed: %w", err)
	}
	defer rows.Close()

	var averages []SizeAverage
	for rows.Next() {
		var avg SizeAverage
		if err := rows.Scan(&avg.Size, &avg.AvgPercent); err != nil {
			return nil, fmt.Errorf("failed to scan size average: %w", err)
		}
		averages = append(averages, avg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating size averages: %w", err)
	}

	return averages, nil
}
