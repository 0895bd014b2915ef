package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose defaults.
// The schema is expected to be migrated (make migrate-up).
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "orchard_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "orchard_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "orchard")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	// Ensure test growers exist
	EnsureTestGrowers(t, db)

	return db
}

// CleanupTestData cleans up test data from all tables.
// This should be called after tests to ensure a clean state.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in order to respect foreign key constraints
	tables := []string{
		"notifications",
		"settlement_deductions",
		"settlement_grade_lines",
		"settlements",
		"packout_grade_lines",
		"packout_reports",
		"deliveries",
		"labor_entries",
		"harvests",
		"pools",
		"packinghouses",
		"fields",
		"farms",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// EnsureTestGrowers creates test grower records if they don't exist
func EnsureTestGrowers(t *testing.T, db *gorm.DB) {
	growers := []struct {
		id        string
		name      string
		shortName string
	}{
		{"sunridge", "Sunridge Citrus Company", "Sunridge"},
		{"kern-valley", "Kern Valley Growers", "Kern Valley"},
	}

	for _, g := range growers {
		err := db.Exec(`
			INSERT INTO growers (id, name, short_name, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, true, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING
		`, g.id, g.name, g.shortName).Error
		if err != nil {
			t.Logf("Note: Could not insert grower %s: %v", g.id, err)
		}
	}
}

// CreateTestFarm creates a farm for the given grower and returns it
func CreateTestFarm(t *testing.T, db *gorm.DB, growerID domain.GrowerID, name string) *domain.Farm {
	farm := &domain.Farm{
		GrowerID:   growerID,
		Name:       name,
		County:     "Tulare",
		TotalAcres: 120,
		IsActive:   true,
	}
	err := db.Omit(clause.Associations).Create(farm).Error
	require.NoError(t, err)
	return farm
}

// CreateTestField creates a field on the given farm and returns it
func CreateTestField(t *testing.T, db *gorm.DB, farm *domain.Farm, name string, commodity domain.Commodity) *domain.Field {
	field := &domain.Field{
		FarmID:    farm.ID,
		GrowerID:  farm.GrowerID,
		Name:      name,
		Commodity: commodity,
		Variety:   "Washington",
		Acres:     40,
		IsActive:  true,
	}
	err := db.Omit(clause.Associations).Create(field).Error
	require.NoError(t, err)
	return field
}

// CreateTestPackinghouse creates a packinghouse and returns it
func CreateTestPackinghouse(t *testing.T, db *gorm.DB, name string) *domain.Packinghouse {
	house := &domain.Packinghouse{
		Name:     name,
		City:     "Exeter",
		IsActive: true,
	}
	err := db.Omit(clause.Associations).Create(house).Error
	require.NoError(t, err)
	return house
}

// CreateTestPool creates a pool for the given grower and packinghouse
func CreateTestPool(t *testing.T, db *gorm.DB, growerID domain.GrowerID, house *domain.Packinghouse, commodity domain.Commodity) *domain.Pool {
	pool := &domain.Pool{
		GrowerID:       growerID,
		PackinghouseID: house.ID,
		Name:           fmt.Sprintf("%s %s pool", house.Name, commodity),
		Commodity:      commodity,
		Season:         currentSeason(),
		Status:         domain.PoolStatusActive,
	}
	err := db.Omit(clause.Associations).Create(pool).Error
	require.NoError(t, err)
	return pool
}

func currentSeason() string {
	year := time.Now().Year()
	return fmt.Sprintf("%d-%d", year, year+1)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
