package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
	"github.com/groveline/orchard-api/internal/testutil"
)

func setupSettlementServiceTest(t *testing.T) (*gorm.DB, *service.SettlementService) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	logger := zap.NewNop()
	settlementRepo := repository.NewSettlementRepository(db)
	poolRepo := repository.NewPoolRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	notifications := service.NewNotificationService(notificationRepo, userRepo, logger)
	settlements := service.NewSettlementService(settlementRepo, poolRepo, notifications, logger)

	return db, settlements
}

func TestSettlementService_Ingest(t *testing.T) {
	db, settlements := setupSettlementServiceTest(t)
	ctx := managerContext("sunridge")

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	houseAvg := 142.50
	dto, err := settlements.Ingest(ctx, &domain.CreateSettlementRequest{
		PoolID:          pool.ID,
		StatementDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StatementNumber: "ST-4401",
		TotalBins:       480,
		TotalCredits:    72000.00,
		TotalDeductions: 18240.00,
		HouseAvgPerBin:  &houseAvg,
		PriorAdvances:   20000.00,
		GradeLines: []domain.SettlementGradeLineRequest{
			{Grade: "Fancy", Size: "88", Quantity: 300, Percent: 62.5, FOBRate: 180.00, TotalAmount: 54000.00},
			{Grade: "Choice", Size: "113", Quantity: 180, Percent: 37.5, FOBRate: 100.00, TotalAmount: 18000.00},
		},
		Deductions: []domain.SettlementDeductionRequest{
			{Category: domain.DeductionPacking, Description: "Packing charges", Quantity: 480, Unit: "bin", Rate: 30.00, Amount: 14400.00},
			{Category: domain.DeductionPickHaul, Description: "Pick and haul", Quantity: 480, Unit: "bin", Rate: 8.00, Amount: 3840.00},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, pool.ID, dto.PoolID)
	assert.Equal(t, 480.0, dto.TotalBins)
	assert.Equal(t, 53760.0, dto.NetReturn, "net return is credits minus deductions")
	assert.Equal(t, 33760.0, dto.AmountDue, "amount due nets out prior advances")
	assert.Len(t, dto.GradeLines, 2)
	assert.Len(t, dto.Deductions, 2)
}

func TestSettlementService_Ingest_UnknownDeductionCategory(t *testing.T) {
	db, settlements := setupSettlementServiceTest(t)
	ctx := managerContext("sunridge")

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	dto, err := settlements.Ingest(ctx, &domain.CreateSettlementRequest{
		PoolID:        pool.ID,
		StatementDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalBins:     100,
		TotalCredits:  10000,
		Deductions: []domain.SettlementDeductionRequest{
			{Category: "mystery_fee", Description: "Unrecognized line item", Amount: 250.00},
		},
	})
	require.NoError(t, err)
	require.Len(t, dto.Deductions, 1)
	assert.Equal(t, domain.DeductionOther, dto.Deductions[0].Category)
}

func TestSettlementService_Ingest_PoolNotFound(t *testing.T) {
	_, settlements := setupSettlementServiceTest(t)
	ctx := managerContext("sunridge")

	_, err := settlements.Ingest(ctx, &domain.CreateSettlementRequest{
		PoolID:        uuid.New(),
		StatementDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalBins:     100,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSettlementService_Variance(t *testing.T) {
	db, settlements := setupSettlementServiceTest(t)
	ctx := managerContext("sunridge")

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	houseAvg := 100.00
	dto, err := settlements.Ingest(ctx, &domain.CreateSettlementRequest{
		PoolID:          pool.ID,
		StatementDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalBins:       200,
		TotalCredits:    30000.00,
		TotalDeductions: 8000.00,
		HouseAvgPerBin:  &houseAvg,
	})
	require.NoError(t, err)

	result, err := settlements.Variance(ctx, dto.ID)
	require.NoError(t, err)

	assert.Equal(t, 150.0, result.CreditsPerBin)
	assert.Equal(t, 40.0, result.DeductionsPerBin)
	assert.Equal(t, 110.0, result.NetPerBin)
	require.NotNil(t, result.VarianceVsHousePerBin)
	assert.Equal(t, 10.0, *result.VarianceVsHousePerBin, "net per bin beats house average by 10")
}

func TestSettlementService_Variance_GrowerIsolation(t *testing.T) {
	db, settlements := setupSettlementServiceTest(t)

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	dto, err := settlements.Ingest(managerContext("sunridge"), &domain.CreateSettlementRequest{
		PoolID:        pool.ID,
		StatementDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalBins:     100,
		TotalCredits:  12000,
	})
	require.NoError(t, err)

	_, err = settlements.Variance(managerContext("kern-valley"), dto.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
