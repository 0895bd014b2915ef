package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
	"github.com/groveline/orchard-api/internal/testutil"
)

func setupAnalyticsServiceTest(t *testing.T) (*gorm.DB, *service.AnalyticsService) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	logger := zap.NewNop()
	harvestRepo := repository.NewHarvestRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	packoutRepo := repository.NewPackoutRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	fieldRepo := repository.NewFieldRepository(db)

	svc := service.NewAnalyticsService(harvestRepo, deliveryRepo, packoutRepo, settlementRepo, fieldRepo, logger)
	return db, svc
}

var (
	seasonFrom = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seasonTo   = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
)

func TestAnalyticsService_Funnel_InvalidatedByPipelineWrites(t *testing.T) {
	db, svc := setupAnalyticsServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	harvest := &domain.Harvest{
		GrowerID:      "sunridge",
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PickNumber:    1,
		TotalQuantity: 100,
		Unit:          domain.UnitBins,
		Status:        domain.HarvestStatusInProgress,
	}
	require.NoError(t, db.Create(harvest).Error)

	first, err := svc.Funnel(ctx, seasonFrom, seasonTo)
	require.NoError(t, err)
	assert.Equal(t, 100.0, first.Funnel.Harvest.TotalBins)
	assert.Equal(t, 0.0, first.Funnel.Delivery.TotalBins)

	delivery := &domain.Delivery{
		GrowerID:     "sunridge",
		PoolID:       pool.ID,
		FieldID:      field.ID,
		TicketNumber: "T-200",
		DeliveryDate: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		Bins:         40,
	}
	require.NoError(t, db.Create(delivery).Error)

	afterDelivery, err := svc.Funnel(ctx, seasonFrom, seasonTo)
	require.NoError(t, err)
	assert.Equal(t, 40.0, afterDelivery.Funnel.Delivery.TotalBins,
		"a delivery write must produce a fresh funnel, not a cached one")

	report := &domain.PackoutReport{
		GrowerID:       "sunridge",
		PoolID:         pool.ID,
		PeriodStart:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC),
		BinsThisPeriod: 35,
		BinsCumulative: 35,
		PackedPercent:  80,
	}
	require.NoError(t, db.Create(report).Error)

	afterPackout, err := svc.Funnel(ctx, seasonFrom, seasonTo)
	require.NoError(t, err)
	assert.Equal(t, 35.0, afterPackout.Funnel.Packout.TotalBins,
		"a packout write must produce a fresh funnel, not a cached one")
}

func TestAnalyticsService_Funnel_SequenceAssignedPerRequest(t *testing.T) {
	db, svc := setupAnalyticsServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	harvest := &domain.Harvest{
		GrowerID:      "sunridge",
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PickNumber:    1,
		TotalQuantity: 50,
		Unit:          domain.UnitBins,
		Status:        domain.HarvestStatusInProgress,
	}
	require.NoError(t, db.Create(harvest).Error)

	first, err := svc.Funnel(ctx, seasonFrom, seasonTo)
	require.NoError(t, err)

	// No writes in between: the second call is served from the snapshot
	// cache but still carries a newer sequence than the first.
	second, err := svc.Funnel(ctx, seasonFrom, seasonTo)
	require.NoError(t, err)

	assert.Greater(t, second.Sequence, first.Sequence,
		"every response echoes its own request's sequence, cached or not")
	assert.Equal(t, first.Funnel, second.Funnel)
}

func TestAnalyticsService_SizeDistribution_HouseAveragesFromPackouts(t *testing.T) {
	db, svc := setupAnalyticsServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	settlement := &domain.Settlement{
		GrowerID:      "sunridge",
		PoolID:        pool.ID,
		FieldID:       &field.ID,
		StatementDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		TotalBins:     100,
		TotalCredits:  15000,
		GradeLines: []domain.SettlementGradeLine{
			{Grade: "Fancy", Size: "88", Quantity: 60, Percent: 60, FOBRate: 180, TotalAmount: 10800},
			{Grade: "Choice", Size: "113", Quantity: 40, Percent: 40, FOBRate: 105, TotalAmount: 4200},
		},
	}
	require.NoError(t, db.Create(settlement).Error)

	housePct := 55.0
	report := &domain.PackoutReport{
		GrowerID:       "sunridge",
		PoolID:         pool.ID,
		PeriodStart:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		BinsThisPeriod: 90,
		GradeLines: []domain.PackoutGradeLine{
			{Grade: "Fancy", Size: "88", Quantity: 50, Percent: 55.6, HouseAvgPercent: &housePct},
		},
	}
	require.NoError(t, db.Create(report).Error)

	resp, err := svc.SizeDistribution(ctx, seasonFrom, seasonTo, analytics.GroupByFarm)
	require.NoError(t, err)

	require.Len(t, resp.Distribution.Groups, 1)
	group := resp.Distribution.Groups[0]
	assert.Equal(t, "Home Ranch", group.GroupName)

	var size88, size113 *analytics.SizeSlice
	for i := range group.Sizes {
		switch group.Sizes[i].Size {
		case "88":
			size88 = &group.Sizes[i]
		case "113":
			size113 = &group.Sizes[i]
		}
	}

	require.NotNil(t, size88)
	assert.Equal(t, 60.0, size88.Percent)
	require.NotNil(t, size88.HouseAvgPercent, "house averages from packout grade lines reach the distribution")
	assert.Equal(t, 55.0, *size88.HouseAvgPercent)
	require.NotNil(t, size88.VarianceVsHouse)
	assert.InDelta(t, 5.0, *size88.VarianceVsHouse, 0.0001)

	require.NotNil(t, size113)
	assert.Nil(t, size113.HouseAvgPercent, "sizes the pack feed never reported keep a null baseline")
	assert.Nil(t, size113.VarianceVsHouse)
}

func TestAnalyticsService_SizeDistribution_InvalidGroupBy(t *testing.T) {
	_, svc := setupAnalyticsServiceTest(t)
	ctx := managerContext("sunridge")

	_, err := svc.SizeDistribution(ctx, seasonFrom, seasonTo, "county")
	assert.ErrorIs(t, err, service.ErrInvalidGroupBy)
}
