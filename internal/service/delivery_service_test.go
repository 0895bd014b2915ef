package service_test

import (
	"testing"
	"time"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
	"github.com/groveline/orchard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDeliveryServiceTest(t *testing.T) (*gorm.DB, *service.DeliveryService) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	logger := zap.NewNop()
	deliveryRepo := repository.NewDeliveryRepository(db)
	poolRepo := repository.NewPoolRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)

	return db, service.NewDeliveryService(deliveryRepo, poolRepo, fieldRepo, harvestRepo, logger)
}

func TestDeliveryService_Create(t *testing.T) {
	db, deliveries := setupDeliveryServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	dto, err := deliveries.Create(ctx, &domain.CreateDeliveryRequest{
		PoolID:       pool.ID,
		FieldID:      field.ID,
		TicketNumber: "T-200",
		DeliveryDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		Bins:         48,
	})
	require.NoError(t, err)
	assert.Equal(t, "T-200", dto.TicketNumber)
	assert.Equal(t, 48.0, dto.Bins)
	assert.Nil(t, dto.HarvestID, "delivery without harvest link is unlinked")
}

func TestDeliveryService_Create_SettledPool(t *testing.T) {
	db, deliveries := setupDeliveryServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)
	pool.Status = domain.PoolStatusSettled
	require.NoError(t, db.Save(pool).Error)

	_, err := deliveries.Create(ctx, &domain.CreateDeliveryRequest{
		PoolID:       pool.ID,
		FieldID:      field.ID,
		TicketNumber: "T-201",
		DeliveryDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		Bins:         48,
	})
	assert.ErrorIs(t, err, service.ErrPoolClosed)
}

func TestDeliveryService_LinkHarvest(t *testing.T) {
	db, deliveries := setupDeliveryServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	harvest := &domain.Harvest{
		GrowerID:      "sunridge",
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PickNumber:    1,
		TotalQuantity: 100,
		Unit:          domain.UnitBins,
		BinWeightLbs:  domain.DefaultBinWeightLbs,
		Status:        domain.HarvestStatusInProgress,
	}
	require.NoError(t, db.Create(harvest).Error)

	dto, err := deliveries.Create(ctx, &domain.CreateDeliveryRequest{
		PoolID:       pool.ID,
		FieldID:      field.ID,
		TicketNumber: "T-202",
		DeliveryDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		Bins:         50,
	})
	require.NoError(t, err)
	require.Nil(t, dto.HarvestID)

	linked, err := deliveries.LinkHarvest(ctx, dto.ID, harvest.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.HarvestID)
	assert.Equal(t, harvest.ID, *linked.HarvestID)
}
