package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
	"github.com/groveline/orchard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupHarvestServiceTest(t *testing.T) (*gorm.DB, *service.HarvestService, *service.DeliveryService) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	logger := zap.NewNop()
	harvestRepo := repository.NewHarvestRepository(db)
	laborRepo := repository.NewLaborRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	poolRepo := repository.NewPoolRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	notifications := service.NewNotificationService(notificationRepo, userRepo, logger)
	harvests := service.NewHarvestService(harvestRepo, laborRepo, deliveryRepo, fieldRepo, notifications, logger)
	deliveries := service.NewDeliveryService(deliveryRepo, poolRepo, fieldRepo, harvestRepo, logger)

	return db, harvests, deliveries
}

func managerContext(growerID domain.GrowerID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Maria Lopez",
		Email:       "maria@sunridge.example",
		GrowerID:    growerID,
		Roles:       []domain.UserRoleType{domain.RoleFieldManager},
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

func TestHarvestService_CreateAndGet(t *testing.T) {
	db, harvests, _ := setupHarvestServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)

	dto, err := harvests.Create(ctx, &domain.CreateHarvestRequest{
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PickNumber:    1,
		TotalQuantity: 120,
		Unit:          domain.UnitBins,
		CrewNames:     []string{"Crew A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, dto.TotalQuantity)
	assert.Equal(t, "Home Ranch", dto.FarmName)
	assert.Equal(t, "Block 1", dto.FieldName)
	assert.Equal(t, domain.HarvestStatusInProgress, dto.Status)

	got, err := harvests.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)
}

func TestHarvestService_Create_InvalidUnit(t *testing.T) {
	db, harvests, _ := setupHarvestServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)

	_, err := harvests.Create(ctx, &domain.CreateHarvestRequest{
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalQuantity: 120,
		Unit:          "CRATES",
	})
	assert.ErrorIs(t, err, service.ErrInvalidUnit)
}

func TestHarvestService_Reconciliation(t *testing.T) {
	db, harvests, deliveries := setupHarvestServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)
	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	pool := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)

	harvest, err := harvests.Create(ctx, &domain.CreateHarvestRequest{
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalQuantity: 100,
		Unit:          domain.UnitBins,
	})
	require.NoError(t, err)

	// Two deliveries totaling exactly the 100 bin harvest
	for i, bins := range []float64{50, 50} {
		_, err := deliveries.Create(ctx, &domain.CreateDeliveryRequest{
			PoolID:       pool.ID,
			FieldID:      field.ID,
			HarvestID:    &harvest.ID,
			TicketNumber: []string{"T-100", "T-101"}[i],
			DeliveryDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
			Bins:         bins,
		})
		require.NoError(t, err)
	}

	// Labor tally overshoots the harvest total
	_, err = harvests.AddLaborEntry(ctx, &domain.CreateLaborEntryRequest{
		HarvestID: harvest.ID,
		CrewName:  "Crew A",
		WorkDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Bins:      130,
		Workers:   12,
	})
	require.NoError(t, err)

	status, err := harvests.Reconciliation(ctx, harvest.ID)
	require.NoError(t, err)

	assert.Equal(t, 100.0, status.HarvestTotal)
	assert.Equal(t, 100.0, status.Loads.TotalAllocated)
	assert.Equal(t, analytics.ChannelMatch, status.Loads.Status)
	assert.Equal(t, 130.0, status.Labor.TotalAllocated)
	assert.Equal(t, analytics.ChannelOver, status.Labor.Status)
	assert.True(t, status.HasMismatch())
}

func TestHarvestService_VerifiedGuard(t *testing.T) {
	db, harvests, _ := setupHarvestServiceTest(t)
	ctx := managerContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	field := testutil.CreateTestField(t, db, farm, "Block 1", domain.CommodityNavel)

	harvest, err := harvests.Create(ctx, &domain.CreateHarvestRequest{
		FieldID:       field.ID,
		HarvestDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalQuantity: 100,
		Unit:          domain.UnitBins,
	})
	require.NoError(t, err)

	verified := domain.HarvestStatusVerified
	_, err = harvests.Update(ctx, harvest.ID, &domain.UpdateHarvestRequest{Status: &verified})
	require.NoError(t, err)

	// Verified harvests reject further edits and deletion
	newQty := 90.0
	_, err = harvests.Update(ctx, harvest.ID, &domain.UpdateHarvestRequest{TotalQuantity: &newQty})
	assert.ErrorIs(t, err, service.ErrHarvestVerified)

	err = harvests.Delete(ctx, harvest.ID)
	assert.ErrorIs(t, err, service.ErrHarvestVerified)
}
