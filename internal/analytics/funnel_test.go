package analytics_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildFunnel_StageEfficiencies(t *testing.T) {
	harvests := []domain.Harvest{
		{TotalQuantity: 600, Unit: domain.UnitBins, Status: domain.HarvestStatusVerified},
		{TotalQuantity: 400, Unit: domain.UnitBins, Status: domain.HarvestStatusInProgress},
	}
	linkedID := uuid.New()
	deliveries := []domain.Delivery{
		{Bins: 500, HarvestID: &linkedID},
		{Bins: 450},
	}
	packouts := []domain.PackoutReport{
		{BinsThisPeriod: 900},
	}
	fieldID := uuid.New()
	settlements := []domain.Settlement{
		{TotalBins: 850, NetReturn: 6800, FieldID: &fieldID},
	}

	result := analytics.BuildFunnel(harvests, deliveries, packouts, settlements)

	assert.InDelta(t, 1000, result.Harvest.TotalBins, 1e-9)
	assert.Equal(t, 2, result.Harvest.TotalCount)
	assert.Equal(t, 1, result.Harvest.Breakdown["verified"])
	assert.Equal(t, 1, result.Harvest.Breakdown["in_progress"])

	assert.Equal(t, 1, result.Delivery.Breakdown["linked"])
	assert.Equal(t, 1, result.Delivery.Breakdown["unlinked"])

	assert.Equal(t, 1, result.Settlement.Breakdown["field_level"])
	assert.InDelta(t, 6800, result.Settlement.TotalRevenue, 1e-9)

	// harvest=1000, delivery=950, packout=900, settlement=850
	assert.InDelta(t, 95.0, result.Efficiency.HarvestToDelivery, 1e-9)
	assert.InDelta(t, 94.7, result.Efficiency.DeliveryToPackout, 1e-9)
	assert.InDelta(t, 94.4, result.Efficiency.PackoutToSettlement, 1e-9)
	assert.InDelta(t, 85.0, result.Efficiency.Overall, 1e-9)
}

func TestBuildFunnel_ZeroHarvest(t *testing.T) {
	result := analytics.BuildFunnel(nil, nil, nil, nil)

	assert.Zero(t, result.Efficiency.HarvestToDelivery)
	assert.Zero(t, result.Efficiency.DeliveryToPackout)
	assert.Zero(t, result.Efficiency.PackoutToSettlement)
	assert.Zero(t, result.Efficiency.Overall)
	assert.Zero(t, result.Harvest.TotalCount)
}

func TestBuildFunnel_EfficiencyBounds(t *testing.T) {
	// Delivery exceeding harvest still clamps to 100.
	harvests := []domain.Harvest{{TotalQuantity: 100, Unit: domain.UnitBins}}
	deliveries := []domain.Delivery{{Bins: 150}}

	result := analytics.BuildFunnel(harvests, deliveries, nil, nil)

	assert.InDelta(t, 100.0, result.Efficiency.HarvestToDelivery, 1e-9)
	assert.GreaterOrEqual(t, result.Efficiency.HarvestToDelivery, 0.0)
	assert.LessOrEqual(t, result.Efficiency.HarvestToDelivery, 100.0)
}

func TestBuildFunnel_WeightBasedHarvestNormalized(t *testing.T) {
	harvests := []domain.Harvest{
		{TotalQuantity: 18000, Unit: domain.UnitLbs, BinWeightLbs: 900}, // 20 bins
		{TotalQuantity: 30, Unit: domain.UnitBins},
	}

	result := analytics.BuildFunnel(harvests, nil, nil, nil)
	assert.InDelta(t, 50, result.Harvest.TotalBins, 1e-9)
}
