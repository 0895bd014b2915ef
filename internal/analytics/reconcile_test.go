package analytics_test

import (
	"testing"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binsUnit() analytics.UnitDescriptor {
	return analytics.UnitFor(domain.CommodityNavel)
}

func TestReconcileChannel_StatusPartition(t *testing.T) {
	unit := binsUnit()

	tests := []struct {
		name    string
		harvest float64
		alloc   []float64
		want    analytics.ChannelStatus
	}{
		{"exact match", 500, []float64{200, 300}, analytics.ChannelMatch},
		{"within tolerance", 500, []float64{500.005}, analytics.ChannelMatch},
		{"under", 500, []float64{200, 250}, analytics.ChannelUnder},
		{"over", 500, []float64{300, 250}, analytics.ChannelOver},
		{"empty allocations", 500, nil, analytics.ChannelUnder},
		{"zero harvest zero alloc", 0, nil, analytics.ChannelMatch},
		{"floating point accumulation", 0.3, []float64{0.1, 0.1, 0.1}, analytics.ChannelMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analytics.ReconcileChannel(tt.harvest, tt.alloc, analytics.DefaultReconcileTolerance, unit)
			assert.Equal(t, tt.want, result.Status)

			// Exactly one of the three states holds for any (H, A) pair.
			statuses := map[analytics.ChannelStatus]bool{
				analytics.ChannelMatch: false,
				analytics.ChannelUnder: false,
				analytics.ChannelOver:  false,
			}
			statuses[result.Status] = true
			count := 0
			for _, hit := range statuses {
				if hit {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

func TestReconcileHarvest_SplitDeliveries(t *testing.T) {
	harvest := &domain.Harvest{
		TotalQuantity: 500,
		Unit:          domain.UnitBins,
		BinWeightLbs:  900,
	}
	deliveries := []domain.Delivery{
		{Bins: 200},
		{Bins: 250},
	}
	labor := []domain.LaborEntry{
		{CrewName: "Crew A", Bins: 500},
	}

	status := analytics.ReconcileHarvest(harvest, deliveries, labor)

	assert.InDelta(t, 500, status.HarvestTotal, 1e-9)

	assert.Equal(t, analytics.ChannelUnder, status.Loads.Status)
	assert.InDelta(t, 450, status.Loads.TotalAllocated, 1e-9)
	assert.Equal(t, "50 bins unaccounted for", status.Loads.Message)
	assert.InDelta(t, 90.0, status.Loads.PercentComplete, 1e-9)

	assert.Equal(t, analytics.ChannelMatch, status.Labor.Status)
	assert.InDelta(t, 500, status.Labor.TotalAllocated, 1e-9)

	assert.True(t, status.HasMismatch())
}

func TestReconcileHarvest_OverAllocation(t *testing.T) {
	harvest := &domain.Harvest{TotalQuantity: 100, Unit: domain.UnitBins}
	deliveries := []domain.Delivery{{Bins: 60}, {Bins: 52}}

	status := analytics.ReconcileHarvest(harvest, deliveries, nil)

	assert.Equal(t, analytics.ChannelOver, status.Loads.Status)
	assert.Equal(t, "12 bins over the recorded harvest total", status.Loads.Message)
	// Percent complete caps at 100 even when over-allocated.
	assert.InDelta(t, 100.0, status.Loads.PercentComplete, 1e-9)
}

func TestReconcileHarvest_WeightBasedNormalization(t *testing.T) {
	// 9000 lbs at 900 lbs/bin is 10 bin-equivalents.
	harvest := &domain.Harvest{
		TotalQuantity: 9000,
		Unit:          domain.UnitLbs,
		BinWeightLbs:  900,
	}
	deliveries := []domain.Delivery{{Bins: 10}}

	status := analytics.ReconcileHarvest(harvest, deliveries, nil)

	require.InDelta(t, 10, status.HarvestTotal, 1e-9)
	assert.Equal(t, analytics.ChannelMatch, status.Loads.Status)
}

func TestReconcileChannel_PureAndRepeatable(t *testing.T) {
	unit := binsUnit()
	first := analytics.ReconcileChannel(500, []float64{200, 250}, 0.01, unit)
	second := analytics.ReconcileChannel(500, []float64{200, 250}, 0.01, unit)
	assert.Equal(t, first, second)
}
