package analytics_test

import (
	"testing"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func houseAvg(v float64) *float64 { return &v }

func TestAggregateSizeDistribution_PercentsSumTo100(t *testing.T) {
	lines := []analytics.GradeLineRecord{
		{GroupID: "f1", GroupName: "North Ranch", Size: "88", Quantity: 300},
		{GroupID: "f1", GroupName: "North Ranch", Size: "113", Quantity: 500},
		{GroupID: "f1", GroupName: "North Ranch", Size: "138", Quantity: 200},
		{GroupID: "f2", GroupName: "South Ranch", Size: "88", Quantity: 1},
		{GroupID: "f2", GroupName: "South Ranch", Size: "113", Quantity: 1},
		{GroupID: "f2", GroupName: "South Ranch", Size: "138", Quantity: 1},
	}

	result := analytics.AggregateSizeDistribution(lines)

	require.Len(t, result.Groups, 2)
	for _, group := range result.Groups {
		var sum float64
		for _, size := range group.Sizes {
			sum += size.Percent
		}
		assert.InDelta(t, 100.0, sum, 0.5, "group %s", group.GroupName)
	}
}

func TestAggregateSizeDistribution_SizeOrdering(t *testing.T) {
	lines := []analytics.GradeLineRecord{
		{GroupID: "f1", GroupName: "Ranch", Size: "138", Quantity: 10},
		{GroupID: "f1", GroupName: "Ranch", Size: "48", Quantity: 10},
		{GroupID: "f1", GroupName: "Ranch", Size: "113", Quantity: 10},
		{GroupID: "f1", GroupName: "Ranch", Size: "88", Quantity: 10},
	}

	result := analytics.AggregateSizeDistribution(lines)

	// Numeric ascending: smallest code = largest fruit first.
	assert.Equal(t, []string{"48", "88", "113", "138"}, result.AllSizes)
}

func TestAggregateSizeDistribution_StableColorAssignment(t *testing.T) {
	forward := []analytics.GradeLineRecord{
		{GroupID: "f1", GroupName: "Ranch", Size: "88", Quantity: 10},
		{GroupID: "f1", GroupName: "Ranch", Size: "113", Quantity: 20},
		{GroupID: "f1", GroupName: "Ranch", Size: "138", Quantity: 30},
	}
	reversed := []analytics.GradeLineRecord{
		{GroupID: "f1", GroupName: "Ranch", Size: "138", Quantity: 30},
		{GroupID: "f1", GroupName: "Ranch", Size: "113", Quantity: 20},
		{GroupID: "f1", GroupName: "Ranch", Size: "88", Quantity: 10},
	}

	a := analytics.AggregateSizeDistribution(forward)
	b := analytics.AggregateSizeDistribution(reversed)

	// Reordering input can never reassign colors.
	assert.Equal(t, a.AllSizes, b.AllSizes)
	assert.Equal(t, a.Colors, b.Colors)
}

func TestAggregateSizeDistribution_HouseAverageVariance(t *testing.T) {
	lines := []analytics.GradeLineRecord{
		{GroupID: "f1", GroupName: "Ranch", Size: "88", Quantity: 60, HouseAvgPercent: houseAvg(50)},
		{GroupID: "f1", GroupName: "Ranch", Size: "113", Quantity: 40},
	}

	result := analytics.AggregateSizeDistribution(lines)

	require.Len(t, result.Groups, 1)
	sizes := result.Groups[0].Sizes
	require.Len(t, sizes, 2)

	require.NotNil(t, sizes[0].HouseAvgPercent)
	require.NotNil(t, sizes[0].VarianceVsHouse)
	assert.InDelta(t, 10.0, *sizes[0].VarianceVsHouse, 1e-9) // 60% actual vs 50% house

	// No house figure for the 113s: variance stays nil, not zero.
	assert.Nil(t, sizes[1].HouseAvgPercent)
	assert.Nil(t, sizes[1].VarianceVsHouse)
}

func TestAggregateSizeDistribution_NonNumericSizesSortLast(t *testing.T) {
	lines := []analytics.GradeLineRecord{
		{GroupID: "f1", GroupName: "Ranch", Size: "jumbo", Quantity: 5},
		{GroupID: "f1", GroupName: "Ranch", Size: "72", Quantity: 5},
		{GroupID: "f1", GroupName: "Ranch", Size: "choice", Quantity: 5},
	}

	result := analytics.AggregateSizeDistribution(lines)
	assert.Equal(t, []string{"72", "choice", "jumbo"}, result.AllSizes)
}

func TestAggregateSizeDistribution_EmptyInput(t *testing.T) {
	result := analytics.AggregateSizeDistribution(nil)
	assert.Empty(t, result.Groups)
	assert.Empty(t, result.AllSizes)
}
