package analytics

import (
	"fmt"
	"math"

	"github.com/groveline/orchard-api/internal/domain"
)

// DefaultReconcileTolerance is the absolute tolerance (in accounting units)
// within which an allocated total counts as matching the harvest total.
// One hundredth of a bin is well above float64 noise and far below anything
// a grower would record.
const DefaultReconcileTolerance = 0.01

// ChannelStatus is the reconciliation status of one allocation channel.
type ChannelStatus string

const (
	ChannelMatch ChannelStatus = "match"
	ChannelUnder ChannelStatus = "under"
	ChannelOver  ChannelStatus = "over"
)

// ChannelResult holds the reconciliation outcome for one allocation channel.
type ChannelResult struct {
	Status          ChannelStatus `json:"status"`
	TotalAllocated  float64       `json:"totalAllocated"`
	PercentComplete float64       `json:"percentComplete"`
	Message         string        `json:"message"`
}

// ReconciliationStatus is the derived (never persisted) per-harvest
// reconciliation view across all allocation channels.
type ReconciliationStatus struct {
	HarvestTotal float64        `json:"harvestTotal"`
	Unit         UnitDescriptor `json:"unit"`
	Loads        ChannelResult  `json:"loads"`
	Labor        ChannelResult  `json:"labor"`
}

// HasMismatch reports whether any channel is under or over allocated.
func (r ReconciliationStatus) HasMismatch() bool {
	return r.Loads.Status != ChannelMatch || r.Labor.Status != ChannelMatch
}

// ReconcileChannel compares an allocated total against the harvest total.
// Exactly one of match/under/over holds for any pair of totals: within
// tolerance is a match, below is under, above is over. A mismatch is a
// first-class state meant to inform the user, never an error.
func ReconcileChannel(harvestTotal float64, quantities []float64, tolerance float64, unit UnitDescriptor) ChannelResult {
	if tolerance <= 0 {
		tolerance = DefaultReconcileTolerance
	}

	var allocated float64
	for _, q := range quantities {
		allocated += q
	}

	result := ChannelResult{
		TotalAllocated:  allocated,
		PercentComplete: clampPercent(allocated, harvestTotal),
	}

	diff := harvestTotal - allocated
	switch {
	case math.Abs(diff) <= tolerance:
		result.Status = ChannelMatch
		result.Message = fmt.Sprintf("all %s accounted for", FormatQuantity(harvestTotal, unit))
	case diff > 0:
		result.Status = ChannelUnder
		result.Message = fmt.Sprintf("%s unaccounted for", FormatQuantity(diff, unit))
	default:
		result.Status = ChannelOver
		result.Message = fmt.Sprintf("%s over the recorded harvest total", FormatQuantity(-diff, unit))
	}
	return result
}

// ReconcileHarvest computes the reconciliation status of a harvest against
// its two allocation channels: delivery loads and labor entries. Quantities
// are normalized to the harvest's accounting unit before comparison.
func ReconcileHarvest(h *domain.Harvest, deliveries []domain.Delivery, labor []domain.LaborEntry) ReconciliationStatus {
	unit := unitBins
	harvestTotal := BinEquivalent(h.TotalQuantity, h.Unit, h.BinWeightLbs)

	loadBins := make([]float64, 0, len(deliveries))
	for _, d := range deliveries {
		loadBins = append(loadBins, d.Bins)
	}

	laborBins := make([]float64, 0, len(labor))
	for _, l := range labor {
		laborBins = append(laborBins, l.Bins)
	}

	return ReconciliationStatus{
		HarvestTotal: harvestTotal,
		Unit:         unit,
		Loads:        ReconcileChannel(harvestTotal, loadBins, DefaultReconcileTolerance, unit),
		Labor:        ReconcileChannel(harvestTotal, laborBins, DefaultReconcileTolerance, unit),
	}
}

// clampPercent returns numerator/denominator as a percentage clamped to
// [0,100] and rounded to one decimal. Zero or negative denominators report
// 0 rather than NaN/Inf; callers treat that as "no data".
func clampPercent(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	ratio := numerator / denominator
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return math.Round(ratio*1000) / 10
}
