// Package analytics implements the settlement reconciliation and
// pipeline-analytics engine. Everything in this package is a pure function
// over already-fetched in-memory records: no I/O, no clock, no shared state.
// Services recompute results whenever their input collections change (see
// SnapshotCache for the memoization strategy).
package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/groveline/orchard-api/internal/domain"
)

// UnitDescriptor describes the unit a commodity is accounted in.
type UnitDescriptor struct {
	Unit          domain.HarvestUnit `json:"unit"`
	LabelSingular string             `json:"labelSingular"`
	LabelPlural   string             `json:"labelPlural"`
}

var (
	unitBins = UnitDescriptor{Unit: domain.UnitBins, LabelSingular: "bin", LabelPlural: "bins"}
	unitLbs  = UnitDescriptor{Unit: domain.UnitLbs, LabelSingular: "lb", LabelPlural: "lbs"}
)

// UnitFor returns the accounting unit for a commodity. Weight-based
// commodities (avocados, subtropicals) report in pounds; everything else
// reports in bins. Unknown commodities default to bin accounting.
func UnitFor(commodity domain.Commodity) UnitDescriptor {
	switch commodity {
	case domain.CommodityAvocado, domain.CommoditySubtropical:
		return unitLbs
	default:
		return unitBins
	}
}

// BinEquivalent normalizes a quantity to bin-equivalents. Quantities already
// recorded in bins pass through; weight quantities divide by the bin weight.
// A missing or non-positive bin weight falls back to the configured default
// so the result is always finite.
func BinEquivalent(quantity float64, unit domain.HarvestUnit, binWeightLbs float64) float64 {
	if unit != domain.UnitLbs {
		return quantity
	}
	if binWeightLbs <= 0 {
		binWeightLbs = domain.DefaultBinWeightLbs
	}
	return quantity / binWeightLbs
}

// FormatQuantity renders a quantity with its unit label, trimming trailing
// zeros ("12 bins", "1 bin", "450.5 lbs").
func FormatQuantity(quantity float64, unit UnitDescriptor) string {
	s := strconv.FormatFloat(quantity, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	label := unit.LabelPlural
	if s == "1" {
		label = unit.LabelSingular
	}
	return fmt.Sprintf("%s %s", s, label)
}
