package analytics

import "github.com/groveline/orchard-api/internal/domain"

// StageSummary aggregates one stage of the harvest-to-settlement pipeline.
// Breakdown is a partition of the stage's record count by a status or
// link-presence predicate.
type StageSummary struct {
	Label        string         `json:"label"`
	TotalBins    float64        `json:"totalBins"`
	TotalRevenue float64        `json:"totalRevenue,omitempty"`
	TotalCount   int            `json:"totalCount"`
	Breakdown    map[string]int `json:"breakdown"`
}

// PipelineEfficiency holds stage-to-stage conversion percentages, each in
// [0,100] with one decimal.
type PipelineEfficiency struct {
	HarvestToDelivery   float64 `json:"harvestToDelivery"`
	DeliveryToPackout   float64 `json:"deliveryToPackout"`
	PackoutToSettlement float64 `json:"packoutToSettlement"`
	Overall             float64 `json:"overall"`
}

// FunnelResult is the full four-stage pipeline view for a season.
type FunnelResult struct {
	Harvest    StageSummary       `json:"harvest"`
	Delivery   StageSummary       `json:"delivery"`
	Packout    StageSummary       `json:"packout"`
	Settlement StageSummary       `json:"settlement"`
	Efficiency PipelineEfficiency `json:"pipelineEfficiency"`
}

// BuildFunnel aggregates the four sequential pipeline stages and their
// conversion efficiencies. All quantities are normalized to bin-equivalents
// before stages are compared. Zero harvested bins yields zero efficiencies,
// never NaN; counts stay populated so consumers can tell "no data" from
// "no loss".
func BuildFunnel(
	harvests []domain.Harvest,
	deliveries []domain.Delivery,
	packouts []domain.PackoutReport,
	settlements []domain.Settlement,
) FunnelResult {
	harvest := StageSummary{
		Label:      "Harvested",
		TotalCount: len(harvests),
		Breakdown:  map[string]int{"verified": 0, "in_progress": 0},
	}
	for _, h := range harvests {
		harvest.TotalBins += BinEquivalent(h.TotalQuantity, h.Unit, h.BinWeightLbs)
		if h.Status == domain.HarvestStatusVerified {
			harvest.Breakdown["verified"]++
		} else {
			harvest.Breakdown["in_progress"]++
		}
	}

	delivery := StageSummary{
		Label:      "Delivered",
		TotalCount: len(deliveries),
		Breakdown:  map[string]int{"linked": 0, "unlinked": 0},
	}
	for _, d := range deliveries {
		delivery.TotalBins += d.Bins
		if d.IsLinked() {
			delivery.Breakdown["linked"]++
		} else {
			delivery.Breakdown["unlinked"]++
		}
	}

	packout := StageSummary{
		Label:      "Packed",
		TotalCount: len(packouts),
		Breakdown:  map[string]int{"pool_level": 0, "field_level": 0},
	}
	for _, p := range packouts {
		packout.TotalBins += p.BinsThisPeriod
		if p.FieldID != nil {
			packout.Breakdown["field_level"]++
		} else {
			packout.Breakdown["pool_level"]++
		}
	}

	settlement := StageSummary{
		Label:      "Settled",
		TotalCount: len(settlements),
		Breakdown:  map[string]int{"pool_level": 0, "field_level": 0},
	}
	for _, s := range settlements {
		settlement.TotalBins += s.TotalBins
		settlement.TotalRevenue += s.NetReturn
		if s.FieldID != nil {
			settlement.Breakdown["field_level"]++
		} else {
			settlement.Breakdown["pool_level"]++
		}
	}

	return FunnelResult{
		Harvest:    harvest,
		Delivery:   delivery,
		Packout:    packout,
		Settlement: settlement,
		Efficiency: PipelineEfficiency{
			HarvestToDelivery:   clampPercent(delivery.TotalBins, harvest.TotalBins),
			DeliveryToPackout:   clampPercent(packout.TotalBins, delivery.TotalBins),
			PackoutToSettlement: clampPercent(settlement.TotalBins, packout.TotalBins),
			Overall:             clampPercent(settlement.TotalBins, harvest.TotalBins),
		},
	}
}
