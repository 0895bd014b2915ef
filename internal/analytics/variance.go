package analytics

import (
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/shopspring/decimal"
)

// GradeLineVariance is the per-bin view of one settlement revenue line.
type GradeLineVariance struct {
	Grade        string  `json:"grade"`
	Size         string  `json:"size"`
	Quantity     float64 `json:"quantity"`
	FOBRate      float64 `json:"fobRate"`
	TotalAmount  float64 `json:"totalAmount"`
	AmountPerBin float64 `json:"amountPerBin"`
	RevenueShare float64 `json:"revenueShare"` // percent of total credits
}

// DeductionGroup aggregates settlement charges by category.
type DeductionGroup struct {
	Category  domain.DeductionCategory `json:"category"`
	Total     float64                  `json:"total"`
	PerBin    float64                  `json:"perBin"`
	LineCount int                      `json:"lineCount"`
}

// VarianceResult is the per-bin normalized financial view of one settlement.
// Per-bin normalization is what makes pools of different sizes comparable;
// every dollar figure is paired with its per-bin equivalent. Variance fields
// are nil when no house average exists; "no baseline" is not "no difference".
type VarianceResult struct {
	TotalBins             float64             `json:"totalBins"`
	TotalCredits          float64             `json:"totalCredits"`
	TotalDeductions       float64             `json:"totalDeductions"`
	NetReturn             float64             `json:"netReturn"`
	CreditsPerBin         float64             `json:"creditsPerBin"`
	DeductionsPerBin      float64             `json:"deductionsPerBin"`
	NetPerBin             float64             `json:"netPerBin"`
	HouseAvgPerBin        *float64            `json:"houseAvgPerBin,omitempty"`
	VarianceVsHousePerBin *float64            `json:"varianceVsHousePerBin,omitempty"`
	GradeLines            []GradeLineVariance `json:"gradeLines"`
	Deductions            []DeductionGroup    `json:"deductions"`
}

// deductionOrder is the canonical display order for charge categories.
var deductionOrder = []domain.DeductionCategory{
	domain.DeductionPacking,
	domain.DeductionAssessment,
	domain.DeductionPickHaul,
	domain.DeductionCapital,
	domain.DeductionMarketing,
	domain.DeductionOther,
}

// AnalyzeSettlement computes per-bin revenue, grouped deductions, net return
// and the variance against the packinghouse house average for one settlement.
// Money arithmetic runs on decimals and is rounded to cents on output.
func AnalyzeSettlement(s *domain.Settlement) VarianceResult {
	credits := decimal.NewFromFloat(s.TotalCredits)
	deductions := decimal.NewFromFloat(s.TotalDeductions)
	net := credits.Sub(deductions)

	result := VarianceResult{
		TotalBins:       s.TotalBins,
		TotalCredits:    roundMoney(credits),
		TotalDeductions: roundMoney(deductions),
		NetReturn:       roundMoney(net),
	}

	bins := decimal.NewFromFloat(s.TotalBins)
	if s.TotalBins > 0 {
		result.CreditsPerBin = roundMoney(credits.Div(bins))
		result.DeductionsPerBin = roundMoney(deductions.Div(bins))
		result.NetPerBin = roundMoney(net.Div(bins))
	}

	if s.HouseAvgPerBin != nil {
		house := *s.HouseAvgPerBin
		variance := roundMoney(decimal.NewFromFloat(result.NetPerBin).Sub(decimal.NewFromFloat(house)))
		result.HouseAvgPerBin = &house
		result.VarianceVsHousePerBin = &variance
	}

	result.GradeLines = make([]GradeLineVariance, 0, len(s.GradeLines))
	for _, gl := range s.GradeLines {
		line := GradeLineVariance{
			Grade:       gl.Grade,
			Size:        gl.Size,
			Quantity:    gl.Quantity,
			FOBRate:     gl.FOBRate,
			TotalAmount: gl.TotalAmount,
		}
		amount := decimal.NewFromFloat(gl.TotalAmount)
		if s.TotalBins > 0 {
			line.AmountPerBin = roundMoney(amount.Div(bins))
		}
		if s.TotalCredits > 0 {
			line.RevenueShare = clampPercent(gl.TotalAmount, s.TotalCredits)
		}
		result.GradeLines = append(result.GradeLines, line)
	}

	result.Deductions = groupDeductions(s.Deductions, bins, s.TotalBins > 0)
	return result
}

// groupDeductions rolls charge lines up by category in canonical order.
// Categories with no lines are omitted.
func groupDeductions(lines []domain.SettlementDeduction, bins decimal.Decimal, hasBins bool) []DeductionGroup {
	totals := make(map[domain.DeductionCategory]decimal.Decimal)
	counts := make(map[domain.DeductionCategory]int)
	for _, d := range lines {
		cat := d.Category
		if !cat.IsValid() {
			cat = domain.DeductionOther
		}
		totals[cat] = totals[cat].Add(decimal.NewFromFloat(d.Amount))
		counts[cat]++
	}

	groups := make([]DeductionGroup, 0, len(totals))
	for _, cat := range deductionOrder {
		total, ok := totals[cat]
		if !ok {
			continue
		}
		group := DeductionGroup{
			Category:  cat,
			Total:     roundMoney(total),
			LineCount: counts[cat],
		}
		if hasBins {
			group.PerBin = roundMoney(total.Div(bins))
		}
		groups = append(groups, group)
	}
	return groups
}

func roundMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
