package analytics

import (
	"sort"
	"strconv"
)

// GroupBy selects the grouping dimension for size distributions.
type GroupBy string

const (
	GroupByFarm  GroupBy = "farm"
	GroupByField GroupBy = "field"
)

// IsValid checks if the GroupBy is a valid enum value
func (g GroupBy) IsValid() bool {
	return g == GroupByFarm || g == GroupByField
}

// GradeLineRecord is one grade line attributed to a group. Callers assemble
// these from settlement or packout grade lines with the farm/field resolved
// according to the requested grouping.
type GradeLineRecord struct {
	GroupID         string
	GroupName       string
	Size            string
	Quantity        float64
	HouseAvgPercent *float64
}

// SizeSlice is one fruit-size bucket within a group's distribution.
type SizeSlice struct {
	Size            string   `json:"size"`
	Quantity        float64  `json:"quantity"`
	Percent         float64  `json:"percent"`
	HouseAvgPercent *float64 `json:"houseAvgPercent,omitempty"`
	VarianceVsHouse *float64 `json:"varianceVsHouse,omitempty"`
}

// GroupDistribution is the normalized size breakdown for one farm or field.
type GroupDistribution struct {
	GroupID       string      `json:"groupId"`
	GroupName     string      `json:"groupName"`
	TotalQuantity float64     `json:"totalQuantity"`
	Sizes         []SizeSlice `json:"sizes"`
}

// SizeDistribution is the full grouped size breakdown plus the global size
// ordering and color assignment shared by every visualization.
type SizeDistribution struct {
	Groups   []GroupDistribution `json:"groups"`
	AllSizes []string            `json:"allSizes"`
	Colors   map[string]string   `json:"colors"`
}

// sizePalette is the fixed chart palette. Colors are assigned by position in
// the canonical size ordering, never by input order, so re-fetching data in a
// different order can never reassign a size's color.
var sizePalette = []string{
	"#2f855a", "#38a169", "#68d391", "#ecc94b", "#ed8936",
	"#e53e3e", "#9b2c2c", "#805ad5", "#3182ce", "#718096",
}

// AggregateSizeDistribution groups grade lines by the caller-resolved group
// key and normalizes each group's size buckets to percent-of-group. AllSizes
// is ordered by conventional size-code ordering (numerically ascending;
// smallest code = largest fruit) and is stable across calls for identical
// size sets. House-average comparisons are quantity-weighted and null-safe.
func AggregateSizeDistribution(lines []GradeLineRecord) SizeDistribution {
	type sizeAccum struct {
		quantity   float64
		houseSum   float64 // sum of house pct * quantity for lines that carry one
		houseQty   float64
		houseKnown bool
	}
	type groupAccum struct {
		name  string
		total float64
		sizes map[string]*sizeAccum
	}

	groups := make(map[string]*groupAccum)
	sizeSet := make(map[string]struct{})

	for _, line := range lines {
		g, ok := groups[line.GroupID]
		if !ok {
			g = &groupAccum{name: line.GroupName, sizes: make(map[string]*sizeAccum)}
			groups[line.GroupID] = g
		}
		sa, ok := g.sizes[line.Size]
		if !ok {
			sa = &sizeAccum{}
			g.sizes[line.Size] = sa
		}
		sa.quantity += line.Quantity
		g.total += line.Quantity
		if line.HouseAvgPercent != nil {
			sa.houseSum += *line.HouseAvgPercent * line.Quantity
			sa.houseQty += line.Quantity
			sa.houseKnown = true
		}
		sizeSet[line.Size] = struct{}{}
	}

	allSizes := orderSizes(sizeSet)

	result := SizeDistribution{
		AllSizes: allSizes,
		Colors:   assignColors(allSizes),
		Groups:   make([]GroupDistribution, 0, len(groups)),
	}

	for id, g := range groups {
		dist := GroupDistribution{
			GroupID:       id,
			GroupName:     g.name,
			TotalQuantity: g.total,
			Sizes:         make([]SizeSlice, 0, len(g.sizes)),
		}
		for _, size := range allSizes {
			sa, ok := g.sizes[size]
			if !ok {
				continue
			}
			slice := SizeSlice{
				Size:     size,
				Quantity: sa.quantity,
				Percent:  clampPercent(sa.quantity, g.total),
			}
			if sa.houseKnown && sa.houseQty > 0 {
				house := sa.houseSum / sa.houseQty
				variance := slice.Percent - house
				slice.HouseAvgPercent = &house
				slice.VarianceVsHouse = &variance
			}
			dist.Sizes = append(dist.Sizes, slice)
		}
		result.Groups = append(result.Groups, dist)
	}

	// Deterministic group ordering: by name, then id as tiebreaker.
	sort.Slice(result.Groups, func(i, j int) bool {
		a, b := result.Groups[i], result.Groups[j]
		if a.GroupName != b.GroupName {
			return a.GroupName < b.GroupName
		}
		return a.GroupID < b.GroupID
	})

	return result
}

// orderSizes sorts size codes numerically ascending; non-numeric codes sort
// after numeric ones, lexicographically. The ordering depends only on the
// size set, never on input order.
func orderSizes(set map[string]struct{}) []string {
	sizes := make([]string, 0, len(set))
	for s := range set {
		sizes = append(sizes, s)
	}
	sort.Slice(sizes, func(i, j int) bool {
		a, aErr := strconv.Atoi(sizes[i])
		b, bErr := strconv.Atoi(sizes[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return sizes[i] < sizes[j]
		}
	})
	return sizes
}

// assignColors maps each size code to a palette color by its position in the
// canonical ordering.
func assignColors(orderedSizes []string) map[string]string {
	colors := make(map[string]string, len(orderedSizes))
	for i, size := range orderedSizes {
		colors[size] = sizePalette[i%len(sizePalette)]
	}
	return colors
}
