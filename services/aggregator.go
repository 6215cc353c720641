package services

import (
	"math"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
)

// Heuristic projection multipliers for the dashboard header. These are
// fixed assumptions, not measured figures: MRR assumes pipeline value
// realizes over a year, CLV assumes 24 months of the average deal.
const (
	mrrMultiplier = 0.12
	clvMultiplier = 24
)

// Performance score bands, display color only.
const (
	BandGood = "good"
	BandFair = "fair"
	BandPoor = "poor"
)

// AggregateStages counts opportunities and sums expected value per defined
// stage. Every defined stage is reported, zero filled, in funnel order,
// since dashboards render all stages unconditionally.
func AggregateStages(opps []models.PipelineOpportunity) []models.PipelineStageStat {
	stats := make([]models.PipelineStageStat, 0, len(models.PipelineStages))
	for _, def := range models.PipelineStages {
		stat := models.PipelineStageStat{Stage: def.Name, Label: def.Label}
		for _, opp := range opps {
			if opp.Stage != def.Name {
				continue
			}
			stat.Count++
			stat.ValueSum += safeValue(opp.ExpectedValue)
		}
		stats = append(stats, stat)
	}
	return stats
}

// ComputeStats derives the org-level rollup. Degenerate inputs (NaN,
// infinities) are neutralized to 0 and an empty pipeline yields all-zero
// metrics, never a division by zero.
func ComputeStats(opps []models.PipelineOpportunity) models.PipelineStats {
	stats := models.PipelineStats{TotalCount: len(opps)}
	for _, opp := range opps {
		stats.TotalValue += safeValue(opp.ExpectedValue)
		if opp.Stage == models.StageClosedWon {
			stats.WonCount++
		}
	}

	if stats.TotalCount > 0 {
		stats.ConversionRate = float64(stats.WonCount) / float64(stats.TotalCount) * 100
		stats.AvgDealValue = stats.TotalValue / float64(stats.TotalCount)
	}

	stats.MonthlyRecurringRevenue = stats.TotalValue * mrrMultiplier
	stats.CustomerLifetimeValue = stats.AvgDealValue * clvMultiplier
	return stats
}

// AggregateReps groups opportunities by assigned rep and computes the same
// count/value/conversion metrics per group. Unassigned opportunities are
// skipped. Order follows first appearance in the input.
func AggregateReps(opps []models.PipelineOpportunity) []models.RepPerformance {
	index := make(map[string]int)
	var reps []models.RepPerformance

	for _, opp := range opps {
		if opp.AssignedRep == nil {
			continue
		}
		rep := opp.AssignedRep.String()
		i, ok := index[rep]
		if !ok {
			i = len(reps)
			index[rep] = i
			reps = append(reps, models.RepPerformance{Rep: rep})
		}
		reps[i].Count++
		reps[i].TotalValue += safeValue(opp.ExpectedValue)
		if opp.Stage == models.StageClosedWon {
			reps[i].WonCount++
		}
	}

	for i := range reps {
		if reps[i].Count > 0 {
			reps[i].ConversionRate = float64(reps[i].WonCount) / float64(reps[i].Count) * 100
		}
		reps[i].PerformanceScore = reps[i].ConversionRate
		reps[i].PerformanceBand = performanceBand(reps[i].PerformanceScore)
	}
	return reps
}

func performanceBand(score float64) string {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

func safeValue(v float64) float64 {
	if isDegenerate(v) {
		return 0
	}
	return v
}

func isDegenerate(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
