package services

import (
	"math"
	"testing"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opp(stage string, value float64, rep *uuid.UUID) models.PipelineOpportunity {
	return models.PipelineOpportunity{
		ID:            uuid.New(),
		Stage:         stage,
		ExpectedValue: value,
		AssignedRep:   rep,
	}
}

func TestAggregateStagesEmptyInput(t *testing.T) {
	stats := AggregateStages(nil)

	require.Len(t, stats, len(models.PipelineStages))
	for i, stat := range stats {
		assert.Equal(t, models.PipelineStages[i].Name, stat.Stage)
		assert.Zero(t, stat.Count)
		assert.Zero(t, stat.ValueSum)
	}
}

func TestAggregateStagesCountsAndSums(t *testing.T) {
	opps := []models.PipelineOpportunity{
		opp(models.StageNegotiation, 1000, nil),
		opp(models.StageNegotiation, 2500, nil),
		opp(models.StageClosedWon, 9000, nil),
	}

	stats := AggregateStages(opps)

	byStage := map[string]models.PipelineStageStat{}
	for _, s := range stats {
		byStage[s.Stage] = s
	}

	assert.Equal(t, 2, byStage[models.StageNegotiation].Count)
	assert.Equal(t, 3500.0, byStage[models.StageNegotiation].ValueSum)
	assert.Equal(t, 1, byStage[models.StageClosedWon].Count)
	assert.Equal(t, 9000.0, byStage[models.StageClosedWon].ValueSum)
	assert.Equal(t, 0, byStage[models.StageExhibition].Count)
}

func TestComputeStatsEmptyInputIsFinite(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Zero(t, stats.TotalCount)
	assert.Zero(t, stats.TotalValue)
	assert.Zero(t, stats.ConversionRate)
	assert.Zero(t, stats.AvgDealValue)
	assert.Zero(t, stats.MonthlyRecurringRevenue)
	assert.Zero(t, stats.CustomerLifetimeValue)

	assert.False(t, math.IsNaN(stats.ConversionRate))
	assert.False(t, math.IsInf(stats.AvgDealValue, 0))
}

func TestComputeStatsRollup(t *testing.T) {
	opps := []models.PipelineOpportunity{
		opp(models.StageClosedWon, 60000, nil),
		opp(models.StageNegotiation, 20000, nil),
		opp(models.StageStoreWalkin, 10000, nil),
		opp(models.StageClosedWon, 30000, nil),
	}

	stats := ComputeStats(opps)

	assert.Equal(t, 4, stats.TotalCount)
	assert.Equal(t, 120000.0, stats.TotalValue)
	assert.Equal(t, 2, stats.WonCount)
	assert.Equal(t, 50.0, stats.ConversionRate)
	assert.Equal(t, 30000.0, stats.AvgDealValue)
	assert.InDelta(t, 120000*0.12, stats.MonthlyRecurringRevenue, 0.001)
	assert.InDelta(t, 30000*24.0, stats.CustomerLifetimeValue, 0.001)
}

func TestComputeStatsNeutralizesDegenerateValues(t *testing.T) {
	opps := []models.PipelineOpportunity{
		opp(models.StageNegotiation, math.NaN(), nil),
		opp(models.StageNegotiation, math.Inf(1), nil),
		opp(models.StageNegotiation, 500, nil),
	}

	stats := ComputeStats(opps)

	assert.Equal(t, 500.0, stats.TotalValue)
	assert.False(t, math.IsNaN(stats.AvgDealValue))
	assert.False(t, math.IsInf(stats.TotalValue, 0))
}

func TestAggregateRepsRollupAndBanding(t *testing.T) {
	repA := uuid.New()
	repB := uuid.New()
	repC := uuid.New()

	opps := []models.PipelineOpportunity{
		// rep A: 5 deals, 4 won -> 80, good
		opp(models.StageClosedWon, 100, &repA),
		opp(models.StageClosedWon, 100, &repA),
		opp(models.StageClosedWon, 100, &repA),
		opp(models.StageClosedWon, 100, &repA),
		opp(models.StageNegotiation, 100, &repA),
		// rep B: 3 deals, 2 won -> 66.7, fair
		opp(models.StageClosedWon, 200, &repB),
		opp(models.StageClosedWon, 200, &repB),
		opp(models.StageInterested, 200, &repB),
		// rep C: 2 deals, 0 won -> 0, poor
		opp(models.StageExhibition, 50, &repC),
		opp(models.StageSocialMedia, 50, &repC),
		// unassigned, skipped
		opp(models.StageClosedWon, 999, nil),
	}

	reps := AggregateReps(opps)
	require.Len(t, reps, 3)

	byRep := map[string]models.RepPerformance{}
	for _, r := range reps {
		byRep[r.Rep] = r
	}

	a := byRep[repA.String()]
	assert.Equal(t, 5, a.Count)
	assert.Equal(t, 500.0, a.TotalValue)
	assert.Equal(t, 80.0, a.PerformanceScore)
	assert.Equal(t, BandGood, a.PerformanceBand)

	b := byRep[repB.String()]
	assert.Equal(t, 3, b.Count)
	assert.Equal(t, BandFair, b.PerformanceBand)

	c := byRep[repC.String()]
	assert.Equal(t, 2, c.Count)
	assert.Zero(t, c.ConversionRate)
	assert.Equal(t, BandPoor, c.PerformanceBand)
}

func TestAggregateRepsEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateReps(nil))
}
