package models

// PipelineStageStat is a per-stage projection recomputed on demand from the
// current opportunity set. It has no identity and is never persisted.
type PipelineStageStat struct {
	Stage    string  `json:"stage"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	ValueSum float64 `json:"value_sum"`
}

// PipelineStats are org-level rollups for the dashboard header.
// MonthlyRecurringRevenue and CustomerLifetimeValue are fixed-multiplier
// heuristics over the measured totals, not measured figures.
type PipelineStats struct {
	TotalCount              int     `json:"total_count"`
	TotalValue              float64 `json:"total_value"`
	WonCount                int     `json:"won_count"`
	ConversionRate          float64 `json:"conversion_rate"`
	AvgDealValue            float64 `json:"avg_deal_value"`
	MonthlyRecurringRevenue float64 `json:"monthly_recurring_revenue"`
	CustomerLifetimeValue   float64 `json:"customer_lifetime_value"`
}

// RepPerformance is the per-rep rollup. Score banding is display color only,
// never a control decision.
type RepPerformance struct {
	Rep              string  `json:"rep"`
	Count            int     `json:"count"`
	TotalValue       float64 `json:"total_value"`
	WonCount         int     `json:"won_count"`
	ConversionRate   float64 `json:"conversion_rate"`
	PerformanceScore float64 `json:"performance_score"`
	PerformanceBand  string  `json:"performance_band"` // good, fair, poor
}
