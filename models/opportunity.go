package models

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline stages. The funnel is ordered for display, but transitions are
// free-form: any stage may move to any other stage except itself.
const (
	StageExhibition     = "exhibition"
	StageSocialMedia    = "social_media"
	StageInterested     = "interested"
	StageStoreWalkin    = "store_walkin"
	StageNegotiation    = "negotiation"
	StageClosedWon      = "closed_won"
	StageClosedLost     = "closed_lost"
	StageFutureProspect = "future_prospect"
	StageNotQualified   = "not_qualified"
)

// StageDef is one step of the sales funnel as rendered on the pipeline board.
type StageDef struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Terminal bool   `json:"terminal"`
}

// PipelineStages is the fixed, ordered stage set. Dashboards render every
// stage unconditionally, so aggregation must emit all of them even at zero.
var PipelineStages = []StageDef{
	{Name: StageExhibition, Label: "Exhibition"},
	{Name: StageSocialMedia, Label: "Social Media"},
	{Name: StageInterested, Label: "Interested"},
	{Name: StageStoreWalkin, Label: "Store Walk-in"},
	{Name: StageNegotiation, Label: "Negotiation"},
	{Name: StageClosedWon, Label: "Closed Won", Terminal: true},
	{Name: StageClosedLost, Label: "Closed Lost", Terminal: true},
	{Name: StageFutureProspect, Label: "Future Prospect"},
	{Name: StageNotQualified, Label: "Not Qualified", Terminal: true},
}

// ValidStage reports whether name is one of the defined pipeline stages.
func ValidStage(name string) bool {
	for _, s := range PipelineStages {
		if s.Name == name {
			return true
		}
	}
	return false
}

// PipelineOpportunity is one consolidated deal per customer. All of a
// customer's interests roll up into a single opportunity rather than one
// per interest; closing a deal is a stage change, never a delete.
type PipelineOpportunity struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	CustomerID     uuid.UUID  `json:"customer_id" db:"customer_id"`
	Stage          string     `json:"stage" db:"stage"`
	Probability    int        `json:"probability" db:"probability"`
	ExpectedValue  float64    `json:"expected_value" db:"expected_value"`
	Notes          string     `json:"notes" db:"notes"`
	NextAction     string     `json:"next_action" db:"next_action"`
	NextActionDate *time.Time `json:"next_action_date" db:"next_action_date"`
	AssignedRep    *uuid.UUID `json:"assigned_rep" db:"assigned_rep"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (PipelineOpportunity) TableName() string {
	return "pipeline_opportunities"
}

func (PipelineOpportunity) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS pipeline_opportunities (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		stage TEXT NOT NULL DEFAULT 'exhibition',
		probability INTEGER NOT NULL DEFAULT 0 CHECK (probability >= 0 AND probability <= 100),
		expected_value NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (expected_value >= 0),
		notes TEXT DEFAULT '',
		next_action TEXT DEFAULT '',
		next_action_date TIMESTAMP WITH TIME ZONE,
		assigned_rep UUID REFERENCES team_members(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_pipeline_opportunities_customer_id ON pipeline_opportunities(customer_id);
	CREATE INDEX IF NOT EXISTS idx_pipeline_opportunities_stage ON pipeline_opportunities(stage);
	CREATE INDEX IF NOT EXISTS idx_pipeline_opportunities_assigned_rep ON pipeline_opportunities(assigned_rep);
	`
}
