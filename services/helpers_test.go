package services

import (
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/google/uuid"
)

// fakePipelineAPI is an in-memory stand-in for the PostgreSQL store.
type fakePipelineAPI struct {
	opps []models.PipelineOpportunity

	createCalls int
	listCalls   int
	updateCalls int

	createErr error
	listErr   error
	updateErr error
}

func (f *fakePipelineAPI) ListOpportunities(filter OpportunityFilter) ([]models.PipelineOpportunity, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.PipelineOpportunity
	for _, opp := range f.opps {
		if filter.Stage != "" && opp.Stage != filter.Stage {
			continue
		}
		if filter.Rep != "" && (opp.AssignedRep == nil || opp.AssignedRep.String() != filter.Rep) {
			continue
		}
		out = append(out, opp)
	}
	return out, nil
}

func (f *fakePipelineAPI) CreateOpportunity(opp *models.PipelineOpportunity) (*models.PipelineOpportunity, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *opp
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.opps = append(f.opps, created)
	return &created, nil
}

func (f *fakePipelineAPI) UpdateOpportunityStage(id uuid.UUID, stage string) (*models.PipelineOpportunity, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.opps {
		if f.opps[i].ID == id {
			f.opps[i].Stage = stage
			f.opps[i].UpdatedAt = time.Now()
			updated := f.opps[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakePipelineAPI) GetStageSummary() ([]models.PipelineStageStat, error) {
	return AggregateStages(f.opps), nil
}

func makeCustomer() *models.Customer {
	last := "Sharma"
	return &models.Customer{
		ID:        uuid.New(),
		FirstName: "Priya",
		LastName:  &last,
		Status:    "prospect",
		Source:    "walk-in",
	}
}

func interest(category string, prefs models.InterestPreferences, products ...models.InterestProduct) models.ProductInterest {
	if products == nil {
		products = []models.InterestProduct{}
	}
	return models.ProductInterest{Category: category, Products: products, Preferences: prefs}
}
