package services

import (
	"sync"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TransitionController validates and applies stage changes. It owns the
// session's in-memory per-stage board cache and follows a two-phase
// protocol: the moved item is removed from its old stage immediately
// (optimistic local apply), the backend update is issued, and an
// unconditional refetch of both stages is scheduled after a settle delay to
// reconcile any divergence. Stale counts inside the settle window are
// acceptable; the refetch is idempotent.
type TransitionController struct {
	api         PipelineAPI
	settleDelay time.Duration

	// schedule defaults to time.AfterFunc; tests swap it to run inline.
	schedule func(d time.Duration, f func())

	mu    sync.Mutex
	cache map[string][]models.PipelineOpportunity
}

// NewTransitionController builds a controller over the given store.
func NewTransitionController(api PipelineAPI, settleDelay time.Duration) *TransitionController {
	return &TransitionController{
		api:         api,
		settleDelay: settleDelay,
		schedule:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		cache:       make(map[string][]models.PipelineOpportunity),
	}
}

// StageContents returns the cached board column for a stage, fetching it
// from the store on first access.
func (tc *TransitionController) StageContents(stage string) ([]models.PipelineOpportunity, error) {
	tc.mu.Lock()
	cached, ok := tc.cache[stage]
	tc.mu.Unlock()
	if ok {
		return cached, nil
	}
	return tc.Refresh(stage)
}

// Refresh refetches a stage column from the store. It is the reconciliation
// half of the transition protocol and safe to run any number of times.
func (tc *TransitionController) Refresh(stage string) ([]models.PipelineOpportunity, error) {
	opps, err := tc.api.ListOpportunities(OpportunityFilter{Stage: stage})
	if err != nil {
		return nil, err
	}
	tc.mu.Lock()
	tc.cache[stage] = opps
	tc.mu.Unlock()
	return opps, nil
}

// Transition moves an opportunity from one stage to another.
//
// A transition to the current stage is rejected before any side effect. The
// live opportunity is resolved by id against the from-stage column; when the
// cache is stale the store is re-queried once before giving up with
// ErrNotFound (the race where another actor already moved the deal). All
// failures are recoverable; the scheduled reconcile runs regardless of the
// backend outcome, so an optimistic removal for a failed update heals
// within the settle window.
func (tc *TransitionController) Transition(id uuid.UUID, fromStage, toStage string) (*models.PipelineOpportunity, error) {
	if !models.ValidStage(fromStage) || !models.ValidStage(toStage) {
		return nil, ErrNotFound
	}
	if fromStage == toStage {
		return nil, ErrSameStage
	}

	if _, err := tc.resolve(id, fromStage); err != nil {
		return nil, err
	}

	// Optimistic local apply: drop from the old column now, trust the
	// backend to agree, let the reconcile refetch correct us if not.
	tc.removeLocal(id, fromStage)
	defer tc.scheduleReconcile(fromStage, toStage)

	updated, err := tc.api.UpdateOpportunityStage(id, toStage)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"opportunity_id": id,
			"from":           fromStage,
			"to":             toStage,
		}).WithError(err).Warn("Stage update failed, reconcile scheduled")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"opportunity_id": id,
		"from":           fromStage,
		"to":             toStage,
	}).Info("Opportunity moved")
	return updated, nil
}

// resolve finds the live opportunity in the from-stage column, re-querying
// the store when the cached column doesn't have it.
func (tc *TransitionController) resolve(id uuid.UUID, fromStage string) (*models.PipelineOpportunity, error) {
	tc.mu.Lock()
	cached := tc.cache[fromStage]
	tc.mu.Unlock()

	if opp := findByID(cached, id); opp != nil {
		return opp, nil
	}

	live, err := tc.Refresh(fromStage)
	if err != nil {
		return nil, err
	}
	if opp := findByID(live, id); opp != nil {
		return opp, nil
	}
	return nil, ErrNotFound
}

func (tc *TransitionController) removeLocal(id uuid.UUID, stage string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	column := tc.cache[stage]
	for i := range column {
		if column[i].ID == id {
			tc.cache[stage] = append(column[:i:i], column[i+1:]...)
			return
		}
	}
}

// scheduleReconcile queues the unconditional refetch of both affected
// stages after the settle delay.
func (tc *TransitionController) scheduleReconcile(stages ...string) {
	tc.schedule(tc.settleDelay, func() {
		for _, stage := range stages {
			if _, err := tc.Refresh(stage); err != nil {
				logrus.WithField("stage", stage).WithError(err).Warn("Reconcile refetch failed")
			}
		}
	})
}

func findByID(opps []models.PipelineOpportunity, id uuid.UUID) *models.PipelineOpportunity {
	for i := range opps {
		if opps[i].ID == id {
			return &opps[i]
		}
	}
	return nil
}
