package services

import (
	"testing"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestController wires a controller whose reconcile callbacks are
// captured instead of scheduled on real timers.
func newTestController(api PipelineAPI) (*TransitionController, *[]func()) {
	tc := NewTransitionController(api, time.Second)
	var pending []func()
	tc.schedule = func(d time.Duration, f func()) {
		pending = append(pending, f)
	}
	return tc, &pending
}

func TestTransitionMovesOpportunity(t *testing.T) {
	target := opp(models.StageNegotiation, 5000, nil)
	api := &fakePipelineAPI{opps: []models.PipelineOpportunity{target}}
	tc, pending := newTestController(api)

	updated, err := tc.Transition(target.ID, models.StageNegotiation, models.StageClosedWon)
	require.NoError(t, err)
	assert.Equal(t, models.StageClosedWon, updated.Stage)
	assert.Len(t, *pending, 1)
}

func TestTransitionRejectsSameStage(t *testing.T) {
	target := opp(models.StageNegotiation, 5000, nil)
	api := &fakePipelineAPI{opps: []models.PipelineOpportunity{target}}
	tc, pending := newTestController(api)

	_, err := tc.Transition(target.ID, models.StageNegotiation, models.StageNegotiation)
	assert.ErrorIs(t, err, ErrSameStage)

	// No side effects: no backend call, no optimistic removal, no reconcile
	assert.Zero(t, api.updateCalls)
	assert.Empty(t, *pending)

	contents, err := tc.StageContents(models.StageNegotiation)
	require.NoError(t, err)
	assert.Len(t, contents, 1)
}

func TestTransitionNotFoundAfterRequery(t *testing.T) {
	api := &fakePipelineAPI{} // nothing in any stage
	tc, _ := newTestController(api)

	_, err := tc.Transition(uuid.New(), models.StageNegotiation, models.StageClosedWon)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, api.updateCalls)
}

func TestTransitionResolvesThroughStaleCache(t *testing.T) {
	// Prime the cache while the stage is empty, then let the deal appear in
	// the backend: the controller must re-query before giving up.
	api := &fakePipelineAPI{}
	tc, _ := newTestController(api)

	_, err := tc.Refresh(models.StageNegotiation)
	require.NoError(t, err)

	target := opp(models.StageNegotiation, 5000, nil)
	api.opps = append(api.opps, target)

	updated, err := tc.Transition(target.ID, models.StageNegotiation, models.StageInterested)
	require.NoError(t, err)
	assert.Equal(t, models.StageInterested, updated.Stage)
}

func TestTransitionOptimisticRemovalBeforeBackendConfirm(t *testing.T) {
	target := opp(models.StageNegotiation, 5000, nil)
	api := &fakePipelineAPI{
		opps:      []models.PipelineOpportunity{target},
		updateErr: ErrBackendRejected,
	}
	tc, pending := newTestController(api)

	_, err := tc.Refresh(models.StageNegotiation)
	require.NoError(t, err)

	_, err = tc.Transition(target.ID, models.StageNegotiation, models.StageClosedWon)
	assert.ErrorIs(t, err, ErrBackendRejected)

	// The optimistic removal happened even though the backend refused
	contents, err := tc.StageContents(models.StageNegotiation)
	require.NoError(t, err)
	assert.Empty(t, contents)

	// The scheduled reconcile is unconditional and heals the divergence
	require.Len(t, *pending, 1)
	(*pending)[0]()

	contents, err = tc.StageContents(models.StageNegotiation)
	require.NoError(t, err)
	assert.Len(t, contents, 1)
}

func TestTransitionReconcileRefreshesBothStages(t *testing.T) {
	target := opp(models.StageNegotiation, 5000, nil)
	api := &fakePipelineAPI{opps: []models.PipelineOpportunity{target}}
	tc, pending := newTestController(api)

	_, err := tc.Transition(target.ID, models.StageNegotiation, models.StageClosedWon)
	require.NoError(t, err)

	require.Len(t, *pending, 1)
	(*pending)[0]()

	from, err := tc.StageContents(models.StageNegotiation)
	require.NoError(t, err)
	assert.Empty(t, from)

	to, err := tc.StageContents(models.StageClosedWon)
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, target.ID, to[0].ID)
}

func TestTransitionRejectsUnknownStages(t *testing.T) {
	api := &fakePipelineAPI{}
	tc, _ := newTestController(api)

	_, err := tc.Transition(uuid.New(), "warehouse", models.StageClosedWon)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tc.Transition(uuid.New(), models.StageNegotiation, "warehouse")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStageContentsCachesUntilRefresh(t *testing.T) {
	target := opp(models.StageNegotiation, 5000, nil)
	api := &fakePipelineAPI{opps: []models.PipelineOpportunity{target}}
	tc, _ := newTestController(api)

	_, err := tc.StageContents(models.StageNegotiation)
	require.NoError(t, err)
	listsAfterFirst := api.listCalls

	_, err = tc.StageContents(models.StageNegotiation)
	require.NoError(t, err)
	assert.Equal(t, listsAfterFirst, api.listCalls)

	_, err = tc.Refresh(models.StageNegotiation)
	require.NoError(t, err)
	assert.Equal(t, listsAfterFirst+1, api.listCalls)
}
