package services

import (
	"strings"
	"sync"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/sirupsen/logrus"
)

// Consolidation next-action texts shown on the stage detail view.
const (
	nextActionComplete = "Process complete order"
	nextActionFollowUp = "Follow up with customer on all interests"
)

// ConsolidationSession carries the per-customer edit session state that
// guards duplicate opportunity creation. It replaces the old ambient
// "pipelineCreated" flag: callers hold one session per customer edit flow
// and pass it back in on every re-run.
type ConsolidationSession struct {
	CustomerID string
	Created    bool
	createdID  string
}

// CreatedOpportunityID returns the id of the opportunity created in this
// session, if any.
func (s *ConsolidationSession) CreatedOpportunityID() string {
	return s.createdID
}

// Consolidator folds a customer's interests into a single pipeline
// opportunity and submits it to the pipeline store at most once per session.
type Consolidator struct {
	api            PipelineAPI
	followUpWindow time.Duration
}

// NewConsolidator builds a consolidator over the given pipeline store.
// followUpWindow is the default next-action window used when the customer
// has no explicit follow-up date.
func NewConsolidator(api PipelineAPI, followUpWindow time.Duration) *Consolidator {
	if followUpWindow <= 0 {
		followUpWindow = 7 * 24 * time.Hour
	}
	return &Consolidator{api: api, followUpWindow: followUpWindow}
}

// Consolidate derives one opportunity from the customer's current interest
// set. It is a pure, full re-derivation: running it again over the same
// interests yields an identical result, which makes it safe to re-run after
// every edit.
//
// Interests without a category or without any product entry are skipped. If
// nothing survives the filter, no opportunity is produced at all: a
// customer with no actionable interest data must not pollute the pipeline
// with a placeholder deal.
func (co *Consolidator) Consolidate(customer *models.Customer, interests []models.ProductInterest) (*models.PipelineOpportunity, bool) {
	surviving := make([]models.ProductInterest, 0, len(interests))
	for _, interest := range interests {
		if interest.Category == "" || len(interest.Products) == 0 {
			continue
		}
		surviving = append(surviving, interest)
	}
	if len(surviving) == 0 {
		return nil, false
	}

	var expectedValue float64
	designSelected := false
	noteLines := make([]string, 0, len(surviving))

	for _, interest := range surviving {
		names := make([]string, 0, len(interest.Products))
		for _, p := range interest.Products {
			expectedValue += ParseRevenue(p.Revenue)
			names = append(names, p.Product)
		}

		line := interest.Category + ": " + strings.Join(names, ", ")
		if interest.Preferences.DesignSelected {
			designSelected = true
			line += " - Design Selected!"
		}
		noteLines = append(noteLines, line)
	}

	// A selected design is treated as a completed sale signal; everything
	// else lands in store_walkin because this path is driven from in-store
	// edit flows, not exhibition capture.
	stage := models.StageStoreWalkin
	probability := 50
	nextAction := nextActionFollowUp
	if designSelected {
		stage = models.StageClosedWon
		probability = 100
		nextAction = nextActionComplete
	}

	nextActionDate := customer.NextFollowUp
	if nextActionDate == nil {
		d := time.Now().Add(co.followUpWindow)
		nextActionDate = &d
	}

	opp := &models.PipelineOpportunity{
		Title:          customer.FullName() + " - Jewellery Purchase",
		CustomerID:     customer.ID,
		Stage:          stage,
		Probability:    probability,
		ExpectedValue:  expectedValue,
		Notes:          strings.Join(noteLines, "\n"),
		NextAction:     nextAction,
		NextActionDate: nextActionDate,
		AssignedRep:    customer.AssignedRep,
	}
	return opp, true
}

// Submit issues the external create call for a consolidated opportunity,
// at most once per session. Re-running consolidation after further edits is
// expected; creating a second opportunity for the same customer edit
// session is a defect. The Created flag only flips after the create call
// succeeds, so a failed create can be retried.
func (co *Consolidator) Submit(session *ConsolidationSession, opp *models.PipelineOpportunity) (*models.PipelineOpportunity, error) {
	if session.Created {
		logrus.WithFields(logrus.Fields{
			"customer_id":    session.CustomerID,
			"opportunity_id": session.createdID,
		}).Debug("Opportunity already created in this session, skipping")
		return nil, nil
	}

	created, err := co.api.CreateOpportunity(opp)
	if err != nil {
		return nil, err
	}

	session.Created = true
	session.createdID = created.ID.String()
	logrus.WithFields(logrus.Fields{
		"customer_id":    session.CustomerID,
		"opportunity_id": created.ID,
		"stage":          created.Stage,
		"expected_value": created.ExpectedValue,
	}).Info("Consolidated opportunity created")
	return created, nil
}

// SessionRegistry hands out consolidation sessions keyed by customer edit
// session. Sessions belong to one UI session and are dropped when it ends.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*ConsolidationSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*ConsolidationSession)}
}

// Session returns the existing session for key, creating one if needed.
func (r *SessionRegistry) Session(key, customerID string) *ConsolidationSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		return s
	}
	s := &ConsolidationSession{CustomerID: customerID}
	r.sessions[key] = s
	return s
}

// End discards a session.
func (r *SessionRegistry) End(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}
