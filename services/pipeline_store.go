package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/database"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OpportunityFilter narrows an opportunity listing.
type OpportunityFilter struct {
	Stage string
	Rep   string
}

// PipelineAPI is the contract the engine has with the authoritative
// opportunity store. In production it is backed by PostgreSQL; tests swap
// in fakes.
type PipelineAPI interface {
	ListOpportunities(filter OpportunityFilter) ([]models.PipelineOpportunity, error)
	CreateOpportunity(opp *models.PipelineOpportunity) (*models.PipelineOpportunity, error)
	UpdateOpportunityStage(id uuid.UUID, stage string) (*models.PipelineOpportunity, error)
	GetStageSummary() ([]models.PipelineStageStat, error)
}

// ClientAPI is the customer-side collaborator: it hands the engine a
// customer together with their raw interest records.
type ClientAPI interface {
	GetClient(id uuid.UUID) (*models.Customer, json.RawMessage, error)
	UpdateClient(id uuid.UUID, patch map[string]interface{}) error
}

// PipelineStore is the PostgreSQL implementation of both collaborator
// interfaces.
type PipelineStore struct {
	db *database.DB
}

func NewPipelineStore(db *database.DB) *PipelineStore {
	return &PipelineStore{db: db}
}

const opportunityColumns = `id, title, customer_id, stage, probability, expected_value,
	       notes, next_action, next_action_date, assigned_rep, created_at, updated_at`

// ListOpportunities returns opportunities matching the filter, newest first.
func (s *PipelineStore) ListOpportunities(filter OpportunityFilter) ([]models.PipelineOpportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM pipeline_opportunities WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.Stage != "" {
		query += ` AND stage = $` + strconv.Itoa(argIndex)
		args = append(args, filter.Stage)
		argIndex++
	}

	if filter.Rep != "" {
		query += ` AND assigned_rep = $` + strconv.Itoa(argIndex)
		args = append(args, filter.Rep)
		argIndex++
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer rows.Close()

	var opps []models.PipelineOpportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			continue
		}
		opps = append(opps, *opp)
	}
	return opps, nil
}

// CreateOpportunity inserts a consolidated opportunity and returns it with
// its generated id.
func (s *PipelineStore) CreateOpportunity(opp *models.PipelineOpportunity) (*models.PipelineOpportunity, error) {
	if !models.ValidStage(opp.Stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrBackendRejected, opp.Stage)
	}

	id := uuid.New()
	now := time.Now()

	query := `
		INSERT INTO pipeline_opportunities (id, title, customer_id, stage, probability,
		                                    expected_value, notes, next_action, next_action_date,
		                                    assigned_rep, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.Exec(query,
		id, opp.Title, opp.CustomerID, opp.Stage, opp.Probability,
		opp.ExpectedValue, opp.Notes, opp.NextAction, opp.NextActionDate,
		opp.AssignedRep, now, now,
	)
	if err != nil {
		if _, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("%w: %v", ErrBackendRejected, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	created := *opp
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// UpdateOpportunityStage moves an opportunity to a new stage and returns the
// updated row.
func (s *PipelineStore) UpdateOpportunityStage(id uuid.UUID, stage string) (*models.PipelineOpportunity, error) {
	if !models.ValidStage(stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrBackendRejected, stage)
	}

	query := `
		UPDATE pipeline_opportunities SET stage = $1, updated_at = $2 WHERE id = $3
		RETURNING ` + opportunityColumns
	row := s.db.QueryRow(query, stage, time.Now(), id)

	opp, err := scanOpportunity(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		if _, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("%w: %v", ErrBackendRejected, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return opp, nil
}

// GetStageSummary is the server-computed stage rollup, the primary source
// for pipeline boards. Client-side aggregation is the fallback when this
// query fails.
func (s *PipelineStore) GetStageSummary() ([]models.PipelineStageStat, error) {
	query := `
		SELECT stage, COUNT(*), COALESCE(SUM(expected_value), 0)
		FROM pipeline_opportunities
		GROUP BY stage
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer rows.Close()

	byStage := make(map[string]models.PipelineStageStat)
	for rows.Next() {
		var stat models.PipelineStageStat
		if err := rows.Scan(&stat.Stage, &stat.Count, &stat.ValueSum); err != nil {
			continue
		}
		byStage[stat.Stage] = stat
	}

	// Zero-fill: every defined stage is reported, in funnel order
	stats := make([]models.PipelineStageStat, 0, len(models.PipelineStages))
	for _, def := range models.PipelineStages {
		stat := byStage[def.Name]
		stat.Stage = def.Name
		stat.Label = def.Label
		stats = append(stats, stat)
	}
	return stats, nil
}

// GetClient loads a customer plus their raw interests JSONB.
func (s *PipelineStore) GetClient(id uuid.UUID) (*models.Customer, json.RawMessage, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, status, source,
		       assigned_rep, interests, next_follow_up, created_at, updated_at
		FROM customers WHERE id = $1
	`
	var customer models.Customer
	var lastName, email, phone sql.NullString
	var assignedRep sql.NullString
	var interests []byte
	var nextFollowUp sql.NullTime

	err := s.db.QueryRow(query, id).Scan(
		&customer.ID, &customer.FirstName, &lastName, &email, &phone,
		&customer.Status, &customer.Source, &assignedRep, &interests,
		&nextFollowUp, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if lastName.Valid {
		customer.LastName = &lastName.String
	}
	if email.Valid {
		customer.Email = &email.String
	}
	if phone.Valid {
		customer.Phone = &phone.String
	}
	if assignedRep.Valid {
		if rep, err := uuid.Parse(assignedRep.String); err == nil {
			customer.AssignedRep = &rep
		}
	}
	if nextFollowUp.Valid {
		customer.NextFollowUp = &nextFollowUp.Time
	}
	customer.Interests = string(interests)

	return &customer, json.RawMessage(interests), nil
}

// UpdateClient applies a sparse patch to a customer row.
func (s *PipelineStore) UpdateClient(id uuid.UUID, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}

	allowed := map[string]bool{
		"first_name": true, "last_name": true, "email": true, "phone": true,
		"status": true, "source": true, "assigned_rep": true,
		"interests": true, "notes": true, "next_follow_up": true,
	}

	query := "UPDATE customers SET "
	args := []interface{}{}
	argIndex := 1

	for column, value := range patch {
		if !allowed[column] {
			return fmt.Errorf("%w: column %q not patchable", ErrBackendRejected, column)
		}
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1)
	args = append(args, time.Now(), id)

	result, err := s.db.Exec(query, args...)
	if err != nil {
		if _, ok := err.(*pq.Error); ok {
			return fmt.Errorf("%w: %v", ErrBackendRejected, err)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOpportunity(row rowScanner) (*models.PipelineOpportunity, error) {
	var opp models.PipelineOpportunity
	var nextActionDate sql.NullTime
	var assignedRep sql.NullString

	err := row.Scan(
		&opp.ID, &opp.Title, &opp.CustomerID, &opp.Stage, &opp.Probability,
		&opp.ExpectedValue, &opp.Notes, &opp.NextAction, &nextActionDate,
		&assignedRep, &opp.CreatedAt, &opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextActionDate.Valid {
		opp.NextActionDate = &nextActionDate.Time
	}
	if assignedRep.Valid {
		if rep, err := uuid.Parse(assignedRep.String); err == nil {
			opp.AssignedRep = &rep
		}
	}
	return &opp, nil
}
