package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetClients returns all customers with pagination and filtering
func GetClients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")
	status := c.Query("status")
	rep := c.Query("rep")

	offset := (page - 1) * limit

	query := `
		SELECT id, first_name, last_name, email, phone, city, status, source,
		       assigned_rep, interests, next_follow_up, created_at, updated_at, last_contact
		FROM customers
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if search != "" {
		query += ` AND (
			first_name ILIKE $` + strconv.Itoa(argIndex) + ` OR
			last_name ILIKE $` + strconv.Itoa(argIndex) + ` OR
			email ILIKE $` + strconv.Itoa(argIndex) + ` OR
			phone ILIKE $` + strconv.Itoa(argIndex) + `
		)`
		args = append(args, "%"+search+"%")
		argIndex++
	}

	if status != "" {
		query += ` AND status = $` + strconv.Itoa(argIndex)
		args = append(args, status)
		argIndex++
	}

	if rep != "" {
		query += ` AND assigned_rep = $` + strconv.Itoa(argIndex)
		args = append(args, rep)
		argIndex++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		// Return empty result instead of 500
		c.JSON(http.StatusOK, gin.H{
			"clients": []gin.H{},
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": 0,
			},
		})
		return
	}
	defer rows.Close()

	var clients []gin.H
	for rows.Next() {
		var customer models.Customer
		var lastName, email, phone, city sql.NullString
		var assignedRep sql.NullString
		var interests []byte
		var nextFollowUp, lastContact sql.NullTime

		err := rows.Scan(
			&customer.ID, &customer.FirstName, &lastName, &email, &phone, &city,
			&customer.Status, &customer.Source, &assignedRep, &interests,
			&nextFollowUp, &customer.CreatedAt, &customer.UpdatedAt, &lastContact,
		)
		if err != nil {
			continue
		}

		clients = append(clients, gin.H{
			"id":             customer.ID,
			"first_name":     customer.FirstName,
			"last_name":      lastName.String,
			"email":          email.String,
			"phone":          phone.String,
			"city":           city.String,
			"status":         customer.Status,
			"source":         customer.Source,
			"assigned_rep":   assignedRep.String,
			"interests":      json.RawMessage(interests),
			"next_follow_up": nullTimeValue(nextFollowUp),
			"created_at":     customer.CreatedAt,
			"updated_at":     customer.UpdatedAt,
			"last_contact":   nullTimeValue(lastContact),
		})
	}

	// Get total count with the same filters, minus pagination
	countQuery := `SELECT COUNT(*) FROM customers WHERE 1=1`
	countArgs := []interface{}{}
	countArgIndex := 1

	if search != "" {
		countQuery += ` AND (
			first_name ILIKE $` + strconv.Itoa(countArgIndex) + ` OR
			last_name ILIKE $` + strconv.Itoa(countArgIndex) + ` OR
			email ILIKE $` + strconv.Itoa(countArgIndex) + ` OR
			phone ILIKE $` + strconv.Itoa(countArgIndex) + `
		)`
		countArgs = append(countArgs, "%"+search+"%")
		countArgIndex++
	}
	if status != "" {
		countQuery += ` AND status = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, status)
		countArgIndex++
	}
	if rep != "" {
		countQuery += ` AND assigned_rep = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, rep)
		countArgIndex++
	}

	var total int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		total = len(clients)
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetClient returns a specific customer by ID, with normalized interests
func GetClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	customer, rawInterests, err := store.GetClient(clientID)
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Client not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":    customer,
		"interests": services.NormalizeInterests(rawInterests),
	})
}

// CreateClient creates a new customer
func CreateClient(c *gin.Context) {
	var req struct {
		FirstName    string          `json:"first_name" binding:"required"`
		LastName     *string         `json:"last_name"`
		Email        *string         `json:"email"`
		Phone        *string         `json:"phone"`
		City         *string         `json:"city"`
		Status       string          `json:"status" binding:"omitempty,oneof=lead prospect customer inactive"`
		Source       string          `json:"source"`
		AssignedRep  *string         `json:"assigned_rep"`
		Interests    json.RawMessage `json:"interests"`
		Notes        *string         `json:"notes"`
		NextFollowUp *time.Time      `json:"next_follow_up"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	if req.Status == "" {
		req.Status = "lead"
	}
	if req.Source == "" {
		req.Source = "walk-in"
	}

	// Interests arrive in whatever shape the client screen last saved;
	// normalize once at the door and store the canonical form.
	interestsJSON := "[]"
	if len(req.Interests) > 0 {
		canonical, err := json.Marshal(services.NormalizeInterests(req.Interests))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interests format"})
			return
		}
		interestsJSON = string(canonical)
	}

	var assignedRep *uuid.UUID
	if req.AssignedRep != nil && *req.AssignedRep != "" {
		parsed, err := uuid.Parse(*req.AssignedRep)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rep ID"})
			return
		}
		assignedRep = &parsed
	}

	clientID := uuid.New()
	now := time.Now()

	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone, city, status, source,
		                       assigned_rep, interests, notes, next_follow_up, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := DB.Exec(query,
		clientID, req.FirstName, req.LastName, req.Email, req.Phone, req.City,
		req.Status, req.Source, assignedRep, interestsJSON, req.Notes,
		req.NextFollowUp, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Client created successfully",
		"client_id": clientID,
	})
}

// UpdateClient applies a sparse update to an existing customer
func UpdateClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req struct {
		FirstName    *string         `json:"first_name"`
		LastName     *string         `json:"last_name"`
		Email        *string         `json:"email"`
		Phone        *string         `json:"phone"`
		City         *string         `json:"city"`
		Status       *string         `json:"status"`
		Source       *string         `json:"source"`
		AssignedRep  *string         `json:"assigned_rep"`
		Interests    json.RawMessage `json:"interests"`
		Notes        *string         `json:"notes"`
		NextFollowUp *time.Time      `json:"next_follow_up"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := map[string]interface{}{}
	if req.FirstName != nil {
		patch["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		patch["last_name"] = *req.LastName
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if req.Source != nil {
		patch["source"] = *req.Source
	}
	if req.AssignedRep != nil {
		patch["assigned_rep"] = *req.AssignedRep
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}
	if req.NextFollowUp != nil {
		patch["next_follow_up"] = *req.NextFollowUp
	}
	if len(req.Interests) > 0 {
		canonical, err := json.Marshal(services.NormalizeInterests(req.Interests))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interests format"})
			return
		}
		patch["interests"] = string(canonical)
	}

	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := store.UpdateClient(clientID, patch); err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})
}

// ConsolidateClient folds the client's current interests into a single
// pipeline opportunity and creates it at most once per edit session.
func ConsolidateClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	// The edit session key guards duplicate creation across re-runs. The
	// client id itself is the fallback when the UI doesn't send one.
	sessionKey := c.GetHeader("X-Session-ID")
	if sessionKey == "" {
		sessionKey = clientID.String()
	}

	customer, rawInterests, err := store.GetClient(clientID)
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Client not found"})
		return
	}

	interests := services.NormalizeInterests(rawInterests)
	opp, ok := consolidator.Consolidate(customer, interests)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"consolidated": false,
			"message":      "No actionable interests to consolidate",
		})
		return
	}

	session := sessions.Session(sessionKey, clientID.String())
	created, err := consolidator.Submit(session, opp)
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Failed to create opportunity"})
		return
	}

	if created == nil {
		// Create already happened earlier in this session
		c.JSON(http.StatusOK, gin.H{
			"consolidated":   true,
			"created":        false,
			"opportunity_id": session.CreatedOpportunityID(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"consolidated": true,
		"created":      true,
		"opportunity":  created,
	})
}

func nullTimeValue(t sql.NullTime) interface{} {
	if t.Valid {
		return t.Time
	}
	return nil
}
