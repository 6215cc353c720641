package handlers

import (
	"net/http"
	"time"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetOpportunities lists pipeline opportunities, optionally filtered by
// stage and assigned rep
func GetOpportunities(c *gin.Context) {
	filter := services.OpportunityFilter{
		Stage: c.Query("stage"),
		Rep:   c.Query("rep"),
	}

	if filter.Stage != "" && !models.ValidStage(filter.Stage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown stage"})
		return
	}

	opps, err := store.ListOpportunities(filter)
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Failed to fetch opportunities"})
		return
	}
	if opps == nil {
		opps = []models.PipelineOpportunity{}
	}

	c.JSON(http.StatusOK, gin.H{"opportunities": opps})
}

// GetStageBoard returns the cached board column for one stage
func GetStageBoard(c *gin.Context) {
	stage := c.Param("stage")
	if !models.ValidStage(stage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown stage"})
		return
	}

	opps, err := transitions.StageContents(stage)
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Failed to fetch stage"})
		return
	}
	if opps == nil {
		opps = []models.PipelineOpportunity{}
	}

	c.JSON(http.StatusOK, gin.H{"stage": stage, "opportunities": opps})
}

// CreateOpportunity creates an opportunity directly, e.g. from exhibition
// lead capture, outside the consolidation flow
func CreateOpportunity(c *gin.Context) {
	var req struct {
		Title          string     `json:"title" binding:"required"`
		CustomerID     string     `json:"customer_id" binding:"required"`
		Stage          string     `json:"stage"`
		Probability    int        `json:"probability" binding:"min=0,max=100"`
		ExpectedValue  float64    `json:"expected_value" binding:"min=0"`
		Notes          string     `json:"notes"`
		NextAction     string     `json:"next_action"`
		NextActionDate *time.Time `json:"next_action_date"`
		AssignedRep    *string    `json:"assigned_rep"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	if req.Stage == "" {
		req.Stage = models.StageExhibition
	}
	if !models.ValidStage(req.Stage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown stage"})
		return
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

	created, err := store.CreateOpportunity(&models.PipelineOpportunity{
		Title:          req.Title,
		CustomerID:     customerID,
		Stage:          req.Stage,
		Probability:    req.Probability,
		ExpectedValue:  req.ExpectedValue,
		Notes:          req.Notes,
		NextAction:     req.NextAction,
		NextActionDate: req.NextActionDate,
		AssignedRep:    assignedRep,
	})
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": "Failed to create opportunity"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"opportunity": created})
}

// UpdateOpportunityStage moves an opportunity through the funnel via the
// transition controller
func UpdateOpportunityStage(c *gin.Context) {
	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid opportunity ID"})
		return
	}

	var req struct {
		FromStage string `json:"from_stage" binding:"required"`
		ToStage   string `json:"to_stage" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidStage(req.FromStage) || !models.ValidStage(req.ToStage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown stage"})
		return
	}

	updated, err := transitions.Transition(opportunityID, req.FromStage, req.ToStage)
	if err != nil {
		c.JSON(pipelineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"opportunity": updated})
}
