package handlers

import (
	"net/http"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/models"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetPipelineSummary returns per-stage counts and value sums. The
// server-computed rollup is the primary source; if it fails, the stats fall
// back to aggregating the full opportunity list in memory.
func GetPipelineSummary(c *gin.Context) {
	stats, err := store.GetStageSummary()
	if err != nil {
		logrus.WithError(err).Warn("Stage summary query failed, falling back to client-side aggregation")

		opps, listErr := store.ListOpportunities(services.OpportunityFilter{})
		if listErr != nil {
			// Zero stats are still a renderable board
			c.JSON(http.StatusOK, gin.H{"stages": services.AggregateStages(nil)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stages": services.AggregateStages(opps)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stages": stats})
}

// GetPipelineStats returns the org-level dashboard rollup plus the per-rep
// performance table
func GetPipelineStats(c *gin.Context) {
	opps, err := store.ListOpportunities(services.OpportunityFilter{})
	if err != nil {
		// Degrade to zeroed stats instead of a 500
		c.JSON(http.StatusOK, gin.H{
			"stats":  services.ComputeStats(nil),
			"stages": services.AggregateStages(nil),
			"reps":   []interface{}{},
		})
		return
	}

	reps := services.AggregateReps(opps)
	if reps == nil {
		reps = []models.RepPerformance{}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":  services.ComputeStats(opps),
		"stages": services.AggregateStages(opps),
		"reps":   reps,
	})
}
