package handlers

import (
	"errors"
	"net/http"

	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/config"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/database"
	"github.com/Sairajgoud-kodipaka/CRM-FINAL-sub001/services"
)

// DB is the shared database handle for all handlers
var DB *database.DB

var (
	store        *services.PipelineStore
	consolidator *services.Consolidator
	transitions  *services.TransitionController
	bulkTracker  *services.BulkTracker
	sessions     *services.SessionRegistry
)

// InitializeHandlers wires the handler package to the database and builds
// the pipeline engine singletons.
func InitializeHandlers(db *database.DB) {
	DB = db
	store = services.NewPipelineStore(db)
	consolidator = services.NewConsolidator(store, config.AppConfig.FollowUpWindow)
	transitions = services.NewTransitionController(store, config.AppConfig.SettleDelay)
	bulkTracker = services.NewBulkTracker(config.AppConfig.BulkItemDelay)
	sessions = services.NewSessionRegistry()
}

// pipelineErrorStatus maps engine errors onto HTTP statuses. Every pipeline
// failure is recoverable; nothing here ends the caller's session.
func pipelineErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSameStage):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrBackendRejected):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
