package models

// Bulk item statuses.
const (
	BulkPending  = "pending"
	BulkCreating = "creating"
	BulkSuccess  = "success"
	BulkError    = "error"
)

// BulkOperationItem tracks one row of a bulk job. Items live only for the
// duration of the job; nothing here is persisted.
type BulkOperationItem struct {
	Index   int         `json:"index"`
	Payload interface{} `json:"payload"`
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
}

// BulkOperationResult summarizes a finished bulk run.
type BulkOperationResult struct {
	Total        int                 `json:"total"`
	SuccessCount int                 `json:"success_count"`
	ErrorCount   int                 `json:"error_count"`
	Items        []BulkOperationItem `json:"items"`
}
