package services

import "errors"

// Pipeline failure modes. All of these are recoverable: handlers report them
// to the caller and the session continues.
var (
	// ErrNotFound means the referenced opportunity no longer exists where the
	// caller last saw it, usually because another actor already moved it.
	ErrNotFound = errors.New("opportunity not found")

	// ErrBackendRejected means the store accepted the request but refused the
	// change.
	ErrBackendRejected = errors.New("backend rejected update")

	// ErrNetwork covers transport-level failures talking to the store.
	ErrNetwork = errors.New("network error")

	// ErrSameStage rejects a no-op transition whose target equals the current
	// stage.
	ErrSameStage = errors.New("target stage equals current stage")
)
