package domain

import "errors"

// Setup failure conditions. Each maps to a distinct, human-readable message
// surfaced by the registrar; none of them is retried automatically.
var (
	// ErrEngineUnavailable means no pipeline store was wired in, the
	// equivalent of the orchestration engine not being installed.
	ErrEngineUnavailable = errors.New("data machine engine is not available")

	// ErrCreateFailed means the engine accepted the request but returned
	// no pipeline identifier.
	ErrCreateFailed = errors.New("pipeline creation returned no identifier")

	// ErrFlowLookupFailed means the pipeline was created but no flow could
	// be found for it afterwards. The pipeline remains created engine-side;
	// there is no rollback.
	ErrFlowLookupFailed = errors.New("no flow found for created pipeline")
)

// ErrNotFound is returned by query operations when the requested record,
// setting, or flow step does not exist. Absence is a normal outcome, not a
// fault.
var ErrNotFound = errors.New("not found")
