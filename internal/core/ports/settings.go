package ports

import "context"

// Option names for the two identifiers persisted after setup. The snake_case
// names match the option keys used by the engine's host.
const (
	OptionPipelineID = "structured_analysis_pipeline_id"
	OptionFlowID     = "structured_analysis_flow_id"
)

// SettingsStore is a generic named-value store. Set overwrites any previous
// value, so at most one value exists per name. Get returns domain.ErrNotFound
// for names that were never written.
type SettingsStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Close() error
}
