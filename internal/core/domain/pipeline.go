// Package domain defines the canonical types shared between the registrar
// and the Data Machine engine adapters.
package domain

// StepType identifies the kind of work a pipeline step performs.
type StepType string

const (
	// StepFetch pulls source content out of the WordPress site.
	StepFetch StepType = "fetch"
	// StepAI runs the structured-analysis model over the fetched content.
	StepAI StepType = "ai"
	// StepUpdate writes the extracted structure back as post metadata.
	StepUpdate StepType = "update"
)

// Valid reports whether t is one of the known step types.
func (t StepType) Valid() bool {
	switch t {
	case StepFetch, StepAI, StepUpdate:
		return true
	}
	return false
}

// PipelineID is the engine-assigned pipeline identifier. The zero value means
// "no pipeline" and is how the engine signals a failed creation.
type PipelineID int64

// PipelineDefinition describes a pipeline to be created in the engine. It is
// assembled in memory and never persisted by this service.
type PipelineDefinition struct {
	Name  string           `json:"pipeline_name"`
	Steps []StepDefinition `json:"steps"`
}

// StepDefinition is one stage of a pipeline definition.
type StepDefinition struct {
	Type   StepType       `json:"step_type"`
	Order  int            `json:"execution_order"`
	Label  string         `json:"label"`
	Config map[string]any `json:"config,omitempty"`
}

// Pipeline is an engine-side pipeline record.
type Pipeline struct {
	ID   PipelineID `json:"pipeline_id"`
	Name string     `json:"pipeline_name"`
}

// Flow is a runtime instantiation of a pipeline with concrete handler
// configuration. Config may be empty when the engine returns a listing
// without step detail.
type Flow struct {
	ID         string     `json:"flow_id"`
	PipelineID PipelineID `json:"pipeline_id"`
	Config     FlowConfig `json:"flow_config,omitempty"`
}

// FlowConfig maps flow-step identifiers to their step configuration.
type FlowConfig map[string]FlowStepConfig

// FlowStepConfig is the engine's per-step configuration within a flow.
type FlowStepConfig struct {
	StepType StepType       `json:"step_type"`
	Handler  string         `json:"handler,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// SetupResult is the success outcome of registering the pipeline.
type SetupResult struct {
	PipelineID PipelineID `json:"pipeline_id"`
	FlowID     string     `json:"flow_id"`
	Message    string     `json:"message"`
}
