package datamachine

import "github.com/datamachine-io/structured-analysis/internal/core/domain"

// Wire types for the engine's REST API. They are kept separate from the
// domain types so engine-side field renames stay contained here.

type createPipelineResponse struct {
	PipelineID domain.PipelineID `json:"pipeline_id"`
}

type listPipelinesResponse struct {
	Pipelines []pipelineRecord `json:"pipelines"`
}

type pipelineRecord struct {
	PipelineID   domain.PipelineID `json:"pipeline_id"`
	PipelineName string            `json:"pipeline_name"`
}

type listFlowsResponse struct {
	Flows []flowRecord `json:"flows"`
}

type flowRecord struct {
	FlowID     string                           `json:"flow_id"`
	PipelineID domain.PipelineID                `json:"pipeline_id"`
	FlowConfig map[string]flowStepConfigPayload `json:"flow_config,omitempty"`
}

type flowStepConfigPayload struct {
	StepType string         `json:"step_type"`
	Handler  string         `json:"handler,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (f flowRecord) toDomain() domain.Flow {
	flow := domain.Flow{
		ID:         f.FlowID,
		PipelineID: f.PipelineID,
	}
	if len(f.FlowConfig) > 0 {
		flow.Config = make(domain.FlowConfig, len(f.FlowConfig))
		for id, step := range f.FlowConfig {
			flow.Config[id] = domain.FlowStepConfig{
				StepType: domain.StepType(step.StepType),
				Handler:  step.Handler,
				Settings: step.Settings,
			}
		}
	}
	return flow
}
