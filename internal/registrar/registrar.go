// Package registrar registers the structured-analysis pipeline with the Data
// Machine engine and answers read-only queries about it.
package registrar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/datamachine-io/structured-analysis/internal/core/domain"
	"github.com/datamachine-io/structured-analysis/internal/core/ports"
)

// Registrar owns the pipeline and flow identifiers persisted at setup time.
// All collaborators are injected; there is no ambient lookup.
type Registrar struct {
	engine   ports.PipelineStore
	settings ports.SettingsStore
	model    string
	logger   *slog.Logger
}

// New creates a registrar. engine may be nil, in which case Setup reports the
// engine as unavailable; settings must not be nil. An empty model selects the
// default analysis model.
func New(engine ports.PipelineStore, settings ports.SettingsStore, model string, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{
		engine:   engine,
		settings: settings,
		model:    model,
		logger:   logger,
	}
}

// Setup builds the static pipeline definition, creates it in the engine,
// resolves the flow the engine instantiated for it, and persists both
// identifiers. Failures are terminal for the call; there is no retry, and no
// rollback when the pipeline is created but the flow lookup comes up empty.
//
// Setup does not check whether the pipeline already exists. Callers that want
// idempotency are expected to call PipelineExists first; that convention is
// deliberately not enforced here.
func (r *Registrar) Setup(ctx context.Context) (*domain.SetupResult, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("%w: install and activate the Data Machine engine", domain.ErrEngineUnavailable)
	}

	def, err := Definition(r.model)
	if err != nil {
		return nil, fmt.Errorf("pipeline setup failed unexpectedly: %w", err)
	}

	pipelineID, err := r.engine.CreatePipeline(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("pipeline setup failed unexpectedly: %w", err)
	}
	if pipelineID == 0 {
		return nil, domain.ErrCreateFailed
	}

	flows, err := r.engine.ListFlows(ctx, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("pipeline setup failed unexpectedly: %w", err)
	}
	if len(flows) == 0 {
		return nil, fmt.Errorf("%w: pipeline %d", domain.ErrFlowLookupFailed, pipelineID)
	}
	flowID := flows[0].ID

	if err := r.settings.Set(ctx, ports.OptionPipelineID, strconv.FormatInt(int64(pipelineID), 10)); err != nil {
		return nil, fmt.Errorf("persist pipeline id: %w", err)
	}
	if err := r.settings.Set(ctx, ports.OptionFlowID, flowID); err != nil {
		return nil, fmt.Errorf("persist flow id: %w", err)
	}

	r.logger.Info("pipeline registered",
		slog.Int64("pipeline_id", int64(pipelineID)),
		slog.String("flow_id", flowID))

	return &domain.SetupResult{
		PipelineID: pipelineID,
		FlowID:     flowID,
		Message:    PipelineName + " created successfully",
	}, nil
}

// PipelineExists reports whether the engine already has a pipeline named
// exactly PipelineName. A missing engine or an empty listing is a normal
// false; only transport failures surface as errors.
func (r *Registrar) PipelineExists(ctx context.Context) (bool, error) {
	if r.engine == nil {
		return false, nil
	}

	pipelines, err := r.engine.ListPipelines(ctx)
	if err != nil {
		return false, fmt.Errorf("list pipelines: %w", err)
	}

	for _, p := range pipelines {
		if p.Name == PipelineName {
			return true, nil
		}
	}
	return false, nil
}

// FlowStepID resolves the flow-step identifier for a step type within the
// persisted flow. It returns domain.ErrNotFound when no flow id was ever
// persisted, the engine exposes no flow service, the flow record is gone, or
// no step of that type exists. The first matching entry wins; step types are
// expected to be unique within a flow, so no ordering is assumed.
func (r *Registrar) FlowStepID(ctx context.Context, stepType domain.StepType) (string, error) {
	flowID, err := r.settings.Get(ctx, ports.OptionFlowID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("read flow id: %w", err)
	}

	if r.engine == nil || r.engine.Flows() == nil {
		return "", domain.ErrNotFound
	}

	flow, err := r.engine.Flows().GetFlow(ctx, flowID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get flow %s: %w", flowID, err)
	}
	if flow == nil || len(flow.Config) == 0 {
		return "", domain.ErrNotFound
	}

	for flowStepID, step := range flow.Config {
		if step.StepType == stepType {
			return flowStepID, nil
		}
	}
	return "", domain.ErrNotFound
}
