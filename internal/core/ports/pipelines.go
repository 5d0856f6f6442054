// Package ports defines the narrow interfaces the registrar depends on.
// Implementations live under internal/datamachine and internal/storage.
package ports

import (
	"context"

	"github.com/datamachine-io/structured-analysis/internal/core/domain"
)

// PipelineStore is the registrar's view of the Data Machine engine. It
// replaces the engine's dynamic extension-point dispatch with an explicit
// capability passed in by construction.
type PipelineStore interface {
	// CreatePipeline registers a pipeline definition with the engine and
	// returns its identifier. A zero identifier with a nil error is the
	// engine's way of reporting a failed creation.
	CreatePipeline(ctx context.Context, def domain.PipelineDefinition) (domain.PipelineID, error)

	// ListPipelines returns all pipelines known to the engine.
	ListPipelines(ctx context.Context) ([]domain.Pipeline, error)

	// ListFlows returns the flows instantiated for a pipeline, in engine
	// order.
	ListFlows(ctx context.Context, id domain.PipelineID) ([]domain.Flow, error)

	// Flows returns the engine's flow-record service, or nil when the
	// engine does not expose one.
	Flows() FlowService
}

// FlowService resolves individual flow records.
type FlowService interface {
	// GetFlow returns the flow with the given identifier, or
	// domain.ErrNotFound when it does not exist.
	GetFlow(ctx context.Context, flowID string) (*domain.Flow, error)
}
