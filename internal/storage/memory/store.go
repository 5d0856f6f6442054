// Package memory is an in-process implementation of the engine's pipeline
// store. It backs local development and tests when no Data Machine instance
// is reachable.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/datamachine-io/structured-analysis/internal/core/domain"
	"github.com/datamachine-io/structured-analysis/internal/core/ports"
)

// Store holds pipelines and flows in maps guarded by a mutex. Creating a
// pipeline also instantiates one flow for it, mirroring what the engine does
// on registration: one flow-step entry per definition step, keyed by a
// generated flow-step id.
type Store struct {
	mu        sync.RWMutex
	nextID    domain.PipelineID
	pipelines map[domain.PipelineID]domain.Pipeline
	flows     map[string]domain.Flow
	flowOrder map[domain.PipelineID][]string
}

var (
	_ ports.PipelineStore = (*Store)(nil)
	_ ports.FlowService   = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		pipelines: make(map[domain.PipelineID]domain.Pipeline),
		flows:     make(map[string]domain.Flow),
		flowOrder: make(map[domain.PipelineID][]string),
	}
}

func (s *Store) CreatePipeline(ctx context.Context, def domain.PipelineDefinition) (domain.PipelineID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.pipelines[id] = domain.Pipeline{ID: id, Name: def.Name}

	flow := domain.Flow{
		ID:         uuid.New().String(),
		PipelineID: id,
		Config:     make(domain.FlowConfig, len(def.Steps)),
	}
	for _, step := range def.Steps {
		flow.Config[uuid.New().String()] = domain.FlowStepConfig{
			StepType: step.Type,
			Settings: step.Config,
		}
	}

	s.flows[flow.ID] = flow
	s.flowOrder[id] = append(s.flowOrder[id], flow.ID)

	return id, nil
}

func (s *Store) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Pipeline, 0, len(s.pipelines))
	for id := domain.PipelineID(1); id <= s.nextID; id++ {
		if p, ok := s.pipelines[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) ListFlows(ctx context.Context, id domain.PipelineID) ([]domain.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Flow
	for _, flowID := range s.flowOrder[id] {
		result = append(result, s.flows[flowID])
	}
	return result, nil
}

func (s *Store) Flows() ports.FlowService {
	return s
}

func (s *Store) GetFlow(ctx context.Context, flowID string) (*domain.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flow, ok := s.flows[flowID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &flow, nil
}
