// Package api exposes the registrar over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datamachine-io/structured-analysis/internal/core/domain"
	"github.com/datamachine-io/structured-analysis/internal/core/ports"
	"github.com/datamachine-io/structured-analysis/internal/registrar"
)

// Handler holds the admin API's dependencies.
type Handler struct {
	registrar *registrar.Registrar
	settings  ports.SettingsStore
	logger    *slog.Logger
}

// NewHandler creates the admin API handler.
func NewHandler(reg *registrar.Registrar, settings ports.SettingsStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registrar: reg,
		settings:  settings,
		logger:    logger,
	}
}

// Routes mounts the admin endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/v1/pipeline/setup", h.handleSetup)
	r.Get("/v1/pipeline/status", h.handleStatus)
	r.Get("/v1/flow-steps/{step_type}", h.handleFlowStep)
	r.Get("/healthz", h.handleHealth)
}

type setupResponse struct {
	PipelineID domain.PipelineID `json:"pipeline_id"`
	FlowID     string            `json:"flow_id"`
	Message    string            `json:"message"`
}

type statusResponse struct {
	Exists     bool   `json:"exists"`
	PipelineID string `json:"pipeline_id,omitempty"`
	FlowID     string `json:"flow_id,omitempty"`
}

type flowStepResponse struct {
	StepType   domain.StepType `json:"step_type"`
	FlowStepID string          `json:"flow_step_id"`
}

type errorBody struct {
	Error string `json:"error"`
}

// handleSetup registers the pipeline. It does not check for an existing
// pipeline first; callers wanting idempotency query status before posting.
func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	result, err := h.registrar.Setup(r.Context())
	if err != nil {
		h.logger.Error("pipeline setup failed", slog.Any("error", err))
		writeJSON(w, setupStatusCode(err), errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, setupResponse{
		PipelineID: result.PipelineID,
		FlowID:     result.FlowID,
		Message:    result.Message,
	})
}

func setupStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrEngineUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCreateFailed), errors.Is(err, domain.ErrFlowLookupFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	exists, err := h.registrar.PipelineExists(r.Context())
	if err != nil {
		h.logger.Error("pipeline existence check failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}

	resp := statusResponse{Exists: exists}
	if value, err := h.settings.Get(r.Context(), ports.OptionPipelineID); err == nil {
		resp.PipelineID = value
	}
	if value, err := h.settings.Get(r.Context(), ports.OptionFlowID); err == nil {
		resp.FlowID = value
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleFlowStep(w http.ResponseWriter, r *http.Request) {
	stepType := domain.StepType(chi.URLParam(r, "step_type"))
	if !stepType.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown step type: " + string(stepType)})
		return
	}

	flowStepID, err := h.registrar.FlowStepID(r.Context(), stepType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "flow step not found"})
			return
		}
		h.logger.Error("flow step lookup failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, flowStepResponse{
		StepType:   stepType,
		FlowStepID: flowStepID,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
