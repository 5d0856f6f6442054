package datamachine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datamachine-io/structured-analysis/internal/core/domain"
	"github.com/datamachine-io/structured-analysis/internal/testutil"
)

func TestClient_CreatePipeline(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var def domain.PipelineDefinition
		if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
			t.Errorf("decode definition: %v", err)
		}
		if def.Name != "Structured Data Analysis Pipeline" {
			t.Errorf("definition name = %v, want Structured Data Analysis Pipeline", def.Name)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"pipeline_id": 42})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	id, err := client.CreatePipeline(context.Background(), domain.PipelineDefinition{
		Name: "Structured Data Analysis Pipeline",
	})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	if id != 42 {
		t.Errorf("CreatePipeline() = %v, want 42", id)
	}
	if gotPath != "/api/v1/pipelines" {
		t.Errorf("path = %v, want /api/v1/pipelines", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %v, want Bearer secret", gotAuth)
	}
}

func TestClient_CreatePipelineZeroID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"pipeline_id": 0})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	id, err := client.CreatePipeline(context.Background(), domain.PipelineDefinition{Name: "x"})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	if id != 0 {
		t.Errorf("CreatePipeline() = %v, want 0", id)
	}
}

func TestClient_ListFlows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/pipelines/42/flows" {
			t.Errorf("path = %v, want /api/v1/pipelines/42/flows", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flows":[{"flow_id":"f1","pipeline_id":42}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	flows, err := client.ListFlows(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListFlows() error = %v", err)
	}
	if len(flows) != 1 {
		t.Fatalf("ListFlows() returned %d flows, want 1", len(flows))
	}
	if flows[0].ID != "f1" {
		t.Errorf("flow id = %v, want f1", flows[0].ID)
	}
}

func TestClient_GetFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/flows/f1" {
			t.Errorf("path = %v, want /api/v1/flows/f1", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"flow_id": "f1",
			"pipeline_id": 42,
			"flow_config": {
				"fs-1": {"step_type": "fetch"},
				"fs-2": {"step_type": "ai", "settings": {"model": "gpt-4o-mini"}},
				"fs-3": {"step_type": "update"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	flow, err := client.Flows().GetFlow(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetFlow() error = %v", err)
	}
	if flow.ID != "f1" {
		t.Errorf("flow id = %v, want f1", flow.ID)
	}
	if len(flow.Config) != 3 {
		t.Fatalf("flow config has %d steps, want 3", len(flow.Config))
	}
	if flow.Config["fs-2"].StepType != domain.StepAI {
		t.Errorf("fs-2 step type = %v, want ai", flow.Config["fs-2"].StepType)
	}
}

func TestClient_GetFlowNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"flow not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Flows().GetFlow(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetFlow() error = %v, want ErrNotFound", err)
	}
}

func TestClient_EngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database locked"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.ListPipelines(context.Background())
	if !errors.Is(err, ErrHTTPError) {
		t.Errorf("ListPipelines() error = %v, want ErrHTTPError", err)
	}
}

func TestClient_ListPipelinesRecorded(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "list_pipelines")
	defer cleanup()

	client := NewClient("http://datamachine.test", "", WithHTTPClient(testutil.VCRHTTPClient(r)))
	pipelines, err := client.ListPipelines(context.Background())
	if err != nil {
		t.Fatalf("ListPipelines() error = %v", err)
	}
	if len(pipelines) != 2 {
		t.Fatalf("ListPipelines() returned %d pipelines, want 2", len(pipelines))
	}
	if pipelines[0].ID != 42 {
		t.Errorf("pipeline id = %v, want 42", pipelines[0].ID)
	}
	if pipelines[0].Name != "Structured Data Analysis Pipeline" {
		t.Errorf("pipeline name = %v, want Structured Data Analysis Pipeline", pipelines[0].Name)
	}
}
