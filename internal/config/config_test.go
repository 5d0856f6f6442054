package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8085 {
		t.Errorf("Server.Port = %d, want 8085", cfg.Server.Port)
	}
	if cfg.Storage.Path != "./data/registrar.db" {
		t.Errorf("Storage.Path = %v, want ./data/registrar.db", cfg.Storage.Path)
	}
	if cfg.Engine.BaseURL != "" {
		t.Errorf("Engine.BaseURL = %v, want empty", cfg.Engine.BaseURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DM_SERVER__PORT", "9090")
	t.Setenv("DM_ENGINE__BASE_URL", "http://engine.local:8080")
	t.Setenv("DM_ANALYSIS__MODEL", "gpt-4o")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Engine.BaseURL != "http://engine.local:8080" {
		t.Errorf("Engine.BaseURL = %v, want http://engine.local:8080", cfg.Engine.BaseURL)
	}
	if cfg.Analysis.Model != "gpt-4o" {
		t.Errorf("Analysis.Model = %v, want gpt-4o", cfg.Analysis.Model)
	}
}

func TestLoad_EnvVarSubstitution(t *testing.T) {
	t.Setenv("ENGINE_SECRET", "s3cret")
	t.Setenv("DM_ENGINE__API_KEY", "${ENGINE_SECRET}")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.APIKey != "s3cret" {
		t.Errorf("Engine.APIKey = %v, want s3cret", cfg.Engine.APIKey)
	}
}
