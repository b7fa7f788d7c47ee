package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("default base url = %q, want %q", cfg.Backend.BaseURL, "http://localhost:8000")
	}
	if cfg.Backend.Timeout != 5*time.Minute {
		t.Errorf("default timeout = %v, want %v", cfg.Backend.Timeout, 5*time.Minute)
	}
	if cfg.Providers.Model != "gemini" {
		t.Errorf("default model = %q, want %q", cfg.Providers.Model, "gemini")
	}
	if cfg.Providers.Search != "duckduckgo" {
		t.Errorf("default search = %q, want %q", cfg.Providers.Search, "duckduckgo")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
backend:
  base_url: https://research.example.com
  timeout: 10m
providers:
  model: openai
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "https://research.example.com" {
		t.Errorf("base url = %q, want %q", cfg.Backend.BaseURL, "https://research.example.com")
	}
	if cfg.Backend.Timeout != 10*time.Minute {
		t.Errorf("timeout = %v, want %v", cfg.Backend.Timeout, 10*time.Minute)
	}
	if cfg.Providers.Model != "openai" {
		t.Errorf("model = %q, want %q", cfg.Providers.Model, "openai")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
providers:
  model: grok
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Providers.Model != "grok" {
		t.Errorf("model = %q, want %q", cfg.Providers.Model, "grok")
	}
	// Unset fields should retain defaults.
	if cfg.Backend.Timeout != 5*time.Minute {
		t.Errorf("timeout = %v, want default %v", cfg.Backend.Timeout, 5*time.Minute)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("base url = %q, want default %q", cfg.Backend.BaseURL, "http://localhost:8000")
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Setup: user config sets the model, project config overrides timeout.
	userDir := t.TempDir()
	projectDir := t.TempDir()

	userCfg := filepath.Join(userDir, "config.yaml")
	if err := os.WriteFile(userCfg, []byte(`
backend:
  timeout: 2m
providers:
  model: openai
`), 0o644); err != nil {
		t.Fatal(err)
	}

	projectCfg := filepath.Join(projectDir, "config.yaml")
	if err := os.WriteFile(projectCfg, []byte(`
backend:
  timeout: 8m
`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	// Model from user config (project doesn't set it).
	if cfg.Providers.Model != "openai" {
		t.Errorf("model = %q, want %q", cfg.Providers.Model, "openai")
	}
	// Timeout from project config (overrides user).
	if cfg.Backend.Timeout != 8*time.Minute {
		t.Errorf("timeout = %v, want %v", cfg.Backend.Timeout, 8*time.Minute)
	}
	// BaseURL retains default when neither layer sets it.
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("base url = %q, want default %q", cfg.Backend.BaseURL, "http://localhost:8000")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "RESEARCHDESK_BACKEND_URL overrides base url",
			envs: map[string]string{"RESEARCHDESK_BACKEND_URL": "https://desk.internal"},
			check: func(t *testing.T, c Config) {
				if c.Backend.BaseURL != "https://desk.internal" {
					t.Errorf("base url = %q, want %q", c.Backend.BaseURL, "https://desk.internal")
				}
			},
		},
		{
			name: "RESEARCHDESK_TIMEOUT overrides timeout",
			envs: map[string]string{"RESEARCHDESK_TIMEOUT": "30s"},
			check: func(t *testing.T, c Config) {
				if c.Backend.Timeout != 30*time.Second {
					t.Errorf("timeout = %v, want %v", c.Backend.Timeout, 30*time.Second)
				}
			},
		},
		{
			name: "RESEARCHDESK_MODEL_PROVIDER overrides model",
			envs: map[string]string{"RESEARCHDESK_MODEL_PROVIDER": "openai"},
			check: func(t *testing.T, c Config) {
				if c.Providers.Model != "openai" {
					t.Errorf("model = %q, want %q", c.Providers.Model, "openai")
				}
			},
		},
		{
			name: "RESEARCHDESK_EXPORT_DIR overrides export dir",
			envs: map[string]string{"RESEARCHDESK_EXPORT_DIR": "/custom/dir"},
			check: func(t *testing.T, c Config) {
				if c.Export.Dir != "/custom/dir" {
					t.Errorf("export dir = %q, want %q", c.Export.Dir, "/custom/dir")
				}
			},
		},
		{
			name:    "invalid RESEARCHDESK_TIMEOUT returns error",
			envs:    map[string]string{"RESEARCHDESK_TIMEOUT": "notaduration"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(`
backend:
  base_ur: https://typo.example.com
`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for unknown field 'base_ur'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "empty base url",
			modify:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Backend.Timeout = -1 * time.Second },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Backend.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "unknown model provider",
			modify:  func(c *Config) { c.Providers.Model = "llama9000" },
			wantErr: true,
		},
		{
			name:    "unknown search provider",
			modify:  func(c *Config) { c.Providers.Search = "askjeeves" },
			wantErr: true,
		},
		{
			name:    "unknown search mode",
			modify:  func(c *Config) { c.Providers.SearchMode = "turbo" },
			wantErr: true,
		},
		{
			name:    "empty export dir",
			modify:  func(c *Config) { c.Export.Dir = "" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("# just a comment\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}
