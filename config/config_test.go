package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != EnvDevelopment {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name to follow name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("test environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: EnvTest}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for test")
		}
		if !cfg.IsTest() {
			t.Error("expected IsTest() to be true")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid test", ServiceConfig{Name: "svc", Environment: "test"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Transcription struct {
		AssemblyAI struct {
			APIKey string `mapstructure:"api_key"`
		} `mapstructure:"assemblyai"`
	} `mapstructure:"transcription"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yamlContent := `
name: trascrivi
environment: staging
transcription:
  assemblyai:
    api_key: from-file
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("trascrivi", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "none.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "trascrivi" {
		t.Errorf("expected name 'trascrivi', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Transcription.AssemblyAI.APIKey != "from-file" {
		t.Errorf("expected api key from file, got %q", cfg.Transcription.AssemblyAI.APIKey)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: trascrivi\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("TRANSCRIPTION_ASSEMBLYAI_API_KEY", "from-env")

	var cfg testConfig
	if err := LoadConfig("trascrivi", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "none.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transcription.AssemblyAI.APIKey != "from-env" {
		t.Errorf("expected api key from env, got %q", cfg.Transcription.AssemblyAI.APIKey)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestLoadConfigSearchesEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./cmd/trascrivi/.env": true}}
	var cfg testConfig
	if err := LoadConfig("trascrivi", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "./cmd/trascrivi/.env" {
		t.Errorf("expected cmd env file to be loaded, got %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("TRANSCRIPTION_ASSEMBLYAI_API_KEY")
	for _, want := range []string{
		"transcription_assemblyai_api_key",
		"transcription.assemblyai.api.key",
		"transcription.assemblyai.api_key",
	} {
		if !slices.Contains(variants, want) {
			t.Errorf("expected variant %q in %v", want, variants)
		}
	}
	if got := envKeyVariants("PORT"); len(got) != 1 || got[0] != "port" {
		t.Errorf("expected single variant for PORT, got %v", got)
	}
}
