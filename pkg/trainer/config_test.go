package trainer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "callsim.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
environment: staging
gateway:
  base_url: https://gateway.example.com
  api_key: secret
speech:
  language: es
  recognition:
    provider: deepgram
    settings:
      model: nova-2
  synthesis:
    provider: elevenlabs
caller:
  name: Jane
  scenario: late delivery
  temperament: frustrated
observability:
  artifacts_dir: /tmp/callsim
  retention_days: 14
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Gateway.BaseURL != "https://gateway.example.com" {
		t.Errorf("base_url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Speech.Language != "es" {
		t.Errorf("language = %q", cfg.Speech.Language)
	}
	if cfg.Speech.Recognition.Provider != "deepgram" {
		t.Errorf("recognition provider = %q", cfg.Speech.Recognition.Provider)
	}
	if got := cfg.Speech.Recognition.Settings["model"]; got != "nova-2" {
		t.Errorf("recognition model = %v", got)
	}
	if cfg.Caller.Temperament != "frustrated" {
		t.Errorf("temperament = %q", cfg.Caller.Temperament)
	}
	if cfg.Observability.RetentionDays != 14 {
		t.Errorf("retention_days = %d", cfg.Observability.RetentionDays)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
gateway:
  base_url: http://localhost:5000
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Speech.Language != "en" {
		t.Errorf("language = %q", cfg.Speech.Language)
	}
}

func TestLoadConfigRequiresGateway(t *testing.T) {
	path := writeConfig(t, "environment: development\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for missing gateway.base_url")
	}
}

func TestCallerInfoOmitsEmptyFields(t *testing.T) {
	info := CallerConfig{Name: "Jane"}.Info()
	if len(info) != 1 || info["name"] != "Jane" {
		t.Fatalf("unexpected info %v", info)
	}
}
