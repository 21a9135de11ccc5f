package configutil

import (
	"strings"
	"testing"
)

func TestDecodeSettingsNormalizesKeys(t *testing.T) {
	var out struct {
		APIKey     string `mapstructure:"api_key"`
		VoiceID    string `mapstructure:"voice_id"`
		SampleRate int    `mapstructure:"sample_rate"`
	}
	input := map[string]any{
		"api-key":     "key",
		"VOICE_ID":    "rachel",
		"sample_rate": "16000",
	}
	if err := DecodeSettings(input, &out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out.APIKey != "key" || out.VoiceID != "rachel" || out.SampleRate != 16000 {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestValidateSettings(t *testing.T) {
	schema := Schema{
		Required: []string{"api_key"},
		Optional: []string{"model"},
	}
	path := "speech.recognition.settings"
	if err := ValidateSettings(path, map[string]any{"api_key": "k", "model": "nova-2"}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateSettings(path, map[string]any{"model": "nova-2"}, schema)
	if err == nil {
		t.Fatalf("expected missing api_key error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the config path: %v", err)
	}
	if err := ValidateSettings(path, map[string]any{"api_key": "k", "bogus": 1}, schema); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestValidateSettingsBlankRequired(t *testing.T) {
	schema := Schema{Required: []string{"api_key"}}
	if err := ValidateSettings("s", map[string]any{"api_key": "   "}, schema); err == nil {
		t.Fatalf("expected blank required value to fail")
	}
}
