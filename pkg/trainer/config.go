package trainer

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/callsimlabs/callsim/pkg/configutil"
)

type Config struct {
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Speech        SpeechConfig        `mapstructure:"speech"`
	Caller        CallerConfig        `mapstructure:"caller"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Environment   string              `mapstructure:"environment"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
}

type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type ProviderConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type SpeechConfig struct {
	Language    string         `mapstructure:"language"`
	Recognition ProviderConfig `mapstructure:"recognition"`
	Synthesis   ProviderConfig `mapstructure:"synthesis"`
}

// CallerConfig describes the simulated caller sent to session start.
type CallerConfig struct {
	Name        string `mapstructure:"name"`
	Scenario    string `mapstructure:"scenario"`
	Temperament string `mapstructure:"temperament"`
}

// Info renders the caller profile as the free-form map the gateway expects.
func (c CallerConfig) Info() map[string]any {
	info := map[string]any{}
	if c.Name != "" {
		info["name"] = c.Name
	}
	if c.Scenario != "" {
		info["scenario"] = c.Scenario
	}
	if c.Temperament != "" {
		info["temperament"] = c.Temperament
	}
	return info
}

type ObservabilityConfig struct {
	ArtifactsDir  string `mapstructure:"artifacts_dir"`
	RetentionDays int    `mapstructure:"retention_days"`
	RedactPII     bool   `mapstructure:"redact_pii"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("speech.language", "en")
	v.SetDefault("observability.artifacts_dir", "")
	v.SetDefault("observability.retention_days", 0)
	v.SetDefault("observability.redact_pii", false)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := configutil.RequireString(cfg.Gateway.BaseURL, "gateway.base_url"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
