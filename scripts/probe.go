package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/callsimlabs/callsim/pkg/client"
)

type gatewayConfig struct {
	Gateway struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"gateway"`
}

func main() {
	configPath := flag.String("config", "examples/console/config.local.yaml", "")
	baseURL := flag.String("base_url", "", "")
	apiKey := flag.String("api_key", "", "")
	say := flag.String("say", "", "text to synthesize as a smoke test")
	flag.Parse()

	url, key := *baseURL, *apiKey
	if url == "" {
		cfg, err := loadGatewayConfig(*configPath)
		if err != nil {
			fmt.Println("usage: probe -base_url=http://localhost:5000 [-api_key=...] [-say=text]")
			fmt.Println("config error:", err)
			os.Exit(1)
		}
		url = cfg.Gateway.BaseURL
		if key == "" {
			key = cfg.Gateway.APIKey
		}
	}

	c := client.New(url, key)
	ctx := context.Background()

	health := c.Health(ctx)
	fmt.Println("status:", health.Status)
	if health.Version != "" {
		fmt.Println("version:", health.Version)
	}
	if !health.Healthy() {
		if health.Error != "" {
			fmt.Println("error:", health.Error)
		}
		os.Exit(1)
	}

	voices := c.Voices(ctx)
	fmt.Printf("voices: %d\n", len(voices))
	for _, v := range voices {
		fmt.Printf("  %s  %s (%s)\n", v.ID, v.Name, v.Lang)
	}

	if *say != "" {
		clip, err := c.Synthesize(ctx, *say, "en")
		if err != nil {
			fmt.Println("tts error:", err)
			os.Exit(1)
		}
		fmt.Printf("tts: %d bytes (%s)\n", clip.Len(), clip.MIME())
		clip.Release()
	}
}

func loadGatewayConfig(path string) (gatewayConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return gatewayConfig{}, err
	}
	var cfg gatewayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return gatewayConfig{}, err
	}
	return cfg, nil
}
