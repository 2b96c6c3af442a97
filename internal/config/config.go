package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ReportsConfig struct {
	Directory string `yaml:"directory"`
	// Font is the path to a TTF font used by the PDF renderer. PDF export
	// is reported as unavailable when the file is missing.
	Font string `yaml:"font"`
}

type ScannerConfig struct {
	StepMinMS int    `yaml:"step_min_ms"`
	StepMaxMS int    `yaml:"step_max_ms"`
	UserAgent string `yaml:"user_agent"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Reports ReportsConfig `yaml:"reports"`
	Scanner ScannerConfig `yaml:"scanner"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Reports: ReportsConfig{
			Directory: "./reports",
			Font:      "./assets/DejaVuSans.ttf",
		},
		Scanner: ScannerConfig{
			StepMinMS: 100,
			StepMaxMS: 500,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
