package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional config file shape cmd/scrape accepts via -config.
// max_depth, preserve_whitespace and include_comments can only be set here.
// -strict turns strict mode on even when strict_mode is false, but cannot
// turn off a strict_mode: true from the file; an explicitly given -log-level
// takes precedence over log_level.
type Config struct {
	MaxDepth           int    `yaml:"max_depth"`
	StrictMode         bool   `yaml:"strict_mode"`
	PreserveWhitespace bool   `yaml:"preserve_whitespace"`
	IncludeComments    bool   `yaml:"include_comments"`
	LogLevel           string `yaml:"log_level"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{LogLevel: "info"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
