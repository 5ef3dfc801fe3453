package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"codeguardian/internal/model"
)

// CORS holds opt-in cross-origin settings for browser and editor clients.
type CORS struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified"; Default supplies the baseline.
type Config struct {
	Addr            string `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath       string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ContextSize     int    `json:"context_size" yaml:"context_size" toml:"context_size"`
	GPULayers       int    `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`
	Threads         int    `json:"threads" yaml:"threads" toml:"threads"`
	LogLevel        string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat       string `json:"log_format" yaml:"log_format" toml:"log_format"`
	MaxBodyBytes    int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	Swagger         bool   `json:"swagger" yaml:"swagger" toml:"swagger"`
	ShutdownTimeout int    `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"` // seconds
	CORS            CORS   `json:"cors" yaml:"cors" toml:"cors"`
}

// Default returns the built-in configuration: the fixed model location and
// load parameters the service has always used.
func Default() Config {
	return Config{
		Addr:            ":8000",
		ModelPath:       model.DefaultPath,
		ContextSize:     model.DefaultContextSize,
		GPULayers:       model.DefaultGPULayers,
		LogLevel:        "info",
		LogFormat:       "json",
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 5,
		CORS: CORS{
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Log-Level"},
		},
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Merge overlays the non-zero fields of over onto base.
func Merge(base, over Config) Config {
	out := base
	if over.Addr != "" {
		out.Addr = over.Addr
	}
	if over.ModelPath != "" {
		out.ModelPath = over.ModelPath
	}
	if over.ContextSize > 0 {
		out.ContextSize = over.ContextSize
	}
	if over.GPULayers > 0 {
		out.GPULayers = over.GPULayers
	}
	if over.Threads > 0 {
		out.Threads = over.Threads
	}
	if over.LogLevel != "" {
		out.LogLevel = over.LogLevel
	}
	if over.LogFormat != "" {
		out.LogFormat = over.LogFormat
	}
	if over.MaxBodyBytes > 0 {
		out.MaxBodyBytes = over.MaxBodyBytes
	}
	if over.Swagger {
		out.Swagger = true
	}
	if over.ShutdownTimeout > 0 {
		out.ShutdownTimeout = over.ShutdownTimeout
	}
	if over.CORS.Enabled {
		out.CORS.Enabled = true
	}
	if len(over.CORS.AllowedOrigins) > 0 {
		out.CORS.AllowedOrigins = append([]string(nil), over.CORS.AllowedOrigins...)
	}
	if len(over.CORS.AllowedMethods) > 0 {
		out.CORS.AllowedMethods = append([]string(nil), over.CORS.AllowedMethods...)
	}
	if len(over.CORS.AllowedHeaders) > 0 {
		out.CORS.AllowedHeaders = append([]string(nil), over.CORS.AllowedHeaders...)
	}
	return out
}

// ModelConfig projects the model-loading parameters.
func (c Config) ModelConfig() model.Config {
	return model.Config{
		Path:        c.ModelPath,
		ContextSize: c.ContextSize,
		GPULayers:   c.GPULayers,
		Threads:     c.Threads,
	}
}

// ShutdownGrace returns the graceful shutdown window.
func (c Config) ShutdownGrace() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ShutdownTimeout) * time.Second
}
