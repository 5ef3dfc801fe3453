package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// Defaults for the single model the server hosts.
const (
	DefaultPath        = "/models/model.gguf"
	DefaultContextSize = 4096
	DefaultGPULayers   = 0
)

// Config describes how to load the model artifact.
type Config struct {
	Path        string
	ContextSize int
	GPULayers   int
	// Threads used for prediction; zero picks half the CPUs.
	Threads int
}

// Opener constructs a runtime handle for a resolved Config.
type Opener func(cfg Config) (Model, error)

// Load loads the model with the runtime compiled into this binary.
func Load(cfg Config, log zerolog.Logger) Availability {
	return LoadWith(openRuntime, cfg, log)
}

// LoadWith resolves the artifact path, checks it exists and opens it. A failure
// is logged and returned as an unavailable Availability; it never panics.
func LoadWith(open Opener, cfg Config, log zerolog.Logger) Availability {
	cfg = withDefaults(cfg)
	path, err := expandHome(cfg.Path)
	if err != nil {
		return unavailable(log, cfg.Path, err)
	}
	cfg.Path = path
	if !pathExists(path) {
		return unavailable(log, path, ErrModelNotFound(path))
	}
	m, err := open(cfg)
	if err != nil {
		return unavailable(log, path, fmt.Errorf("load %s: %w", path, err))
	}
	log.Info().
		Str("path", path).
		Int("context_size", cfg.ContextSize).
		Int("gpu_layers", cfg.GPULayers).
		Int("threads", cfg.Threads).
		Msg("model loaded successfully")
	return Ready(m)
}

func unavailable(log zerolog.Logger, path string, err error) Availability {
	log.Error().Err(err).Str("path", path).Msg("error loading model")
	return Unavailable(err)
}

func withDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.Path) == "" {
		cfg.Path = DefaultPath
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultContextSize
	}
	if cfg.GPULayers < 0 {
		cfg.GPULayers = DefaultGPULayers
	}
	if cfg.Threads <= 0 {
		cfg.Threads = max(1, runtime.NumCPU()/2)
	}
	return cfg
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// pathExists reports whether path is a regular file (or unstat-able for reasons
// other than absence, which the runtime will report more precisely).
func pathExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}
	return !fi.IsDir()
}

// RuntimeBuilt reports whether this binary links the in-process llama runtime.
func RuntimeBuilt() bool { return llamaBuilt }
