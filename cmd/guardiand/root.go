package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeguardian/internal/config"
	"codeguardian/internal/generate"
	"codeguardian/internal/httpapi"
	"codeguardian/internal/model"
)

// flagValues mirrors the config keys that can be set on the command line.
type flagValues struct {
	configPath  string
	addr        string
	modelPath   string
	contextSize int
	gpuLayers   int
	threads     int
	logLevel    string
	logFormat   string
	swagger     bool
	cors        bool
	corsOrigins string
}

func newRootCmd() *cobra.Command {
	fv := &flagValues{}
	cmd := &cobra.Command{
		Use:           "guardiand",
		Short:         "Serve a local GGUF model over HTTP",
		Long:          "guardiand loads one GGUF model at startup and serves POST /generate and GET /health.\nIf the model fails to load the server still starts and /generate answers 500.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, *fv)
			if err != nil {
				return err
			}
			log := newLogger(cfg, os.Stderr)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := serve(ctx, cfg, log); err != nil {
				log.Error().Err(err).Msg("server error")
				return err
			}
			return nil
		},
	}
	bindFlags(cmd, fv)
	return cmd
}

func bindFlags(cmd *cobra.Command, fv *flagValues) {
	f := cmd.Flags()
	f.StringVar(&fv.configPath, "config", "", "Path to a .yaml/.yml/.json/.toml config file")
	f.StringVar(&fv.addr, "addr", "", "HTTP listen address (default :8000)")
	f.StringVar(&fv.modelPath, "model", "", "Path to the GGUF model (default "+model.DefaultPath+")")
	f.IntVar(&fv.contextSize, "ctx-size", 0, "Context window size in tokens (default 4096)")
	f.IntVar(&fv.gpuLayers, "gpu-layers", 0, "Layers to offload to the GPU (default 0, CPU only)")
	f.IntVar(&fv.threads, "threads", 0, "Prediction threads (default half the CPUs)")
	f.StringVar(&fv.logLevel, "log-level", "", "Log level: off|error|info|debug (default info)")
	f.StringVar(&fv.logFormat, "log-format", "", "Log format: json|console (default json)")
	f.BoolVar(&fv.swagger, "swagger", false, "Serve swagger UI under /swagger/")
	f.BoolVar(&fv.cors, "cors", false, "Enable CORS")
	f.StringVar(&fv.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins")
}

// resolveConfig layers defaults, the optional config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, fv flagValues) (config.Config, error) {
	cfg := config.Default()
	if fv.configPath != "" {
		fileCfg, err := config.Load(fv.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	flags := cmd.Flags()
	over := config.Config{
		Addr:      fv.addr,
		ModelPath: fv.modelPath,
		Threads:   fv.threads,
		LogLevel:  fv.logLevel,
		LogFormat: fv.logFormat,
		Swagger:   fv.swagger,
		CORS: config.CORS{
			Enabled:        fv.cors,
			AllowedOrigins: splitCSV(fv.corsOrigins),
		},
	}
	if flags.Changed("ctx-size") {
		over.ContextSize = fv.contextSize
	}
	cfg = config.Merge(cfg, over)
	// gpu-layers 0 is meaningful (CPU only), so it bypasses Merge's zero check.
	if flags.Changed("gpu-layers") {
		cfg.GPULayers = fv.gpuLayers
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// newLogger builds the root zerolog logger from config.
func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	if strings.EqualFold(cfg.LogFormat, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || cfg.LogLevel == "" {
		lvl = zerolog.InfoLevel
	}
	if strings.EqualFold(cfg.LogLevel, "off") {
		lvl = zerolog.Disabled
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "guardiand").Logger()
}

// buildHandler wires the HTTP layer around the model load outcome.
func buildHandler(cfg config.Config, avail model.Availability, log zerolog.Logger) http.Handler {
	svc := generate.NewService(avail)
	return httpapi.NewMux(svc, httpapi.Options{
		Logger:       log,
		LogLevel:     httpapi.ParseLevel(cfg.LogLevel),
		MaxBodyBytes: cfg.MaxBodyBytes,
		Swagger:      cfg.Swagger,
		CORS: httpapi.CORSOptions{
			Enabled:        cfg.CORS.Enabled,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
		ModelPath:   cfg.ModelPath,
		ContextSize: cfg.ContextSize,
		GPULayers:   cfg.GPULayers,
	})
}

// serve runs the HTTP server until ctx is canceled, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	avail := model.Load(cfg.ModelConfig(), log)
	defer func() {
		if err := avail.Close(); err != nil {
			log.Error().Err(err).Msg("model close")
		}
	}()
	if _, ok := avail.Model(); !ok {
		log.Warn().Err(avail.Err()).Msg("serving without a model; /generate will answer 500")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           buildHandler(cfg, avail, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("model", cfg.ModelPath).Msg("guardiand listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("guardiand stopped")
	return nil
}
