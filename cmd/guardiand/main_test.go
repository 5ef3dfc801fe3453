package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeguardian/internal/config"
	"codeguardian/internal/model"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct{ in string; want []string }{
		{"a,b,c", []string{"a","b","c"}},
		{" a , b , c ", []string{"a","b","c"}},
		{"a,,c", []string{"a","c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) { t.Fatalf("%q -> %v, want %v", c.in, got, c.want) }
		for i := range got {
			if got[i] != c.want[i] { t.Fatalf("%q -> %v, want %v", c.in, got, c.want) }
		}
	}
}

func parseTestFlags(t *testing.T, args ...string) (*cobra.Command, flagValues) {
	t.Helper()
	cmd := &cobra.Command{Use: "guardiand"}
	fv := &flagValues{}
	bindFlags(cmd, fv)
	if err := cmd.ParseFlags(args); err != nil { t.Fatalf("parse flags: %v", err) }
	return cmd, *fv
}

func TestResolveConfig_Defaults(t *testing.T) {
	cmd, fv := parseTestFlags(t)
	cfg, err := resolveConfig(cmd, fv)
	if err != nil { t.Fatalf("resolve: %v", err) }
	if cfg.Addr != ":8000" || cfg.ModelPath != model.DefaultPath || cfg.ContextSize != 4096 || cfg.GPULayers != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestResolveConfig_FileThenFlags(t *testing.T) {
	p := filepath.Join(t.TempDir(), "guardiand.yaml")
	if err := os.WriteFile(p, []byte("addr: :9000\nmodel_path: /file.gguf\ngpu_layers: 12\ncontext_size: 2048\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cmd, fv := parseTestFlags(t, "--config", p, "--model", "/flag.gguf", "--gpu-layers", "0", "--cors", "--cors-origins", "a, b")
	cfg, err := resolveConfig(cmd, fv)
	if err != nil { t.Fatalf("resolve: %v", err) }
	if cfg.Addr != ":9000" || cfg.ModelPath != "/flag.gguf" || cfg.ContextSize != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.GPULayers != 0 { t.Fatalf("explicit --gpu-layers 0 must win over file, got %d", cfg.GPULayers) }
	if !cfg.CORS.Enabled || len(cfg.CORS.AllowedOrigins) != 2 { t.Fatalf("cors=%+v", cfg.CORS) }
}

func TestResolveConfig_BadFile(t *testing.T) {
	cmd, fv := parseTestFlags(t, "--config", "/no/such/file.yaml")
	if _, err := resolveConfig(cmd, fv); err == nil { t.Fatalf("expected error for missing config file") }
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(config.Config{LogLevel: "error"}, &buf)
	log.Info().Msg("dropped")
	log.Error().Msg("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("level not applied: %q", buf.String())
	}
	buf.Reset()
	off := newLogger(config.Config{LogLevel: "off"}, &buf)
	off.Error().Msg("silent")
	if buf.Len() != 0 { t.Fatalf("off should discard, got %q", buf.String()) }
	if newLogger(config.Config{LogLevel: "bogus"}, &buf).GetLevel() != zerolog.InfoLevel {
		t.Fatalf("unknown level should fall back to info")
	}
}

func TestBuildHandler_DegradedStartup(t *testing.T) {
	h := buildHandler(config.Default(), model.Unavailable(errors.New("missing")), zerolog.Nop())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK { t.Fatalf("health status=%d", w.Code) }

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError { t.Fatalf("generate status=%d", w.Code) }
	if !strings.Contains(w.Body.String(), "Model not loaded") { t.Fatalf("body=%s", w.Body.String()) }
}
