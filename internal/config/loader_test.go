package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel_path: /tmp/m.gguf\ncontext_size: 2048\ngpu_layers: 20\nlog_level: debug\ncors:\n  enabled: true\n  allowed_origins: [\"vscode-webview://*\"]\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":9999" || cfg.ModelPath != "/tmp/m.gguf" || cfg.ContextSize != 2048 || cfg.GPULayers != 20 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if !cfg.CORS.Enabled || len(cfg.CORS.AllowedOrigins) != 1 {
		t.Fatalf("unexpected cors: %+v", cfg.CORS)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_path":"/m.gguf","threads":4,"swagger":true,"max_body_bytes":2048}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.ModelPath != "/m.gguf" || cfg.Threads != 4 || !cfg.Swagger || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel_path=\"/x.gguf\"\nshutdown_timeout=9\nlog_format=\"console\"\n[cors]\nenabled=true\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.ModelPath != "/x.gguf" || cfg.ShutdownTimeout != 9 || cfg.LogFormat != "console" || !cfg.CORS.Enabled {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr != ":8000" || cfg.ModelPath != "/models/model.gguf" || cfg.ContextSize != 4096 || cfg.GPULayers != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxBodyBytes != 1<<20 || cfg.ShutdownGrace() != 5*time.Second {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	got := Merge(base, Config{ModelPath: "/other.gguf", GPULayers: 33, CORS: CORS{Enabled: true, AllowedOrigins: []string{"*"}}})
	if got.ModelPath != "/other.gguf" || got.GPULayers != 33 || got.Addr != ":8000" || got.ContextSize != 4096 {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if !got.CORS.Enabled || got.CORS.AllowedOrigins[0] != "*" || len(got.CORS.AllowedMethods) != 3 {
		t.Fatalf("unexpected cors merge: %+v", got.CORS)
	}
	mc := got.ModelConfig()
	if mc.Path != "/other.gguf" || mc.GPULayers != 33 || mc.ContextSize != 4096 {
		t.Fatalf("unexpected model config: %+v", mc)
	}
}
