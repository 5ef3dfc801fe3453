package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type captured struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

func generateServer(t *testing.T, reply string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate":
			_ = json.NewDecoder(r.Body).Decode(got)
			_ = json.NewEncoder(w).Encode(map[string]string{"result": reply})
		case "/health":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/status":
			_, _ = w.Write([]byte(`{"loaded":true,"model_path":"/models/model.gguf","context_size":4096}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := buildRootCmdWith(DefaultConfig(), strings.NewReader(stdin), &out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExplain_FromStdin(t *testing.T) {
	var got captured
	srv := generateServer(t, "It adds numbers.", &got)

	out, err := run(t, "func add(a, b int) int { return a + b }", "explain", "--server", srv.URL)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if out != "It adds numbers.\n" {
		t.Fatalf("out=%q", out)
	}
	if got.MaxTokens != 1024 {
		t.Fatalf("max_tokens=%d", got.MaxTokens)
	}
	if !strings.Contains(got.Prompt, "return a + b") || !strings.Contains(got.Prompt, "Summary") {
		t.Fatalf("prompt=%q", got.Prompt)
	}
}

func TestScan_FromFileWithBudget(t *testing.T) {
	var got captured
	srv := generateServer(t, "No issues.\n", &got)
	path := filepath.Join(t.TempDir(), "login.php")
	if err := os.WriteFile(path, []byte(`$q = "SELECT * FROM u WHERE id=" . $_GET["id"];`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "scan", "-f", path, "--max-tokens", "256", "--server", srv.URL)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out != "No issues.\n" {
		t.Fatalf("out=%q", out)
	}
	if got.MaxTokens != 256 || !strings.Contains(got.Prompt, "$_GET") || !strings.Contains(got.Prompt, "Vulnerabilities") {
		t.Fatalf("got=%+v", got)
	}
}

func TestAsk_JoinsInstruction(t *testing.T) {
	var got captured
	srv := generateServer(t, "done", &got)

	if _, err := run(t, "x = 1", "ask", "convert", "to", "Java", "--server", srv.URL); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(got.Prompt, "convert to Java") {
		t.Fatalf("prompt=%q", got.Prompt)
	}
}

func TestAsk_RequiresInstruction(t *testing.T) {
	if _, err := run(t, "x = 1", "ask"); err == nil {
		t.Fatal("expected arg error")
	}
}

func TestReview_EmptyCodeFails(t *testing.T) {
	var got captured
	srv := generateServer(t, "unused", &got)
	_, err := run(t, "   \n", "fix", "--server", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "no code") {
		t.Fatalf("expected no-code error, got %v", err)
	}
	if got.Prompt != "" {
		t.Fatal("server should not have been called")
	}
}

func TestGenerate_RawPrompt(t *testing.T) {
	var got captured
	srv := generateServer(t, "print('hi')", &got)
	if _, err := run(t, "", "generate", "Write", "a", "hello", "world", "--server", srv.URL); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.Prompt != "Write a hello world" {
		t.Fatalf("prompt=%q", got.Prompt)
	}
}

func TestHealth_PrintsModel(t *testing.T) {
	var got captured
	srv := generateServer(t, "", &got)
	out, err := run(t, "", "health", "--server", srv.URL)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "status: ok") || !strings.Contains(out, "/models/model.gguf") {
		t.Fatalf("out=%q", out)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Model not loaded"}`))
	}))
	defer srv.Close()
	_, err := run(t, "code", "explain", "--server", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "Model not loaded") {
		t.Fatalf("expected detail in error, got %v", err)
	}
}
