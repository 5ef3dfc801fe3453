package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxTokens is the token budget used when a request omits max_tokens.
const DefaultMaxTokens = 512

// GenerateRequest is the payload accepted by POST /generate.
type GenerateRequest struct {
	// Required prompt text. It is wrapped in the instruction template before inference.
	// example: Write a hello world
	Prompt string `json:"prompt" example:"Write a hello world"`
	// Maximum number of new tokens to generate. Omitted means 512.
	// example: 128
	MaxTokens *int `json:"max_tokens,omitempty" example:"128"`
}

// EffectiveMaxTokens returns the token budget after applying the default.
func (r GenerateRequest) EffectiveMaxTokens() int {
	if r.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *r.MaxTokens
}

// UnmarshalJSON decodes the request with lax coercion for max_tokens:
// integers, integral floats and numeric strings are all accepted.
func (r *GenerateRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		Prompt    json.RawMessage `json:"prompt"`
		MaxTokens json.RawMessage `json:"max_tokens"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return &ValidationError{Field: "body", Msg: "invalid JSON body"}
	}
	if raw.Prompt == nil {
		return &ValidationError{Field: "prompt", Msg: "field required"}
	}
	if isNull(raw.Prompt) {
		return &ValidationError{Field: "prompt", Msg: "input should be a valid string"}
	}
	var prompt string
	if err := json.Unmarshal(raw.Prompt, &prompt); err != nil {
		return &ValidationError{Field: "prompt", Msg: "input should be a valid string"}
	}
	out := GenerateRequest{Prompt: prompt}
	if raw.MaxTokens != nil {
		n, err := coerceInt(raw.MaxTokens)
		if err != nil {
			return &ValidationError{Field: "max_tokens", Msg: "input should be a valid integer"}
		}
		out.MaxTokens = &n
	}
	*r = out
	return nil
}

func isNull(b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func coerceInt(b json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		return 0, strconv.ErrSyntax
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}

// GenerateResponse is returned by POST /generate.
type GenerateResponse struct {
	// Text of the first completion choice.
	// example: package main\n\nfunc main() { println("hello world") }
	Result string `json:"result" example:"package main"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Human readable error detail.
	// example: Model not loaded
	Detail string `json:"detail" example:"Model not loaded"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Whether the model handle loaded at startup.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Model artifact path the server was started with.
	// example: /models/model.gguf
	ModelPath string `json:"model_path" example:"/models/model.gguf"`
	// Context window size in tokens.
	// example: 4096
	ContextSize int `json:"context_size" example:"4096"`
	// Number of layers offloaded to the GPU.
	// example: 0
	GPULayers int `json:"gpu_layers" example:"0"`
	// Whether the binary was built with the in-process llama runtime.
	// example: true
	RuntimeBuilt bool `json:"llama_built" example:"true"`
	// Reason the model is unavailable, if it is.
	Error string `json:"error,omitempty"`
	// Failure kind: not_found, runtime_unavailable or load_failed.
	// example: not_found
	Reason string `json:"reason,omitempty" example:"not_found"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ValidationError reports a request field that failed decoding.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }
