package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	openai "github.com/sashabaranov/go-openai"

	"codeguardian/internal/generate"
	"codeguardian/internal/model"
	"codeguardian/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Complete(ctx context.Context, modelID string, req openai.CompletionRequest) (openai.CompletionResponse, error)
	Ready() bool
	// LoadErr reports why the model is unavailable; nil when Ready.
	LoadErr() error
}

type server struct {
	svc     Service
	opts    Options
	started time.Time
}

// NewMux builds the router serving the generation API.
func NewMux(svc Service, opts Options) http.Handler {
	s := &server{svc: svc, opts: opts, started: time.Now()}
	setModelLoaded(svc.Ready())

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORS.AllowedOrigins,
			AllowedMethods: opts.CORS.AllowedMethods,
			AllowedHeaders: opts.CORS.AllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/generate", s.handleGenerate)
	r.Post("/v1/completions", s.handleCompletions)
	r.Get("/health", s.handleHealth)
	r.Get("/readyz", s.handleReadyz)
	r.Get("/status", s.handleStatus)
	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	if opts.Swagger {
		MountSwagger(r)
	}
	return r
}

// decodeJSON enforces the content type and body limit, then decodes into v.
// On failure it has already written the error response and returns its status.
func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) (int, error) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		err := errors.New("Content-Type must be application/json")
		writeJSONError(w, http.StatusUnsupportedMediaType, err.Error())
		return http.StatusUnsupportedMediaType, err
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.maxBody())
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if err == nil {
		var extra json.RawMessage
		if derr := dec.Decode(&extra); !errors.Is(derr, io.EOF) {
			err = derr
			if err == nil {
				err = errors.New("trailing data after JSON body")
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		var invalid *types.ValidationError
		switch {
		case errors.As(err, &tooLarge):
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return http.StatusRequestEntityTooLarge, err
		case errors.As(err, &invalid):
			writeJSONError(w, http.StatusUnprocessableEntity, invalid.Error())
			return http.StatusUnprocessableEntity, err
		default:
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body")
			return http.StatusUnprocessableEntity, err
		}
	}
	return 0, nil
}

// writeServiceError maps a generation failure to a response and returns the
// status and metrics outcome used.
func writeServiceError(w http.ResponseWriter, err error) (int, string) {
	if errors.Is(err, model.ErrNotLoaded) {
		writeJSONError(w, http.StatusInternalServerError, detailModelNotLoaded)
		return http.StatusInternalServerError, outcomeUnavailable
	}
	writeJSONError(w, http.StatusInternalServerError, detailInternal)
	return http.StatusInternalServerError, outcomeError
}

// handleGenerate wraps the prompt in the instruction template and returns the first completion.
//
// @Summary      Generate a completion
// @Description  Wraps the prompt in an instruction/response template and returns the model's first completion. Responds 500 "Model not loaded" when the server started without a model.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request  body      types.GenerateRequest  true  "Prompt and optional token budget"
// @Success      200      {object}  types.GenerateResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /generate [post]
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	rl := newRequestLog(s.opts.Logger, s.opts.LogLevel, r)
	var req types.GenerateRequest
	if status, err := s.decodeJSON(w, r, &req); err != nil {
		observeGeneration("generate", outcomeInvalid, 0)
		rl.end("generate rejected", status, err)
		return
	}
	maxTokens := req.EffectiveMaxTokens()
	rl.begin("generate start", map[string]any{"max_tokens": maxTokens, "prompt_len": len(req.Prompt)})

	start := time.Now()
	text, err := s.svc.Generate(r.Context(), req.Prompt, maxTokens)
	if err != nil {
		status, outcome := writeServiceError(w, err)
		observeGeneration("generate", outcome, time.Since(start))
		rl.end("generate end", status, err)
		return
	}
	observeGeneration("generate", outcomeOK, time.Since(start))
	rl.debug("generate result", map[string]any{"result": text})
	writeJSON(w, http.StatusOK, types.GenerateResponse{Result: text})
	rl.end("generate end", http.StatusOK, nil)
}

// handleCompletions serves an OpenAI-compatible completion for the hosted model.
//
// @Summary      OpenAI-compatible completion
// @Description  Accepts an OpenAI completion request; the prompt is sent to the model verbatim.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request  body      openai.CompletionRequest  true  "Completion request"
// @Success      200      {object}  openai.CompletionResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /v1/completions [post]
func (s *server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	rl := newRequestLog(s.opts.Logger, s.opts.LogLevel, r)
	var raw json.RawMessage
	if status, err := s.decodeJSON(w, r, &raw); err != nil {
		observeGeneration("completions", outcomeInvalid, 0)
		rl.end("completion rejected", status, err)
		return
	}
	req, err := decodeCompletionRequest(raw)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		observeGeneration("completions", outcomeInvalid, 0)
		rl.end("completion rejected", http.StatusUnprocessableEntity, err)
		return
	}
	if req.Stream {
		err := errors.New("streaming is not supported")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		observeGeneration("completions", outcomeInvalid, 0)
		rl.end("completion rejected", http.StatusBadRequest, err)
		return
	}
	if _, err := generate.CompletionPrompt(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		observeGeneration("completions", outcomeInvalid, 0)
		rl.end("completion rejected", http.StatusBadRequest, err)
		return
	}
	rl.begin("completion start", map[string]any{"max_tokens": req.MaxTokens, "echo": req.Echo})

	start := time.Now()
	resp, err := s.svc.Complete(r.Context(), generate.ModelID(s.opts.ModelPath), req)
	if err != nil {
		status, outcome := writeServiceError(w, err)
		observeGeneration("completions", outcome, time.Since(start))
		rl.end("completion end", status, err)
		return
	}
	observeGeneration("completions", outcomeOK, time.Since(start))
	writeJSON(w, http.StatusOK, resp)
	rl.end("completion end", http.StatusOK, nil)
}

// decodeCompletionRequest decodes an OpenAI completion body. A string "stop"
// is accepted and turned into a one-element list.
func decodeCompletionRequest(raw []byte) (openai.CompletionRequest, error) {
	var req openai.CompletionRequest
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return req, &types.ValidationError{Field: "body", Msg: "invalid JSON body"}
	}
	if stop, ok := fields["stop"]; ok {
		var one string
		if json.Unmarshal(stop, &one) == nil {
			fields["stop"], _ = json.Marshal([]string{one})
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return req, &types.ValidationError{Field: "body", Msg: "invalid JSON body"}
	}
	if err := json.Unmarshal(normalized, &req); err != nil {
		return req, &types.ValidationError{Field: "body", Msg: "invalid completion request"}
	}
	return req, nil
}

// handleHealth is a liveness signal; it never looks at the model.
//
// @Summary      Liveness
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
}

// @Summary      Readiness
// @Description  200 when the model handle loaded at startup, 503 otherwise.
// @Tags         ops
// @Produce      plain
// @Success      200  {string}  string  "ready"
// @Failure      503  {string}  string  "unavailable"
// @Router       /readyz [get]
func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("unavailable"))
}

// @Summary      Server and model status
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	st := types.StatusResponse{
		Loaded:         s.svc.Ready(),
		ModelPath:      s.opts.ModelPath,
		ContextSize:    s.opts.ContextSize,
		GPULayers:      s.opts.GPULayers,
		RuntimeBuilt:   model.RuntimeBuilt(),
		UptimeSeconds:  int64(now.Sub(s.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if err := s.svc.LoadErr(); err != nil {
		st.Error = err.Error()
		st.Reason = model.Reason(err)
	}
	writeJSON(w, http.StatusOK, st)
}
