package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"codeguardian/internal/model"
)

// ModelID names the hosted model in OpenAI-style responses.
func ModelID(path string) string {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if id == "" || id == "." || id == "/" {
		return "local"
	}
	return id
}

// CompletionPrompt extracts a single prompt string from an OpenAI completion
// request. Only a string or a one-element list is accepted.
func CompletionPrompt(req openai.CompletionRequest) (string, error) {
	switch p := req.Prompt.(type) {
	case string:
		return p, nil
	case []string:
		if len(p) == 1 {
			return p[0], nil
		}
	case []any:
		if len(p) == 1 {
			if s, ok := p[0].(string); ok {
				return s, nil
			}
		}
	case nil:
		return "", fmt.Errorf("prompt is required")
	}
	return "", fmt.Errorf("prompt must be a string or a single-element list of strings")
}

// Complete serves an OpenAI-compatible completion. The prompt is sent verbatim
// (no instruction template); stop, echo and max_tokens come from the request.
func (s *Service) Complete(ctx context.Context, modelID string, req openai.CompletionRequest) (openai.CompletionResponse, error) {
	m, ok := s.models.Model()
	if !ok {
		return openai.CompletionResponse{}, s.notLoaded()
	}
	prompt, err := CompletionPrompt(req)
	if err != nil {
		return openai.CompletionResponse{}, err
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		// OpenAI's documented default for the legacy completions endpoint.
		maxTokens = 16
	}
	out, err := m.Complete(ctx, prompt, model.CompletionOptions{
		MaxTokens: maxTokens,
		Stop:      req.Stop,
		Echo:      req.Echo,
	})
	if err != nil {
		return openai.CompletionResponse{}, err
	}
	ch, ok := out.First()
	if !ok {
		return openai.CompletionResponse{}, ErrNoChoices
	}
	now := time.Now()
	return openai.CompletionResponse{
		ID:      fmt.Sprintf("cmpl-%d", now.UnixNano()),
		Object:  "text_completion",
		Created: now.Unix(),
		Model:   modelID,
		Choices: []openai.CompletionChoice{{
			Text:         ch.Text,
			Index:        ch.Index,
			FinishReason: ch.FinishReason,
		}},
		Usage: &openai.Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}
