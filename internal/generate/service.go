// Package generate turns API requests into model calls and shapes the replies.
package generate

import (
	"context"
	"errors"
	"fmt"

	"codeguardian/internal/model"
)

// Template markers wrapped around every /generate prompt. They double as the
// stop sequences so a completion never runs into a new turn.
const (
	InstructionMarker = "### Instruction:"
	ResponseMarker    = "### Response:"
)

// StopSequences returns the stop sequences used for instruction prompts.
func StopSequences() []string { return []string{InstructionMarker, ResponseMarker} }

// FormatPrompt wraps prompt in the instruction/response template.
func FormatPrompt(prompt string) string {
	return InstructionMarker + "\n" + prompt + "\n" + ResponseMarker + "\n"
}

// ErrNoChoices is returned when the runtime replies without any candidate.
var ErrNoChoices = errors.New("model returned no choices")

// Service invokes the model handle chosen at startup.
type Service struct {
	models model.Availability
}

// NewService binds a Service to the load outcome.
func NewService(a model.Availability) *Service {
	return &Service{models: a}
}

// Ready reports whether a model handle is loaded.
func (s *Service) Ready() bool {
	_, ok := s.models.Model()
	return ok
}

// Generate formats prompt with the instruction template and returns the first
// completion's text. maxTokens is passed through unchanged.
func (s *Service) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m, ok := s.models.Model()
	if !ok {
		return "", s.notLoaded()
	}
	out, err := m.Complete(ctx, FormatPrompt(prompt), model.CompletionOptions{
		MaxTokens: maxTokens,
		Stop:      StopSequences(),
		Echo:      false,
	})
	if err != nil {
		return "", err
	}
	ch, ok := out.First()
	if !ok {
		return "", ErrNoChoices
	}
	return ch.Text, nil
}

// LoadErr reports why the model is unavailable; nil when Ready.
func (s *Service) LoadErr() error {
	if s.Ready() {
		return nil
	}
	return s.models.Err()
}

// notLoaded wraps the load failure so callers can match model.ErrNotLoaded.
func (s *Service) notLoaded() error {
	reason := s.models.Err()
	if reason == nil || errors.Is(reason, model.ErrNotLoaded) {
		return model.ErrNotLoaded
	}
	return fmt.Errorf("%w: %w", model.ErrNotLoaded, reason)
}
