// Package model owns the language-model handle used by the server.
//
// The handle is loaded once at startup by Load and is never mutated afterwards.
// Loading never aborts the process: a failed load yields an Availability that
// carries the reason, and callers check it explicitly before generating.
//
// Build tags:
//
//   - `llama`: in-process inference via go-llama.cpp (llama.go, llama_cgo.go).
//   - default: a CGO-free stub whose loads always fail (llama_stub.go).
package model

import "context"

// Model produces text completions for a prompt.
// Implementations must be safe for use by concurrent requests.
type Model interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (Completion, error)
	// Close releases the underlying runtime.
	Close() error
}

// CompletionOptions captures generation parameters passed to the runtime.
type CompletionOptions struct {
	// MaxTokens limits new tokens. Zero or negative means "until the context is full".
	MaxTokens int
	// Stop terminates generation immediately before any of these sequences.
	Stop []string
	// Echo prepends the prompt to the returned text.
	Echo bool
}

// Completion is the runtime's reply: one or more candidate continuations.
type Completion struct {
	Choices []Choice
	Usage   Usage
}

// Choice is a single completion candidate.
type Choice struct {
	Index        int
	Text         string
	FinishReason string
}

// Usage contains token accounting when the runtime reports it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// First returns the first completion candidate.
func (c Completion) First() (Choice, bool) {
	if len(c.Choices) == 0 {
		return Choice{}, false
	}
	return c.Choices[0], true
}

// Availability is the outcome of loading the model at startup: either a
// ready handle or the reason it could not be loaded.
type Availability struct {
	handle Model
	reason error
}

// Ready wraps a successfully loaded handle.
func Ready(m Model) Availability { return Availability{handle: m} }

// Unavailable records a load failure.
func Unavailable(reason error) Availability {
	if reason == nil {
		reason = ErrNotLoaded
	}
	return Availability{reason: reason}
}

// Model returns the handle and whether it is usable.
func (a Availability) Model() (Model, bool) {
	return a.handle, a.handle != nil
}

// Err returns the load failure, or nil when the handle is ready.
func (a Availability) Err() error {
	if a.handle != nil {
		return nil
	}
	if a.reason == nil {
		return ErrNotLoaded
	}
	return a.reason
}

// Close releases the handle if one was loaded.
func (a Availability) Close() error {
	if a.handle == nil {
		return nil
	}
	return a.handle.Close()
}
