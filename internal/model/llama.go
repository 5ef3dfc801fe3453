//go:build llama

package model

import (
	"context"
	"errors"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// llamaModel owns the loaded go-llama.cpp handle.
type llamaModel struct {
	// mu serializes Predict calls; the binding shares one KV cache per handle.
	mu      sync.Mutex
	llm     *llama.LLama
	ctxSize int
	threads int
}

func openRuntime(cfg Config) (Model, error) {
	mo := []llama.ModelOption{
		llama.SetContext(cfg.ContextSize),
		llama.SetGPULayers(cfg.GPULayers),
	}
	l, err := llama.New(cfg.Path, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaModel{llm: l, ctxSize: cfg.ContextSize, threads: cfg.Threads}, nil
}

func (m *llamaModel) Complete(ctx context.Context, prompt string, opts CompletionOptions) (Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.llm == nil {
		return Completion{}, errors.New("llama model not initialized")
	}
	gate := newTokenGate(tokenBudget(opts.MaxTokens, m.ctxSize), opts.Stop)
	m.llm.SetTokenCallback(gate.accept)

	text, err := m.llm.Predict(prompt, predictOptions(m.ctxSize, m.threads)...)
	if err != nil {
		return Completion{}, err
	}
	return gate.completion(prompt, text, opts.Echo), nil
}

func (m *llamaModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.llm != nil {
		m.llm.Free()
		m.llm = nil
	}
	return nil
}

// predictOptions sizes the runtime's output buffer for a full context. Stop
// sequences and the token budget are enforced by the token callback: the
// runtime trims stop words as character sets and copies its output into a
// buffer of SetTokens bytes.
func predictOptions(ctxSize, threads int) []llama.PredictOption {
	return []llama.PredictOption{
		llama.SetTokens(outputBufferSize(ctxSize)),
		llama.SetThreads(max(1, threads)),
	}
}
