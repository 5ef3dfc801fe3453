package model

import "strings"

// Finish reasons reported on a Choice.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// truncateAtStop cuts text immediately before the earliest stop sequence it
// contains. It reports whether a stop sequence was found.
func truncateAtStop(text string, stop []string) (string, bool) {
	cut := -1
	for _, s := range stop {
		if s == "" {
			continue
		}
		if i := strings.Index(text, s); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return text, false
	}
	return text[:cut], true
}

// bytesPerToken bounds the byte length of one decoded token piece. The runtime
// copies its whole output into a buffer sized from the token option, so that
// option is a byte budget rather than a token budget.
const bytesPerToken = 16

// tokenBudget clamps a requested token count to [1, ctxSize]. A request of
// zero or less means "until the context window is full".
func tokenBudget(maxTokens, ctxSize int) int {
	if ctxSize <= 0 {
		ctxSize = DefaultContextSize
	}
	if maxTokens <= 0 || maxTokens > ctxSize {
		return ctxSize
	}
	return maxTokens
}

// outputBufferSize is the byte capacity to request from the runtime for a
// context of ctxSize tokens.
func outputBufferSize(ctxSize int) int {
	if ctxSize <= 0 {
		ctxSize = DefaultContextSize
	}
	return ctxSize * bytesPerToken
}

// tokenGate accumulates streamed token pieces and decides when generation
// must end: on a stop sequence or once the budget is spent.
type tokenGate struct {
	budget  int
	stop    []string
	count   int
	text    strings.Builder
	stopped bool
}

func newTokenGate(budget int, stop []string) *tokenGate {
	return &tokenGate{budget: budget, stop: stop}
}

// accept records one token piece and reports whether generation may continue.
func (g *tokenGate) accept(piece string) bool {
	if g.stopped || g.count >= g.budget {
		return false
	}
	g.count++
	g.text.WriteString(piece)
	if _, hit := truncateAtStop(g.text.String(), g.stop); hit {
		g.stopped = true
		return false
	}
	return g.count < g.budget
}

// completion shapes the gated output. raw is used only when the runtime never
// invoked the callback.
func (g *tokenGate) completion(prompt, raw string, echo bool) Completion {
	out := raw
	if g.count > 0 {
		out = g.text.String()
	}
	return buildCompletion(prompt, out, CompletionOptions{MaxTokens: g.budget, Stop: g.stop, Echo: echo}, g.count)
}

// buildCompletion shapes raw runtime output into a single-choice Completion.
// completionTokens is the runtime's count of generated tokens, or -1 if unknown.
func buildCompletion(prompt, raw string, opts CompletionOptions, completionTokens int) Completion {
	text, stopped := truncateAtStop(raw, opts.Stop)
	reason := FinishStop
	if !stopped && opts.MaxTokens > 0 && completionTokens >= opts.MaxTokens {
		reason = FinishLength
	}
	if opts.Echo {
		text = prompt + text
	}
	usage := Usage{}
	if completionTokens > 0 {
		usage.CompletionTokens = completionTokens
		usage.TotalTokens = completionTokens
	}
	return Completion{
		Choices: []Choice{{Index: 0, Text: text, FinishReason: reason}},
		Usage:   usage,
	}
}
