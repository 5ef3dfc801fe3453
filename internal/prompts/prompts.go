// Package prompts holds the code-review prompt templates used by the CLI.
package prompts

import (
	"fmt"
	"strings"
)

// Kind selects a prompt template.
type Kind string

const (
	Explain Kind = "explain"
	Fix     Kind = "fix"
	Scan    Kind = "scan"
	Ask     Kind = "ask"
)

// DefaultMaxTokens is the budget the editor client requests for reviews.
const DefaultMaxTokens = 1024

// Request is the input to Build.
type Request struct {
	Kind Kind
	Code string
	// Instruction is required for Ask and ignored otherwise.
	Instruction string
	// Language the answer should be written in; empty means English.
	Language string
}

// Build renders the prompt for r.
func Build(r Request) (string, error) {
	code := strings.TrimSpace(r.Code)
	if code == "" {
		return "", fmt.Errorf("no code provided")
	}
	lang := strings.TrimSpace(r.Language)
	if lang == "" {
		lang = "English"
	}
	switch r.Kind {
	case Explain:
		return fmt.Sprintf(`As a senior software architect, explain the logic and purpose of the following code in detail:
%s
Answer the following in order, in %s:
1. **Summary**: one sentence describing the core purpose of this code.
2. **Walkthrough**: a technical reading of the key logic (skip basic syntax; focus on the algorithm or business logic).
3. **Design**: the design patterns or techniques this code uses, if any.
`, code, lang), nil
	case Fix:
		return fmt.Sprintf(`As an expert debugger, analyze the following code:
%s
Answer the following three points in order:
1. **Cause**: point out exactly what is wrong or where the logic has a gap.
2. **Fixed code**: the complete, corrected code (wrap it in a Markdown code block).
3. **Changes**: briefly explain the difference before and after the fix.
Answer in %s.
`, code, lang), nil
	case Scan:
		return fmt.Sprintf(`You are a senior cybersecurity expert. Perform a strict security audit of the following code:
%s
Answer the following three points in order, in %s:
1. **Vulnerabilities**: the concrete security flaws present (for example SQL injection, XSS, CSRF, hardcoded secrets, buffer overflow).
2. **Attack scenario**: how an attacker could exploit each flaw.
3. **Remediation**: a patched, secure version of the code (in a Markdown code block) and why the patch works.
`, code, lang), nil
	case Ask:
		instr := strings.TrimSpace(r.Instruction)
		if instr == "" {
			return "", fmt.Errorf("ask requires an instruction")
		}
		return fmt.Sprintf(`You are a professional coding assistant. Carry out the user's request on the following code.
**Request**: %s
**Code**:
%s
Output the result directly, formatted as Markdown, in %s.
`, instr, code, lang), nil
	default:
		return "", fmt.Errorf("unknown prompt kind %q", r.Kind)
	}
}
