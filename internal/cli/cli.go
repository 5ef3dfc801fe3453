// Package cli implements the codeguardian command-line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codeguardian/internal/client"
	"codeguardian/internal/prompts"
)

// Config holds the persistent flag values shared by every subcommand.
type Config struct {
	Server    string
	MaxTokens int
	OpenAI    bool
	File      string
	Language  string
	Timeout   time.Duration
}

// DefaultConfig mirrors the editor integration: local server, 1024-token answers.
func DefaultConfig() *Config {
	return &Config{
		Server:    client.DefaultBaseURL,
		MaxTokens: prompts.DefaultMaxTokens,
	}
}

// Execute runs the CLI against the process's standard streams.
func Execute(ctx context.Context, args []string) error {
	root := buildRootCmdWith(DefaultConfig(), os.Stdin, os.Stdout)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func buildRootCmdWith(cfg *Config, in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "codeguardian",
		Short:         "Explain, fix and audit code with a local guardiand model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Server, "server", cfg.Server, "guardiand base URL")
	pf.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Token budget for the answer")
	pf.BoolVar(&cfg.OpenAI, "openai", cfg.OpenAI, "Send through the OpenAI-compatible /v1/completions endpoint")
	pf.StringVarP(&cfg.File, "file", "f", cfg.File, "Read code from this file instead of stdin")
	pf.StringVar(&cfg.Language, "lang", cfg.Language, "Language for the answer (default English)")
	pf.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Client-side request timeout (0 disables)")

	review := func(kind prompts.Kind, use, short, example string) *cobra.Command {
		return &cobra.Command{
			Use:     use,
			Short:   short,
			Example: example,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runReview(cmd, cfg, prompts.Request{Kind: kind})
			},
		}
	}
	root.AddCommand(
		review(prompts.Explain, "explain", "Explain what the code does", "  codeguardian explain -f main.go"),
		review(prompts.Fix, "fix", "Find the bug and propose a fix", "  cat handler.go | codeguardian fix"),
		review(prompts.Scan, "scan", "Audit the code for security vulnerabilities", "  codeguardian scan -f login.php"),
	)

	root.AddCommand(&cobra.Command{
		Use:     "ask <instruction>",
		Short:   "Apply a free-form instruction to the code",
		Example: `  codeguardian ask "convert to Java" -f util.py`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, cfg, prompts.Request{Kind: prompts.Ask, Instruction: strings.Join(args, " ")})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "generate <prompt>",
		Short: "Send a raw prompt to /generate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, cfg, strings.Join(args, " "))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Check that the server is up and whether a model is loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(cfg.Server, cfg.Timeout)
			h, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", h.Status)
			if st, err := c.Status(cmd.Context()); err == nil {
				if st.Loaded {
					fmt.Fprintf(cmd.OutOrStdout(), "model: %s (ctx %d)\n", st.ModelPath, st.ContextSize)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "model: not loaded: %s\n", st.Error)
				}
			}
			return nil
		},
	})

	return root
}

func runReview(cmd *cobra.Command, cfg *Config, req prompts.Request) error {
	code, err := readCode(cmd.InOrStdin(), cfg.File)
	if err != nil {
		return err
	}
	req.Code = code
	req.Language = cfg.Language
	prompt, err := prompts.Build(req)
	if err != nil {
		return err
	}
	return send(cmd, cfg, prompt)
}

func send(cmd *cobra.Command, cfg *Config, prompt string) error {
	c := client.New(cfg.Server, cfg.Timeout)
	var (
		result string
		err    error
	)
	if cfg.OpenAI {
		result, err = c.Complete(cmd.Context(), prompt, cfg.MaxTokens)
	} else {
		result, err = c.Generate(cmd.Context(), prompt, cfg.MaxTokens)
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, result)
	if !strings.HasSuffix(result, "\n") {
		fmt.Fprintln(out)
	}
	return nil
}

func readCode(in io.Reader, path string) (string, error) {
	if path != "" && path != "-" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	}
	if f, ok := in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no code provided: pass --file or pipe code on stdin")
		}
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
