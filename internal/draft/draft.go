// Package draft produces free-form letter text with a language model.
package draft

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/chunker"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Compose generates prompt in sections of at most maxChars characters, in
// order, and joins the answers with blank lines. It stops at the first
// failing section.
func Compose(ctx context.Context, gen Generator, prompt string, maxChars int) (string, error) {
	sections := chunker.Sections(prompt, maxChars)
	if len(sections) == 0 {
		return "", fmt.Errorf("empty prompt")
	}
	parts := make([]string, 0, len(sections))
	for i, s := range sections {
		out, err := gen.Generate(ctx, s)
		if err != nil {
			return "", fmt.Errorf("section %d/%d: %w", i+1, len(sections), err)
		}
		if out = strings.TrimSpace(out); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

var (
	fenceRe      = regexp.MustCompile("(?s)^```[a-z]*\\s*(.*?)\\s*```$")
	blankLinesRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// Clean trims model output, unwraps a whole-answer code fence and folds runs
// of blank lines into one.
func Clean(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if m := fenceRe.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	return blankLinesRe.ReplaceAllString(s, "\n\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
