package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/draft"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *draft.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// retrying retries retryable generation failures with backoff.
type retrying struct {
	gen     draft.Generator
	backoff func(int) time.Duration
	log     *slog.Logger
}

func (r retrying) Generate(ctx context.Context, prompt string) (string, error) {
	var (
		out string
		err error
	)
	for attempt := range MaxRetries {
		out, err = r.gen.Generate(ctx, prompt)
		if err == nil || !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		r.log.Warn("retryable generation error", "attempt", attempt, "error", err)
		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return out, err
}
