package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 100 * time.Millisecond
)

// retryingProvider wraps a LeagueProvider with exponential backoff on reads.
type retryingProvider struct {
	inner       LeagueProvider
	logger      *slog.Logger
	recorder    *metrics.Recorder
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingProvider wraps inner with retries. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingProvider(inner LeagueProvider, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int, initial time.Duration) LeagueProvider {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRetryAttempts
	}
	if initial <= 0 {
		initial = DefaultRetryBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		recorder:    recorder,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.RandomizationFactor = 0
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingProvider) InGolfers(ctx context.Context, roundID string) ([]foursomes.Golfer, error) {
	return withRetry(ctx, r, NameAvailability, func(ctx context.Context) ([]foursomes.Golfer, error) {
		return r.inner.InGolfers(ctx, roundID)
	})
}

func (r *retryingProvider) ApprovedSubstitutes(ctx context.Context, roundID string) ([]foursomes.Golfer, error) {
	return withRetry(ctx, r, NameSubstitutes, func(ctx context.Context) ([]foursomes.Golfer, error) {
		return r.inner.ApprovedSubstitutes(ctx, roundID)
	})
}

func (r *retryingProvider) EligibleGrossScores(ctx context.Context, golferID string, limit int) ([]int, error) {
	return withRetry(ctx, r, NameScoreHistory, func(ctx context.Context) ([]int, error) {
		return r.inner.EligibleGrossScores(ctx, golferID, limit)
	})
}

func withRetry[T any](ctx context.Context, r *retryingProvider, name string, fn func(context.Context) (T, error)) (T, error) {
	attempts := 0
	op := func() (T, error) {
		attempts++
		start := time.Now()
		out, err := fn(ctx)
		r.recorder.RecordCollaboratorAttempt(name, time.Since(start), err)
		if err != nil && !retryable(err) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}
	notify := func(err error, delay time.Duration) {
		r.recorder.RecordRetry(name, delay)
		logWithCollaborator(ctx, r.logger, slog.LevelWarn, name, "collaborator retry",
			"attempt", attempts, "max_attempts", r.maxAttempts, "retry_in", delay.String(), logging.FieldError, err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	out, err := backoff.RetryNotifyWithData(op, b, notify)
	if err == nil {
		return out, nil
	}
	if !retryable(err) || ctx.Err() != nil {
		return out, err
	}
	logWithCollaborator(ctx, r.logger, slog.LevelWarn, name, "collaborator failed", "attempts", attempts, logging.FieldError, err)
	return out, &CollaboratorError{Collaborator: name, Attempts: attempts, Err: err}
}
