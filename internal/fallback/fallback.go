package fallback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mattt/stellar-mcp/internal/toolerr"
)

// Source names the tier that produced a result
type Source string

const (
	SourceLive   Source = "live"
	SourceLedger Source = "ledger"
	SourceMock   Source = "mock"
)

// Tier is one ordered attempt at producing a value
type Tier[T any] struct {
	Source Source
	Fetch  func(ctx context.Context) (T, error)
}

// Result is the value produced by the first successful tier
type Result[T any] struct {
	Value  T
	Source Source

	// Failures holds the errors of the tiers attempted before Source
	Failures []error
}

// Degraded reports whether a tier before the serving one failed
func (r Result[T]) Degraded() bool {
	return len(r.Failures) > 0
}

// Live wraps fn as the primary backend tier
func Live[T any](fn func(ctx context.Context) (T, error)) Tier[T] {
	return Tier[T]{Source: SourceLive, Fetch: fn}
}

// Ledger wraps fn as the secondary ledger tier
func Ledger[T any](fn func(ctx context.Context) (T, error)) Tier[T] {
	return Tier[T]{Source: SourceLedger, Fetch: fn}
}

// Mock wraps a static generator as the final tier
func Mock[T any](fn func() T) Tier[T] {
	return Tier[T]{Source: SourceMock, Fetch: func(context.Context) (T, error) {
		return fn(), nil
	}}
}

// Run attempts tiers in order and returns the first success.
// Each failed tier is logged. If every tier fails the returned error is
// classified as toolerr.UpstreamUnavailable and joins each tier's failure.
func Run[T any](ctx context.Context, logger *slog.Logger, op string, tiers ...Tier[T]) (Result[T], error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var failures []error
	for _, tier := range tiers {
		value, err := attempt(ctx, tier)
		if err == nil {
			if len(failures) > 0 {
				logger.Info("served from fallback tier", "operation", op, "source", tier.Source)
			}
			return Result[T]{Value: value, Source: tier.Source, Failures: failures}, nil
		}

		logger.Warn("tier failed", "operation", op, "source", tier.Source, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", tier.Source, err))
	}

	var zero T
	return Result[T]{Value: zero, Failures: failures}, toolerr.Wrap(
		toolerr.UpstreamUnavailable,
		errors.Join(failures...),
		"%s: all %d tiers failed", op, len(tiers),
	)
}

func attempt[T any](ctx context.Context, tier Tier[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if tier.Fetch == nil {
		return value, errors.New("tier not configured")
	}
	return tier.Fetch(ctx)
}
