package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattt/stellar-mcp/internal/toolerr"
)

func failing(msg string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		return nil, errors.New(msg)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("first success short-circuits", func(t *testing.T) {
		var ledgerCalled bool
		result, err := Run(ctx, nil, "positions",
			Live(func(context.Context) ([]string, error) { return []string{"live"}, nil }),
			Ledger(func(context.Context) ([]string, error) {
				ledgerCalled = true
				return []string{"ledger"}, nil
			}),
			Mock(func() []string { return []string{"mock"} }),
		)
		require.NoError(t, err)
		assert.Equal(t, SourceLive, result.Source)
		assert.Equal(t, []string{"live"}, result.Value)
		assert.False(t, result.Degraded())
		assert.False(t, ledgerCalled)
	})

	t.Run("falls through to ledger", func(t *testing.T) {
		result, err := Run(ctx, nil, "positions",
			Live(failing("vault api down")),
			Ledger(func(context.Context) ([]string, error) { return []string{"ledger"}, nil }),
			Mock(func() []string { return []string{"mock"} }),
		)
		require.NoError(t, err)
		assert.Equal(t, SourceLedger, result.Source)
		assert.True(t, result.Degraded())
		require.Len(t, result.Failures, 1)
		assert.Contains(t, result.Failures[0].Error(), "vault api down")
	})

	t.Run("falls through to mock", func(t *testing.T) {
		result, err := Run(ctx, nil, "positions",
			Live(failing("vault api down")),
			Ledger(failing("horizon down")),
			Mock(func() []string { return []string{"mock"} }),
		)
		require.NoError(t, err)
		assert.Equal(t, SourceMock, result.Source)
		assert.Equal(t, []string{"mock"}, result.Value)
		assert.Len(t, result.Failures, 2)
	})

	t.Run("recovers panicking tier", func(t *testing.T) {
		result, err := Run(ctx, nil, "positions",
			Live(func(context.Context) ([]string, error) { panic("decoder bug") }),
			Mock(func() []string { return []string{"mock"} }),
		)
		require.NoError(t, err)
		assert.Equal(t, SourceMock, result.Source)
		assert.Contains(t, result.Failures[0].Error(), "decoder bug")
	})

	t.Run("all tiers fail", func(t *testing.T) {
		_, err := Run(ctx, nil, "positions",
			Live(failing("vault api down")),
			Ledger(failing("horizon down")),
			Tier[[]string]{Source: SourceMock},
		)
		require.Error(t, err)
		assert.Equal(t, toolerr.UpstreamUnavailable, toolerr.KindOf(err))
		assert.Contains(t, err.Error(), "vault api down")
		assert.Contains(t, err.Error(), "horizon down")
		assert.Contains(t, err.Error(), "tier not configured")
	})

	t.Run("no tiers", func(t *testing.T) {
		_, err := Run[int](ctx, nil, "nothing")
		assert.Equal(t, toolerr.UpstreamUnavailable, toolerr.KindOf(err))
	})
}
