package swap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattt/stellar-mcp/internal/amount"
	"github.com/mattt/stellar-mcp/internal/fallback"
	"github.com/mattt/stellar-mcp/internal/horizon"
	"github.com/mattt/stellar-mcp/internal/toolerr"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// offline returns an adapter with no swap API, so every call is served by mock
func offline(opts ...Option) *Adapter {
	return New(append([]Option{WithClock(fixedClock)}, opts...)...)
}

type stubLedger struct {
	balances []horizon.Balance
	err      error
}

func (s stubLedger) Balances(context.Context, string) ([]horizon.Balance, error) {
	return s.balances, s.err
}

func keys(t *testing.T, v any) []string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestAdapter_SwapQuote_Mock(t *testing.T) {
	a := offline()

	result, err := a.SwapQuote(context.Background(), "native", "USDC-ADDR", "1000", "0.5")
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceMock, result.Source)

	quote := result.Value
	assert.Equal(t, "119.64", quote.AmountOut)
	assert.Equal(t, "119.0418", quote.MinimumReceived)
	assert.Equal(t, "1000", quote.AmountIn)
	assert.Equal(t, "0.5", quote.Slippage)
	assert.Equal(t, "3", quote.Fee)
	assert.Equal(t, "0", quote.PriceImpact)
	assert.Equal(t, []string{"native", "USDC-ADDR"}, quote.Route)
	assert.Equal(t, TokenXLM, quote.TokenIn)
	assert.Equal(t, "USDC-ADDR", quote.TokenOut.Address)
	assert.Equal(t, "2026-03-01T12:00:30Z", quote.ExpiresAt)
}

func TestAdapter_SwapQuote_PriceImpact(t *testing.T) {
	a := offline()

	result, err := a.SwapQuote(context.Background(), "XLM", "USDC", "2500000", "1")
	require.NoError(t, err)
	// 2500000 / (2500000 + 2500000)
	assert.Equal(t, "50", result.Value.PriceImpact)
}

func TestAdapter_SwapQuote_Monotonic(t *testing.T) {
	a := offline()
	ctx := context.Background()

	quote := func(amountIn, slippage string) Quote {
		result, err := a.SwapQuote(ctx, "XLM", "USDC", amountIn, slippage)
		require.NoError(t, err)
		return result.Value
	}

	t.Run("amountIn", func(t *testing.T) {
		prev := quote("1", "0.5")
		for _, in := range []string{"10", "100.5", "1000", "25000"} {
			next := quote(in, "0.5")
			assert.True(t, amount.Must(next.AmountOut).GreaterThan(amount.Must(prev.AmountOut)), in)
			assert.True(t, amount.Must(next.MinimumReceived).GreaterThan(amount.Must(prev.MinimumReceived)), in)
			prev = next
		}
	})

	t.Run("amountIn below seven digits", func(t *testing.T) {
		prev := quote("0.0000001", "0.5")
		assert.True(t, amount.Must(prev.AmountOut).IsPositive(), prev.AmountOut)
		for _, in := range []string{"0.0000002", "0.00000021", "0.0000003"} {
			next := quote(in, "0.5")
			assert.True(t, amount.Must(next.AmountOut).GreaterThan(amount.Must(prev.AmountOut)), in)
			assert.True(t, amount.Must(next.MinimumReceived).GreaterThan(amount.Must(prev.MinimumReceived)), in)
			prev = next
		}
	})

	t.Run("slippage", func(t *testing.T) {
		prev := quote("1000", "0")
		for _, slip := range []string{"0.1", "0.5", "3", "50"} {
			next := quote("1000", slip)
			assert.Equal(t, prev.AmountOut, next.AmountOut)
			assert.True(t, amount.Must(next.MinimumReceived).LessThan(amount.Must(prev.MinimumReceived)), slip)
			prev = next
		}
	})
}

func TestAdapter_SwapQuote_InvalidArguments(t *testing.T) {
	a := offline()
	ctx := context.Background()

	tests := []struct {
		name     string
		in, out  string
		amountIn string
		slippage string
	}{
		{name: "missing token", in: "", out: "USDC", amountIn: "1"},
		{name: "empty amount", in: "XLM", out: "USDC", amountIn: ""},
		{name: "non-numeric amount", in: "XLM", out: "USDC", amountIn: "lots"},
		{name: "zero amount", in: "XLM", out: "USDC", amountIn: "0"},
		{name: "negative amount", in: "XLM", out: "USDC", amountIn: "-5"},
		{name: "non-numeric slippage", in: "XLM", out: "USDC", amountIn: "1", slippage: "half"},
		{name: "slippage over range", in: "XLM", out: "USDC", amountIn: "1", slippage: "100"},
		{name: "negative slippage", in: "XLM", out: "USDC", amountIn: "1", slippage: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SwapQuote(ctx, tt.in, tt.out, tt.amountIn, tt.slippage)
			require.Error(t, err)
			assert.Equal(t, toolerr.MalformedArgument, toolerr.KindOf(err))
		})
	}
}

func TestAdapter_SwapQuote_Live(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "mainnet", r.URL.Query().Get("network"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"amountOut": "120.5", "minimumReceived": "119.9", "amountIn": "1000"}`))
	}))
	defer ts.Close()

	a := offline(WithBaseURL(ts.URL+"/"), WithClient(ts.Client()), WithNetwork("mainnet"))
	result, err := a.SwapQuote(context.Background(), "XLM", "USDC", "1000", "")
	require.NoError(t, err)

	assert.Equal(t, fallback.SourceLive, result.Source)
	assert.Equal(t, "120.5", result.Value.AmountOut)
	assert.Equal(t, []string{"XLM", "USDC"}, result.Value.Route)
	assert.Equal(t, map[string]string{
		"tokenIn":  "XLM",
		"tokenOut": "USDC",
		"amountIn": "1000",
		"slippage": "0.5",
	}, got)
}

func TestAdapter_TokenPairs(t *testing.T) {
	a := offline()
	ctx := context.Background()

	all, err := a.TokenPairs(ctx, "")
	require.NoError(t, err)
	require.Len(t, all.Value, len(fixturePairs))

	for _, token := range []string{"XLM", "USDC", TokenEURC.Address, "AQUA", "xlm", "DOGE"} {
		t.Run(token, func(t *testing.T) {
			filtered, err := a.TokenPairs(ctx, token)
			require.NoError(t, err)
			for _, p := range filtered.Value {
				assert.Contains(t, all.Value, p)
				assert.True(t, matchesToken(p, token))
			}
			var want int
			for _, p := range all.Value {
				if matchesToken(p, token) {
					want++
				}
			}
			assert.Len(t, filtered.Value, want)
		})
	}

	filtered, err := a.TokenPairs(ctx, "xlm")
	require.NoError(t, err)
	assert.Empty(t, filtered.Value, "symbol match is case-sensitive")
}

func TestAdapter_TokenPairs_LiveUsesSameFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pairs", r.URL.Path)
		json.NewEncoder(w).Encode(fixturePairs)
	}))
	defer ts.Close()

	a := offline(WithBaseURL(ts.URL), WithClient(ts.Client()))
	live, err := a.TokenPairs(context.Background(), "AQUA")
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceLive, live.Source)

	mock, err := offline().TokenPairs(context.Background(), "AQUA")
	require.NoError(t, err)
	assert.Equal(t, mock.Value, live.Value)
}

func TestAdapter_TokenPairs_FallsBackOnBackendError(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{`))
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(handler)
			defer ts.Close()

			a := offline(WithBaseURL(ts.URL), WithClient(ts.Client()))
			result, err := a.TokenPairs(context.Background(), "XLM")
			require.NoError(t, err)
			assert.Equal(t, fallback.SourceMock, result.Source)
			assert.Len(t, result.Value, 2)
			require.Len(t, result.Failures, 1)
		})
	}
}

func TestAdapter_NullListsServeEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer ts.Close()

	a := offline(WithBaseURL(ts.URL), WithClient(ts.Client()))
	ctx := context.Background()

	pairs, err := a.TokenPairs(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceLive, pairs.Source)
	data, err := json.Marshal(pairs.Value)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	pools, err := a.LiquidityPools(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceLive, pools.Source)
	data, err = json.Marshal(pools.Value)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestAdapter_LiquidityPools(t *testing.T) {
	a := offline()
	ctx := context.Background()

	all, err := a.LiquidityPools(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all.Value, len(fixturePairs))

	one, err := a.LiquidityPools(ctx, fixturePairs[1].Address)
	require.NoError(t, err)
	require.Len(t, one.Value, 1)
	assert.Equal(t, "18.2", one.Value[0].APR)
	assert.Equal(t, TokenAQUA, one.Value[0].Token1)

	none, err := a.LiquidityPools(ctx, "CUNKNOWN")
	require.NoError(t, err)
	assert.NotNil(t, none.Value)
	assert.Empty(t, none.Value)
}

func TestAdapter_TokenPrice(t *testing.T) {
	a := offline()
	ctx := context.Background()

	t.Run("usd", func(t *testing.T) {
		result, err := a.TokenPrice(ctx, TokenXLM.Address, "")
		require.NoError(t, err)
		assert.Equal(t, "0.12", result.Value.Price)
		assert.Equal(t, "USD", result.Value.BaseCurrency)
		assert.Equal(t, "2.35", result.Value.Change24h)
		assert.Equal(t, "2026-03-01T12:00:00Z", result.Value.UpdatedAt)
	})

	t.Run("in another token", func(t *testing.T) {
		result, err := a.TokenPrice(ctx, "USDC", "XLM")
		require.NoError(t, err)
		assert.Equal(t, "8.3333333", result.Value.Price)
	})

	t.Run("unknown token", func(t *testing.T) {
		result, err := a.TokenPrice(ctx, "CUNKNOWN", "USD")
		require.NoError(t, err)
		assert.Equal(t, "1", result.Value.Price)
		assert.Equal(t, "CUNKNOWN", result.Value.Token.Address)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := a.TokenPrice(ctx, "", "USD")
		assert.Equal(t, toolerr.MalformedArgument, toolerr.KindOf(err))
	})
}

func TestAdapter_UserPositions(t *testing.T) {
	ctx := context.Background()

	t.Run("ledger pool shares", func(t *testing.T) {
		a := offline(WithLedger(stubLedger{balances: []horizon.Balance{
			{AssetType: horizon.AssetLiquidityPoolShares, LiquidityPoolID: "pool-1", Balance: "12.5"},
			{AssetType: horizon.AssetCreditAlphanum4, AssetCode: "USDC", Balance: "100"},
			{AssetType: horizon.AssetNative, Balance: "50"},
		}}))

		result, err := a.UserPositions(ctx, "GUSER")
		require.NoError(t, err)
		assert.Equal(t, fallback.SourceLedger, result.Source)
		require.Len(t, result.Value, 1)
		assert.Equal(t, "pool-1", result.Value[0].PoolID)
		assert.Equal(t, "12.5", result.Value[0].Shares)
		assert.Equal(t, "0", result.Value[0].Value)
		assert.Equal(t, "0", result.Value[0].Pnl)
	})

	t.Run("ledger down", func(t *testing.T) {
		a := offline(WithLedger(stubLedger{err: errors.New("horizon unreachable")}))

		result, err := a.UserPositions(ctx, "GUSER")
		require.NoError(t, err)
		assert.Equal(t, fallback.SourceMock, result.Source)
		assert.Len(t, result.Value, len(fixturePositions))
	})

	t.Run("same keys on every tier", func(t *testing.T) {
		ledger, err := offline(WithLedger(stubLedger{balances: []horizon.Balance{
			{AssetType: horizon.AssetLiquidityPoolShares, LiquidityPoolID: "pool-1", Balance: "1"},
		}})).UserPositions(ctx, "GUSER")
		require.NoError(t, err)
		mock, err := offline().UserPositions(ctx, "GUSER")
		require.NoError(t, err)

		assert.Equal(t, keys(t, mock.Value[0]), keys(t, ledger.Value[0]))
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := offline().UserPositions(ctx, "")
		assert.Equal(t, toolerr.MalformedArgument, toolerr.KindOf(err))
	})
}
