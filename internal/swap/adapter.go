// Package swap serves trading-pair, quote, pool, price, and LP-position data.
//
// Every operation tries the swap API first and falls back to the fixture
// table. A call is served entirely by one tier.
package swap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mattt/stellar-mcp/internal"
	"github.com/mattt/stellar-mcp/internal/amount"
	"github.com/mattt/stellar-mcp/internal/fallback"
	"github.com/mattt/stellar-mcp/internal/horizon"
	"github.com/mattt/stellar-mcp/internal/toolerr"
)

// DefaultSlippage is the slippage percentage applied when none is given
const DefaultSlippage = "0.5"

// DefaultBaseCurrency is the currency prices are quoted in when none is given
const DefaultBaseCurrency = "USD"

var errNotConfigured = errors.New("swap api base url not configured")

// Adapter fronts the swap-data API
type Adapter struct {
	baseURL string
	network string
	client  *http.Client
	ledger  horizon.Ledger
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Adapter
type Option func(*Adapter)

// WithBaseURL sets the swap API base URL
func WithBaseURL(baseURL string) Option {
	return func(a *Adapter) {
		a.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithNetwork sets the network sent with every request
func WithNetwork(network string) Option {
	return func(a *Adapter) {
		a.network = network
	}
}

// WithClient sets the HTTP client used for swap API calls
func WithClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// WithLedger sets the ledger used to look up LP share balances
func WithLedger(ledger horizon.Ledger) Option {
	return func(a *Adapter) {
		a.ledger = ledger
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithClock overrides the clock used for quote expiry and price timestamps
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// New creates a swap adapter
func New(opts ...Option) *Adapter {
	a := &Adapter{
		network: "testnet",
		client:  http.DefaultClient,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TokenPairs lists pairs, keeping only those with token on either side
// when token is non-empty
func (a *Adapter) TokenPairs(ctx context.Context, token string) (fallback.Result[[]Pair], error) {
	return fallback.Run(ctx, a.logger, "token_pairs",
		fallback.Live(func(ctx context.Context) ([]Pair, error) {
			var pairs []Pair
			if err := a.get(ctx, "/pairs", nil, &pairs); err != nil {
				return nil, err
			}
			return filterPairs(pairs, token), nil
		}),
		fallback.Mock(func() []Pair { return mockPairs(token) }),
	)
}

// SwapQuote quotes swapping amountIn of tokenIn for tokenOut.
// slippage is a percentage; an empty slippage means DefaultSlippage.
func (a *Adapter) SwapQuote(ctx context.Context, tokenIn, tokenOut, amountIn, slippage string) (fallback.Result[Quote], error) {
	if slippage == "" {
		slippage = DefaultSlippage
	}
	if tokenIn == "" || tokenOut == "" {
		return fallback.Result[Quote]{}, toolerr.New(toolerr.MalformedArgument, "tokenIn and tokenOut are required")
	}
	in, err := amount.Parse(amountIn)
	if err != nil {
		return fallback.Result[Quote]{}, toolerr.Wrap(toolerr.MalformedArgument, err, "amountIn")
	}
	if !in.IsPositive() {
		return fallback.Result[Quote]{}, toolerr.New(toolerr.MalformedArgument, "amountIn must be positive, got %s", amountIn)
	}
	slip, err := amount.Parse(slippage)
	if err != nil {
		return fallback.Result[Quote]{}, toolerr.Wrap(toolerr.MalformedArgument, err, "slippage")
	}
	if slip.IsNegative() || slip.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return fallback.Result[Quote]{}, toolerr.New(toolerr.MalformedArgument, "slippage must be in [0, 100), got %s", slippage)
	}

	return fallback.Run(ctx, a.logger, "swap_quote",
		fallback.Live(func(ctx context.Context) (Quote, error) {
			body := map[string]string{
				"tokenIn":  tokenIn,
				"tokenOut": tokenOut,
				"amountIn": amountIn,
				"slippage": slippage,
			}
			var quote Quote
			if err := a.post(ctx, "/quote", body, &quote); err != nil {
				return Quote{}, err
			}
			if quote.AmountOut == "" {
				return Quote{}, fmt.Errorf("quote response has no amountOut")
			}
			if len(quote.Route) == 0 {
				quote.Route = []string{tokenIn, tokenOut}
			}
			return quote, nil
		}),
		fallback.Mock(func() Quote { return mockQuote(tokenIn, tokenOut, in, slip, a.now()) }),
	)
}

// LiquidityPools lists pools, or only the pool of pairAddress when given
func (a *Adapter) LiquidityPools(ctx context.Context, pairAddress string) (fallback.Result[[]Pool], error) {
	return fallback.Run(ctx, a.logger, "liquidity_pools",
		fallback.Live(func(ctx context.Context) ([]Pool, error) {
			var pools []Pool
			if err := a.get(ctx, "/pools", nil, &pools); err != nil {
				return nil, err
			}
			return filterPools(pools, pairAddress), nil
		}),
		fallback.Mock(func() []Pool { return mockPools(pairAddress) }),
	)
}

// TokenPrice returns the price of tokenAddress in baseCurrency
func (a *Adapter) TokenPrice(ctx context.Context, tokenAddress, baseCurrency string) (fallback.Result[PriceRecord], error) {
	if tokenAddress == "" {
		return fallback.Result[PriceRecord]{}, toolerr.New(toolerr.MalformedArgument, "tokenAddress is required")
	}
	if baseCurrency == "" {
		baseCurrency = DefaultBaseCurrency
	}

	return fallback.Run(ctx, a.logger, "token_price",
		fallback.Live(func(ctx context.Context) (PriceRecord, error) {
			query := url.Values{"token": {tokenAddress}, "base": {baseCurrency}}
			var price PriceRecord
			if err := a.get(ctx, "/price", query, &price); err != nil {
				return PriceRecord{}, err
			}
			if price.Price == "" {
				return PriceRecord{}, fmt.Errorf("price response has no price")
			}
			return price, nil
		}),
		fallback.Mock(func() PriceRecord { return mockPrice(tokenAddress, baseCurrency, a.now()) }),
	)
}

// UserPositions lists the LP positions of userAddress from ledger share
// balances. Value and profit are not computed on the ledger tier.
func (a *Adapter) UserPositions(ctx context.Context, userAddress string) (fallback.Result[[]Position], error) {
	if userAddress == "" {
		return fallback.Result[[]Position]{}, toolerr.New(toolerr.MalformedArgument, "userAddress is required")
	}

	return fallback.Run(ctx, a.logger, "lp_positions",
		fallback.Ledger(func(ctx context.Context) ([]Position, error) {
			if a.ledger == nil {
				return nil, errors.New("ledger not configured")
			}
			balances, err := a.ledger.Balances(ctx, userAddress)
			if err != nil {
				return nil, err
			}
			positions := []Position{}
			for _, b := range horizon.Filter(balances, horizon.Balance.IsPoolShare) {
				positions = append(positions, Position{
					PoolID:     b.LiquidityPoolID,
					Shares:     b.Balance,
					Value:      "0",
					Pnl:        "0",
					PnlPercent: "0",
				})
			}
			return positions, nil
		}),
		fallback.Mock(mockPositions),
	)
}

func (a *Adapter) get(ctx context.Context, path string, query url.Values, out any) error {
	u, err := a.endpoint(path, query)
	if err != nil {
		return err
	}
	return internal.DoJSON(ctx, a.client, http.MethodGet, u, nil, out)
}

func (a *Adapter) post(ctx context.Context, path string, in, out any) error {
	u, err := a.endpoint(path, nil)
	if err != nil {
		return err
	}
	return internal.DoJSON(ctx, a.client, http.MethodPost, u, in, out)
}

func (a *Adapter) endpoint(path string, query url.Values) (string, error) {
	if a.baseURL == "" {
		return "", errNotConfigured
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("network", a.network)
	return a.baseURL + path + "?" + query.Encode(), nil
}
