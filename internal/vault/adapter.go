// Package vault serves yield-vault, strategy, position, and allocation data.
//
// Reads try the vault API first. Position lookups then try the Horizon
// ledger, and every read ends with the fixture table. Each tier returns the
// same record types.
package vault

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mattt/stellar-mcp/internal"
	"github.com/mattt/stellar-mcp/internal/amount"
	"github.com/mattt/stellar-mcp/internal/fallback"
	"github.com/mattt/stellar-mcp/internal/horizon"
	"github.com/mattt/stellar-mcp/internal/toolerr"
)

// Defaults applied when an optional argument is empty
const (
	DefaultTimeframe   = "1y"
	DefaultPerformance = "30d"
	DefaultPeriod      = "30d"
	DefaultTimeHorizon = "1y"
)

var errNotConfigured = errors.New("vault api base url not configured")

// Adapter fronts the vault-data API
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

// WithBaseURL sets the vault API base URL
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

// WithClient sets the HTTP client used for vault API calls
func WithClient(client *http.Client) Option {
	return func(a *Adapter) {
		a.client = client
	}
}

// WithLedger sets the ledger consulted when the vault API cannot list positions
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

// WithClock overrides the clock used for history dates
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// New creates a vault adapter
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

// AvailableVaults lists vaults with exactly riskLevel and an APY of at least
// minAPY. Empty arguments disable their filter.
func (a *Adapter) AvailableVaults(ctx context.Context, riskLevel, minAPY string) (fallback.Result[[]Vault], error) {
	if err := checkRiskLevel(riskLevel); err != nil {
		return fallback.Result[[]Vault]{}, err
	}
	var floor *decimal.Decimal
	if minAPY != "" {
		d, err := amount.Parse(minAPY)
		if err != nil {
			return fallback.Result[[]Vault]{}, toolerr.Wrap(toolerr.MalformedArgument, err, "minApy")
		}
		floor = &d
	}

	return fallback.Run(ctx, a.logger, "available_vaults",
		fallback.Live(func(ctx context.Context) ([]Vault, error) {
			var vaults []Vault
			if err := a.get(ctx, "/vaults", nil, &vaults); err != nil {
				return nil, err
			}
			return filterVaults(vaults, riskLevel, floor), nil
		}),
		fallback.Mock(func() []Vault { return filterVaults(Vaults(), riskLevel, floor) }),
	)
}

// VaultDetails returns the vault at address. When the vault API cannot
// answer and the address is not cataloged, the first cataloged vault is
// returned instead.
func (a *Adapter) VaultDetails(ctx context.Context, address string) (fallback.Result[Vault], error) {
	if address == "" {
		return fallback.Result[Vault]{}, toolerr.New(toolerr.MalformedArgument, "vaultAddress is required")
	}

	return fallback.Run(ctx, a.logger, "vault_details",
		fallback.Live(func(ctx context.Context) (Vault, error) {
			var v Vault
			if err := a.get(ctx, "/vaults/"+url.PathEscape(address), nil, &v); err != nil {
				return Vault{}, err
			}
			if v.Address == "" {
				return Vault{}, toolerr.New(toolerr.NotFound, "vault %s not found", address)
			}
			return v, nil
		}),
		fallback.Mock(func() Vault {
			v, ok := findVault(address)
			if !ok {
				a.logger.Info("vault not cataloged, substituting first vault", "address", address, "substitute", fixtureVaults[0].Address)
				v = fixtureVaults[0]
			}
			return v
		}),
	)
}

// YieldStrategies lists strategies with exactly riskLevel that use a
// protocol containing protocol, ignoring case
func (a *Adapter) YieldStrategies(ctx context.Context, riskLevel, protocol string) (fallback.Result[[]Strategy], error) {
	if err := checkRiskLevel(riskLevel); err != nil {
		return fallback.Result[[]Strategy]{}, err
	}

	return fallback.Run(ctx, a.logger, "yield_strategies",
		fallback.Live(func(ctx context.Context) ([]Strategy, error) {
			var strategies []Strategy
			if err := a.get(ctx, "/strategies", nil, &strategies); err != nil {
				return nil, err
			}
			return filterStrategies(strategies, riskLevel, protocol), nil
		}),
		fallback.Mock(func() []Strategy {
			return filterStrategies(slices.Clone(fixtureStrategies), riskLevel, protocol)
		}),
	)
}

// CalculateDeposit projects the yield and fees of depositing depositAmount
// into the vault at address over timeframe. The vault is resolved with
// VaultDetails, so the projection comes from the tier that served it.
func (a *Adapter) CalculateDeposit(ctx context.Context, address, depositAmount, timeframe string) (fallback.Result[DepositProjection], error) {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	deposit, err := positiveAmount("depositAmount", depositAmount)
	if err != nil {
		return fallback.Result[DepositProjection]{}, err
	}

	details, err := a.VaultDetails(ctx, address)
	if err != nil {
		return fallback.Result[DepositProjection]{}, err
	}
	return fallback.Result[DepositProjection]{
		Value:    project(details.Value, deposit, timeframe),
		Source:   details.Source,
		Failures: details.Failures,
	}, nil
}

// PortfolioPerformance reports how userAddress's vault holdings performed
// over timeframe
func (a *Adapter) PortfolioPerformance(ctx context.Context, userAddress, timeframe string) (fallback.Result[PerformanceReport], error) {
	if userAddress == "" {
		return fallback.Result[PerformanceReport]{}, toolerr.New(toolerr.MalformedArgument, "userAddress is required")
	}
	if timeframe == "" {
		timeframe = DefaultPerformance
	}

	return fallback.Run(ctx, a.logger, "portfolio_performance",
		fallback.Live(func(ctx context.Context) (PerformanceReport, error) {
			var report PerformanceReport
			query := url.Values{"timeframe": {timeframe}}
			if err := a.get(ctx, "/users/"+url.PathEscape(userAddress)+"/performance", query, &report); err != nil {
				return PerformanceReport{}, err
			}
			if report.TotalValue == "" {
				return PerformanceReport{}, errors.New("performance response has no totalValue")
			}
			if report.History == nil {
				report.History = []HistoryPoint{}
			}
			return report, nil
		}),
		fallback.Mock(func() PerformanceReport { return mockPerformance(userAddress, timeframe, a.now()) }),
	)
}

// UserPositions lists the vault positions of userAddress. When the vault API
// is down, issued-asset balances on the ledger stand in for positions at a
// price of 1.0 with no profit or loss.
func (a *Adapter) UserPositions(ctx context.Context, userAddress string) (fallback.Result[[]Position], error) {
	if userAddress == "" {
		return fallback.Result[[]Position]{}, toolerr.New(toolerr.MalformedArgument, "userAddress is required")
	}

	return fallback.Run(ctx, a.logger, "vault_positions",
		fallback.Live(func(ctx context.Context) ([]Position, error) {
			var positions []Position
			if err := a.get(ctx, "/users/"+url.PathEscape(userAddress)+"/positions", nil, &positions); err != nil {
				return nil, err
			}
			if positions == nil {
				positions = []Position{}
			}
			return positions, nil
		}),
		fallback.Ledger(func(ctx context.Context) ([]Position, error) {
			if a.ledger == nil {
				return nil, errors.New("ledger not configured")
			}
			balances, err := a.ledger.Balances(ctx, userAddress)
			if err != nil {
				return nil, err
			}
			positions := []Position{}
			for _, b := range horizon.Filter(balances, horizon.Balance.IsCustomAsset) {
				positions = append(positions, Position{
					VaultAddress:    b.AssetIssuer,
					VaultName:       b.AssetCode,
					Shares:          b.Balance,
					DepositedAmount: b.Balance,
					CurrentValue:    b.Balance,
					EntryPrice:      "1.0",
					CurrentPrice:    "1.0",
					Pnl:             "0",
					PnlPercent:      "0",
				})
			}
			return positions, nil
		}),
		fallback.Mock(mockPositions),
	)
}

// OptimizeAllocation splits totalAmount across the cataloged vaults with
// fixed weights for riskTolerance. Plans are computed from the fixture
// catalog, never the vault API.
func (a *Adapter) OptimizeAllocation(ctx context.Context, totalAmount, riskTolerance, timeHorizon string) (fallback.Result[AllocationPlan], error) {
	if timeHorizon == "" {
		timeHorizon = DefaultTimeHorizon
	}
	total, err := positiveAmount("totalAmount", totalAmount)
	if err != nil {
		return fallback.Result[AllocationPlan]{}, err
	}
	if !slices.Contains(RiskTolerances, riskTolerance) {
		return fallback.Result[AllocationPlan]{}, toolerr.New(toolerr.MalformedArgument, "riskTolerance must be one of %v, got %q", RiskTolerances, riskTolerance)
	}

	return fallback.Run(ctx, a.logger, "optimize_allocation",
		fallback.Tier[AllocationPlan]{
			Source: fallback.SourceMock,
			Fetch: func(context.Context) (AllocationPlan, error) {
				return plan(total, riskTolerance, timeHorizon)
			},
		},
	)
}

// VaultAnalytics reports metrics and a five-point history for the vault at
// address
func (a *Adapter) VaultAnalytics(ctx context.Context, address, period string) (fallback.Result[AnalyticsReport], error) {
	if address == "" {
		return fallback.Result[AnalyticsReport]{}, toolerr.New(toolerr.MalformedArgument, "vaultAddress is required")
	}
	if period == "" {
		period = DefaultPeriod
	}

	return fallback.Run(ctx, a.logger, "vault_analytics",
		fallback.Live(func(ctx context.Context) (AnalyticsReport, error) {
			var report AnalyticsReport
			query := url.Values{"period": {period}}
			if err := a.get(ctx, "/vaults/"+url.PathEscape(address)+"/analytics", query, &report); err != nil {
				return AnalyticsReport{}, err
			}
			if report.VaultAddress == "" {
				return AnalyticsReport{}, errors.New("analytics response has no vaultAddress")
			}
			if report.History == nil {
				report.History = []HistoryPoint{}
			}
			return report, nil
		}),
		fallback.Mock(func() AnalyticsReport { return mockAnalytics(address, period, a.now()) }),
	)
}

func checkRiskLevel(riskLevel string) error {
	if riskLevel != "" && !slices.Contains(RiskLevels, riskLevel) {
		return toolerr.New(toolerr.MalformedArgument, "riskLevel must be one of %v, got %q", RiskLevels, riskLevel)
	}
	return nil
}

func positiveAmount(name, s string) (decimal.Decimal, error) {
	d, err := amount.Parse(s)
	if err != nil {
		return decimal.Zero, toolerr.Wrap(toolerr.MalformedArgument, err, "%s", name)
	}
	if !d.IsPositive() {
		return decimal.Zero, toolerr.New(toolerr.MalformedArgument, "%s must be positive, got %s", name, s)
	}
	return d, nil
}

func (a *Adapter) get(ctx context.Context, path string, query url.Values, out any) error {
	if a.baseURL == "" {
		return errNotConfigured
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("network", a.network)
	return internal.DoJSON(ctx, a.client, http.MethodGet, a.baseURL+path+"?"+query.Encode(), nil, out)
}
