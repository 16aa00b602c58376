// Package catalog declares the tool operations and binds them to the adapters.
package catalog

import (
	"context"

	"github.com/mattt/stellar-mcp/internal/analysis"
	"github.com/mattt/stellar-mcp/internal/dispatch"
	"github.com/mattt/stellar-mcp/internal/fallback"
	"github.com/mattt/stellar-mcp/internal/swap"
	"github.com/mattt/stellar-mcp/internal/vault"
)

// Swaps is the swap-data surface the catalog depends on
type Swaps interface {
	TokenPairs(ctx context.Context, token string) (fallback.Result[[]swap.Pair], error)
	SwapQuote(ctx context.Context, tokenIn, tokenOut, amountIn, slippage string) (fallback.Result[swap.Quote], error)
	LiquidityPools(ctx context.Context, pairAddress string) (fallback.Result[[]swap.Pool], error)
	TokenPrice(ctx context.Context, tokenAddress, baseCurrency string) (fallback.Result[swap.PriceRecord], error)
	UserPositions(ctx context.Context, userAddress string) (fallback.Result[[]swap.Position], error)
}

// Vaults is the vault-data surface the catalog depends on
type Vaults interface {
	AvailableVaults(ctx context.Context, riskLevel, minAPY string) (fallback.Result[[]vault.Vault], error)
	VaultDetails(ctx context.Context, address string) (fallback.Result[vault.Vault], error)
	YieldStrategies(ctx context.Context, riskLevel, protocol string) (fallback.Result[[]vault.Strategy], error)
	CalculateDeposit(ctx context.Context, address, depositAmount, timeframe string) (fallback.Result[vault.DepositProjection], error)
	PortfolioPerformance(ctx context.Context, userAddress, timeframe string) (fallback.Result[vault.PerformanceReport], error)
	UserPositions(ctx context.Context, userAddress string) (fallback.Result[[]vault.Position], error)
	OptimizeAllocation(ctx context.Context, totalAmount, riskTolerance, timeHorizon string) (fallback.Result[vault.AllocationPlan], error)
	VaultAnalytics(ctx context.Context, address, period string) (fallback.Result[vault.AnalyticsReport], error)
}

// Combiner produces the cross-adapter summary
type Combiner interface {
	Combined(ctx context.Context, userAddress string, includeRecommendations bool) (analysis.Summary, error)
}

var (
	_ Swaps    = (*swap.Adapter)(nil)
	_ Vaults   = (*vault.Adapter)(nil)
	_ Combiner = (*analysis.Analyzer)(nil)
)

// Tool names, in catalog order
const (
	GetTokenPairs           = "get_token_pairs"
	GetSwapQuote            = "get_swap_quote"
	GetLiquidityPools       = "get_liquidity_pools"
	GetTokenPrice           = "get_token_price"
	GetUserLPPositions      = "get_user_lp_positions"
	GetAvailableVaults      = "get_available_vaults"
	GetVaultDetails         = "get_vault_details"
	GetYieldStrategies      = "get_yield_strategies"
	CalculateVaultDeposit   = "calculate_vault_deposit"
	GetPortfolioPerformance = "get_portfolio_performance"
	GetUserVaultPositions   = "get_user_vault_positions"
	OptimizeYieldAllocation = "optimize_yield_allocation"
	GetVaultAnalytics       = "get_vault_analytics"
	GetCombinedAnalysis     = "get_combined_analysis"
)

func str(name, description string) dispatch.Param {
	return dispatch.Param{Name: name, Type: dispatch.TypeString, Description: description}
}

func required(p dispatch.Param) dispatch.Param {
	p.Required = true
	return p
}

func withDefault(p dispatch.Param, v any) dispatch.Param {
	p.Default = v
	return p
}

func decimalString(p dispatch.Param) dispatch.Param {
	p.Decimal = true
	return p
}

func oneOf(p dispatch.Param, values ...string) dispatch.Param {
	p.Enum = values
	return p
}

func single[T any](key string, r fallback.Result[T], err error) (dispatch.Payload, error) {
	if err != nil {
		return nil, err
	}
	return dispatch.Payload{key: r.Value, "source": r.Source}, nil
}

func list[T any](key string, r fallback.Result[[]T], err error) (dispatch.Payload, error) {
	if err != nil {
		return nil, err
	}
	return dispatch.Payload{key: r.Value, "count": len(r.Value), "source": r.Source}, nil
}

// Operations returns the tool catalog in its advertised order
func Operations(swaps Swaps, vaults Vaults, combiner Combiner) []dispatch.Operation {
	riskLevel := oneOf(str("riskLevel", "Only include entries with this risk level"), vault.RiskLevels...)

	return []dispatch.Operation{
		{
			Name:        GetTokenPairs,
			Description: "List trading pairs, optionally only those containing a token symbol or address",
			Params: []dispatch.Param{
				str("token", "Token symbol or contract address to filter by"),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := swaps.TokenPairs(ctx, args.String("token"))
				return list("pairs", r, err)
			},
		},
		{
			Name:        GetSwapQuote,
			Description: "Quote the output of swapping an amount of one token for another",
			Params: []dispatch.Param{
				required(str("tokenIn", "Token to sell, as symbol, contract address, or \"native\"")),
				required(str("tokenOut", "Token to buy, as symbol, contract address, or \"native\"")),
				required(decimalString(str("amountIn", "Amount of tokenIn to sell, as a decimal string"))),
				withDefault(decimalString(str("slippage", "Maximum slippage percentage")), swap.DefaultSlippage),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := swaps.SwapQuote(ctx, args.String("tokenIn"), args.String("tokenOut"), args.String("amountIn"), args.String("slippage"))
				return single("quote", r, err)
			},
		},
		{
			Name:        GetLiquidityPools,
			Description: "List liquidity pools, or the pool of one pair",
			Params: []dispatch.Param{
				str("pairAddress", "Pair contract address"),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := swaps.LiquidityPools(ctx, args.String("pairAddress"))
				return list("pools", r, err)
			},
		},
		{
			Name:        GetTokenPrice,
			Description: "Get the current price of a token",
			Params: []dispatch.Param{
				required(str("tokenAddress", "Token contract address or symbol")),
				withDefault(str("baseCurrency", "Currency or token symbol to quote the price in"), swap.DefaultBaseCurrency),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := swaps.TokenPrice(ctx, args.String("tokenAddress"), args.String("baseCurrency"))
				return single("price", r, err)
			},
		},
		{
			Name:        GetUserLPPositions,
			Description: "List a user's liquidity-pool positions",
			Params: []dispatch.Param{
				required(str("userAddress", "Stellar account address")),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := swaps.UserPositions(ctx, args.String("userAddress"))
				payload, err := list("positions", r, err)
				if err == nil {
					payload["userAddress"] = args.String("userAddress")
				}
				return payload, err
			},
		},
		{
			Name:        GetAvailableVaults,
			Description: "List yield vaults, optionally filtered by risk level and minimum APY",
			Params: []dispatch.Param{
				riskLevel,
				decimalString(str("minApy", "Minimum APY percentage")),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.AvailableVaults(ctx, args.String("riskLevel"), args.String("minApy"))
				return list("vaults", r, err)
			},
		},
		{
			Name:        GetVaultDetails,
			Description: "Get the details of one vault",
			Params: []dispatch.Param{
				required(str("vaultAddress", "Vault contract address")),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.VaultDetails(ctx, args.String("vaultAddress"))
				return single("vault", r, err)
			},
		},
		{
			Name:        GetYieldStrategies,
			Description: "List yield strategies, optionally filtered by risk level and protocol",
			Params: []dispatch.Param{
				riskLevel,
				str("protocol", "Protocol name, matched as a case-insensitive substring"),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.YieldStrategies(ctx, args.String("riskLevel"), args.String("protocol"))
				return list("strategies", r, err)
			},
		},
		{
			Name:        CalculateVaultDeposit,
			Description: "Project the yield and fees of a vault deposit",
			Params: []dispatch.Param{
				required(str("vaultAddress", "Vault contract address")),
				required(decimalString(str("depositAmount", "Amount to deposit, as a decimal string"))),
				withDefault(str("timeframe", "Projection horizon: 1y, 6m, or shorter"), vault.DefaultTimeframe),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.CalculateDeposit(ctx, args.String("vaultAddress"), args.String("depositAmount"), args.String("timeframe"))
				return single("projection", r, err)
			},
		},
		{
			Name:        GetPortfolioPerformance,
			Description: "Report the performance of a user's vault portfolio",
			Params: []dispatch.Param{
				required(str("userAddress", "Stellar account address")),
				withDefault(str("timeframe", "Reporting window, such as 7d, 30d, or 1y"), vault.DefaultPerformance),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.PortfolioPerformance(ctx, args.String("userAddress"), args.String("timeframe"))
				return single("performance", r, err)
			},
		},
		{
			Name:        GetUserVaultPositions,
			Description: "List a user's vault positions",
			Params: []dispatch.Param{
				required(str("userAddress", "Stellar account address")),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.UserPositions(ctx, args.String("userAddress"))
				payload, err := list("positions", r, err)
				if err == nil {
					payload["userAddress"] = args.String("userAddress")
				}
				return payload, err
			},
		},
		{
			Name:        OptimizeYieldAllocation,
			Description: "Split an amount across vaults according to a risk tolerance",
			Params: []dispatch.Param{
				required(decimalString(str("totalAmount", "Amount to allocate, as a decimal string"))),
				required(oneOf(str("riskTolerance", "How much risk the allocation may take"), vault.RiskTolerances...)),
				withDefault(str("timeHorizon", "Investment horizon: 1y, 6m, or shorter"), vault.DefaultTimeHorizon),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.OptimizeAllocation(ctx, args.String("totalAmount"), args.String("riskTolerance"), args.String("timeHorizon"))
				return single("plan", r, err)
			},
		},
		{
			Name:        GetVaultAnalytics,
			Description: "Report a vault's metrics and recent history",
			Params: []dispatch.Param{
				required(str("vaultAddress", "Vault contract address")),
				withDefault(str("period", "Reporting window, such as 7d or 30d"), vault.DefaultPeriod),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				r, err := vaults.VaultAnalytics(ctx, args.String("vaultAddress"), args.String("period"))
				return single("analytics", r, err)
			},
		},
		{
			Name:        GetCombinedAnalysis,
			Description: "Combine a user's liquidity and vault positions into one summary",
			Params: []dispatch.Param{
				required(str("userAddress", "Stellar account address")),
				withDefault(dispatch.Param{Name: "includeRecommendations", Type: dispatch.TypeBoolean, Description: "Append general portfolio recommendations"}, true),
			},
			Handler: func(ctx context.Context, args dispatch.Args) (dispatch.Payload, error) {
				summary, err := combiner.Combined(ctx, args.String("userAddress"), args.Bool("includeRecommendations"))
				if err != nil {
					return nil, err
				}
				return dispatch.Payload{"analysis": summary, "source": summary.Source()}, nil
			},
		},
	}
}
