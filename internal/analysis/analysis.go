// Package analysis merges a user's swap and vault positions into one summary.
package analysis

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mattt/stellar-mcp/internal/amount"
	"github.com/mattt/stellar-mcp/internal/fallback"
	"github.com/mattt/stellar-mcp/internal/swap"
	"github.com/mattt/stellar-mcp/internal/toolerr"
	"github.com/mattt/stellar-mcp/internal/vault"
)

// Recommendations are appended to every summary that asks for them
var Recommendations = []string{
	"Diversify across low and medium risk vaults to smooth returns",
	"Review liquidity positions with negative PnL for impermanent loss",
	"Keep part of the portfolio in stable assets to cover fees and withdrawals",
	"Compare vault APYs against pool APRs before adding liquidity",
}

// SwapPositions reads a user's liquidity-pool positions
type SwapPositions interface {
	UserPositions(ctx context.Context, userAddress string) (fallback.Result[[]swap.Position], error)
}

// VaultPositions reads a user's vault positions
type VaultPositions interface {
	UserPositions(ctx context.Context, userAddress string) (fallback.Result[[]vault.Position], error)
}

// Totals aggregates value and profit across positions
type Totals struct {
	TotalValue      string `json:"totalValue"`
	TotalPnl        string `json:"totalPnl"`
	TotalPnlPercent string `json:"totalPnlPercent"`
}

// Summary is the combined view of a user's positions
type Summary struct {
	UserAddress     string           `json:"userAddress"`
	LPPositions     []swap.Position  `json:"lpPositions"`
	VaultPositions  []vault.Position `json:"vaultPositions"`
	Totals          Totals           `json:"summary"`
	Recommendations []string         `json:"recommendations,omitempty"`

	// Sources names the tier that served each side
	Sources map[string]fallback.Source `json:"sources"`
}

// Source reports the lowest-fidelity tier that served either side
func (s Summary) Source() fallback.Source {
	source := fallback.SourceLive
	for _, src := range s.Sources {
		switch {
		case src == fallback.SourceMock:
			return fallback.SourceMock
		case src == fallback.SourceLedger:
			source = fallback.SourceLedger
		}
	}
	return source
}

// Analyzer combines both adapters
type Analyzer struct {
	swaps  SwapPositions
	vaults VaultPositions
}

// New creates an Analyzer
func New(swaps SwapPositions, vaults VaultPositions) *Analyzer {
	return &Analyzer{swaps: swaps, vaults: vaults}
}

// Combined fetches both position lists concurrently and sums them.
// If either side fails the whole call fails.
func (a *Analyzer) Combined(ctx context.Context, userAddress string, includeRecommendations bool) (Summary, error) {
	if userAddress == "" {
		return Summary{}, toolerr.New(toolerr.MalformedArgument, "userAddress is required")
	}

	var (
		lp     fallback.Result[[]swap.Position]
		vaults fallback.Result[[]vault.Position]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lp, err = a.swaps.UserPositions(gctx, userAddress)
		return err
	})
	g.Go(func() error {
		var err error
		vaults, err = a.vaults.UserPositions(gctx, userAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		UserAddress:    userAddress,
		LPPositions:    lp.Value,
		VaultPositions: vaults.Value,
		Totals:         Sum(lp.Value, vaults.Value),
		Sources: map[string]fallback.Source{
			"lpPositions":    lp.Source,
			"vaultPositions": vaults.Source,
		},
	}
	if includeRecommendations {
		summary.Recommendations = append([]string(nil), Recommendations...)
	}
	return summary, nil
}

// Sum totals value and PnL across both position lists. Missing or
// unparsable amounts count as zero.
func Sum(lp []swap.Position, vaults []vault.Position) Totals {
	value, pnl := decimal.Zero, decimal.Zero
	for _, p := range lp {
		value = value.Add(amount.OrZero(p.Value))
		pnl = pnl.Add(amount.OrZero(p.Pnl))
	}
	for _, p := range vaults {
		value = value.Add(amount.OrZero(p.CurrentValue))
		pnl = pnl.Add(amount.OrZero(p.Pnl))
	}

	return Totals{
		TotalValue:      amount.Exact(value),
		TotalPnl:        amount.Exact(pnl),
		TotalPnlPercent: amount.Format(amount.Ratio(pnl, value)),
	}
}
