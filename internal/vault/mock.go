package vault

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mattt/stellar-mcp/internal/amount"
)

const dateLayout = "2006-01-02"

// Multiplier returns the fraction of a year covered by timeframe:
// 1 for "1y", 0.5 for "6m", and 0.25 for anything else.
func Multiplier(timeframe string) decimal.Decimal {
	switch timeframe {
	case "1y":
		return decimal.NewFromInt(1)
	case "6m":
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.NewFromFloat(0.25)
	}
}

// filterVaults keeps vaults matching riskLevel exactly with an APY of at
// least minAPY. An empty riskLevel or a nil minAPY disables that filter.
func filterVaults(vaults []Vault, riskLevel string, minAPY *decimal.Decimal) []Vault {
	out := make([]Vault, 0, len(vaults))
	for _, v := range vaults {
		if riskLevel != "" && v.RiskLevel != riskLevel {
			continue
		}
		if minAPY != nil && amount.OrZero(v.APY).LessThan(*minAPY) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// filterStrategies keeps strategies matching riskLevel exactly and having a
// protocol that contains protocol, ignoring case
func filterStrategies(strategies []Strategy, riskLevel, protocol string) []Strategy {
	needle := strings.ToLower(protocol)
	out := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if riskLevel != "" && s.RiskLevel != riskLevel {
			continue
		}
		if protocol != "" && !hasProtocol(s.Protocols, needle) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasProtocol(protocols []string, needle string) bool {
	for _, p := range protocols {
		if strings.Contains(strings.ToLower(p), needle) {
			return true
		}
	}
	return false
}

func findVault(address string) (Vault, bool) {
	for _, v := range fixtureVaults {
		if v.Address == address {
			return v, true
		}
	}
	return Vault{}, false
}

// mockVault returns the fixture vault at address, or the first cataloged
// vault when the address is unknown
func mockVault(address string) Vault {
	if v, ok := findVault(address); ok {
		return v
	}
	return fixtureVaults[0]
}

func firstVaultWithRisk(riskLevel string) (Vault, bool) {
	for _, v := range fixtureVaults {
		if v.RiskLevel == riskLevel {
			return v, true
		}
	}
	return Vault{}, false
}

// project computes the outcome of depositing into v over timeframe
func project(v Vault, deposit decimal.Decimal, timeframe string) DepositProjection {
	m := Multiplier(timeframe)
	apy := amount.OrZero(v.APY)

	projectedYield := amount.Percent(deposit, apy).Mul(m)
	managementFee := amount.Percent(deposit, amount.OrZero(v.Fees.Management)).Mul(m)
	performanceFee := amount.Percent(projectedYield, amount.OrZero(v.Fees.Performance))
	netYield := projectedYield.Sub(managementFee).Sub(performanceFee)

	return DepositProjection{
		VaultAddress:   v.Address,
		VaultName:      v.Name,
		DepositAmount:  amount.Exact(deposit),
		Timeframe:      timeframe,
		APY:            v.APY,
		ProjectedYield: amount.Exact(projectedYield),
		ManagementFee:  amount.Exact(managementFee),
		PerformanceFee: amount.Exact(performanceFee),
		NetYield:       amount.Exact(netYield),
		ProjectedValue: amount.Exact(deposit.Add(netYield)),
	}
}

// plan splits total across the first fixture vault of each risk level
// weighted for tolerance
func plan(total decimal.Decimal, tolerance, horizon string) (AllocationPlan, error) {
	weights, ok := allocationWeights[tolerance]
	if !ok {
		return AllocationPlan{}, fmt.Errorf("unknown risk tolerance %q", tolerance)
	}

	allocations := make([]Allocation, 0, len(weights))
	portfolioAPY := decimal.Zero
	for _, w := range weights {
		v, ok := firstVaultWithRisk(w.risk)
		if !ok {
			return AllocationPlan{}, fmt.Errorf("no %s risk vault in catalog", w.risk)
		}
		pct := amount.Must(w.percent)
		apy := amount.OrZero(v.APY)
		portfolioAPY = portfolioAPY.Add(amount.Percent(apy, pct))
		allocations = append(allocations, Allocation{
			VaultAddress: v.Address,
			VaultName:    v.Name,
			RiskLevel:    v.RiskLevel,
			Percentage:   w.percent,
			Amount:       amount.Exact(amount.Percent(total, pct)),
			APY:          v.APY,
		})
	}

	return AllocationPlan{
		TotalAmount:          amount.Exact(total),
		RiskTolerance:        tolerance,
		TimeHorizon:          horizon,
		Allocations:          allocations,
		ExpectedPortfolioAPY: amount.Exact(portfolioAPY),
		ProjectedYield:       amount.Exact(amount.Percent(total, portfolioAPY).Mul(Multiplier(horizon))),
		DiversificationScore: DiversificationScore,
	}, nil
}

func mockPositions() []Position {
	out := make([]Position, len(fixturePositions))
	copy(out, fixturePositions)
	return out
}

// history samples value and apy along historyShape ending at now
func history(now time.Time, value, apy decimal.Decimal) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(historyShape))
	for _, h := range historyShape {
		points = append(points, HistoryPoint{
			Date:  now.AddDate(0, 0, -h.daysAgo).UTC().Format(dateLayout),
			Value: amount.Format(value.Mul(amount.Must(h.tvlScale))),
			APY:   amount.Format(apy.Add(amount.Must(h.apyDelta))),
		})
	}
	return points
}

// mockPerformance summarizes the fixture positions
func mockPerformance(userAddress, timeframe string, now time.Time) PerformanceReport {
	var value, deposited, weightedAPY decimal.Decimal
	for _, p := range fixturePositions {
		current := amount.OrZero(p.CurrentValue)
		value = value.Add(current)
		deposited = deposited.Add(amount.OrZero(p.DepositedAmount))
		if v, ok := findVault(p.VaultAddress); ok {
			weightedAPY = weightedAPY.Add(current.Mul(amount.OrZero(v.APY)))
		}
	}

	averageAPY := decimal.Zero
	if !value.IsZero() {
		averageAPY = weightedAPY.Div(value)
	}
	gain := value.Sub(deposited)

	return PerformanceReport{
		UserAddress:    userAddress,
		Timeframe:      timeframe,
		TotalValue:     amount.Exact(value),
		TotalDeposited: amount.Exact(deposited),
		TotalReturn:    amount.Exact(gain),
		ReturnPercent:  amount.Format(amount.Ratio(gain, deposited)),
		AverageAPY:     amount.Format(averageAPY),
		History:        history(now, value, averageAPY),
	}
}

// mockAnalytics reports the fixture vault at address, substituting the first
// vault when the address is unknown. The history has five points whatever
// the period.
func mockAnalytics(address, period string, now time.Time) AnalyticsReport {
	v := mockVault(address)
	tvl := amount.OrZero(v.TVL)
	apy := amount.OrZero(v.APY)

	return AnalyticsReport{
		VaultAddress: v.Address,
		VaultName:    v.Name,
		Period:       period,
		APY:          v.APY,
		TVL:          v.TVL,
		Volume:       amount.Format(amount.Percent(tvl, decimal.NewFromInt(12))),
		Depositors:   int(tvl.Div(decimal.NewFromInt(2500)).IntPart()),
		SharePrice:   amount.Format(decimal.NewFromInt(1).Add(amount.Percent(apy, decimal.NewFromFloat(0.5)))),
		History:      history(now, tvl, apy),
	}
}
