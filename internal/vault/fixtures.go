package vault

// Fixture table served when the vault API is unavailable.
// Tests read the same table, so changes here must keep their properties true.

// DiversificationScore is reported for every allocation plan
const DiversificationScore = "0.75"

var fixtureVaults = []Vault{
	{
		Address:   "CBLNDUSDCSTABLE7Q4KZ3WXNV6HJ2M5RPYA8GDTFE3SLQUBKC9VXWNT2H",
		Name:      "USDC Stable Lending",
		Symbol:    "dfUSDC",
		Asset:     "USDC",
		Strategy:  "blend-lending",
		Protocols: []string{"Blend"},
		RiskLevel: RiskLow,
		APY:       "8.5",
		TVL:       "2450000",
		Fees:      Fees{Management: "0.5", Performance: "10"},
		Active:    true,
	},
	{
		Address:   "CXLMYIELDMAX4RT8PWQ2ZKBN5VHJ7DMAGSE3CLYFU6TXKR9NWBQP4JD",
		Name:      "XLM Yield Maximizer",
		Symbol:    "dfXLM",
		Asset:     "XLM",
		Strategy:  "soroswap-lp",
		Protocols: []string{"Soroswap", "Blend"},
		RiskLevel: RiskMedium,
		APY:       "15.2",
		TVL:       "1180000",
		Fees:      Fees{Management: "0.5", Performance: "10"},
		Active:    true,
	},
	{
		Address:   "CAQUALEVLP8NZ5TKW3RJXH2VBMY7GQDF6ECSAU4LPKT9WNRX3ZHCY6B",
		Name:      "Aquarius Leveraged LP",
		Symbol:    "dfAQUA",
		Asset:     "AQUA",
		Strategy:  "aquarius-leveraged",
		Protocols: []string{"Aquarius", "Soroswap"},
		RiskLevel: RiskHigh,
		APY:       "25.7",
		TVL:       "420000",
		Fees:      Fees{Management: "0.5", Performance: "10"},
		Active:    true,
	},
}

var fixtureStrategies = []Strategy{
	{
		ID:          "blend-lending",
		Name:        "Blend Lending",
		Description: "Supplies stablecoins to Blend lending pools",
		RiskLevel:   RiskLow,
		ExpectedAPY: "8.5",
		Protocols:   []string{"Blend"},
		MinDeposit:  "10",
	},
	{
		ID:          "soroswap-lp",
		Name:        "Soroswap Liquidity",
		Description: "Provides XLM liquidity on Soroswap and lends the LP tokens on Blend",
		RiskLevel:   RiskMedium,
		ExpectedAPY: "15.2",
		Protocols:   []string{"Soroswap", "Blend"},
		MinDeposit:  "50",
	},
	{
		ID:          "phoenix-amm",
		Name:        "Phoenix AMM",
		Description: "Provides liquidity to Phoenix stable pairs",
		RiskLevel:   RiskMedium,
		ExpectedAPY: "11.4",
		Protocols:   []string{"Phoenix"},
		MinDeposit:  "50",
	},
	{
		ID:          "aquarius-leveraged",
		Name:        "Aquarius Leveraged LP",
		Description: "Borrows against AQUA to farm Aquarius rewards on Soroswap pairs",
		RiskLevel:   RiskHigh,
		ExpectedAPY: "25.7",
		Protocols:   []string{"Aquarius", "Soroswap"},
		MinDeposit:  "100",
	},
}

var fixturePositions = []Position{
	{
		VaultAddress:    fixtureVaults[0].Address,
		VaultName:       fixtureVaults[0].Name,
		Shares:          "4850.25",
		DepositedAmount: "5000",
		CurrentValue:    "5212.5",
		EntryPrice:      "1.0309",
		CurrentPrice:    "1.0747",
		Pnl:             "212.5",
		PnlPercent:      "4.25",
	},
	{
		VaultAddress:    fixtureVaults[1].Address,
		VaultName:       fixtureVaults[1].Name,
		Shares:          "1920",
		DepositedAmount: "2000",
		CurrentValue:    "2148.8",
		EntryPrice:      "1.0417",
		CurrentPrice:    "1.1192",
		Pnl:             "148.8",
		PnlPercent:      "7.44",
	},
}

// allocationWeights are the percentage splits by risk level for each tolerance
var allocationWeights = map[string][]struct {
	risk    string
	percent string
}{
	Conservative: {{RiskLow, "70"}, {RiskMedium, "30"}},
	Moderate:     {{RiskLow, "50"}, {RiskMedium, "50"}},
	Aggressive:   {{RiskLow, "30"}, {RiskMedium, "40"}, {RiskHigh, "30"}},
}

// historyShape scales a vault's TVL and offsets its APY for each of the
// five history points, oldest first
var historyShape = []struct {
	daysAgo  int
	tvlScale string
	apyDelta string
}{
	{28, "0.82", "-1.2"},
	{21, "0.88", "-0.6"},
	{14, "0.91", "0.3"},
	{7, "0.96", "-0.2"},
	{0, "1", "0"},
}

// Vaults returns a copy of the fixture vault catalog
func Vaults() []Vault {
	out := make([]Vault, len(fixtureVaults))
	copy(out, fixtureVaults)
	return out
}
