package vault

// Risk levels a vault or strategy can be classified as
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskLevels lists the valid risk levels in ascending order
var RiskLevels = []string{RiskLow, RiskMedium, RiskHigh}

// Risk tolerances accepted by allocation planning
const (
	Conservative = "conservative"
	Moderate     = "moderate"
	Aggressive   = "aggressive"
)

// RiskTolerances lists the valid risk tolerances
var RiskTolerances = []string{Conservative, Moderate, Aggressive}

// Fees are the percentages a vault charges
type Fees struct {
	Management  string `json:"management"`
	Performance string `json:"performance"`
}

// Vault is a yield-bearing pooled position
type Vault struct {
	Address   string   `json:"address"`
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	Asset     string   `json:"asset"`
	Strategy  string   `json:"strategy"`
	Protocols []string `json:"protocols"`
	RiskLevel string   `json:"riskLevel"`
	APY       string   `json:"apy"`
	TVL       string   `json:"tvl"`
	Fees      Fees     `json:"fees"`
	Active    bool     `json:"active"`
}

// Strategy describes how a family of vaults earns yield
type Strategy struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RiskLevel   string   `json:"riskLevel"`
	ExpectedAPY string   `json:"expectedApy"`
	Protocols   []string `json:"protocols"`
	MinDeposit  string   `json:"minDeposit"`
}

// Position is a user's holding in a vault
type Position struct {
	VaultAddress    string `json:"vaultAddress"`
	VaultName       string `json:"vaultName"`
	Shares          string `json:"shares"`
	DepositedAmount string `json:"depositedAmount"`
	CurrentValue    string `json:"currentValue"`
	EntryPrice      string `json:"entryPrice"`
	CurrentPrice    string `json:"currentPrice"`
	Pnl             string `json:"pnl"`
	PnlPercent      string `json:"pnlPercent"`
}

// DepositProjection is the projected outcome of a deposit over a timeframe
type DepositProjection struct {
	VaultAddress   string `json:"vaultAddress"`
	VaultName      string `json:"vaultName"`
	DepositAmount  string `json:"depositAmount"`
	Timeframe      string `json:"timeframe"`
	APY            string `json:"apy"`
	ProjectedYield string `json:"projectedYield"`
	ManagementFee  string `json:"managementFee"`
	PerformanceFee string `json:"performanceFee"`
	NetYield       string `json:"netYield"`
	ProjectedValue string `json:"projectedValue"`
}

// HistoryPoint is one sample of a time series
type HistoryPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
	APY   string `json:"apy"`
}

// PerformanceReport summarizes a user's vault portfolio over a timeframe
type PerformanceReport struct {
	UserAddress    string         `json:"userAddress"`
	Timeframe      string         `json:"timeframe"`
	TotalValue     string         `json:"totalValue"`
	TotalDeposited string         `json:"totalDeposited"`
	TotalReturn    string         `json:"totalReturn"`
	ReturnPercent  string         `json:"returnPercent"`
	AverageAPY     string         `json:"averageApy"`
	History        []HistoryPoint `json:"history"`
}

// Allocation is the share of a plan assigned to one vault
type Allocation struct {
	VaultAddress string `json:"vaultAddress"`
	VaultName    string `json:"vaultName"`
	RiskLevel    string `json:"riskLevel"`
	Percentage   string `json:"percentage"`
	Amount       string `json:"amount"`
	APY          string `json:"apy"`
}

// AllocationPlan splits a total amount across vaults
type AllocationPlan struct {
	TotalAmount          string       `json:"totalAmount"`
	RiskTolerance        string       `json:"riskTolerance"`
	TimeHorizon          string       `json:"timeHorizon"`
	Allocations          []Allocation `json:"allocations"`
	ExpectedPortfolioAPY string       `json:"expectedPortfolioApy"`
	ProjectedYield       string       `json:"projectedYield"`
	DiversificationScore string       `json:"diversificationScore"`
}

// AnalyticsReport is a vault's recent metrics and a five-point history
type AnalyticsReport struct {
	VaultAddress string         `json:"vaultAddress"`
	VaultName    string         `json:"vaultName"`
	Period       string         `json:"period"`
	APY          string         `json:"apy"`
	TVL          string         `json:"tvl"`
	Volume       string         `json:"volume"`
	Depositors   int            `json:"depositors"`
	SharePrice   string         `json:"sharePrice"`
	History      []HistoryPoint `json:"history"`
}
