package swap

// Token describes one side of a market
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// Pair is a tradable two-token market with reserve balances
type Pair struct {
	Address     string `json:"address"`
	Token0      Token  `json:"token0"`
	Token1      Token  `json:"token1"`
	Reserve0    string `json:"reserve0"`
	Reserve1    string `json:"reserve1"`
	TotalSupply string `json:"totalSupply"`
	Fee         string `json:"fee"`
	Volume24h   string `json:"volume24h"`
	TVL         string `json:"tvl"`
}

// Pool is the liquidity view of a pair
type Pool struct {
	Address     string `json:"address"`
	PairAddress string `json:"pairAddress"`
	Token0      Token  `json:"token0"`
	Token1      Token  `json:"token1"`
	Reserve0    string `json:"reserve0"`
	Reserve1    string `json:"reserve1"`
	TVL         string `json:"tvl"`
	APR         string `json:"apr"`
	Fee         string `json:"fee"`
}

// Quote is the expected outcome of swapping AmountIn of TokenIn
type Quote struct {
	TokenIn         Token    `json:"tokenIn"`
	TokenOut        Token    `json:"tokenOut"`
	AmountIn        string   `json:"amountIn"`
	AmountOut       string   `json:"amountOut"`
	MinimumReceived string   `json:"minimumReceived"`
	Slippage        string   `json:"slippage"`
	PriceImpact     string   `json:"priceImpact"`
	Fee             string   `json:"fee"`
	Route           []string `json:"route"`
	ExpiresAt       string   `json:"expiresAt"`
}

// PriceRecord is the price of a token in a base currency
type PriceRecord struct {
	Token        Token  `json:"token"`
	Price        string `json:"price"`
	BaseCurrency string `json:"baseCurrency"`
	Change24h    string `json:"change24h"`
	Volume24h    string `json:"volume24h"`
	UpdatedAt    string `json:"updatedAt"`
}

// Position is a user's share of a liquidity pool
type Position struct {
	PoolID      string `json:"poolId"`
	PairAddress string `json:"pairAddress"`
	Token0      *Token `json:"token0"`
	Token1      *Token `json:"token1"`
	Shares      string `json:"shares"`
	Value       string `json:"value"`
	Pnl         string `json:"pnl"`
	PnlPercent  string `json:"pnlPercent"`
}
