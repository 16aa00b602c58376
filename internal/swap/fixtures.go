package swap

// Fixture table served when the swap API is unavailable.
// Tests read the same table, so changes here must keep their properties true.

// NativeAlias is accepted wherever a token identifier is expected and names XLM
const NativeAlias = "native"

// SwapFee is the pool fee, as a percentage, applied by mock quotes
const SwapFee = "0.3"

var (
	TokenXLM = Token{
		Address:  "CAS3J7GYLGXMF6TDJBBYYSE3HQ6BBSMLNUQ34T6TZMYMW2EVH34XOWMA",
		Symbol:   "XLM",
		Name:     "Stellar Lumens",
		Decimals: 7,
	}
	TokenUSDC = Token{
		Address:  "CCW67TSZV3SSS2HXMBQ5JFGCKJNXKZM7UQUWUZPUTHXSTZLEO7SJMI75",
		Symbol:   "USDC",
		Name:     "USD Coin",
		Decimals: 7,
	}
	TokenAQUA = Token{
		Address:  "CAUIKL3IYGMERDRUN6YSCLWVAKIFG5Q4YJHUKM4S4NJZQIA3BAS6OJPK",
		Symbol:   "AQUA",
		Name:     "Aquarius",
		Decimals: 7,
	}
	TokenEURC = Token{
		Address:  "CDTKPWPLOURQA2SGTKTUQOWRCBZEORB4BWBOMJ3D3ZTQQSGE5F6JBQLV",
		Symbol:   "EURC",
		Name:     "Euro Coin",
		Decimals: 7,
	}
)

type tokenFixture struct {
	token     Token
	usdPrice  string
	change24h string
	volume24h string
}

var fixtureTokens = []tokenFixture{
	{token: TokenXLM, usdPrice: "0.12", change24h: "2.35", volume24h: "18500000"},
	{token: TokenUSDC, usdPrice: "1", change24h: "0.01", volume24h: "42000000"},
	{token: TokenAQUA, usdPrice: "0.0012", change24h: "-4.1", volume24h: "350000"},
	{token: TokenEURC, usdPrice: "1.08", change24h: "0.12", volume24h: "2100000"},
}

var fixturePairs = []Pair{
	{
		Address:     "CAM7DY53G63XA4AJRS24Z6VFYAFSSF76C3RZ45BE5YU3FQS5255OOABP",
		Token0:      TokenXLM,
		Token1:      TokenUSDC,
		Reserve0:    "2500000",
		Reserve1:    "300000",
		TotalSupply: "866025.4037844",
		Fee:         SwapFee,
		Volume24h:   "125000",
		TVL:         "600000",
	},
	{
		Address:     "CCKOC2LJTPDBKDHTL3M5UO7HFZ2WFIHSOKCELMKQP2TLB5ZHLSVYLWQA",
		Token0:      TokenXLM,
		Token1:      TokenAQUA,
		Reserve0:    "800000",
		Reserve1:    "80000000",
		TotalSupply: "8000000",
		Fee:         SwapFee,
		Volume24h:   "32000",
		TVL:         "192000",
	},
	{
		Address:     "CDE57N6XTUPBKYYDGQMXX7H7Y5ZRVUQN6J3XS2ZLCFAONOZVDZSCJXFO",
		Token0:      TokenUSDC,
		Token1:      TokenEURC,
		Reserve0:    "150000",
		Reserve1:    "138888.8888889",
		TotalSupply: "144337.5672974",
		Fee:         SwapFee,
		Volume24h:   "54000",
		TVL:         "300000",
	},
}

// fixturePoolAPR is the mock APR of each fixture pair's pool, by pair address
var fixturePoolAPR = map[string]string{
	"CAM7DY53G63XA4AJRS24Z6VFYAFSSF76C3RZ45BE5YU3FQS5255OOABP": "12.5",
	"CCKOC2LJTPDBKDHTL3M5UO7HFZ2WFIHSOKCELMKQP2TLB5ZHLSVYLWQA": "18.2",
	"CDE57N6XTUPBKYYDGQMXX7H7Y5ZRVUQN6J3XS2ZLCFAONOZVDZSCJXFO": "6.8",
}

type positionFixture struct {
	pair       Pair
	shares     string
	value      string
	pnl        string
	pnlPercent string
}

var fixturePositions = []positionFixture{
	{pair: fixturePairs[0], shares: "1250.5", value: "1732.4", pnl: "84.25", pnlPercent: "5.11"},
	{pair: fixturePairs[2], shares: "480", value: "998.1", pnl: "-6.3", pnlPercent: "-0.63"},
}

// Pairs returns a copy of the fixture pair table
func Pairs() []Pair {
	out := make([]Pair, len(fixturePairs))
	copy(out, fixturePairs)
	return out
}
