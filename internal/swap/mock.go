package swap

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mattt/stellar-mcp/internal/amount"
)

// quoteTTL is how long a mock quote claims to stay valid
const quoteTTL = 30 * time.Second

var one = decimal.NewFromInt(1)

// matchesToken reports whether the pair has token on either side.
// Symbols and addresses are compared exactly.
func matchesToken(p Pair, token string) bool {
	return p.Token0.Symbol == token || p.Token0.Address == token ||
		p.Token1.Symbol == token || p.Token1.Address == token
}

// filterPairs keeps pairs involving token; an empty token keeps all pairs.
// The result is never nil.
func filterPairs(pairs []Pair, token string) []Pair {
	if token == "" {
		return append([]Pair{}, pairs...)
	}
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if matchesToken(p, token) {
			out = append(out, p)
		}
	}
	return out
}

// filterPools keeps the pool of pairAddress; an empty address keeps all pools.
// The result is never nil.
func filterPools(pools []Pool, pairAddress string) []Pool {
	if pairAddress == "" {
		return append([]Pool{}, pools...)
	}
	out := make([]Pool, 0, 1)
	for _, p := range pools {
		if p.PairAddress == pairAddress || p.Address == pairAddress {
			out = append(out, p)
			break
		}
	}
	return out
}

// lookupToken resolves a symbol, address, or the native alias
func lookupToken(id string) (tokenFixture, bool) {
	if id == NativeAlias {
		id = TokenXLM.Symbol
	}
	for _, f := range fixtureTokens {
		if f.token.Symbol == id || f.token.Address == id {
			return f, true
		}
	}
	return tokenFixture{}, false
}

// resolveToken returns the token descriptor and USD price for id.
// Unknown tokens are described by their identifier and priced at 1 USD.
func resolveToken(id string) (Token, decimal.Decimal) {
	if f, ok := lookupToken(id); ok {
		return f.token, amount.Must(f.usdPrice)
	}
	return Token{Address: id, Symbol: id, Decimals: 7}, one
}

func findPair(a, b Token) (Pair, bool) {
	for _, p := range fixturePairs {
		if (p.Token0.Address == a.Address && p.Token1.Address == b.Address) ||
			(p.Token0.Address == b.Address && p.Token1.Address == a.Address) {
			return p, true
		}
	}
	return Pair{}, false
}

func mockPairs(token string) []Pair {
	return filterPairs(Pairs(), token)
}

func mockPools(pairAddress string) []Pool {
	pools := make([]Pool, 0, len(fixturePairs))
	for _, p := range fixturePairs {
		pools = append(pools, Pool{
			Address:     p.Address,
			PairAddress: p.Address,
			Token0:      p.Token0,
			Token1:      p.Token1,
			Reserve0:    p.Reserve0,
			Reserve1:    p.Reserve1,
			TVL:         p.TVL,
			APR:         fixturePoolAPR[p.Address],
			Fee:         p.Fee,
		})
	}
	return filterPools(pools, pairAddress)
}

// mockQuote prices a direct swap from fixture USD prices:
// amountOut = amountIn × priceIn/priceOut × (1 − fee), and
// minimumReceived = amountOut × (1 − slippage/100).
func mockQuote(tokenIn, tokenOut string, amountIn, slippage decimal.Decimal, now time.Time) Quote {
	in, priceIn := resolveToken(tokenIn)
	out, priceOut := resolveToken(tokenOut)

	fee := amount.Must(SwapFee)
	rate := priceIn.Div(priceOut)
	amountOut := amountIn.Mul(rate).Mul(one.Sub(amount.Percent(one, fee)))
	minimum := amountOut.Sub(amount.Percent(amountOut, slippage))

	impact := decimal.Zero
	if pair, ok := findPair(in, out); ok {
		reserveIn := amount.OrZero(pair.Reserve0)
		if pair.Token1.Address == in.Address {
			reserveIn = amount.OrZero(pair.Reserve1)
		}
		impact = amount.Ratio(amountIn, reserveIn.Add(amountIn))
	}

	return Quote{
		TokenIn:         in,
		TokenOut:        out,
		AmountIn:        amount.Exact(amountIn),
		AmountOut:       amount.Exact(amountOut),
		MinimumReceived: amount.Exact(minimum),
		Slippage:        amount.Exact(slippage),
		PriceImpact:     impact.Round(4).String(),
		Fee:             amount.Exact(amount.Percent(amountIn, fee)),
		Route:           []string{tokenIn, tokenOut},
		ExpiresAt:       now.Add(quoteTTL).UTC().Format(time.RFC3339),
	}
}

// mockPrice quotes tokenAddress in baseCurrency. A base currency naming a
// fixture token quotes in that token; anything else quotes in USD.
func mockPrice(tokenAddress, baseCurrency string, now time.Time) PriceRecord {
	token, price := resolveToken(tokenAddress)
	change, volume := "0", "0"
	if f, ok := lookupToken(tokenAddress); ok {
		change, volume = f.change24h, f.volume24h
	}

	if base, ok := lookupToken(baseCurrency); ok {
		price = price.Div(amount.Must(base.usdPrice))
	}

	return PriceRecord{
		Token:        token,
		Price:        amount.Format(price),
		BaseCurrency: baseCurrency,
		Change24h:    change,
		Volume24h:    volume,
		UpdatedAt:    now.UTC().Format(time.RFC3339),
	}
}

func mockPositions() []Position {
	out := make([]Position, 0, len(fixturePositions))
	for _, f := range fixturePositions {
		t0, t1 := f.pair.Token0, f.pair.Token1
		out = append(out, Position{
			PoolID:      f.pair.Address,
			PairAddress: f.pair.Address,
			Token0:      &t0,
			Token1:      &t1,
			Shares:      f.shares,
			Value:       f.value,
			Pnl:         f.pnl,
			PnlPercent:  f.pnlPercent,
		})
	}
	return out
}
