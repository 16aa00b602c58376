package horizon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = `{
  "id": "GABC",
  "balances": [
    {"asset_type": "liquidity_pool_shares", "liquidity_pool_id": "pool-1", "balance": "12.5000000"},
    {"asset_type": "credit_alphanum4", "asset_code": "USDC", "asset_issuer": "GISSUER", "balance": "100.0000000"},
    {"asset_type": "credit_alphanum12", "asset_code": "DFXVAULT", "asset_issuer": "GVAULT", "balance": "3.0000000"},
    {"asset_type": "native", "balance": "50.0000000"}
  ]
}`

func TestClient_Balances(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts/GABC":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(testAccount))
		case "/accounts/GBAD":
			w.Write([]byte(`{not json`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL+"/", ts.Client())

	t.Run("decodes balances", func(t *testing.T) {
		balances, err := client.Balances(context.Background(), "GABC")
		require.NoError(t, err)
		require.Len(t, balances, 4)

		assert.True(t, balances[0].IsPoolShare())
		assert.Equal(t, "pool-1", balances[0].LiquidityPoolID)
		assert.True(t, balances[1].IsCustomAsset())
		assert.True(t, balances[2].IsCustomAsset())
		assert.False(t, balances[3].IsCustomAsset())
		assert.False(t, balances[3].IsPoolShare())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.Balances(context.Background(), "GMISSING")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := client.Balances(context.Background(), "GBAD")
		assert.Error(t, err)
	})

	t.Run("empty account id", func(t *testing.T) {
		_, err := client.Balances(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestFilter(t *testing.T) {
	balances := []Balance{
		{AssetType: AssetLiquidityPoolShares, Balance: "1"},
		{AssetType: AssetCreditAlphanum4, Balance: "2"},
		{AssetType: AssetNative, Balance: "3"},
	}

	assert.Len(t, Filter(balances, Balance.IsPoolShare), 1)
	assert.Len(t, Filter(balances, Balance.IsCustomAsset), 1)
	assert.Empty(t, Filter(nil, Balance.IsPoolShare))
}
