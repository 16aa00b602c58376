// Package horizon queries account balances from a Stellar Horizon server.
package horizon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mattt/stellar-mcp/internal"
)

// Asset types reported by Horizon
const (
	AssetNative              = "native"
	AssetCreditAlphanum4     = "credit_alphanum4"
	AssetCreditAlphanum12    = "credit_alphanum12"
	AssetLiquidityPoolShares = "liquidity_pool_shares"
)

// Balance is one entry of an account's balances
type Balance struct {
	AssetType       string `json:"asset_type"`
	AssetCode       string `json:"asset_code,omitempty"`
	AssetIssuer     string `json:"asset_issuer,omitempty"`
	LiquidityPoolID string `json:"liquidity_pool_id,omitempty"`
	Balance         string `json:"balance"`
}

// IsPoolShare reports whether the balance is a liquidity-pool share
func (b Balance) IsPoolShare() bool {
	return b.AssetType == AssetLiquidityPoolShares
}

// IsCustomAsset reports whether the balance is an issued (non-native) asset
func (b Balance) IsCustomAsset() bool {
	return b.AssetType == AssetCreditAlphanum4 || b.AssetType == AssetCreditAlphanum12
}

type account struct {
	ID       string    `json:"id"`
	Balances []Balance `json:"balances"`
}

// Ledger reads account balances
type Ledger interface {
	Balances(ctx context.Context, accountID string) ([]Balance, error)
}

// Client is a Ledger backed by the Horizon REST API
type Client struct {
	baseURL string
	client  *http.Client
}

var _ Ledger = (*Client)(nil)

// NewClient creates a Horizon client for baseURL
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Balances returns the balances of accountID via GET /accounts/{id}
func (c *Client) Balances(ctx context.Context, accountID string) ([]Balance, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}

	var acct account
	if err := internal.DoJSON(ctx, c.client, http.MethodGet, c.baseURL+"/accounts/"+url.PathEscape(accountID), nil, &acct); err != nil {
		return nil, fmt.Errorf("horizon account %s: %w", accountID, err)
	}
	return acct.Balances, nil
}

// Filter returns the balances for which keep returns true
func Filter(balances []Balance, keep func(Balance) bool) []Balance {
	out := make([]Balance, 0, len(balances))
	for _, b := range balances {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
