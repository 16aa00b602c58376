package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Network identifies the Stellar network every backend call targets
type Network string

const (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)

// Horizon returns the public Horizon URL for the network
func (n Network) Horizon() string {
	if n == Mainnet {
		return "https://horizon.stellar.org"
	}
	return "https://horizon-testnet.stellar.org"
}

// ParseNetwork normalizes a network name from the environment or a flag
func ParseNetwork(s string) Network {
	return Network(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether n is a known network
func (n Network) Valid() bool {
	return n == Testnet || n == Mainnet
}

const (
	DefaultSwapAPIURL  = "https://api.soroswap.finance"
	DefaultVaultAPIURL = "https://api.defindex.io"
	DefaultTimeout     = 10 * time.Second
)

// Environment variables read by ApplyEnv
const (
	EnvNetwork     = "STELLAR_NETWORK"
	EnvSwapAPIURL  = "SWAP_API_URL"
	EnvSwapAPIKey  = "SWAP_API_KEY"
	EnvVaultAPIURL = "VAULT_API_URL"
	EnvVaultAPIKey = "VAULT_API_KEY"
	EnvHorizonURL  = "HORIZON_URL"
)

// Config is the process-wide configuration.
// It is built once at startup and passed by value to every adapter.
type Config struct {
	Network Network `yaml:"network"`

	SwapAPIURL string `yaml:"swapApiUrl"`
	SwapAPIKey string `yaml:"swapApiKey"`

	VaultAPIURL string `yaml:"vaultApiUrl"`
	VaultAPIKey string `yaml:"vaultApiKey"`

	// HorizonURL overrides the network's public Horizon instance
	HorizonURL string `yaml:"horizonUrl"`

	// Timeout bounds every outbound request
	Timeout time.Duration `yaml:"timeout"`

	// Retries is the number of retries per request; zero disables retrying
	Retries int `yaml:"retries"`
}

// DefaultConfig returns a testnet configuration with no credentials
func DefaultConfig() Config {
	return Config{
		Network:     Testnet,
		SwapAPIURL:  DefaultSwapAPIURL,
		VaultAPIURL: DefaultVaultAPIURL,
		Timeout:     DefaultTimeout,
	}
}

// LoadFile loads configuration from a YAML file on top of the defaults.
// An empty path or a missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads YAML configuration from an io.Reader on top of the defaults
func Load(r io.Reader) (Config, error) {
	config := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config data: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing config YAML: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields with any non-empty environment variables,
// looked up through getenv (os.Getenv in production)
func (c Config) ApplyEnv(getenv func(string) string) Config {
	envOr := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	c.Network = ParseNetwork(envOr(EnvNetwork, string(c.Network)))
	c.SwapAPIURL = envOr(EnvSwapAPIURL, c.SwapAPIURL)
	c.SwapAPIKey = envOr(EnvSwapAPIKey, c.SwapAPIKey)
	c.VaultAPIURL = envOr(EnvVaultAPIURL, c.VaultAPIURL)
	c.VaultAPIKey = envOr(EnvVaultAPIKey, c.VaultAPIKey)
	c.HorizonURL = envOr(EnvHorizonURL, c.HorizonURL)
	return c
}

// Validate checks the configuration and fills derived fields
func (c Config) Validate() (Config, error) {
	if !c.Network.Valid() {
		return Config{}, fmt.Errorf("unknown network %q (want %q or %q)", c.Network, Testnet, Mainnet)
	}
	if c.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Retries < 0 {
		return Config{}, fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}

	c.SwapAPIURL = strings.TrimSuffix(c.SwapAPIURL, "/")
	c.VaultAPIURL = strings.TrimSuffix(c.VaultAPIURL, "/")
	if c.HorizonURL == "" {
		c.HorizonURL = c.Network.Horizon()
	}
	c.HorizonURL = strings.TrimSuffix(c.HorizonURL, "/")

	return c, nil
}
