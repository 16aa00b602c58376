package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mattt/stellar-mcp/internal"
	"github.com/mattt/stellar-mcp/internal/config"
	"github.com/mattt/stellar-mcp/internal/container"
)

// errToolFailed signals that `call` printed an error envelope
var errToolFailed = errors.New("tool returned an error")

var rootCmd = &cobra.Command{
	Use:   "stellar-mcp",
	Short: "An MCP server for Stellar swap and yield-vault data",
	Long: `stellar-mcp serves a fixed catalog of MCP tools over stdio (or HTTP with --http).
Each tool forwards to a swap-data or vault-data API on the selected Stellar
network. When an API is unavailable, position tools fall back to Horizon
account balances, and every tool falls back to built-in mock data.

Configuration is read from --config (YAML), then the environment
(STELLAR_NETWORK, SWAP_API_URL, SWAP_API_KEY, VAULT_API_URL, VAULT_API_KEY,
HORIZON_URL), then flags. API keys may be 1Password references (op://...).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)

		logger := newLogger()

		g.Go(func() error {
			c, err := build(cmd, logger)
			if err != nil {
				return err
			}

			cfg := c.Config()
			logger.Info("starting",
				"network", cfg.Network,
				"swap_api", cfg.SwapAPIURL,
				"vault_api", cfg.VaultAPIURL,
				"horizon", cfg.HorizonURL,
			)

			if httpAddr != "" {
				return c.Server().ListenAndServe(ctx, httpAddr)
			}
			return c.Server().Run(ctx)
		})

		return g.Wait()
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := build(cmd, newLogger())
		if err != nil {
			return err
		}

		type tool struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			InputSchema any    `json:"inputSchema"`
		}
		ops := c.Dispatcher().List()
		tools := make([]tool, 0, len(ops))
		for _, op := range ops {
			tools = append(tools, tool{Name: op.Name, Description: op.Description, InputSchema: op.InputSchema()})
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tools)
	},
}

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-arguments]",
	Short: "Invoke one tool and print its result",
	Long: `Invoke one tool through the dispatcher and print the result envelope.
Arguments are a JSON object, for example:

  stellar-mcp call get_swap_quote '{"tokenIn":"native","tokenOut":"USDC","amountIn":"100"}'

The exit code is 1 when the tool returns an error envelope.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := build(cmd, newLogger())
		if err != nil {
			return err
		}

		var raw []byte
		if len(args) == 2 {
			raw = []byte(args[1])
		}

		result := c.Dispatcher().InvokeJSON(cmd.Context(), args[0], raw)
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		if result.IsError {
			return errToolFailed
		}
		return nil
	},
}

var (
	configPath string
	network    string
	timeout    time.Duration
	retries    int
	httpAddr   string
	verbose    bool

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flags.StringVar(&network, "network", "", "Stellar network: testnet or mainnet")
	flags.DurationVar(&timeout, "timeout", config.DefaultTimeout, "Timeout for each backend request")
	flags.IntVar(&retries, "retries", 0, "Maximum number of retries for failed backend requests")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio (e.g. :8080)")

	rootCmd.AddCommand(toolsCmd, callCmd)
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// loadConfig layers defaults, the config file, the environment, and
// explicitly set flags, then resolves secret references
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("network") {
		cfg.Network = config.ParseNetwork(network)
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("retries") {
		cfg.Retries = retries
	}

	cfg, err = cfg.Validate()
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := internal.ResolveCredentials(cmd.Context(), map[string]*string{
		"swap api key":  &cfg.SwapAPIKey,
		"vault api key": &cfg.VaultAPIKey,
	}); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func build(cmd *cobra.Command, logger *slog.Logger) (*container.Container, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg, logger, version)
	if err != nil {
		return nil, fmt.Errorf("error creating server: %w", err)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errToolFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
