// Package container wires the stellar-mcp services using go.uber.org/dig.
package container

import (
	"log/slog"
	"net/http"

	"go.uber.org/dig"

	"github.com/mattt/stellar-mcp/internal"
	"github.com/mattt/stellar-mcp/internal/analysis"
	"github.com/mattt/stellar-mcp/internal/catalog"
	"github.com/mattt/stellar-mcp/internal/config"
	"github.com/mattt/stellar-mcp/internal/dispatch"
	"github.com/mattt/stellar-mcp/internal/horizon"
	"github.com/mattt/stellar-mcp/internal/server"
	"github.com/mattt/stellar-mcp/internal/swap"
	"github.com/mattt/stellar-mcp/internal/vault"
)

// Container holds the resolved service singletons.
// Callers use the typed getters and never import dig directly.
type Container struct {
	config     config.Config
	dispatcher *dispatch.Dispatcher
	server     *server.Server
}

func (c *Container) Config() config.Config             { return c.config }
func (c *Container) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }
func (c *Container) Server() *server.Server           { return c.server }

// Each backend gets its own client so credentials never cross over.
type (
	swapClient    struct{ *http.Client }
	vaultClient   struct{ *http.Client }
	horizonClient struct{ *http.Client }
)

// serverVersion is a named string so dig can tell it apart from other strings
type serverVersion string

// New builds and wires every service from cfg. cfg must already be validated.
func New(cfg config.Config, logger *slog.Logger, version string) (*Container, error) {
	d := dig.New()

	providers := []any{
		func() config.Config { return cfg },
		func() *slog.Logger { return logger },
		func() serverVersion { return serverVersion(version) },
		newSwapClient,
		newVaultClient,
		newHorizonClient,
		newLedger,
		newSwapAdapter,
		newVaultAdapter,
		newAnalyzer,
		newDispatcher,
		newServer,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(cfg config.Config, dispatcher *dispatch.Dispatcher, srv *server.Server) {
		result = &Container{
			config:     cfg,
			dispatcher: dispatcher,
			server:     srv,
		}
	})
	return result, err
}

func clientOptions(cfg config.Config, logger *slog.Logger, token string) internal.ClientOptions {
	return internal.ClientOptions{
		BearerToken: token,
		Timeout:     cfg.Timeout,
		Retries:     cfg.Retries,
		Logger:      logger,
	}
}

func newSwapClient(cfg config.Config, logger *slog.Logger) swapClient {
	return swapClient{internal.NewClient(clientOptions(cfg, logger, cfg.SwapAPIKey))}
}

func newVaultClient(cfg config.Config, logger *slog.Logger) vaultClient {
	return vaultClient{internal.NewClient(clientOptions(cfg, logger, cfg.VaultAPIKey))}
}

func newHorizonClient(cfg config.Config, logger *slog.Logger) horizonClient {
	return horizonClient{internal.NewClient(clientOptions(cfg, logger, ""))}
}

func newLedger(cfg config.Config, client horizonClient) horizon.Ledger {
	return horizon.NewClient(cfg.HorizonURL, client.Client)
}

func newSwapAdapter(cfg config.Config, client swapClient, ledger horizon.Ledger, logger *slog.Logger) *swap.Adapter {
	return swap.New(
		swap.WithBaseURL(cfg.SwapAPIURL),
		swap.WithNetwork(string(cfg.Network)),
		swap.WithClient(client.Client),
		swap.WithLedger(ledger),
		swap.WithLogger(logger.With("adapter", "swap")),
	)
}

func newVaultAdapter(cfg config.Config, client vaultClient, ledger horizon.Ledger, logger *slog.Logger) *vault.Adapter {
	return vault.New(
		vault.WithBaseURL(cfg.VaultAPIURL),
		vault.WithNetwork(string(cfg.Network)),
		vault.WithClient(client.Client),
		vault.WithLedger(ledger),
		vault.WithLogger(logger.With("adapter", "vault")),
	)
}

func newAnalyzer(swaps *swap.Adapter, vaults *vault.Adapter) *analysis.Analyzer {
	return analysis.New(swaps, vaults)
}

func newDispatcher(cfg config.Config, swaps *swap.Adapter, vaults *vault.Adapter, analyzer *analysis.Analyzer, logger *slog.Logger) (*dispatch.Dispatcher, error) {
	return dispatch.New(string(cfg.Network), catalog.Operations(swaps, vaults, analyzer), dispatch.WithLogger(logger))
}

func newServer(dispatcher *dispatch.Dispatcher, logger *slog.Logger, version serverVersion) *server.Server {
	return server.NewServer(dispatcher, server.WithLogger(logger), server.WithServerInfo("stellar-mcp", string(version)))
}
