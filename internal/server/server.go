// Package server exposes a Dispatcher as an MCP server over stdio or HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mattt/stellar-mcp/internal/dispatch"
)

// shutdownTimeout bounds how long HTTP shutdown waits for open requests
const shutdownTimeout = 5 * time.Second

// Server registers every dispatcher operation as an MCP tool
type Server struct {
	dispatcher *dispatch.Dispatcher
	mcp        *mcp.Server
	logger     *slog.Logger
	name       string
	version    string
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithServerInfo sets the name and version reported during initialization
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) {
		s.name = name
		s.version = version
	}
}

// NewServer creates an MCP server for the operations of d
func NewServer(d *dispatch.Dispatcher, opts ...ServerOption) *Server {
	s := &Server{
		dispatcher: d,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:       "stellar-mcp",
		version:    "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)
	for _, op := range d.List() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: op.InputSchema(),
		}, s.handler(op.Name))
	}
	s.logger.Debug("registered tools", "count", len(d.List()), "network", d.Network())

	return s
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw []byte
		if req.Params != nil {
			raw = req.Params.Arguments
		}
		result := s.dispatcher.InvokeJSON(ctx, name, raw)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
			IsError: result.IsError,
		}, nil
	}
}

// MCP returns the underlying MCP server
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves MCP over stdin and stdout until the client disconnects or ctx
// is canceled
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving on stdio")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handler returns an HTTP handler serving MCP at /mcp and a liveness probe
// at /health
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","network":%q}`, s.dispatcher.Network())
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
	r.Handle("/mcp", streamable)
	r.Handle("/mcp/*", streamable)

	return r
}

// ListenAndServe serves Handler on addr until ctx is canceled, then shuts
// down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving on http", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	}
}
