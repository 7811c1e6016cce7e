package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gyxcit/simdecision/internal/simulation"
	"github.com/gyxcit/simdecision/internal/store"
)

// Server wraps the MCP SDK server around the model store so MCP clients
// edit through the same validated mutation gateway as the CLI.
type Server struct {
	server    *sdk.Server
	store     *store.ModelStore
	simulator simulation.Service
}

// Config holds server configuration.
type Config struct {
	Name      string // Server name (e.g., "simdec")
	Version   string // Server version
	Store     *store.ModelStore
	Simulator simulation.Service // nil means local engine
}

// NewServer creates a new MCP server with simdec tools.
func NewServer(cfg *Config) (*Server, error) {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	simulator := cfg.Simulator
	if simulator == nil {
		simulator = simulation.NewLocalService()
	}

	s := &Server{
		server:    mcpServer,
		store:     cfg.Store,
		simulator: simulator,
	}
	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}
