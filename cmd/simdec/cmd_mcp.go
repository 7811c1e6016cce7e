package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run the MCP (Model Context Protocol) server over stdio transport,
exposing model editing, simulation, and graph rendering as tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			server, err := mcp.NewServer(&mcp.Config{
				Name:      "simdec",
				Version:   version,
				Store:     e.store,
				Simulator: newSimulator(e.cfg),
			})
			if err != nil {
				return fmt.Errorf("creating MCP server: %w", err)
			}

			return server.Run(context.Background())
		},
	}
}
