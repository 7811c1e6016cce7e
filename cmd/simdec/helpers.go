package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/config"
	"github.com/gyxcit/simdecision/internal/logging"
	"github.com/gyxcit/simdecision/internal/persist"
	"github.com/gyxcit/simdecision/internal/simulation"
	"github.com/gyxcit/simdecision/internal/store"
)

// env holds everything a subcommand needs: config, logger, snapshot store,
// and the model store opened from the latest snapshot.
type env struct {
	cfg   *config.Config
	store *store.ModelStore
	snap  persist.Store
}

// openEnv loads config, opens the configured snapshot backend under the
// project root, and hydrates the model store. The caller must call close.
func openEnv(cmd *cobra.Command) (*env, func(), error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

	var snap persist.Store
	switch cfg.Storage.Backend {
	case "sqlite":
		snap, err = persist.NewSQLiteStore(root)
	default:
		snap, err = persist.NewFileStore(root)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	st := store.Open(context.Background(), snap, logger)

	e := &env{cfg: cfg, store: st, snap: snap}
	return e, func() { snap.Close() }, nil
}

// newSimulator builds the simulation service from config: remote with local
// fallback when a service URL is set, plain local otherwise.
func newSimulator(cfg *config.Config) simulation.Service {
	local := simulation.NewLocalService()
	if cfg.Simulation.ServiceURL == "" {
		return local
	}
	remote := simulation.NewHTTPService(cfg.Simulation.ServiceURL, cfg.Simulation.Timeout)
	return simulation.NewFallbackService(remote, local, logging.NewLogger(cfg.Logging.Level, os.Stderr))
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
