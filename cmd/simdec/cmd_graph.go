package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/highlight"
	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/logging"
	"github.com/gyxcit/simdecision/internal/persist"
	"github.com/gyxcit/simdecision/internal/visualization"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the model's layout graph",
		Long:  `Output the model's layout graph in DOT (Graphviz) or JSON format, or serve it over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			focus, _ := cmd.Flags().GetString("focus")
			noGroup, _ := cmd.Flags().GetBool("no-group")
			serve, _ := cmd.Flags().GetBool("serve")
			listen, _ := cmd.Flags().GetString("listen")
			root, _ := cmd.Flags().GetString("root")

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			cache, err := e.snap.LoadRenderState(context.Background())
			if err != nil {
				return fmt.Errorf("loading render state: %w", err)
			}

			if serve {
				return runGraphServer(cmd, e, cache, listen)
			}

			grouped := !noGroup
			g := layout.Layout(e.store.Model(), cache, grouped)

			// Unresolved references are diagnostics, not render content.
			if len(g.Unresolved) > 0 {
				dl := logging.NewDiagnosticLogger(persist.DataDir(root))
				defer dl.Close()
				for _, u := range g.Unresolved {
					dl.DanglingReference(u.Component, u.From)
				}
			}

			if focus != "" {
				if g.Node(focus) == nil {
					return fmt.Errorf("focus node not found: %s", focus)
				}
				g = highlight.Highlight(g, focus)
			}

			switch visualization.Format(format) {
			case visualization.FormatDOT:
				fmt.Fprint(cmd.OutOrStdout(), visualization.RenderDOT(g, grouped))
			case visualization.FormatJSON:
				return printJSON(cmd, visualization.RenderJSON(g))
			default:
				return fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot or json")
	cmd.Flags().String("focus", "", "Node ID to focus; everything outside its 1-hop neighborhood is dimmed")
	cmd.Flags().Bool("no-group", false, "Disable visual entity grouping")
	cmd.Flags().Bool("serve", false, "Serve the graph over a local HTTP API")
	cmd.Flags().String("listen", "", "Listen address for --serve (default: OS-assigned port on localhost)")
	return cmd
}

// runGraphServer serves the graph API until interrupted.
func runGraphServer(cmd *cobra.Command, e *env, cache *layout.Cache, listen string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	server := visualization.NewServer(e.store, cache)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(ctx, listen)
	}()

	// Wait for the listener so we can print the address.
	for server.Addr() == "" {
		select {
		case err := <-errCh:
			return err
		case <-time.After(10 * time.Millisecond):
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving graph API on http://%s (Ctrl-C to stop)\n", server.Addr())

	return <-errCh
}
