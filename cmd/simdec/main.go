package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/persist"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "simdec",
		Short: "Causal decision models - build, edit, simulate",
		Long: `simdec manages causal system-dynamics models for decision problems.

Models hold entities with interacting components. Edit them by hand, generate
them from a description, simulate them over time, and render them as graphs.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newEntityCmd(),
		newComponentCmd(),
		newInfluenceCmd(),
		newSetCmd(),
		newShowCmd(),
		newGraphCmd(),
		newLayoutCmd(),
		newSimulateCmd(),
		newGenerateCmd(),
		newProposeCmd(),
		newApplyProposalCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("simdec version %s\n", version)
			}
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a simdec workspace in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			dataDir := filepath.Join(root, persist.DataDirName)
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("creating %s directory: %w", persist.DataDirName, err)
			}

			manifestPath := filepath.Join(dataDir, "manifest.yaml")
			if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
				manifest := `# simdec workspace
version: "1.0"
created: %s

# The model snapshot lives in this directory.
# Run 'simdec show' to inspect the model.
# Run 'simdec graph' to render it.
`
				content := fmt.Sprintf(manifest, time.Now().Format(time.RFC3339))
				if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
					return fmt.Errorf("creating manifest.yaml: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"initialized": dataDir})
			} else {
				fmt.Printf("Initialized simdec workspace in %s\n", dataDir)
			}
			return nil
		},
	}
}
