package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/model"
)

func newComponentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "component",
		Short: "Manage components",
	}
	cmd.AddCommand(newComponentAddCmd(), newComponentRemoveCmd())
	return cmd
}

func newComponentAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <entity> <name>",
		Short: "Add a component to an entity (entity is created if missing)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			initial, _ := cmd.Flags().GetFloat64("initial")

			spec := model.ComponentSpec{
				Type:    model.ComponentType(typ),
				Initial: initial,
			}
			if cmd.Flags().Changed("min") {
				v, _ := cmd.Flags().GetFloat64("min")
				spec.Min = &v
			}
			if cmd.Flags().Changed("max") {
				v, _ := cmd.Flags().GetFloat64("max")
				spec.Max = &v
			}

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			e.store.AddComponent(args[0], args[1], spec)

			path := model.JoinPath(args[0], args[1])
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]string{"component": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Component %q added\n", path)
			return nil
		},
	}
	cmd.Flags().String("type", "state", "Component type: state, computed, or constant")
	cmd.Flags().Float64("initial", 0, "Initial value")
	cmd.Flags().Float64("min", 0, "Lower bound")
	cmd.Flags().Float64("max", 0, "Upper bound")
	return cmd
}

func newComponentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <entity> <name>",
		Short: "Remove a component and scrub influences referencing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			e.store.RemoveComponent(args[0], args[1])

			path := model.JoinPath(args[0], args[1])
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]string{"removed": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Component %q removed\n", path)
			return nil
		},
	}
}
