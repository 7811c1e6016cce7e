package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/store"
)

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a component's initial value or a simulation parameter",
		Long: `Set a component's initial value:
  simdec set Tank.level 0.8

Set bounds alongside the value with --min/--max. The paths "simulation.dt"
and "simulation.steps" set the integration parameters instead:
  simdec set simulation.dt 0.05`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value must be a number: %w", err)
			}

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			switch args[0] {
			case "simulation.dt":
				e.store.UpdateSimulationConfig(store.SimulationPatch{DT: &value})
			case "simulation.steps":
				steps := int(value)
				e.store.UpdateSimulationConfig(store.SimulationPatch{Steps: &steps})
			default:
				patch := store.ComponentPatch{Initial: &value}
				if cmd.Flags().Changed("min") {
					v, _ := cmd.Flags().GetFloat64("min")
					patch.Min = &v
				}
				if cmd.Flags().Changed("max") {
					v, _ := cmd.Flags().GetFloat64("max")
					patch.Max = &v
				}
				if err := e.store.UpdateComponentParameter(args[0], patch); err != nil {
					return err
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]interface{}{"path": args[0], "value": value})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %g\n", args[0], value)
			return nil
		},
	}
	cmd.Flags().Float64("min", 0, "Also set the lower bound")
	cmd.Flags().Float64("max", 0, "Also set the upper bound")
	return cmd
}
