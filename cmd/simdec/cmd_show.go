package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/model"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current model",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			m := e.store.Model()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, m)
			}

			printModel(cmd, m)
			return nil
		},
	}
}

// printModel renders a deterministic text view, entities and components in
// sorted order.
func printModel(cmd *cobra.Command, m *model.SystemModel) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Simulation: dt=%g steps=%d\n", m.Simulation.DT, m.Simulation.Steps)

	entityNames := make([]string, 0, len(m.Entities))
	for name := range m.Entities {
		entityNames = append(entityNames, name)
	}
	sort.Strings(entityNames)

	for _, entityName := range entityNames {
		entity := m.Entities[entityName]
		fmt.Fprintf(out, "\n%s", entityName)
		if entity.Description != "" {
			fmt.Fprintf(out, "  (%s)", entity.Description)
		}
		fmt.Fprintln(out)

		compNames := make([]string, 0, len(entity.Components))
		for name := range entity.Components {
			compNames = append(compNames, name)
		}
		sort.Strings(compNames)

		for _, compName := range compNames {
			c := entity.Components[compName]
			fmt.Fprintf(out, "  %s [%s] initial=%g", compName, c.Type, c.Initial)
			if c.Min != nil {
				fmt.Fprintf(out, " min=%g", *c.Min)
			}
			if c.Max != nil {
				fmt.Fprintf(out, " max=%g", *c.Max)
			}
			fmt.Fprintln(out)

			for i, inf := range c.Influences {
				state := ""
				if !inf.Enabled {
					state = " (disabled)"
				}
				fmt.Fprintf(out, "    [%d] %s %s coef=%g %s%s\n",
					i, inf.Kind, inf.From, inf.Coef, inf.Function, state)
			}
		}
	}
}
