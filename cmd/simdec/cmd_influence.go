package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/store"
)

func newInfluenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "influence",
		Short: "Manage influences on components",
	}
	cmd.AddCommand(newInfluenceAddCmd(), newInfluenceRemoveCmd(), newInfluenceUpdateCmd())
	return cmd
}

func newInfluenceAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path> <from>",
		Short: "Add an influence to the component at path",
		Long: `Add an influence to the component at <path> (Entity.component).
<from> is the source reference: a qualified path, a bare component name,
or "self".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := model.InfluenceSpec{From: args[1]}
			if cmd.Flags().Changed("coef") {
				v, _ := cmd.Flags().GetFloat64("coef")
				spec.Coef = &v
			}
			if cmd.Flags().Changed("kind") {
				v, _ := cmd.Flags().GetString("kind")
				kind := model.InfluenceKind(v)
				spec.Kind = &kind
			}
			if cmd.Flags().Changed("function") {
				v, _ := cmd.Flags().GetString("function")
				fn := model.TransferFunction(v)
				spec.Function = &fn
			}
			if cmd.Flags().Changed("disabled") {
				disabled, _ := cmd.Flags().GetBool("disabled")
				enabled := !disabled
				spec.Enabled = &enabled
			}

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			if err := e.store.AddInfluence(args[0], spec); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]string{"path": args[0], "from": args[1]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Influence from %q added to %q\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().Float64("coef", model.DefaultCoef, "Coefficient")
	cmd.Flags().String("kind", "positive", "Influence kind: positive, negative, decay, or ratio")
	cmd.Flags().String("function", "linear", "Transfer function")
	cmd.Flags().Bool("disabled", false, "Create the influence disabled")
	return cmd
}

func newInfluenceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path> <index>",
		Short: "Remove an influence by positional index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer: %w", err)
			}

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			if err := e.store.RemoveInfluence(args[0], index); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]interface{}{"path": args[0], "removed": index})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Influence %d removed from %q\n", index, args[0])
			return nil
		},
	}
}

func newInfluenceUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <path> <index>",
		Short: "Update fields of an influence by positional index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer: %w", err)
			}

			var patch store.InfluencePatch
			if cmd.Flags().Changed("from") {
				v, _ := cmd.Flags().GetString("from")
				patch.From = &v
			}
			if cmd.Flags().Changed("coef") {
				v, _ := cmd.Flags().GetFloat64("coef")
				patch.Coef = &v
			}
			if cmd.Flags().Changed("kind") {
				v, _ := cmd.Flags().GetString("kind")
				kind := model.InfluenceKind(v)
				patch.Kind = &kind
			}
			if cmd.Flags().Changed("function") {
				v, _ := cmd.Flags().GetString("function")
				fn := model.TransferFunction(v)
				patch.Function = &fn
			}
			if cmd.Flags().Changed("enabled") {
				v, _ := cmd.Flags().GetBool("enabled")
				patch.Enabled = &v
			}

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			if err := e.store.UpdateInfluence(args[0], index, patch); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]interface{}{"path": args[0], "updated": index})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Influence %d on %q updated\n", index, args[0])
			return nil
		},
	}
	cmd.Flags().String("from", "", "New source reference")
	cmd.Flags().Float64("coef", 0, "New coefficient")
	cmd.Flags().String("kind", "", "New influence kind")
	cmd.Flags().String("function", "", "New transfer function")
	cmd.Flags().Bool("enabled", true, "Enable or disable the influence")
	return cmd
}
