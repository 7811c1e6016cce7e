package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyxcit/simdecision/internal/llm"
	"github.com/gyxcit/simdecision/internal/proposal"
)

func newProposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose <instruction...>",
		Short: "Ask the LLM for an edit proposal (not applied)",
		Long: `Ask the configured LLM provider for a set of model changes satisfying the
instruction. The proposal is printed, never applied; review it and apply it
with 'simdec apply-proposal'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("target")
			instruction := strings.Join(args, " ")

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			client, err := llm.NewClient(llm.ClientConfig{
				Provider: e.cfg.LLM.Provider,
				APIKey:   e.cfg.LLM.APIKey,
				BaseURL:  e.cfg.LLM.BaseURL,
				Model:    e.cfg.LLM.Model,
				Timeout:  e.cfg.LLM.Timeout,
			})
			if err != nil {
				return err
			}

			p, err := client.ProposeEdit(context.Background(), e.store.Model(), target, instruction)
			if err != nil {
				return fmt.Errorf("propose: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, p)
			}

			printProposal(cmd, p)
			return nil
		},
	}
	cmd.Flags().String("target", "", "Scope the proposal to an entity or component path")
	return cmd
}

func newApplyProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply-proposal [file]",
		Short: "Apply a reviewed edit proposal",
		Long: `Apply an edit proposal from a JSON file (or stdin when no file is given).

Field changes are always applied. Structural changes (otherChanges) are
applied only when approved with --approve; each index refers to the
otherChanges array.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			approved, _ := cmd.Flags().GetIntSlice("approve")
			all, _ := cmd.Flags().GetBool("approve-all")

			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading proposal: %w", err)
			}

			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("parsing proposal: %w", err)
			}
			p, err := proposal.Normalize(raw)
			if err != nil {
				return err
			}

			if all {
				approved = approved[:0]
				for i := range p.OtherChanges {
					approved = append(approved, i)
				}
			}

			e, closeEnv, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer closeEnv()

			if err := proposal.Apply(e.store, p, approved); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd, map[string]interface{}{
					"applied_changes":       len(p.Changes),
					"applied_other_changes": len(approved),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d field changes and %d structural changes\n",
				len(p.Changes), len(approved))
			return nil
		},
	}
	cmd.Flags().IntSlice("approve", nil, "Indices of otherChanges to apply (repeatable)")
	cmd.Flags().Bool("approve-all", false, "Apply every structural change in the proposal")
	return cmd
}

// printProposal renders a proposal for human review.
func printProposal(cmd *cobra.Command, p *proposal.Proposal) {
	out := cmd.OutOrStdout()
	if p.Reasoning != "" {
		fmt.Fprintf(out, "Reasoning: %s\n", p.Reasoning)
	}

	if len(p.Changes) > 0 {
		fmt.Fprintln(out, "\nField changes:")
		for _, fc := range p.Changes {
			fmt.Fprintf(out, "  %s.%s: %g -> %g", fc.Path, fc.Field, fc.OldValue, fc.NewValue)
			if fc.Reason != "" {
				fmt.Fprintf(out, "  (%s)", fc.Reason)
			}
			fmt.Fprintln(out)
		}
	}

	if len(p.OtherChanges) > 0 {
		fmt.Fprintln(out, "\nStructural changes (require --approve on apply):")
		for i, ac := range p.OtherChanges {
			fmt.Fprintf(out, "  [%d] %s", i, ac.Op)
			if ac.Entity != "" {
				fmt.Fprintf(out, " entity=%s", ac.Entity)
			}
			if ac.Name != "" {
				fmt.Fprintf(out, " name=%s", ac.Name)
			}
			if ac.Path != "" {
				fmt.Fprintf(out, " path=%s", ac.Path)
			}
			if ac.Index != nil {
				fmt.Fprintf(out, " index=%d", *ac.Index)
			}
			if ac.Reason != "" {
				fmt.Fprintf(out, "  (%s)", ac.Reason)
			}
			fmt.Fprintln(out)
		}
	}

	if len(p.Changes) == 0 && len(p.OtherChanges) == 0 {
		fmt.Fprintln(out, "Proposal contains no changes")
	}
}
