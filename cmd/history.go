package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/infrastructure/persistence/history"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	openStore := func() (*history.BoltStore, error) {
		if !opts.cfg.HistoryEnabled {
			return nil, fmt.Errorf("generation history is disabled")
		}
		return history.NewBoltStore(opts.cfg.HistoryPath)
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tPOLICY\tREQUEST")
			for _, g := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.CreatedAt.Local().Format(time.DateTime), g.PolicyName, truncate(g.Prompt, 60))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries, 0 for all")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print one past generation as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				g, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one past generation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
