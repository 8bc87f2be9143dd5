package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/infrastructure/policyfile"
)

func newPoliciesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List the available network policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := policyfile.LoadCatalog(opts.cfg.PolicyDir, opts.cfg.PolicyDirOptional())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSOURCE")
			for _, p := range catalog.List() {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Source)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show the full text of a policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := policyfile.LoadCatalog(opts.cfg.PolicyDir, opts.cfg.PolicyDirOptional())
			if err != nil {
				return err
			}
			p, err := catalog.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", p.Name, p.Details())
			return nil
		},
	})
	return cmd
}
