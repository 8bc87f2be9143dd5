package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/ai"
	"github.com/netassist/netconfig-assist/pkg/logger"
)

func newTestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the LLM provider connection",
		Long:  `The test command sends a short probe prompt to the configured LLM provider and prints the response.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := newLLMClient(opts.cfg)
			if err != nil {
				return fmt.Errorf("error initializing %s client: %w", opts.cfg.Provider, err)
			}
			if err := ai.TestConnection(cmd.Context(), llm, logger.Logger()); err != nil {
				return fmt.Errorf("error testing %s connection: %w", llm.Provider(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection to %s (%s) OK\n", llm.Provider(), llm.Model())
			return nil
		},
	}
}
