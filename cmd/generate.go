package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/domain/generation"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		policyName string
		promptFile string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "generate [request]",
		Short: "Generate a network configuration for a request",
		Long: `The generate command asks the LLM for a device configuration that adheres to the selected policy.
The request is read from the arguments, from --file, or from stdin when neither is given.`,
		Example: `  netconfig-assist generate --policy "DMZ Web Server Policy" "Allow HTTPS to 10.0.20.10 from the internet"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readRequest(cmd.InOrStdin(), args, promptFile)
			if err != nil {
				return err
			}

			c, err := initClients(cmd.Context(), opts.cfg, clientOptions{withHistory: true})
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			s := newSpinner(out, jsonOutput)
			s.Start()
			g, err := c.Assistant.Generate(cmd.Context(), generation.Request{PolicyName: policyName, Prompt: prompt})
			s.Stop()
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}
			printGeneration(out, g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&policyName, "policy", "P", "", "Policy to use as context (defaults to the first policy)")
	cmd.Flags().StringVarP(&promptFile, "file", "f", "", "Read the request from a file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the generation as JSON")
	return cmd
}

func readRequest(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read request file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read request from stdin: %w", err)
		}
		return string(data), nil
	}
}

// newSpinner shows progress only for interactive, non-JSON output.
func newSpinner(out io.Writer, quiet bool) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Generating configuration..."
	if quiet || out != os.Stdout || os.Getenv("CI") != "" {
		s.Disable()
	}
	return s
}

func printGeneration(w io.Writer, g *generation.Generation) {
	fmt.Fprintf(w, "Policy: %s\n\n", g.PolicyName)
	fmt.Fprintln(w, "Generated Configuration:")
	fmt.Fprintln(w, g.Configuration)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✅ %s\n", g.Verification.Message)
	fmt.Fprintf(w, "ℹ️  %s\n", g.Deployment.Message)
	fmt.Fprintf(w, "\nID: %s  Model: %s/%s  Tokens: prompt %d, completion %d, total %d  Duration: %s\n",
		g.ID, g.Provider, g.Model,
		g.Usage.PromptTokens, g.Usage.CompletionTokens, g.Usage.TotalTokens,
		g.Duration.Round(time.Millisecond))
}
