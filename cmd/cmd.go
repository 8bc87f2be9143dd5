// Package cmd implements the netconfig-assist command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/logger"
	"github.com/netassist/netconfig-assist/pkg/service/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

type rootOptions struct {
	envFile     string
	secretsFile string
	logLevel    string
	logFormat   string
	provider    string
	policyDir   string
	historyPath string
	noHistory   bool
	timeout     time.Duration

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "netconfig-assist",
		Short:         "Intelligent Network Configuration Assistant",
		Long:          `netconfig-assist generates network device configurations that adhere to a selected network policy, using an LLM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "Optional .env file to load")
	flags.StringVar(&opts.secretsFile, "secrets-file", config.DefaultSecretsFile, "Optional TOML secrets file holding GOOGLE_API_KEY")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console, json")
	flags.StringVar(&opts.provider, "provider", "", "LLM provider: gemini, azure")
	flags.StringVar(&opts.policyDir, "policy-dir", "", "Directory of YAML policy files merged over the built-in policies")
	flags.StringVar(&opts.historyPath, "history-path", "", "Path of the generation history database")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record generations")
	flags.DurationVarP(&opts.timeout, "timeout", "t", 0, "Timeout for a single LLM request")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newPoliciesCmd(opts),
		newHistoryCmd(opts),
		newTestCmd(opts),
		newMCPCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig applies defaults, .env, environment, secrets file and flags in
// that order, then configures logging.
func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFile, o.secretsFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("provider") {
		cfg.Provider = o.provider
	}
	if flags.Changed("policy-dir") {
		cfg.PolicyDir = o.policyDir
	}
	if flags.Changed("history-path") {
		cfg.HistoryPath = o.historyPath
	}
	if o.noHistory {
		cfg.HistoryEnabled = false
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = o.timeout
	}
	cfg.ServiceVersion = Version

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	o.cfg = cfg
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Errorf("Error: %v", err)
		if isConfigurationError(err) {
			printConfigurationHelp()
		}
		os.Exit(1)
	}
}
