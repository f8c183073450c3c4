package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/logtap/pkg/cli"
	"mercator-hq/logtap/pkg/config"
	"mercator-hq/logtap/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "logtap",
	Short: "Logtap - scoped policies for console output",
	Long: `Logtap intercepts console output and decides, per call, whether it is
forwarded, suppressed or rewritten.

Policies are scoped by console method and by caller path. Policies registered
by a dependency only ever affect that dependency's own calls; policies
registered by the host application are evaluated last and have the final say.

The logtap command validates declarative policy files, explains how a call
would be resolved, and can filter a text stream through the policy engine.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults and LOGTAP_* environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration selected by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg, nil
}

// newLogger builds the diagnostics logger for a command. The console format
// is replaced by text: the logger feeds the interceptor and must not write
// back into the console it intercepts.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	if lc.Format == string(logging.FormatConsole) {
		lc.Format = string(logging.FormatText)
	}
	if verbose {
		lc.Level = "debug"
	}
	lc.Writer = cmd.ErrOrStderr()

	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}
