package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"mercator-hq/logtap/pkg/cli"
	"mercator-hq/logtap/pkg/policy/manager"
)

var lintFlags struct {
	file   string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate policy files",
	Long: `Validate declarative policy files without registering them.

The lint command checks YAML syntax, unknown fields, method names, path
patterns and transform steps. A directory is linted file by file and every
problem is reported.

When --file is omitted the policy.file setting from the configuration is
used.

Examples:
  # Lint single file
  logtap lint --file policies.yaml

  # Lint directory
  logtap lint --file policies/

  # JSON output for CI/CD
  logtap lint --file policies.yaml --format json`,
	RunE: lintPolicies,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "policy file or directory to validate")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintPolicies(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}

	path := lintFlags.file
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Policy.File
	}
	if path == "" {
		return fmt.Errorf("no policy file: use --file or set policy.file")
	}

	report := lintReport{manager.Lint(path)}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if !report.Valid() {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}
	return nil
}

// lintReport renders a manager.Report for humans.
type lintReport struct {
	*manager.Report
}

func (r lintReport) WriteText(w io.Writer) error {
	for _, e := range r.Errors {
		fmt.Fprintf(w, "✗ Error: %s\n", e)
	}

	totalErrors := len(r.Errors)
	for _, f := range r.Files {
		fmt.Fprintf(w, "Validating %s...\n", f.Path)
		if len(f.Errors) == 0 {
			fmt.Fprintf(w, "✓ %d policies valid\n", len(f.Policies))
		}
		for _, e := range f.Errors {
			fmt.Fprintf(w, "✗ Error: %s\n", e)
			totalErrors++
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	_, err := fmt.Fprintf(w, "  %d file(s), %d policies, %d error(s)\n", len(r.Files), r.PolicyCount(), totalErrors)
	return err
}
