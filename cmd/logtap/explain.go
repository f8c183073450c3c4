package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/logtap/pkg/cli"
	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/intercept"
	"mercator-hq/logtap/pkg/policy/engine"
	"mercator-hq/logtap/pkg/policy/manager"
	"mercator-hq/logtap/pkg/rootpath"
	"mercator-hq/logtap/pkg/telemetry/logging"
)

var explainFlags struct {
	file   string
	method string
	caller string
	format string
}

var explainCmd = &cobra.Command{
	Use:   "explain [args...]",
	Short: "Show how a console call would be resolved",
	Long: `Evaluate a single console call against a policy file and print the
evaluation trace.

The policies are registered on behalf of the policy file's package root, the
same way a Manager created next to the file would register them. The call is
attributed to --caller; nothing is written to the console.

Examples:
  # Would a warning from the database package be shown?
  logtap explain --file policies.yaml --method warn --caller internal/db/conn.go "slow query"

  # JSON trace
  logtap explain --file policies.yaml --caller main.go --format json hello`,
	RunE: explainCall,
}

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().StringVarP(&explainFlags.file, "file", "f", "", "policy file or directory (default: policy.file from config)")
	explainCmd.Flags().StringVarP(&explainFlags.method, "method", "m", "log", "console method")
	explainCmd.Flags().StringVar(&explainFlags.caller, "caller", "", "source file the call is made from")
	explainCmd.Flags().StringVar(&explainFlags.format, "format", "text", "output format: text, json")
}

func explainCall(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(explainFlags.format)
	if err != nil {
		return err
	}
	if explainFlags.caller == "" {
		return fmt.Errorf("--caller is required")
	}
	if explainFlags.method == "" {
		return fmt.Errorf("--method must not be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	file := explainFlags.file
	if file == "" {
		file = cfg.Policy.File
	}
	if file == "" {
		return fmt.Errorf("no policy file: use --file or set policy.file")
	}
	file, err = filepath.Abs(file)
	if err != nil {
		return err
	}
	caller, err := filepath.Abs(explainFlags.caller)
	if err != nil {
		return err
	}

	policies, err := manager.LoadFile(file, manager.CompileOptions{
		Redactor: logging.NewRedactor(cfg.Telemetry.Logging.RedactPatterns),
	})
	if err != nil {
		return cli.NewCommandError("explain", err)
	}

	intercept.Configure(intercept.Options{
		Resolver: rootpath.Resolver{Marker: cfg.Root.Marker, Entry: cfg.Root.Entry},
		Logger:   logger.Slog(),
	})
	reg := intercept.Registrant(file)

	store := engine.NewStore()
	store.Append(reg, policies...)
	eng := engine.New(store, engine.DefaultEngineConfig().WithTrace(true), logger.Slog())

	callArgs := make([]any, len(args))
	for i, a := range args {
		callArgs[i] = a
	}
	method := console.Name(explainFlags.method)

	decision, err := eng.Evaluate(&engine.Call{Method: method, Args: callArgs, File: caller})
	if err != nil {
		return cli.NewCommandError("explain", err)
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), newExplainResult(caller, method, reg, decision))
}

// ExplainResult is the outcome of a dry-run evaluation.
type ExplainResult struct {
	Caller     string            `json:"caller"`
	Method     string            `json:"method"`
	Registrant engine.Registrant `json:"registrant"`
	Outcome    engine.Outcome    `json:"outcome"`
	Output     string            `json:"output,omitempty"`
	Applied    []string          `json:"applied,omitempty"`
	Steps      []ExplainStep     `json:"steps"`
	Duration   time.Duration     `json:"duration_ns"`
}

// ExplainStep is one entry of the evaluation trace.
type ExplainStep struct {
	Step    string `json:"step"`
	Policy  string `json:"policy"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Details string `json:"details"`
}

func newExplainResult(caller string, method console.Key, reg engine.Registrant, d *engine.Decision) ExplainResult {
	r := ExplainResult{
		Caller:     caller,
		Method:     method.String(),
		Registrant: reg,
		Outcome:    d.Outcome,
		Applied:    d.Applied,
		Steps:      []ExplainStep{},
		Duration:   d.EvaluationTime,
	}
	if d.Outcome == engine.OutcomeForward {
		r.Output = console.Format(d.Args...)
	}
	if d.Trace != nil {
		for _, s := range d.Trace.Steps {
			r.Steps = append(r.Steps, ExplainStep{
				Step:    s.StepType,
				Policy:  s.Policy,
				Kind:    s.Kind.String(),
				Path:    s.Path,
				Details: s.Details,
			})
		}
	}
	return r
}

func (r ExplainResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Call:     %s from %s\n", r.Method, r.Caller)
	fmt.Fprintf(w, "Policies: %s (%s)\n", r.Registrant.RootPath, r.Registrant.Kind)
	fmt.Fprintln(w)

	for i, s := range r.Steps {
		fmt.Fprintf(w, "%2d. %-11s %s [%s] path=%q: %s\n", i+1, s.Step, s.Policy, s.Kind, s.Path, s.Details)
	}
	if len(r.Steps) == 0 {
		fmt.Fprintln(w, "No policy took effect.")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Outcome:  %s\n", r.Outcome)
	if r.Outcome == engine.OutcomeForward {
		_, err := fmt.Fprintf(w, "Output:   %q\n", r.Output)
		return err
	}
	return nil
}
