package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/logtap/pkg/cli"
	"mercator-hq/logtap/pkg/config"
	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/intercept"
	"mercator-hq/logtap/pkg/policy/manager"
	"mercator-hq/logtap/pkg/rootpath"
	"mercator-hq/logtap/pkg/telemetry/health"
	"mercator-hq/logtap/pkg/telemetry/logging"
	"mercator-hq/logtap/pkg/telemetry/metrics"
)

var pipeFlags struct {
	method  string
	policy  string
	watch   bool
	metrics string
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Filter stdin through the policy engine",
	Long: `Read lines from stdin and log each one through the intercepted console
with the given method. Policies come from the configured policy file and are
registered as host policies of the project root (root.entry, default the
working directory), so their path patterns are relative to that root.

debug, log and info lines are written to stdout; warn and error lines to
stderr. Suppressed lines are dropped.

With metrics enabled the telemetry server also serves /health, /ready and
/version. /ready fails while the last policy load failed.

Examples:
  # Tag and filter a log stream
  tail -f app.log | logtap pipe --policy policies.yaml --method info

  # Reload policies on change and expose metrics and health probes
  logtap pipe --policy policies.yaml --watch --metrics 127.0.0.1:9464 < app.log`,
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().StringVarP(&pipeFlags.method, "method", "m", "log", "console method each line is logged with")
	pipeCmd.Flags().StringVarP(&pipeFlags.policy, "policy", "p", "", "override policy file")
	pipeCmd.Flags().BoolVarP(&pipeFlags.watch, "watch", "w", false, "reload the policy file on change")
	pipeCmd.Flags().StringVar(&pipeFlags.metrics, "metrics", "", "serve Prometheus metrics on this address")
}

func runPipe(cmd *cobra.Command, args []string) error {
	if pipeFlags.method == "" {
		return fmt.Errorf("--method must not be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyPipeFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := cli.SignalContext(parent)
	defer stop()

	opts := intercept.Options{
		Resolver: rootpath.Resolver{Marker: cfg.Root.Marker, Entry: cfg.Root.Entry},
		Logger:   logger.Slog(),
		Trace:    cfg.Engine.EnableTrace,
	}

	checker := health.New(2 * time.Second)
	checker.RegisterCheck("interceptor", health.InterceptorCheck())

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		opts.Metrics = collector

		shutdown, err := serveTelemetry(cfg.Telemetry.Metrics, collector, checker, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	prev := console.Replace(console.New(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	defer console.Replace(prev)

	intercept.Detach()
	intercept.Configure(opts)
	defer intercept.Detach()

	if cfg.Policy.File != "" {
		m, err := manager.New(&cfg.Policy, logger.Slog())
		if err != nil {
			return err
		}
		m.WithRegistrant(intercept.HostRegistrant()).WithCompileOptions(manager.CompileOptions{
			Redactor: logging.NewRedactor(cfg.Telemetry.Logging.RedactPatterns),
		})
		if collector != nil {
			m.WithMetrics(collector)
		}
		if err := m.Load(); err != nil {
			return cli.NewCommandError("pipe", err)
		}
		checker.RegisterCheck("policies", health.LastErrorCheck(func() error {
			return m.Status().LastError
		}))

		if cfg.Policy.Watch {
			go func() {
				if err := m.Watch(ctx); err != nil {
					logger.Error("policy watch stopped", "error", err)
				}
			}()
			defer m.Stop()
		}
	} else {
		// Install the interceptor so metrics see every line.
		intercept.Attach()
	}

	return pipeLines(ctx, cmd.InOrStdin(), console.Name(pipeFlags.method), logger)
}

// applyPipeFlags overlays command line flags on the loaded configuration.
func applyPipeFlags(cfg *config.Config) {
	if pipeFlags.policy != "" {
		cfg.Policy.File = pipeFlags.policy
	}
	if pipeFlags.watch {
		cfg.Policy.Watch = true
	}
	if pipeFlags.metrics != "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.ListenAddress = pipeFlags.metrics
	}
}

// pipeLines logs every line of r through the console until r is exhausted
// or ctx is cancelled. Lines whose policies fail are reported and skipped.
func pipeLines(ctx context.Context, r io.Reader, method console.Key, logger *logging.Logger) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		var err error
		defer close(lines)
		// scanErr is filled before lines closes.
		defer func() { scanErr <- err }()

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	failed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				if err := <-scanErr; err != nil {
					return cli.NewCommandError("pipe", err)
				}
				if failed > 0 {
					return cli.NewCommandError("pipe", fmt.Errorf("%d line(s) failed", failed))
				}
				return nil
			}
			if err := console.Call(method, line); err != nil {
				failed++
				logger.Error("line not written", "method", method.String(), "error", err)
			}
		}
	}
}

// serveTelemetry starts the Prometheus and health endpoints and returns a
// function that shuts them down.
func serveTelemetry(cfg config.MetricsConfig, collector *metrics.Collector, checker *health.Checker, logger *logging.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, collector.Handler())
	health.Register(mux, checker, Version, GitCommit, BuildDate)

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return nil, fmt.Errorf("failed to serve telemetry on %s: %w", cfg.ListenAddress, err)
	case <-time.After(50 * time.Millisecond):
	}
	logger.Info("serving telemetry", "address", cfg.ListenAddress, "metrics_path", cfg.Path)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("telemetry server shutdown failed", "error", err)
		}
	}, nil
}
