/*
Package cli provides command-line helpers shared by the logtap command.

Output Formatting:

Commands print their results as text or JSON:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, report); err != nil {
		return err
	}

Results that implement TextWriter control their own text rendering.

Errors:

ConfigError and CommandError classify command failures; ExitCode maps them
to the process exit status.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
