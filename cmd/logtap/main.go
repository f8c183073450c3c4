// Logtap intercepts console output and resolves it against scoped policies.
//
// The logtap command is the tooling side of the library:
//   - Validate declarative policy files
//   - Explain how a call from a given file would be resolved
//   - Inspect package roots and path patterns
//   - Filter a text stream through the policy engine
//
// Usage:
//
//	# Show version information
//	logtap version
//
//	# Validate policy files
//	logtap lint --file policies.yaml
//
//	# Dry-run a call from a caller file
//	logtap explain --file policies.yaml --method warn --caller internal/db/conn.go "slow query"
//
//	# Show which package root owns a file
//	logtap root vendor/example.com/lib/log.go
//
//	# Test path patterns
//	logtap match internal/db/conn.go "glob:internal/**" "re:_test\.go$"
//
//	# Filter stdin through policies
//	tail -f app.log | logtap pipe --config logtap.yaml --method info
package main

import (
	"os"

	"mercator-hq/logtap/pkg/cli"
)

func main() {
	os.Exit(cli.ExitCode(Execute()))
}
