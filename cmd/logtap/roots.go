package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"mercator-hq/logtap/pkg/cli"
	"mercator-hq/logtap/pkg/intercept"
	"mercator-hq/logtap/pkg/rootpath"
)

var rootsFlags struct {
	format string
}

var rootsCmd = &cobra.Command{
	Use:   "root <path>...",
	Short: "Show the package root owning each path",
	Long: `Resolve the package root of each path and whether policies registered
from it would be host or dependency policies.

The package root is the nearest ancestor directory containing the root
marker (root.marker, go.mod by default). The process root is the package
root of root.entry, the working directory by default.

Examples:
  logtap root main.go vendor/example.com/lib/log.go`,
	Args: cobra.MinimumNArgs(1),
	RunE: resolveRoots,
}

func init() {
	rootCmd.AddCommand(rootsCmd)

	rootsCmd.Flags().StringVar(&rootsFlags.format, "format", "text", "output format: text, json")
}

func resolveRoots(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(rootsFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resolver := rootpath.Resolver{Marker: cfg.Root.Marker, Entry: cfg.Root.Entry}
	intercept.Configure(intercept.Options{Resolver: resolver})

	result := RootsResult{ProcessRoot: resolver.Root(), Paths: make([]RootEntry, 0, len(args))}
	for _, p := range args {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		reg := intercept.Registrant(abs)
		result.Paths = append(result.Paths, RootEntry{
			Path: p,
			Root: reg.RootPath,
			Kind: reg.Kind.String(),
		})
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result)
}

// RootsResult lists the package root of each requested path.
type RootsResult struct {
	ProcessRoot string      `json:"process_root"`
	Paths       []RootEntry `json:"paths"`
}

// RootEntry is the package root of one path.
type RootEntry struct {
	Path string `json:"path"`
	Root string `json:"root"`
	Kind string `json:"kind"`
}

func (r RootsResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Process root: %s\n", r.ProcessRoot)
	for _, p := range r.Paths {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", p.Path, p.Kind, p.Root); err != nil {
			return err
		}
	}
	return nil
}
