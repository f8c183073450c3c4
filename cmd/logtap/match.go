package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"mercator-hq/logtap/pkg/cli"
	"mercator-hq/logtap/pkg/pathmatch"
)

var matchFlags struct {
	noCase    bool
	matchBase bool
	noNegate  bool
	format    string
}

var matchCmd = &cobra.Command{
	Use:   "match <path> <pattern>...",
	Short: "Test path patterns against a caller path",
	Long: `Evaluate path patterns against a slash separated path relative to a
package root, exactly as policy path filters do.

Patterns use the policy file syntax: "re:<expr>" is a regular expression,
"glob:<pattern>" is a glob, anything else is a literal path. The glob
options apply to every glob pattern.

The command fails when no pattern matches.

Examples:
  logtap match internal/db/conn.go "glob:internal/**" "re:^cmd/"
  logtap match --nocase README.md "glob:*.MD"`,
	Args: cobra.MinimumNArgs(2),
	RunE: matchPath,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolVar(&matchFlags.noCase, "nocase", false, "case-insensitive glob matching")
	matchCmd.Flags().BoolVar(&matchFlags.matchBase, "matchbase", false, "match slash-free globs against the base name")
	matchCmd.Flags().BoolVar(&matchFlags.noNegate, "nonegate", false, "treat a leading ! in globs literally")
	matchCmd.Flags().StringVar(&matchFlags.format, "format", "text", "output format: text, json")
}

func matchPath(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(matchFlags.format)
	if err != nil {
		return err
	}

	result := MatchResult{Path: args[0], Patterns: make([]PatternResult, 0, len(args)-1)}
	matched := false
	for _, raw := range args[1:] {
		pr := PatternResult{Pattern: raw}

		pat, err := pathmatch.Parse(raw)
		if err == nil {
			if g, ok := pat.(pathmatch.Glob); ok {
				g.Options = pathmatch.Options{
					NoCase:    matchFlags.noCase,
					MatchBase: matchFlags.matchBase,
					NoNegate:  matchFlags.noNegate,
				}
				pat = g
			}
			pr.Match, err = pat.Match(args[0])
		}
		if err != nil {
			pr.Error = err.Error()
		}
		matched = matched || pr.Match
		result.Patterns = append(result.Patterns, pr)
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !matched {
		return cli.NewCommandError("match", fmt.Errorf("no pattern matches %q", args[0]))
	}
	return nil
}

// MatchResult reports which patterns match a path.
type MatchResult struct {
	Path     string          `json:"path"`
	Patterns []PatternResult `json:"patterns"`
}

// PatternResult is the outcome for one pattern.
type PatternResult struct {
	Pattern string `json:"pattern"`
	Match   bool   `json:"match"`
	Error   string `json:"error,omitempty"`
}

func (r MatchResult) WriteText(w io.Writer) error {
	for _, p := range r.Patterns {
		mark := "✗"
		if p.Match {
			mark = "✓"
		}
		line := fmt.Sprintf("%s %s", mark, p.Pattern)
		if p.Error != "" {
			line += " (error: " + p.Error + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
