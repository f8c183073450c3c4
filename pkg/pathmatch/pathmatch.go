// Package pathmatch evaluates caller-relative paths against literal,
// regular-expression and glob patterns.
package pathmatch

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern matches a slash-separated relative path.
type Pattern interface {
	Match(p string) (bool, error)
	String() string
}

// Literal matches a path by exact string equality.
type Literal string

// Match reports whether p equals the literal.
func (l Literal) Match(p string) (bool, error) {
	return string(l) == p, nil
}

func (l Literal) String() string { return string(l) }

// Regexp matches a path when the expression finds a match anywhere in it.
type Regexp struct {
	re *regexp.Regexp
}

// Regex compiles expr into a Regexp pattern.
func Regex(expr string) (*Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regexp{re: re}, nil
}

// MustRegex is like Regex but panics on an invalid expression.
func MustRegex(expr string) *Regexp {
	r, err := Regex(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// FromRegexp wraps an already compiled expression.
func FromRegexp(re *regexp.Regexp) *Regexp {
	return &Regexp{re: re}
}

// Match reports whether the expression matches p.
func (r *Regexp) Match(p string) (bool, error) {
	return r.re.MatchString(p), nil
}

func (r *Regexp) String() string { return "/" + r.re.String() + "/" }

// Options tune glob matching.
type Options struct {
	// NoCase matches case-insensitively.
	NoCase bool `yaml:"nocase" json:"nocase,omitempty"`

	// MatchBase matches patterns without slashes against the base name of
	// the path.
	MatchBase bool `yaml:"matchbase" json:"matchbase,omitempty"`

	// NoNegate treats a leading "!" literally.
	NoNegate bool `yaml:"nonegate" json:"nonegate,omitempty"`
}

// Glob matches a path against a doublestar glob. "**" crosses directory
// separators. A leading "!" negates the match unless Options.NoNegate is set.
type Glob struct {
	Pattern string
	Options Options
}

// Match reports whether p matches the glob. A malformed glob yields an
// error wrapping doublestar.ErrBadPattern.
func (g Glob) Match(p string) (bool, error) {
	pattern := g.Pattern
	negate := false
	if !g.Options.NoNegate {
		for strings.HasPrefix(pattern, "!") {
			negate = !negate
			pattern = pattern[1:]
		}
	}

	if g.Options.NoCase {
		pattern = strings.ToLower(pattern)
		p = strings.ToLower(p)
	}
	if g.Options.MatchBase && !strings.Contains(pattern, "/") {
		p = path.Base(p)
	}

	ok, err := doublestar.Match(pattern, p)
	if err != nil {
		return false, fmt.Errorf("glob %q: %w", g.Pattern, err)
	}
	return ok != negate, nil
}

func (g Glob) String() string { return "glob:" + g.Pattern }

// Any is an ordered set of alternatives. It matches when any alternative
// matches, stopping at the first one.
type Any []Pattern

// Match evaluates the alternatives in order. An error from an alternative
// stops evaluation.
func (a Any) Match(p string) (bool, error) {
	for _, pat := range a {
		ok, err := pat.Match(p)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (a Any) String() string {
	parts := make([]string, len(a))
	for i, pat := range a {
		parts[i] = pat.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Parse builds a pattern from its textual form: "re:<expr>" for a regular
// expression, "glob:<pattern>" for a glob, anything else is a literal.
func Parse(s string) (Pattern, error) {
	switch {
	case strings.HasPrefix(s, "re:"):
		return Regex(strings.TrimPrefix(s, "re:"))
	case strings.HasPrefix(s, "glob:"):
		return Glob{Pattern: strings.TrimPrefix(s, "glob:")}, nil
	default:
		return Literal(s), nil
	}
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ErrInvalidPattern indicates a pattern that can never be evaluated.
var ErrInvalidPattern = errors.New("invalid pattern")

// Validate checks that pat can be evaluated. Literals and compiled
// expressions are always valid.
func Validate(pat Pattern) error {
	switch v := pat.(type) {
	case nil:
		return fmt.Errorf("%w: nil pattern", ErrInvalidPattern)
	case Glob:
		raw := strings.TrimLeft(v.Pattern, "!")
		if v.Options.NoNegate {
			raw = v.Pattern
		}
		if !doublestar.ValidatePattern(raw) {
			return fmt.Errorf("%w: glob %q", ErrInvalidPattern, v.Pattern)
		}
	case Any:
		for _, alt := range v {
			if err := Validate(alt); err != nil {
				return err
			}
		}
	case *Regexp:
		if v == nil || v.re == nil {
			return fmt.Errorf("%w: nil regexp", ErrInvalidPattern)
		}
	}
	return nil
}
