package manager

import (
	"fmt"

	"mercator-hq/logtap/pkg/pathmatch"

	"gopkg.in/yaml.v3"
)

// Document is the top level of a policy file.
type Document struct {
	Policies []PolicySpec `yaml:"policies"`
}

// PolicySpec is the declarative form of an engine.Policy.
//
//	- name: quiet-vendor
//	  method: [log, info]
//	  path: "glob:vendor/**"
//	  disabled: true
//	  transform:
//	    - prefix: "[vendor]"
type PolicySpec struct {
	// Name labels the policy.
	Name string `yaml:"name"`

	// Method lists console method names. Omitted applies to all methods;
	// an empty list applies to none.
	Method StringList `yaml:"method"`

	// Path lists caller path patterns. Omitted applies to all paths.
	Path PathList `yaml:"path"`

	// Disabled sets the running disabled flag when present.
	Disabled *bool `yaml:"disabled"`

	// Transform is applied in order.
	Transform []StepSpec `yaml:"transform"`
}

// StepSpec is one built-in transform step. Exactly one field must be set.
type StepSpec struct {
	// Prefix prepends a value to the arguments.
	Prefix *string `yaml:"prefix"`

	// Suffix appends a value to the arguments.
	Suffix *string `yaml:"suffix"`

	// Timestamp prepends the current time in this layout. An empty layout
	// uses RFC 3339.
	Timestamp *string `yaml:"timestamp"`

	// LevelTag prepends "[METHOD]" when true.
	LevelTag *bool `yaml:"level_tag"`

	// Redact masks PII in string and error arguments when true.
	Redact *bool `yaml:"redact"`

	// DropMatching prevents the call when the first string argument
	// matches this regular expression.
	DropMatching *string `yaml:"drop_matching"`
}

// name returns the step's kind, or "" if no field or several fields are set.
func (s StepSpec) name() string {
	var names []string
	if s.Prefix != nil {
		names = append(names, "prefix")
	}
	if s.Suffix != nil {
		names = append(names, "suffix")
	}
	if s.Timestamp != nil {
		names = append(names, "timestamp")
	}
	if s.LevelTag != nil {
		names = append(names, "level_tag")
	}
	if s.Redact != nil {
		names = append(names, "redact")
	}
	if s.DropMatching != nil {
		names = append(names, "drop_matching")
	}
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

// StringList accepts a scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(node.Content))
		for _, n := range node.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a string", n.Line)
			}
			out = append(out, n.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// PathList accepts a single path pattern or a sequence of them.
type PathList []PathSpec

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *PathList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		var p PathSpec
		if err := node.Decode(&p); err != nil {
			return err
		}
		*l = PathList{p}
		return nil
	}

	out := make(PathList, 0, len(node.Content))
	for _, n := range node.Content {
		var p PathSpec
		if err := n.Decode(&p); err != nil {
			return err
		}
		out = append(out, p)
	}
	*l = out
	return nil
}

// Patterns returns the compiled alternatives. A nil list stays nil.
func (l PathList) Patterns() pathmatch.Any {
	if l == nil {
		return nil
	}
	out := make(pathmatch.Any, len(l))
	for i, p := range l {
		out[i] = p.Pattern
	}
	return out
}

// PathSpec is a single path pattern. In YAML it is either a string
// ("re:expr", "glob:pattern" or a literal path) or a mapping:
//
//	{glob: "**/*.go", options: {nocase: true}}
//	{regex: "^internal/"}
type PathSpec struct {
	Pattern pathmatch.Pattern
	line    int
}

type pathMapping struct {
	Glob    *string           `yaml:"glob"`
	Regex   *string           `yaml:"regex"`
	Literal *string           `yaml:"literal"`
	Options pathmatch.Options `yaml:"options"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PathSpec) UnmarshalYAML(node *yaml.Node) error {
	p.line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		pat, err := pathmatch.Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		p.Pattern = pat
		return nil

	case yaml.MappingNode:
		var m pathMapping
		if err := node.Decode(&m); err != nil {
			return err
		}
		set := 0
		for _, v := range []*string{m.Glob, m.Regex, m.Literal} {
			if v != nil {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("line %d: path mapping needs exactly one of glob, regex or literal", node.Line)
		}
		switch {
		case m.Glob != nil:
			p.Pattern = pathmatch.Glob{Pattern: *m.Glob, Options: m.Options}
		case m.Regex != nil:
			re, err := pathmatch.Regex(*m.Regex)
			if err != nil {
				return fmt.Errorf("line %d: %w", node.Line, err)
			}
			p.Pattern = re
		default:
			p.Pattern = pathmatch.Literal(*m.Literal)
		}
		return nil

	default:
		return fmt.Errorf("line %d: expected a path pattern", node.Line)
	}
}
