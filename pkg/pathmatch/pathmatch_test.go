package pathmatch

import (
	"errors"
	"regexp"
	"testing"
)

func TestPatterns(t *testing.T) {
	const moduleB = "node_modules/module-b/index.js"

	tests := []struct {
		name    string
		pattern Pattern
		path    string
		want    bool
	}{
		{"literal exact", Literal("node_modules/module-a/index.js"), "node_modules/module-a/index.js", true},
		{"literal other path", Literal("node_modules/module-a/index.js"), moduleB, false},
		{"literal empty matches empty", Literal(""), "", true},
		{"regex anchored", MustRegex(`^node_modules`), moduleB, true},
		{"regex unanchored", MustRegex(`module-b`), moduleB, true},
		{"regex miss", MustRegex(`^src/`), moduleB, false},
		{"regex compiled", FromRegexp(regexp.MustCompile(`index\.js$`)), moduleB, true},
		{"glob doublestar", Glob{Pattern: "node_modules/**"}, moduleB, true},
		{"glob single star stays in segment", Glob{Pattern: "node_modules/*"}, moduleB, false},
		{"glob case sensitive", Glob{Pattern: "NODE_MODULES/**"}, moduleB, false},
		{"glob nocase", Glob{Pattern: "NODE_MODULES/**", Options: Options{NoCase: true}}, moduleB, true},
		{"glob matchbase", Glob{Pattern: "*.js", Options: Options{MatchBase: true}}, moduleB, true},
		{"glob without matchbase", Glob{Pattern: "*.js"}, moduleB, false},
		{"glob negated", Glob{Pattern: "!src/**"}, moduleB, true},
		{"glob negated match", Glob{Pattern: "!node_modules/**"}, moduleB, false},
		{"glob nonegate", Glob{Pattern: "!node_modules/**", Options: Options{NoNegate: true}}, moduleB, false},
		{"glob brace", Glob{Pattern: "{src,node_modules}/**"}, moduleB, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pattern.Match(tt.path)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("%s.Match(%q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

type countingPattern struct {
	result bool
	calls  *int
}

func (c countingPattern) Match(string) (bool, error) {
	*c.calls++
	return c.result, nil
}

func (c countingPattern) String() string { return "counting" }

func TestAnyShortCircuits(t *testing.T) {
	var first, second int
	set := Any{
		countingPattern{result: true, calls: &first},
		countingPattern{result: true, calls: &second},
	}

	ok, err := set.Match("x")
	if err != nil || !ok {
		t.Fatalf("Match() = %v, %v; want true, nil", ok, err)
	}
	if first != 1 || second != 0 {
		t.Errorf("calls = (%d, %d), want (1, 0)", first, second)
	}
}

func TestAnyMatchesAlternatives(t *testing.T) {
	set := Any{Literal("a.go"), MustRegex(`^b`), Glob{Pattern: "c/**"}}

	for _, p := range []string{"a.go", "b/x.go", "c/d/e.go"} {
		if ok, _ := set.Match(p); !ok {
			t.Errorf("Any.Match(%q) = false, want true", p)
		}
	}
	if ok, _ := set.Match("d.go"); ok {
		t.Error("Any.Match(\"d.go\") = true, want false")
	}
	if ok, _ := (Any{}).Match(""); ok {
		t.Error("empty Any matched")
	}
}

func TestBadGlob(t *testing.T) {
	_, err := Glob{Pattern: "src/[a-"}.Match("src/a")
	if err == nil {
		t.Fatal("Match() with malformed glob returned nil error")
	}

	if err := Validate(Glob{Pattern: "src/[a-"}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Validate() = %v, want ErrInvalidPattern", err)
	}
	if err := Validate(Any{Literal("x"), Glob{Pattern: "ok/**"}}); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"re:^src/", "/^src//"},
		{"glob:src/**", "glob:src/**"},
		{"main.go", "main.go"},
	}

	for _, tt := range tests {
		p, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.in, err)
		}
		if p.String() != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.in, p.String(), tt.want)
		}
	}

	if _, err := Parse("re:("); err == nil {
		t.Error("Parse(\"re:(\") returned nil error")
	}
}
