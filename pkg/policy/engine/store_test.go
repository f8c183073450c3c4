package engine

import (
	"errors"
	"testing"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/pathmatch"
)

func names(policies []*Policy) []string {
	out := make([]string, len(policies))
	for i, p := range policies {
		out[i] = p.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.Append(host); got != nil {
		t.Errorf("Append() with no policies = %v, want nil", got)
	}
}

func TestStore_Append_Ordering(t *testing.T) {
	depB := Registrant{Kind: KindDependency, RootPath: "/app/vendor/b"}

	s := NewStore()
	s.Append(host, Policy{Name: "h1"}, Policy{Name: "h2"})
	s.Append(depA, Policy{Name: "a1"})
	s.Append(host, Policy{Name: "h3"})
	s.Append(depB, Policy{Name: "b1"}, Policy{Name: "b2"})

	want := []string{"a1", "b1", "b2", "h1", "h2", "h3"}
	if got := names(s.Snapshot()); !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if s.Len() != 6 {
		t.Errorf("Len() = %d, want 6", s.Len())
	}
}

func TestStore_Append_Registrant(t *testing.T) {
	s := NewStore()
	added := s.Append(depA, Policy{Name: "a"})

	if len(added) != 1 {
		t.Fatalf("Append() returned %d policies, want 1", len(added))
	}
	if got := added[0].Registrant(); got != depA {
		t.Errorf("Registrant() = %+v, want %+v", got, depA)
	}
}

func TestStore_Append_CopiesInput(t *testing.T) {
	methods := []console.Key{console.KeyLog}
	paths := pathmatch.Any{pathmatch.Literal("a.go")}
	disabled := true

	s := NewStore()
	s.Append(host, Policy{Methods: methods, Paths: paths, Disabled: &disabled})

	methods[0] = console.KeyError
	paths[0] = pathmatch.Literal("b.go")
	disabled = false

	p := s.Snapshot()[0]
	if p.Methods[0] != console.KeyLog {
		t.Error("stored Methods aliased caller slice")
	}
	if p.Paths[0].String() != "a.go" {
		t.Error("stored Paths aliased caller slice")
	}
	if !*p.Disabled {
		t.Error("stored Disabled aliased caller pointer")
	}
}

func TestStore_Snapshot_Immutable(t *testing.T) {
	s := NewStore()
	s.Append(host, Policy{Name: "h1"})

	before := s.Snapshot()
	s.Append(depA, Policy{Name: "a1"})

	if got := names(before); !equal(got, []string{"h1"}) {
		t.Errorf("earlier snapshot changed to %v", got)
	}
}

func TestStore_ReplaceSource(t *testing.T) {
	file := host
	file.Source = "policies.yaml"

	s := NewStore()
	s.Append(host, Policy{Name: "code"})
	if _, err := s.ReplaceSource(file, Policy{Name: "f1"}, Policy{Name: "f2"}); err != nil {
		t.Fatalf("ReplaceSource() error = %v", err)
	}
	s.Append(host, Policy{Name: "code2"})

	if _, err := s.ReplaceSource(file, Policy{Name: "f3"}); err != nil {
		t.Fatalf("ReplaceSource() error = %v", err)
	}

	want := []string{"code", "code2", "f3"}
	if got := names(s.Snapshot()); !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	if _, err := s.ReplaceSource(file); err != nil {
		t.Fatalf("ReplaceSource() error = %v", err)
	}
	if got := names(s.Snapshot()); !equal(got, []string{"code", "code2"}) {
		t.Errorf("after clearing source order = %v", got)
	}
}

func TestStore_ReplaceSource_EmptySource(t *testing.T) {
	_, err := NewStore().ReplaceSource(host, Policy{})
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("error = %v, want ErrEmptySource", err)
	}
}

func TestKind_String(t *testing.T) {
	if KindHost.String() != "host" || KindDependency.String() != "dependency" || Kind(9).String() != "unknown" {
		t.Error("Kind.String() mismatch")
	}
}
