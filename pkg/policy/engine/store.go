package engine

import (
	"slices"
	"sync"
)

// Store is the ordered set of registered policies.
//
// Dependency policies always precede host policies; within a kind,
// registration order is preserved. Every mutation publishes a new slice, so
// a snapshot taken by an evaluation is never modified underneath it.
type Store struct {
	mu       sync.RWMutex
	policies []*Policy
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append registers policies under reg and returns the stored copies.
func (s *Store) Append(reg Registrant, policies ...Policy) []*Policy {
	added := tag(reg, policies)
	if len(added) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Policy, 0, len(s.policies)+len(added))
	next = append(next, s.policies...)
	next = append(next, added...)
	SortPoliciesByKind(next)
	s.policies = next

	return added
}

// ReplaceSource removes every policy previously registered under
// reg.Source and registers policies in their place. Replaced policies move
// to the end of their kind.
func (s *Store) ReplaceSource(reg Registrant, policies ...Policy) ([]*Policy, error) {
	if reg.Source == "" {
		return nil, ErrEmptySource
	}
	added := tag(reg, policies)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Policy, 0, len(s.policies)+len(added))
	for _, p := range s.policies {
		if p.registrant.Source != reg.Source {
			next = append(next, p)
		}
	}
	next = append(next, added...)
	SortPoliciesByKind(next)
	s.policies = next

	return added, nil
}

// Snapshot returns the current ordered policies. The returned slice is
// shared and must not be modified.
func (s *Store) Snapshot() []*Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policies
}

// Len returns the number of registered policies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.policies)
}

// tag copies policies and stamps them with reg. Slices are cloned so later
// changes by the caller do not leak into the store.
func tag(reg Registrant, policies []Policy) []*Policy {
	out := make([]*Policy, 0, len(policies))
	for _, p := range policies {
		if p.Methods != nil {
			p.Methods = slices.Clone(p.Methods)
		}
		if p.Paths != nil {
			p.Paths = slices.Clone(p.Paths)
		}
		if p.Disabled != nil {
			p.Disabled = Bool(*p.Disabled)
		}
		p.registrant = reg
		out = append(out, &p)
	}
	return out
}
