package engine

import "sort"

// Kind priorities. Lower values are evaluated first, so host policies
// always get the final say over dependency policies.
const (
	PriorityDependency = 0
	PriorityHost       = 1
)

// GetKindPriority returns the evaluation rank of a registrant kind.
func GetKindPriority(k Kind) int {
	if k == KindHost {
		return PriorityHost
	}
	return PriorityDependency
}

// SortPoliciesByKind orders dependency policies before host policies,
// preserving registration order within each kind.
func SortPoliciesByKind(policies []*Policy) {
	sort.SliceStable(policies, func(i, j int) bool {
		return GetKindPriority(policies[i].registrant.Kind) < GetKindPriority(policies[j].registrant.Kind)
	})
}
