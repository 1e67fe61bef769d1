package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryResolver serves fixed path sets. It backs tests, the HTTP API and
// CLI flags where the caller already knows the repository state.
type MemoryResolver struct {
	// Changed is the pipeline's own diff. Nil means no diff information.
	Changed []string

	// CompareTo holds the diff against specific refs
	CompareTo map[string][]string

	// Refs lists known refs. Keys of CompareTo are known refs too. A known
	// ref without a CompareTo entry answers with Changed.
	Refs []string

	// Existing is the tree listing keyed by ref. The "" entry is used for
	// any ref without its own listing.
	Existing map[string][]string

	mu    sync.Mutex
	calls map[string]int
}

// NewMemoryResolver builds a resolver whose tree at every ref is existing
func NewMemoryResolver(changed, existing []string) *MemoryResolver {
	return &MemoryResolver{
		Changed:  changed,
		Existing: map[string][]string{"": existing},
	}
}

// WithCompareTo registers the diff against ref and returns the resolver
func (m *MemoryResolver) WithCompareTo(ref string, changed []string) *MemoryResolver {
	if m.CompareTo == nil {
		m.CompareTo = make(map[string][]string)
	}
	m.CompareTo[ref] = changed
	return m
}

// WithRefs registers known refs and returns the resolver
func (m *MemoryResolver) WithRefs(refs ...string) *MemoryResolver {
	m.Refs = append(m.Refs, refs...)
	return m
}

// ChangedPaths implements Resolver
func (m *MemoryResolver) ChangedPaths(_ context.Context, compareTo string) ([]string, bool, error) {
	m.count("changed:" + compareTo)
	if compareTo == "" {
		return m.Changed, m.Changed != nil, nil
	}
	if paths, ok := m.CompareTo[compareTo]; ok {
		return paths, true, nil
	}
	if m.knows(compareTo) {
		return m.Changed, m.Changed != nil, nil
	}
	return nil, false, nil
}

// RefExists implements Resolver
func (m *MemoryResolver) RefExists(_ context.Context, ref string) (bool, error) {
	m.count("ref:" + ref)
	return m.knows(ref), nil
}

func (m *MemoryResolver) knows(ref string) bool {
	if _, ok := m.CompareTo[ref]; ok {
		return true
	}
	for _, r := range m.Refs {
		if r == ref {
			return true
		}
	}
	return false
}

// ExistingPaths implements Resolver
func (m *MemoryResolver) ExistingPaths(_ context.Context, ref string) ([]string, error) {
	m.count("existing:" + ref)
	if paths, ok := m.Existing[ref]; ok {
		return paths, nil
	}
	return m.Existing[""], nil
}

// Calls returns how often each query was answered, keyed like
// "changed:<ref>", "ref:<ref>" and "existing:<ref>"
func (m *MemoryResolver) Calls() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.calls))
	for k, v := range m.calls {
		out[k] = v
	}
	return out
}

// KnownRefs lists every ref the resolver can answer for, sorted
func (m *MemoryResolver) KnownRefs() []string {
	seen := make(map[string]struct{})
	for _, r := range m.Refs {
		seen[r] = struct{}{}
	}
	for r := range m.CompareTo {
		seen[r] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func (m *MemoryResolver) count(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[key]++
}
