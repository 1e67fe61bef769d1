package variables

import (
	"sort"
)

// Collection is a flat set of variables. It satisfies expression.Lookup.
type Collection map[string]string

// Lookup returns the value of name and whether it is defined
func (c Collection) Lookup(name string) (string, bool) {
	v, ok := c[name]
	return v, ok
}

// Clone returns an independent copy. Cloning nil yields an empty collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge copies every entry of src over c
func (c Collection) Merge(src map[string]string) Collection {
	for k, v := range src {
		c[k] = v
	}
	return c
}

// MergeAllowed copies the entries of src accepted by allow
func (c Collection) MergeAllowed(src map[string]string, allow func(string) bool) Collection {
	for k, v := range src {
		if allow(k) {
			c[k] = v
		}
	}
	return c
}

// Keys returns the variable names in sorted order
func (c Collection) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns c as a plain map, nil when empty
func (c Collection) Map() map[string]string {
	if len(c) == 0 {
		return nil
	}
	return map[string]string(c)
}
