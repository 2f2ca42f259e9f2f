// Package ordered provides deterministic, insertion-ordered collections.
package ordered

// A Set is a set of strings that remembers the order in which its
// members were first added. The zero value is an empty set.
type Set struct {
	items []string
	index map[string]struct{}
}

// Add adds s to the set. It reports whether s was not already a member.
func (set *Set) Add(s string) bool {
	if set.index == nil {
		set.index = make(map[string]struct{})
	}
	if _, ok := set.index[s]; ok {
		return false
	}
	set.index[s] = struct{}{}
	set.items = append(set.items, s)
	return true
}

// Has reports whether s is a member of the set.
func (set *Set) Has(s string) bool {
	_, ok := set.index[s]
	return ok
}

// Merge adds every member of other that is not yet in set, in the order
// of other.
func (set *Set) Merge(other *Set) {
	for _, s := range other.items {
		set.Add(s)
	}
}

// Len returns the number of members.
func (set *Set) Len() int { return len(set.items) }

// Items returns a copy of the members in insertion order.
func (set *Set) Items() []string {
	return append([]string(nil), set.items...)
}
