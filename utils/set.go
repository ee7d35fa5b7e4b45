package utils

// StringSet is an insertion-ordered set of strings. Facet option lists and filter
// selections both need membership checks while keeping the order values first appeared.
type StringSet struct {
	seen  map[string]struct{}
	order []string
}

// NewStringSet creates a set holding values, duplicates collapsed.
func NewStringSet(values ...string) *StringSet {
	s := &StringSet{seen: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add returns true if the value was newly added, false if already present.
func (s *StringSet) Add(v string) bool {
	if _, exists := s.seen[v]; exists {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Contains reports whether v is in the set. A nil set contains nothing.
func (s *StringSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, exists := s.seen[v]
	return exists
}

// Size returns the number of unique values tracked.
func (s *StringSet) Size() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns the members in insertion order.
func (s *StringSet) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
