// Package sets provides a minimal generic set.
package sets

// Set is a hash set for comparable keys. Identifiers of both variants are
// comparable structs, so a Set[identifier.ResourceIdentifier] compares them
// structurally.
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts values into the set.
func (s Set[T]) Add(vals ...T) {
	for _, v := range vals {
		s[v] = struct{}{}
	}
}

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int { return len(s) }

// Delete removes v if present.
func (s Set[T]) Delete(v T) { delete(s, v) }

// Clone returns a shallow copy.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Keep returns the members of vals that are in s, preserving the order of vals.
func (s Set[T]) Keep(vals []T) []T {
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		if s.Has(v) {
			out = append(out, v)
		}
	}
	return out
}
