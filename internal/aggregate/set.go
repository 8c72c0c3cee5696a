package aggregate

import "github.com/ampmetropole/arretes-peril/internal/textutil"

// OrderedSet deduplicates strings while keeping insertion order, so
// "first element" always means first inserted. The dedup key is the
// exact value or its fold, depending on the constructor.
type OrderedSet struct {
	key  func(string) string
	seen map[string]struct{}
	vals []string
}

// NewOrderedSet returns an empty set deduplicating on the exact value.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{
		key:  func(v string) string { return v },
		seen: make(map[string]struct{}),
	}
}

// NewFoldedSet returns an empty set deduplicating on textutil.Fold, so
// case and diacritic variants collapse onto the first inserted spelling.
func NewFoldedSet() *OrderedSet {
	return &OrderedSet{key: textutil.Fold, seen: make(map[string]struct{})}
}

// Add inserts v unless an equivalent value is already present. The empty
// string is never added.
func (s *OrderedSet) Add(v string) {
	if v == "" {
		return
	}
	k := s.key(v)
	if _, dup := s.seen[k]; dup {
		return
	}
	s.seen[k] = struct{}{}
	s.vals = append(s.vals, v)
}

// Len returns the number of distinct values.
func (s *OrderedSet) Len() int { return len(s.vals) }

// First returns the first inserted value, or "" for an empty set.
func (s *OrderedSet) First() string {
	if len(s.vals) == 0 {
		return ""
	}
	return s.vals[0]
}

// Values returns the distinct values in insertion order. The returned
// slice is the set's backing store; callers must not modify it.
func (s *OrderedSet) Values() []string { return s.vals }
