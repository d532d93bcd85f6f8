package dependency

// Membership answers whether a name belongs to a set.
type Membership interface {
	Has(name string) bool
}

// Set is a string set that remembers insertion order. Iteration order drives
// activation order, so it must be deterministic.
//
// The zero value is ready to use. Set is not safe for concurrent use.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet returns a set holding items in order, ignoring repeats.
func NewSet(items ...string) *Set {
	s := &Set{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts name and reports whether it was absent.
func (s *Set) Add(name string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.items = append(s.items, name)
	return true
}

// Remove deletes name and reports whether it was present.
func (s *Set) Remove(name string) bool {
	if _, ok := s.index[name]; !ok {
		return false
	}
	delete(s.index, name)
	for i, item := range s.items {
		if item == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether name is in the set. It is safe on a nil set.
func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Len returns the number of items.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the items in insertion order.
func (s *Set) Items() []string {
	if s == nil || len(s.items) == 0 {
		return []string{}
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the set.
func (s *Set) Clear() {
	s.items = nil
	s.index = nil
}
