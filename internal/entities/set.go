package entities

// orderedSet keeps insertion order for deterministic iteration.
type orderedSet[T comparable] struct {
	items []T
}

func (s *orderedSet[T]) add(v T) bool {
	if s.has(v) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet[T]) remove(v T) bool {
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *orderedSet[T]) has(v T) bool {
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

func (s *orderedSet[T]) values() []T {
	return append([]T(nil), s.items...)
}

func (s *orderedSet[T]) len() int {
	return len(s.items)
}
