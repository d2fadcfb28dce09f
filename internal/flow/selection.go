package flow

// Selection is a counted set with a fixed target size. Adding beyond the
// target is a no-op, and Ready reports true only when the set holds exactly
// target items. Insertion order is preserved.
type Selection struct {
	target int
	items  []string
}

// NewSelection creates an empty selection that is ready at target items.
func NewSelection(target int, initial ...string) *Selection {
	s := &Selection{target: target}
	for _, v := range initial {
		s.Add(v)
	}
	return s
}

// Target returns the required selection count.
func (s *Selection) Target() int { return s.target }

// Len returns the number of selected items.
func (s *Selection) Len() int { return len(s.items) }

// Ready reports whether exactly Target items are selected.
func (s *Selection) Ready() bool { return len(s.items) == s.target }

// Contains reports whether v is selected.
func (s *Selection) Contains(v string) bool {
	for _, it := range s.items {
		if it == v {
			return true
		}
	}
	return false
}

// Add selects v. It returns false without changing the set when v is
// already selected, empty, or the set is full.
func (s *Selection) Add(v string) bool {
	if v == "" || s.Contains(v) || len(s.items) >= s.target {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Remove deselects v and reports whether it was selected.
func (s *Selection) Remove(v string) bool {
	for i, it := range s.items {
		if it == v {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips v and reports whether v is selected afterwards.
func (s *Selection) Toggle(v string) bool {
	if s.Remove(v) {
		return false
	}
	return s.Add(v)
}

// Replace clears the set and adds vs in order, respecting the cap.
func (s *Selection) Replace(vs []string) {
	s.items = s.items[:0]
	for _, v := range vs {
		s.Add(v)
	}
}

// Items returns a copy of the selected items in selection order.
func (s *Selection) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
