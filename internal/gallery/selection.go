package gallery

// Selection tracks which images the user has marked, keyed by path. It is
// owned by a single caller and is not safe for concurrent use.
type Selection struct {
	marked map[string]bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{marked: make(map[string]bool)}
}

// Toggle flips the mark on path and returns the new state.
func (s *Selection) Toggle(path string) bool {
	s.Set(path, !s.marked[path])
	return s.marked[path]
}

// Set marks or unmarks path.
func (s *Selection) Set(path string, selected bool) {
	if selected {
		s.marked[path] = true
		return
	}
	delete(s.marked, path)
}

// IsSelected reports whether path is marked.
func (s *Selection) IsSelected(path string) bool {
	return s.marked[path]
}

// SelectAll marks every entry.
func (s *Selection) SelectAll(entries []ImageEntry) {
	for _, e := range entries {
		s.marked[e.Path] = true
	}
}

// Clear unmarks everything.
func (s *Selection) Clear() {
	clear(s.marked)
}

// Count returns the number of marked paths.
func (s *Selection) Count() int {
	return len(s.marked)
}

// Selected returns the marked paths among entries, in listing order. Marks
// for paths not in entries are ignored.
func (s *Selection) Selected(entries []ImageEntry) []string {
	var out []string
	for _, e := range entries {
		if s.marked[e.Path] {
			out = append(out, e.Path)
		}
	}
	return out
}

// Prune forgets paths that no longer exist, typically the successes of a
// deletion.
func (s *Selection) Prune(removed []string) {
	for _, p := range removed {
		delete(s.marked, p)
	}
}
