package outline

// Registry maps a page path to its numbered title. It is built once per batch
// and read-only afterwards; a nil Registry behaves as an empty one.
type Registry struct {
	byPath map[string]string
	order  []Numbered
}

// NewRegistry indexes numbered entries by exact path.
func NewRegistry(numbered []Numbered) *Registry {
	r := &Registry{byPath: make(map[string]string, len(numbered)), order: numbered}
	for _, n := range numbered {
		r.byPath[n.Path] = n.String()
	}
	return r
}

// Lookup returns the numbered title for path. A miss is not an error: the
// caller falls back to the page's raw title.
func (r *Registry) Lookup(path string) (string, bool) {
	if r == nil {
		return "", false
	}
	title, ok := r.byPath[path]
	return title, ok
}

// Entries returns the numbered entries in outline order.
func (r *Registry) Entries() []Numbered {
	if r == nil {
		return nil
	}
	return r.order
}

// Len returns the number of numbered pages.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
