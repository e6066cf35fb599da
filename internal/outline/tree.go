package outline

import "path/filepath"

// Tree describes the fixed layout of a content root: a directory whose pages
// are identified by path and whose per-directory page carries a reserved name.
type Tree struct {
	ContentRoot string
	IndexName   string
}

// IsIndex reports whether path names a directory's index document.
func (t Tree) IsIndex(path string) bool {
	return filepath.Base(path) == t.IndexName
}

// AtRoot reports whether path sits directly inside the content root.
func (t Tree) AtRoot(path string) bool {
	return filepath.Clean(filepath.Dir(path)) == filepath.Clean(t.ContentRoot)
}

// ParentPath returns the index document that owns path.
//
// A page's parent is the index of its own directory; an index document's parent
// is the index one directory further up. The content root's own index has no
// parent and returns "".
func (t Tree) ParentPath(path string) string {
	dir := filepath.Dir(path)
	if t.IsIndex(path) {
		if t.AtRoot(path) {
			return ""
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, t.IndexName)
}
