package outline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
)

// DefaultMaxDepth bounds how many directories may separate a page from the content root.
const DefaultMaxDepth = 10

var (
	// ErrOutsideContentRoot indicates a page that is not below the content root.
	ErrOutsideContentRoot = errors.New("document is not under the content root")
	// ErrDepthExceeded indicates a page nested deeper than the resolver's bound.
	ErrDepthExceeded = errors.New("document exceeds the maximum outline depth")
	// ErrMissingIndex indicates an ancestor directory without an index document.
	ErrMissingIndex = errors.New("ancestor directory has no index document")
)

// Resolver computes the outline depth of a page from its path.
//
// Depth counts the directories between the content root and the page. An index
// document sits at the depth of its directory; any other page is one level below
// its directory's index. With Rooted set every depth shifts by one, so the content
// root's own index becomes depth 1 under an implicit external root instead of 0.
type Resolver struct {
	Tree
	Rooted   bool
	MaxDepth int

	stat func(string) (fs.FileInfo, error)
}

// NewResolver returns a resolver checking ancestor indexes on the local filesystem.
func NewResolver(tree Tree, rooted bool) *Resolver {
	return &Resolver{Tree: tree, Rooted: rooted, MaxDepth: DefaultMaxDepth, stat: os.Stat}
}

// Resolve returns the depth of path, or a classified outline error naming the path.
func (r *Resolver) Resolve(path string) (int, error) {
	rel, err := filepath.Rel(r.ContentRoot, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, r.fail(path, ErrOutsideContentRoot)
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	dirs := segments[:len(segments)-1]

	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(dirs) > maxDepth {
		return 0, r.fail(path, ErrDepthExceeded).WithContext("max_depth", maxDepth)
	}

	stat := r.stat
	if stat == nil {
		stat = os.Stat
	}
	dir := r.ContentRoot
	for _, seg := range dirs {
		dir = filepath.Join(dir, seg)
		index := filepath.Join(dir, r.IndexName)
		if _, err := stat(index); err != nil {
			return 0, r.fail(path, ErrMissingIndex).WithContext("index", index)
		}
	}

	depth := len(dirs)
	if !r.IsIndex(path) {
		depth++
	}
	if r.Rooted {
		depth++
	}
	return depth, nil
}

func (r *Resolver) fail(path string, cause error) *ferrors.ClassifiedError {
	return ferrors.OutlineError("cannot resolve outline depth").
		WithCause(cause).
		WithContext("path", path).
		Build()
}
