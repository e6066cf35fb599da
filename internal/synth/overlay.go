package synth

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/templates"
)

// DefaultOverlaySuffix is appended to a document's path to find its overlay.
const DefaultOverlaySuffix = ".diff"

// Fields are the publishing block values an overlay may override.
type Fields struct {
	Title  string
	Parent string
	Share  string
}

// ReadFields returns the publishing block values of doc.
func ReadFields(doc *frontmatter.Document, key string) Fields {
	var f Fields
	f.Title, _ = doc.BlockString(key, "title")
	f.Parent, _ = doc.BlockString(key, "parent")
	f.Share, _ = doc.BlockString(key, "share")
	return f
}

// MergeOverlay copies each field present in the overlay's publishing block over
// current; fields the overlay omits keep their current value. Share is lower-cased.
func MergeOverlay(current Fields, overlay *frontmatter.Document, key string) Fields {
	merged := current
	if v, ok := overlay.BlockString(key, "title"); ok {
		merged.Title = v
	}
	if v, ok := overlay.BlockString(key, "parent"); ok {
		merged.Parent = v
	}
	if v, ok := overlay.BlockString(key, "share"); ok {
		merged.Share = v
	}
	merged.Share = strings.ToLower(merged.Share)
	return merged
}

// OverlayApplier re-renders a document's publishing block from its overlay file.
type OverlayApplier struct {
	PublishKey string
	Suffix     string
	Store      *docstore.Store
	Template   *templates.Template
	Logger     *slog.Logger
}

// OverlayResult reports what happened to one document.
type OverlayResult struct {
	Applied bool
	Reason  string // why the overlay was skipped
	Fields  Fields
	Result  docstore.Result
}

// OverlayPath returns the overlay file matched to path.
func (a *OverlayApplier) OverlayPath(path string) string {
	suffix := a.Suffix
	if suffix == "" {
		suffix = DefaultOverlaySuffix
	}
	return path + suffix
}

// Apply merges path's overlay, if any, into its publishing block and writes it.
// A missing overlay, an overlay without a publishing block, or a document that
// has no publishing block of its own yet is skipped, not an error.
func (a *OverlayApplier) Apply(path string) (OverlayResult, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	overlayPath := a.OverlayPath(path)
	if !a.Store.Exists(overlayPath) {
		return OverlayResult{Reason: "no overlay"}, nil
	}

	overlayContent, err := a.Store.Read(overlayPath)
	if err != nil {
		return OverlayResult{}, err
	}
	overlay, err := frontmatter.Parse(overlayContent)
	if err != nil {
		return OverlayResult{}, ferrors.MetadataError("unreadable overlay frontmatter").
			WithCause(err).
			WithContext("path", overlayPath).
			Build()
	}
	if !overlay.HasBlock(a.PublishKey) {
		logger.Info("Overlay has no publishing block; ignoring",
			logfields.Path(overlayPath), slog.String("key", a.PublishKey))
		return OverlayResult{Reason: "no publishing block"}, nil
	}

	content, err := a.Store.Read(path)
	if err != nil {
		return OverlayResult{}, err
	}
	target, err := frontmatter.Parse(content)
	if err != nil {
		return OverlayResult{}, ferrors.MetadataError("unreadable frontmatter").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	if !target.HasBlock(a.PublishKey) {
		logger.Info("Document has no publishing block yet; ignoring overlay",
			logfields.Path(path), slog.String("key", a.PublishKey))
		return OverlayResult{Reason: "target has no publishing block"}, nil
	}

	fields := MergeOverlay(ReadFields(target, a.PublishKey), overlay, a.PublishKey)
	rendered, err := a.Template.Render(map[string]any{
		"key":    a.PublishKey,
		"title":  fields.Title,
		"parent": fields.Parent,
		"share":  fields.Share,
	})
	if err != nil {
		return OverlayResult{}, err
	}

	res, err := rewrite(a.Store, path, rendered)
	if err != nil {
		return OverlayResult{}, err
	}

	logger.Info("Applied overlay",
		logfields.Path(path),
		logfields.Title(fields.Title),
		logfields.Parent(fields.Parent),
		logfields.Outcome(string(res)))
	return OverlayResult{Applied: true, Fields: fields, Result: res}, nil
}
