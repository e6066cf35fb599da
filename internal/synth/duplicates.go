package synth

import (
	"log/slog"

	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/util/sets"
)

// SkippedPage is a document whose final title was already used by an earlier one.
type SkippedPage struct {
	Title string
	Path  string
}

// TitledPath pairs a document with its final published title.
type TitledPath struct {
	Title string
	Path  string
}

// FindDuplicates reports every page whose title was seen earlier in pages.
// The first occurrence of a title is never reported.
func FindDuplicates(pages []TitledPath) []SkippedPage {
	seen := sets.New[string]()
	var skipped []SkippedPage
	for _, p := range pages {
		if !seen.Add(p.Title) {
			skipped = append(skipped, SkippedPage(p))
		}
	}
	return skipped
}

// Detector re-reads final publishing titles and reports collisions. It never writes.
type Detector struct {
	PublishKey string
	Store      *docstore.Store
	Logger     *slog.Logger
}

// Detect reads each path's final title in order and returns the duplicates.
// Documents that cannot be read or carry no published title are left out.
func (d *Detector) Detect(paths []string) []SkippedPage {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pages := make([]TitledPath, 0, len(paths))
	for _, path := range paths {
		content, err := d.Store.Read(path)
		if err != nil {
			logger.Debug("Skipping unreadable document", logfields.Path(path), logfields.Error(err))
			continue
		}
		doc, err := frontmatter.Parse(content)
		if err != nil {
			logger.Debug("Skipping unparseable document", logfields.Path(path), logfields.Error(err))
			continue
		}
		title, ok := doc.BlockString(d.PublishKey, "title")
		if !ok {
			logger.Debug("Document has no published title", logfields.Path(path))
			continue
		}
		pages = append(pages, TitledPath{Title: title, Path: path})
	}
	return FindDuplicates(pages)
}
