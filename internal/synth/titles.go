package synth

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/markdown"
)

// TitleSource supplies the raw, unnumbered title of a document.
type TitleSource interface {
	RawTitle(path string) (string, error)
}

// Titles reads raw titles through a Store and caches them for the batch.
//
// A document's title is its frontmatter `title`; without one, its first level-1
// heading; without that, its file name without extension.
type Titles struct {
	store *docstore.Store
	cache map[string]string
}

// NewTitles creates a cached TitleSource.
func NewTitles(store *docstore.Store) *Titles {
	return &Titles{store: store, cache: make(map[string]string)}
}

// RawTitle implements TitleSource.
func (t *Titles) RawTitle(path string) (string, error) {
	if title, ok := t.cache[path]; ok {
		return title, nil
	}

	content, err := t.store.Read(path)
	if err != nil {
		return "", err
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return "", ferrors.MetadataError("unreadable frontmatter").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	title, _ := doc.String("title")
	if strings.TrimSpace(title) == "" {
		title = markdown.FirstHeading(doc.Body())
	}
	if strings.TrimSpace(title) == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	t.cache[path] = title
	return title, nil
}
