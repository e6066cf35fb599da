// Package docs selects the candidate documents for a batch.
//
// Candidates come either from an explicit file list or from walking a site's
// content directory. Discovery also records which candidates already carry the
// publishing block, so the batch can leave them alone unless forced.
package docs

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/wikimatter/internal/config"
	derrors "git.home.luguber.info/inful/wikimatter/internal/docs/errors"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
)

// DocFile is a candidate document.
type DocFile struct {
	Path   string // Absolute path
	Tagged bool   // Frontmatter already contains the publishing block
}

// Discovery gathers candidate documents.
type Discovery struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewDiscovery creates a discovery bound to cfg.
func NewDiscovery(cfg *config.Config, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{cfg: cfg, logger: logger}
}

// ContentRoot returns the absolute content directory of a site.
func (d *Discovery) ContentRoot(siteDir string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(siteDir, d.cfg.ContentDir))
	if err != nil {
		return "", ferrors.ValidationError("invalid site directory").WithCause(err).WithContext("path", siteDir).Build()
	}
	return abs, nil
}

// FromFiles validates an explicit file list. Every path must name an existing
// regular file; the first that does not aborts discovery with a fatal error
// before anything is written.
func (d *Discovery) FromFiles(paths []string) ([]DocFile, error) {
	files := make([]DocFile, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, ferrors.ValidationError("invalid path").WithCause(err).WithContext("path", p).Build()
		}
		fi, err := os.Stat(abs)
		if err != nil || !fi.Mode().IsRegular() {
			return nil, ferrors.NotFoundError("File doesn't exist").
				WithCause(derrors.ErrFileNotFound).
				WithContext("path", abs).
				Build()
		}
		files = append(files, d.candidate(abs))
	}
	return files, nil
}

// FromSite walks the site's content directory for files with a document extension.
func (d *Discovery) FromSite(siteDir string) ([]DocFile, error) {
	root, err := d.ContentRoot(siteDir)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, ferrors.NotFoundError("content directory doesn't exist").
			WithCause(derrors.ErrContentRootNotFound).
			WithContext("path", root).
			Build()
	}

	d.logger.Info("Checking content pages in directory", logfields.Path(root))

	var files []DocFile
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || !d.cfg.HasExtension(path) {
			return nil
		}
		files = append(files, d.candidate(path))
		return nil
	})
	if err != nil {
		return nil, ferrors.FileSystemError("walk content directory").
			WithCause(derrors.ErrWalkFailed).
			WithContext("path", root).
			WithContext("reason", err.Error()).
			Fatal().
			Build()
	}
	return files, nil
}

func (d *Discovery) candidate(path string) DocFile {
	// #nosec G304 -- path was just discovered or validated as a regular file.
	content, err := os.ReadFile(path)
	if err != nil {
		d.logger.Warn("Cannot read candidate", logfields.Path(path), logfields.Error(err))
		return DocFile{Path: path}
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		d.logger.Warn("Unparseable frontmatter", logfields.Path(path), logfields.Error(err))
		return DocFile{Path: path}
	}
	return DocFile{Path: path, Tagged: doc.HasBlock(d.cfg.PublishKey)}
}
