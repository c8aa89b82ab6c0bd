package store

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// SiteStore is the target store of a documentation site: rendered pages live
// under one base directory at identifier-derived paths, with the index at
// <base>/index.html.
type SiteStore struct {
	name    string
	baseDir string
	mu      sync.Mutex
}

// NewSiteStore returns a site store rooted at baseDir (made absolute).
// The directory is created lazily on first write.
func NewSiteStore(name, baseDir string) (*SiteStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "resolve site directory").
			WithContext("store", name).Build()
	}
	return &SiteStore{name: name, baseDir: abs}, nil
}

// Name returns the configured store name.
func (s *SiteStore) Name() string { return s.name }

// BaseDirectory returns the absolute site root.
func (s *SiteStore) BaseDirectory() string { return s.baseDir }

// PagePath returns the absolute path of the page rendering id.
func (s *SiteStore) PagePath(id identifier.ResourceIdentifier) (string, error) {
	rel, err := identifier.PagePath(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(rel)), nil
}

// IndexPath returns the absolute path of the index page.
func (s *SiteStore) IndexPath() string {
	return filepath.Join(s.baseDir, identifier.IndexPage)
}

// URL returns the file:// URL of the page rendering id.
func (s *SiteStore) URL(id identifier.ResourceIdentifier) (string, error) {
	p, err := s.PagePath(id)
	if err != nil {
		return "", err
	}
	return FileURL(p), nil
}

// IndexURL returns the file:// URL of the index page.
func (s *SiteStore) IndexURL() string {
	return FileURL(s.IndexPath())
}

// FileURL turns an absolute filesystem path into a file:// URL.
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// Put writes a rendered page for id unless the file already holds exactly
// data. It reports whether the file was written; an unchanged page keeps its
// modification time.
func (s *SiteStore) Put(ctx context.Context, id identifier.ResourceIdentifier, data []byte) (bool, error) {
	p, err := s.PagePath(id)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// #nosec G304 -- path is built from a validated identifier under baseDir
	existing, err := os.ReadFile(p)
	switch {
	case err == nil && bytes.Equal(existing, data):
		return false, nil
	case err != nil && !os.IsNotExist(err):
		return false, errors.WrapError(err, errors.CategoryStore, "read existing page").
			WithContext("store", s.name).WithContext("path", p).Build()
	}
	if err := writeFileAtomic(p, data); err != nil {
		return false, errors.WrapError(err, errors.CategoryStore, "write page").
			WithContext("store", s.name).WithContext("path", p).Build()
	}
	return true, nil
}

// PutIndex always overwrites the index page and returns its absolute path.
func (s *SiteStore) PutIndex(ctx context.Context, data []byte) (string, error) {
	p := s.IndexPath()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(p, data); err != nil {
		return "", errors.WrapError(err, errors.CategoryStore, "write index page").
			WithContext("store", s.name).WithContext("path", p).Build()
	}
	return p, nil
}

// Has reports whether a page for id exists.
func (s *SiteStore) Has(ctx context.Context, id identifier.ResourceIdentifier) (bool, error) {
	p, err := s.PagePath(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.WrapError(err, errors.CategoryStore, "stat page").
		WithContext("store", s.name).WithContext("path", p).Build()
}

// List returns the identifiers of every rendered page, in lexical path order.
func (s *SiteStore) List(ctx context.Context) ([]identifier.ResourceIdentifier, error) {
	var ids []identifier.ResourceIdentifier
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.baseDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return nil
		}
		if id, ok := identifier.FromPagePath(filepath.ToSlash(rel)); ok {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "list pages").
			WithContext("store", s.name).Build()
	}
	return ids, nil
}
