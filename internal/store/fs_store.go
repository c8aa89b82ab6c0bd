package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

const artifactExt = ".json"

// FSStore is a filesystem-based ArtifactStore. Artifacts are JSON files laid out
// by identifier:
//
//	<base>/
//	  titanic/warning.json                      (expectation suite titanic.warning)
//	  titanic/warning/<run_id>/<batch_id>.json  (validation result)
type FSStore struct {
	name     string
	family   Family
	basePath string
	mu       sync.RWMutex
}

// NewFSStore creates the base directory if needed and returns the store.
func NewFSStore(name string, family Family, basePath string) (*FSStore, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "resolve store directory").
			WithContext("store", name).Build()
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "create store directory").
			WithContext("store", name).WithContext("path", abs).Build()
	}
	return &FSStore{name: name, family: family, basePath: abs}, nil
}

// Name implements ArtifactStore.
func (s *FSStore) Name() string { return s.name }

// Family implements ArtifactStore.
func (s *FSStore) Family() Family { return s.family }

// BaseDirectory returns the absolute store root.
func (s *FSStore) BaseDirectory() string { return s.basePath }

// List walks the store root in lexical order. Files that do not map back to an
// identifier of the store's family are skipped.
func (s *FSStore) List(ctx context.Context) ([]identifier.ResourceIdentifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []identifier.ResourceIdentifier
	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), artifactExt) {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return nil
		}
		rel = strings.TrimSuffix(filepath.ToSlash(rel), artifactExt)
		if id, ok := identifier.FromRelativePath(s.family == FamilyValidations, rel); ok {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "list artifacts").
			WithContext("store", s.name).Build()
	}
	return ids, nil
}

// Get implements ArtifactStore.
func (s *FSStore) Get(ctx context.Context, id identifier.ResourceIdentifier) ([]byte, error) {
	if err := checkFamily(s.name, s.family, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// #nosec G304 -- path is built from a validated identifier under basePath
	data, err := os.ReadFile(s.ArtifactPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(s.name, id)
		}
		return nil, errors.WrapError(err, errors.CategoryStore, "read artifact").
			WithContext("store", s.name).WithContext("identifier", id.Key()).Build()
	}
	return data, nil
}

// Put implements ArtifactStore.
func (s *FSStore) Put(ctx context.Context, id identifier.ResourceIdentifier, data []byte) error {
	if err := checkFamily(s.name, s.family, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.ArtifactPath(id), data); err != nil {
		return errors.WrapError(err, errors.CategoryStore, "write artifact").
			WithContext("store", s.name).WithContext("identifier", id.Key()).Build()
	}
	return nil
}

// ArtifactPath returns the absolute file path id is stored at.
func (s *FSStore) ArtifactPath(id identifier.ResourceIdentifier) string {
	return filepath.Join(s.basePath, filepath.FromSlash(identifier.RelativePath(id))) + artifactExt
}

// Close releases resources.
func (s *FSStore) Close() error { return nil }

// writeFileAtomic writes via a temp file in the target directory and renames it
// into place, so readers never observe a partially written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
