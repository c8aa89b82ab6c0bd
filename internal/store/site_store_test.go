package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

func TestSiteStoreSkipsUnchangedContent(t *testing.T) {
	s, err := NewSiteStore("local_site", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	id := identifier.NewResult("titanic.warning", "run-1", "b1")

	written, err := s.Put(ctx, id, []byte("<html>v1</html>"))
	require.NoError(t, err)
	assert.True(t, written)

	p, err := s.PagePath(id)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(p, past, past))

	written, err = s.Put(ctx, id, []byte("<html>v1</html>"))
	require.NoError(t, err)
	assert.False(t, written)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "unchanged page must keep its mtime")

	written, err = s.Put(ctx, id, []byte("<html>v2</html>"))
	require.NoError(t, err)
	assert.True(t, written)
}

func TestSiteStorePathsAndURLs(t *testing.T) {
	base := t.TempDir()
	s, err := NewSiteStore("local_site", base)
	require.NoError(t, err)

	id := identifier.NewResult("a.b", "run", "batch")
	p, err := s.PagePath(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "validations", "a", "b", "run", "batch.html"), p)

	u, err := s.URL(id)
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(p), u)
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(base, "index.html")), s.IndexURL())
}

func TestSiteStoreIndexAlwaysWritten(t *testing.T) {
	s, err := NewSiteStore("local_site", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	p, err := s.PutIndex(ctx, []byte("index"))
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(p, past, past))

	_, err = s.PutIndex(ctx, []byte("index"))
	require.NoError(t, err)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(past))
}

func TestSiteStoreListAndHas(t *testing.T) {
	s, err := NewSiteStore("local_site", filepath.Join(t.TempDir(), "not-yet-created"))
	require.NoError(t, err)
	ctx := context.Background()

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	suite := identifier.NewSuite("a.b")
	result := identifier.NewResult("a.b", "run", "x")
	for _, id := range []identifier.ResourceIdentifier{result, suite} {
		_, err := s.Put(ctx, id, []byte("page"))
		require.NoError(t, err)
	}
	_, err = s.PutIndex(ctx, []byte("index"))
	require.NoError(t, err)

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []identifier.ResourceIdentifier{suite, result}, ids)

	ok, err := s.Has(ctx, suite)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Has(ctx, identifier.NewSuite("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
