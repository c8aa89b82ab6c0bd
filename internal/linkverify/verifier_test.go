package linkverify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

func writePage(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte("<html><body>"+body+"</body></html>"), 0o600))
}

func TestVerifyHealthySite(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html",
		`<a href="expectations/a/b.html">a.b</a><a href="validations/a/b/run/batch.html">run</a><a href="https://example.com">x</a>`)
	writePage(t, root, "expectations/a/b.html", `<a href="../../index.html">home</a>`)
	writePage(t, root, "validations/a/b/run/batch.html",
		`<a href="../../../../index.html">home</a><a href="../../../../expectations/a/b.html#top">suite</a>`)

	report, err := NewVerifier().Verify(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, 5, report.Links)
}

func TestVerifyReportsBrokenLinks(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html",
		`<a href="expectations/a/b.html">a.b</a><a href="expectations/missing.html">gone</a><a href="expectations">dir</a>`)
	writePage(t, root, "expectations/a/b.html", `<a href="../../nowhere.html">x</a>`)

	report, err := NewVerifier().Verify(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, report.Broken, 3)

	assert.Equal(t, "index.html", report.Broken[0].Page)
	assert.Equal(t, "expectations/missing.html", report.Broken[0].URL)
	assert.Equal(t, "target does not exist", report.Broken[0].Reason)
	assert.Equal(t, "target is a directory", report.Broken[1].Reason)
	assert.Equal(t, "expectations/a/b.html", report.Broken[2].Page)

	err = report.Err()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestVerifyFollowsLinksOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "site")
	writePage(t, root, "index.html", `<a href="../shared/expectations/a.html">a</a>`)
	writePage(t, dir, "shared/expectations/a.html", `<a href="b.html">b</a>`)

	report, err := NewVerifier().Verify(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
	require.Len(t, report.Broken, 1)
	assert.Equal(t, "../shared/expectations/a.html", report.Broken[0].Page)
}

func TestVerifyMissingIndex(t *testing.T) {
	_, err := NewVerifier().Verify(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestVerifyMaxPages(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html", `<a href="a.html">a</a>`)
	writePage(t, root, "a.html", `<a href="b.html">b</a>`)
	writePage(t, root, "b.html", ``)

	report, err := NewVerifier(WithMaxPages(2)).Verify(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
}

func TestVerifyCanceled(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "index.html", ``)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewVerifier().Verify(ctx, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
