package sitebuilder

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/config"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/metrics"
)

var (
	suiteIDs = []identifier.ExpectationSuiteIdentifier{
		identifier.NewSuite("airflow.warning"),
		identifier.NewSuite("titanic.subdir_reader.Titanic.warning"),
		identifier.NewSuite("titanic.subdir_reader.Titanic.BasicDatasetProfiler"),
	}
	validationID = identifier.NewResult("titanic.subdir_reader.Titanic.warning", "20190926T134241.000000Z", "batch-a")
	profilingIDs = []identifier.ValidationResultIdentifier{
		identifier.NewResult("titanic.subdir_reader.Titanic.BasicDatasetProfiler", identifier.ProfilingRunID, "batch-a"),
		identifier.NewResult("titanic.subdir_reader.Titanic.BasicDatasetProfiler", identifier.ProfilingRunID, "batch-b"),
		identifier.NewResult("airflow.BasicDatasetProfiler", identifier.ProfilingRunID, "batch-c"),
	}
)

func suiteJSON(name string) []byte {
	return []byte(fmt.Sprintf(`{
  "expectation_suite_name": %q,
  "expectations": [
    {"expectation_type": "expect_column_to_exist", "kwargs": {"column": "Name"}},
    {"expectation_type": "expect_table_row_count_to_be_between", "kwargs": {"min_value": 1}}
  ]
}`, name))
}

func resultJSON(success bool) []byte {
	return []byte(fmt.Sprintf(`{
  "success": %t,
  "statistics": {"evaluated_expectations": 1, "successful_expectations": 1, "unsuccessful_expectations": 0, "success_percent": 100},
  "results": [
    {"success": true, "expectation_config": {"expectation_type": "expect_column_to_exist", "kwargs": {"column": "Name"}}, "result": {"observed_value": 1313}}
  ]
}`, success))
}

// fixture is a project directory with filesystem stores opened from config.
type fixture struct {
	dir    string
	cfg    *config.Config
	stores *Stores
}

func newFixture(t *testing.T, yml string) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Parse([]byte(yml), dir)
	require.NoError(t, err)
	stores, err := OpenStores(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })
	return &fixture{dir: dir, cfg: cfg, stores: stores}
}

// populate writes the standard 3 suites / 1 validation / 3 profiling fixture.
func (f *fixture) populate(t *testing.T, expectationsStore, validationsStore string) {
	t.Helper()
	ctx := context.Background()
	es := f.stores.Artifacts[expectationsStore]
	vs := f.stores.Artifacts[validationsStore]
	for _, id := range suiteIDs {
		require.NoError(t, es.Put(ctx, id, suiteJSON(id.SuiteName)))
	}
	require.NoError(t, vs.Put(ctx, validationID, resultJSON(true)))
	for _, id := range profilingIDs {
		require.NoError(t, vs.Put(ctx, id, resultJSON(true)))
	}
}

func (f *fixture) builder(t *testing.T, siteName string, opts ...Option) *SiteBuilder {
	t.Helper()
	site, err := f.cfg.Site(siteName)
	require.NoError(t, err)
	b, err := New(site, f.stores, opts...)
	require.NoError(t, err)
	return b
}

// htmlFiles returns every .html file under dir, relative and slash separated.
func htmlFiles(t *testing.T, dir string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".html") {
			rel, _ := filepath.Rel(dir, p)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

// backdate sets the modification time of every file under dir to ts.
func backdate(t *testing.T, dir string, ts time.Time) {
	t.Helper()
	for _, rel := range htmlFiles(t, dir) {
		require.NoError(t, os.Chtimes(filepath.Join(dir, filepath.FromSlash(rel)), ts, ts))
	}
}

func mtime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

// testRecorder counts recorder calls.
type testRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes map[metrics.BuildOutcomeLabel]int
	pages    map[metrics.PageLabel]int
	sections map[string]metrics.ResultLabel
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		outcomes: map[metrics.BuildOutcomeLabel]int{},
		pages:    map[metrics.PageLabel]int{},
		sections: map[string]metrics.ResultLabel{},
	}
}

func (r *testRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[o]++
}

func (r *testRecorder) AddPages(_ string, l metrics.PageLabel, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[l] += n
}

func (r *testRecorder) IncSectionResult(section string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections[section] = result
}
