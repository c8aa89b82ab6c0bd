package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/eventstore"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/sitebuilder"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newProjectDir initializes a project with one suite and one validation
// result and returns the CLI pointing at it.
func newProjectDir(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	cli := &CLI{Config: filepath.Join(dir, "datadocs.yml")}
	require.NoError(t, (&InitCmd{}).Run(&Global{}, cli))

	writeFile(t, filepath.Join(dir, "expectations", "airflow", "warning.json"),
		`{"expectation_suite_name": "airflow.warning", "expectations": [{"expectation_type": "expect_column_to_exist", "kwargs": {"column": "id"}}]}`)
	writeFile(t, filepath.Join(dir, "uncommitted", "validations", "airflow", "warning", "run-1", "batch.json"),
		`{"success": true, "statistics": {"evaluated_expectations": 1, "successful_expectations": 1, "success_percent": 100}, "results": []}`)
	return cli, dir
}

func TestInitRefusesToOverwrite(t *testing.T) {
	cli, _ := newProjectDir(t)
	err := (&InitCmd{}).Run(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, cli))
}

func TestBuildCheckAndHistory(t *testing.T) {
	cli, dir := newProjectDir(t)
	site := filepath.Join(dir, "uncommitted", "data_docs", "local_site")

	require.NoError(t, (&BuildCmd{}).Run(&Global{}, cli))
	assert.FileExists(t, filepath.Join(site, "index.html"))
	assert.FileExists(t, filepath.Join(site, "expectations", "airflow", "warning.html"))
	assert.FileExists(t, filepath.Join(site, "validations", "airflow", "warning", "run-1", "batch.html"))

	require.NoError(t, (&BuildCmd{Resource: []string{"suite:airflow.warning"}, Concurrency: 2}).Run(&Global{}, cli))
	require.NoError(t, (&URLCmd{Resource: "suite:airflow.warning"}).Run(&Global{}, cli))
	require.NoError(t, (&CheckCmd{}).Run(&Global{}, cli))
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(&Global{}, cli))

	journal, err := eventstore.NewSQLiteStore(filepath.Join(dir, "uncommitted", "datadocs-journal.db"))
	require.NoError(t, err)
	proj := eventstore.NewBuildHistoryProjection(journal, 10)
	require.NoError(t, proj.Rebuild(t.Context()))
	require.NoError(t, journal.Close())
	history := proj.GetHistory()
	require.Len(t, history, 2)
	assert.True(t, history[0].Selective)
	assert.Equal(t, eventstore.StatusCompleted, history[0].Status)

	err = (&HistoryCmd{Build: "missing"}).Run(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	require.NoError(t, os.Remove(filepath.Join(site, "expectations", "airflow", "warning.html")))
	err = (&CheckCmd{}).Run(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, (&CheckCmd{NoLinks: true}).Run(&Global{}, cli))
}

func TestBuildRejectsBadResource(t *testing.T) {
	cli, _ := newProjectDir(t)
	err := (&BuildCmd{Resource: []string{"checkpoint:x"}}).Run(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	err = (&BuildCmd{Site: "other_site"}).Run(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
}

func TestURLUnknownResourceKind(t *testing.T) {
	cli, _ := newProjectDir(t)
	writeFile(t, cli.Config, `
data_docs_sites:
  local_site:
    site_section_builders:
      expectations:
`)
	err := (&URLCmd{Resource: "validation:airflow.warning/run-1/batch"}).Run(&Global{}, cli)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestParseResources(t *testing.T) {
	ids, err := parseResources([]string{"suite:a.b", " ", "validation:a.b/run/batch"})
	require.NoError(t, err)
	assert.Equal(t, []identifier.ResourceIdentifier{
		identifier.NewSuite("a.b"),
		identifier.NewResult("a.b", "run", "batch"),
	}, ids)
}

func TestPrintBuildResults(t *testing.T) {
	results := []sitebuilder.BuildResult{{
		IndexPath: "/site/index.html",
		Links: sitebuilder.IndexLinks{
			SiteName:          "local_site",
			ExpectationsLinks: []sitebuilder.IndexLink{{Section: sitebuilder.KindExpectations, Filepath: "expectations/a.html", SuiteName: "a"}},
		},
	}}

	var text bytes.Buffer
	require.NoError(t, printBuildResults(&text, results, false))
	assert.Equal(t, "local_site: /site/index.html (expectations=1 validations=0 profiling=0)\n", text.String())

	var out bytes.Buffer
	require.NoError(t, printBuildResults(&out, results, true))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "local_site", decoded[0]["site_name"])
}

func TestWriteHistoryTable(t *testing.T) {
	var out bytes.Buffer
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, writeHistoryTable(&out, []*eventstore.BuildSummary{{
		BuildID: "b1", Site: "local_site", Status: eventstore.StatusFailed, StartedAt: started,
		ErrorMessage: "render artifact",
	}}))
	assert.Contains(t, out.String(), "BUILD")
	assert.Contains(t, out.String(), "failed: render artifact")
}
