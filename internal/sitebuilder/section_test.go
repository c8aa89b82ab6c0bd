package sitebuilder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/config"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/render"
	"git.home.luguber.info/inful/datadocs/internal/store"
	"git.home.luguber.info/inful/datadocs/internal/util/sets"
)

func TestParseSectionKind(t *testing.T) {
	for _, name := range config.SectionNames {
		k, err := ParseSectionKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}
	_, err := ParseSectionKind("anomalies")
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestSectionKindAccepts(t *testing.T) {
	suite := identifier.NewSuite("a.b")
	validation := identifier.NewResult("a.b", "20200101T000000.000000Z", "batch")
	profiling := identifier.NewResult("a.b", identifier.ProfilingRunID, "batch")

	tests := []struct {
		kind SectionKind
		id   identifier.ResourceIdentifier
		want bool
	}{
		{KindExpectations, suite, true},
		{KindExpectations, validation, false},
		{KindValidations, validation, true},
		{KindValidations, profiling, false},
		{KindValidations, suite, false},
		{KindProfiling, profiling, true},
		{KindProfiling, validation, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.Accepts(tt.id), "%s accepts %s", tt.kind, tt.id)
	}
}

func newValidationSection(t *testing.T, src store.ArtifactStore, filter *config.RunIDFilter) *SectionBuilder {
	t.Helper()
	target, err := store.NewSiteStore("local_site", t.TempDir())
	require.NoError(t, err)
	reg := render.DefaultRegistry()
	r, err := reg.Renderer(render.ClassValidationResultPage)
	require.NoError(t, err)
	v, err := reg.View(render.ClassDefaultPageView)
	require.NoError(t, err)
	sec, err := NewSection(KindValidations, SectionSpec{
		Name: "validations", Source: src, Target: target, Renderer: r, View: v, Filter: filter,
	})
	require.NoError(t, err)
	return sec
}

func TestSectionBuildFiltersAndRequests(t *testing.T) {
	ctx := context.Background()
	src := store.NewMemoryStore("validations_store", store.FamilyValidations)
	keep := identifier.NewResult("a.b", "run-1", "batch")
	dropped := identifier.NewResult("a.b", "nightly", "batch")
	other := identifier.NewResult("a.b", "run-2", "batch")
	for _, id := range []identifier.ResourceIdentifier{keep, dropped, other} {
		require.NoError(t, src.Put(ctx, id, resultJSON(true)))
	}
	sec := newValidationSection(t, src, &config.RunIDFilter{Op: config.FilterNe, Value: "nightly"})

	assert.True(t, sec.Owns(keep))
	assert.False(t, sec.Owns(dropped))
	assert.False(t, sec.Owns(identifier.NewSuite("a.b")))

	links, err := sec.Build(ctx, sets.New[identifier.ResourceIdentifier](keep, dropped))
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, keep, links[0].Identifier)
	assert.Equal(t, "validations/a/b/run-1/batch.html", links[0].Filepath)

	rendered, err := sec.RenderedLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, rendered, 1)

	links, err = sec.Build(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Equal(t, 3, src.Calls().Get)
}

func TestSectionBuildEmptyRequestRendersNothing(t *testing.T) {
	src := store.NewMemoryStore("validations_store", store.FamilyValidations)
	require.NoError(t, src.Put(context.Background(), validationID, resultJSON(true)))
	sec := newValidationSection(t, src, nil)

	links, err := sec.Build(context.Background(), sets.New[identifier.ResourceIdentifier]())
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Zero(t, src.Calls().Get)
}

func TestNewSectionRequiresCollaborators(t *testing.T) {
	_, err := NewSection(KindExpectations, SectionSpec{Name: "expectations"})
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = NewSection(SectionKind("anomalies"), SectionSpec{})
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestSortIndexLinks(t *testing.T) {
	links := []IndexLink{
		{SuiteName: "b", RunID: "2020", BatchID: "y"},
		{SuiteName: "a", RunID: "2019", BatchID: "x"},
		{SuiteName: "b", RunID: "2021", BatchID: "z"},
		{SuiteName: "b", RunID: "2020", BatchID: "x"},
		{SuiteName: "a", RunID: "2020", BatchID: "x"},
	}
	sortIndexLinks(links)
	var got []string
	for _, l := range links {
		got = append(got, l.SuiteName+"/"+l.RunID+"/"+l.BatchID)
	}
	assert.Equal(t, []string{"a/2020/x", "a/2019/x", "b/2021/z", "b/2020/x", "b/2020/y"}, got)
}

func TestIndexBuilderWritesIndex(t *testing.T) {
	ctx := context.Background()
	target, err := store.NewSiteStore("local_site", t.TempDir())
	require.NoError(t, err)
	reg := render.DefaultRegistry()
	r, err := reg.IndexRenderer(render.ClassSiteIndexPage)
	require.NoError(t, err)
	v, err := reg.View(render.ClassDefaultPageView)
	require.NoError(t, err)

	ib := NewIndexBuilder("local_site", target, r, v, render.Options{SiteName: "local_site"}, nil)
	path, links, err := ib.Build(ctx, map[SectionKind][]Link{
		KindExpectations: {{Identifier: suiteIDs[0], Filepath: "expectations/airflow/warning.html"}},
		KindProfiling:    {},
	})
	require.NoError(t, err)
	assert.Equal(t, target.IndexPath(), path)
	assert.Equal(t, map[string]int{"expectations": 1, "validations": 0, "profiling": 0}, links.Counts())
	assert.Equal(t, "airflow.warning", links.ExpectationsLinks[0].SuiteName)
	assert.Nil(t, links.ValidationsLinks)
	assert.NotNil(t, links.ProfilingLinks)
}
