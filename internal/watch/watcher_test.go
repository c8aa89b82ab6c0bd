package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/sitebuilder"
	"git.home.luguber.info/inful/datadocs/internal/store"
)

// recordingBuilder records the identifiers of every build request.
type recordingBuilder struct {
	mu     sync.Mutex
	builds [][]identifier.ResourceIdentifier
	calls  chan struct{}
	err    error
}

func newRecordingBuilder() *recordingBuilder {
	return &recordingBuilder{calls: make(chan struct{}, 16)}
}

func (b *recordingBuilder) Name() string { return "local_site" }

func (b *recordingBuilder) Build(_ context.Context, ids []identifier.ResourceIdentifier) (sitebuilder.BuildResult, error) {
	b.mu.Lock()
	b.builds = append(b.builds, ids)
	b.mu.Unlock()
	b.calls <- struct{}{}
	return sitebuilder.BuildResult{BuildID: "build"}, b.err
}

func (b *recordingBuilder) snapshot() [][]identifier.ResourceIdentifier {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]identifier.ResourceIdentifier, len(b.builds))
	copy(out, b.builds)
	return out
}

func (b *recordingBuilder) waitCall(t *testing.T) {
	t.Helper()
	select {
	case <-b.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for build")
	}
}

func startWatcher(t *testing.T, sources []Source, b *recordingBuilder, opts Options) {
	t.Helper()
	w, err := New(sources, []Builder{b}, opts)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

func TestPathIdentifier(t *testing.T) {
	dir := filepath.Join(string(filepath.Separator), "stores", "validations")
	src := Source{Store: "validations_store", Dir: dir, Results: true}

	id, ok := PathIdentifier(src, filepath.Join(dir, "titanic", "warning", "run-1", "batch.json"))
	require.True(t, ok)
	assert.Equal(t, identifier.NewResult("titanic.warning", "run-1", "batch"), id)

	for _, p := range []string{
		filepath.Join(dir, "titanic", "warning", "run-1", "batch.txt"),
		filepath.Join(dir, "titanic", "warning", "run-1", ".tmp-123.json"),
		filepath.Join(dir, "batch.json"),
		filepath.Join(string(filepath.Separator), "elsewhere", "a", "b", "c.json"),
	} {
		_, ok := PathIdentifier(src, p)
		assert.False(t, ok, p)
	}

	suites := Source{Store: "expectations_store", Dir: dir}
	id, ok = PathIdentifier(suites, filepath.Join(dir, "titanic", "warning.json"))
	require.True(t, ok)
	assert.Equal(t, identifier.NewSuite("titanic.warning"), id)
}

func TestSourcesFrom(t *testing.T) {
	es, err := store.NewFSStore("expectations_store", store.FamilyExpectations, t.TempDir())
	require.NoError(t, err)
	vs, err := store.NewFSStore("validations_store", store.FamilyValidations, t.TempDir())
	require.NoError(t, err)

	sources := SourcesFrom(map[string]store.ArtifactStore{
		"validations_store":  vs,
		"expectations_store": es,
		"memory":             store.NewMemoryStore("memory", store.FamilyValidations),
	})
	require.Len(t, sources, 2)
	assert.Equal(t, Source{Store: "expectations_store", Dir: es.BaseDirectory()}, sources[0])
	assert.Equal(t, Source{Store: "validations_store", Dir: vs.BaseDirectory(), Results: true}, sources[1])
}

func TestWatcherDebouncesSelectiveBuilds(t *testing.T) {
	ctx := context.Background()
	vs, err := store.NewFSStore("validations_store", store.FamilyValidations, t.TempDir())
	require.NoError(t, err)
	b := newRecordingBuilder()
	startWatcher(t, []Source{{Store: "validations_store", Dir: vs.BaseDirectory(), Results: true}}, b,
		Options{Debounce: 200 * time.Millisecond})

	first := identifier.NewResult("titanic.warning", "run-1", "batch-a")
	second := identifier.NewResult("titanic.warning", "run-1", "batch-b")
	require.NoError(t, vs.Put(ctx, first, []byte(`{}`)))
	require.NoError(t, vs.Put(ctx, second, []byte(`{}`)))
	require.NoError(t, vs.Put(ctx, first, []byte(`{"success": true}`)))

	b.waitCall(t)
	builds := b.snapshot()
	require.Len(t, builds, 1)
	assert.ElementsMatch(t, []identifier.ResourceIdentifier{first, second}, builds[0])
}

func TestWatcherInitialAndTriggeredFullBuilds(t *testing.T) {
	b := newRecordingBuilder()
	b.err = errors.RenderError("broken artifact").Build()
	w, err := New(nil, []Builder{b}, Options{InitialBuild: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	b.waitCall(t)
	w.TriggerFull()
	b.waitCall(t)
	cancel()
	require.NoError(t, <-done)

	builds := b.snapshot()
	require.Len(t, builds, 2)
	assert.Nil(t, builds[0])
	assert.Nil(t, builds[1])
}

func TestWatcherScheduledBuild(t *testing.T) {
	b := newRecordingBuilder()
	startWatcher(t, nil, b, Options{Schedule: "* * * * * *"})
	b.waitCall(t)
	assert.Nil(t, b.snapshot()[0])
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(nil, nil, Options{})
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = New(nil, []Builder{newRecordingBuilder()}, Options{Schedule: "not a cron"})
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = New([]Source{{Dir: filepath.Join(t.TempDir(), "missing")}}, []Builder{newRecordingBuilder()}, Options{})
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()
	b := newRecordingBuilder()
	startWatcher(t, []Source{{Store: "expectations_store", Dir: dir}}, b, Options{Debounce: 100 * time.Millisecond})

	nested := filepath.Join(dir, "airflow", "nightly")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "warning.json"), []byte(`{}`), 0o600))

	b.waitCall(t)
	builds := b.snapshot()
	require.NotEmpty(t, builds)
	assert.Contains(t, builds[0], identifier.ResourceIdentifier(identifier.NewSuite("airflow.nightly.warning")))
}
