// Package watch keeps sites up to date: artifact files written to filesystem
// source stores trigger debounced selective builds, and an optional cron
// schedule triggers full rebuilds.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
	"git.home.luguber.info/inful/datadocs/internal/sitebuilder"
	"git.home.luguber.info/inful/datadocs/internal/store"
	"git.home.luguber.info/inful/datadocs/internal/util/sets"
)

const artifactExt = ".json"

// DefaultDebounce is the quiet window used when Options.Debounce is zero.
const DefaultDebounce = 2 * time.Second

// Builder is the part of a site builder the watcher drives.
type Builder interface {
	Name() string
	Build(ctx context.Context, ids []identifier.ResourceIdentifier) (sitebuilder.BuildResult, error)
}

// Source is a filesystem artifact store directory to watch.
type Source struct {
	Store   string
	Dir     string
	Results bool
}

// SourcesFrom returns a Source for every filesystem store in stores, ordered
// by name. Other backends cannot be watched and are skipped.
func SourcesFrom(stores map[string]store.ArtifactStore) []Source {
	var out []Source
	for name, st := range stores {
		fsStore, ok := st.(*store.FSStore)
		if !ok {
			continue
		}
		out = append(out, Source{
			Store:   name,
			Dir:     fsStore.BaseDirectory(),
			Results: fsStore.Family() == store.FamilyValidations,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Store < out[j].Store })
	return out
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet window after the last change before a build.
	Debounce time.Duration
	// Schedule is a cron expression for full rebuilds. Five fields, or six
	// with leading seconds. Empty disables scheduled builds.
	Schedule string
	// InitialBuild runs a full build before watching starts.
	InitialBuild bool
	Logger       *slog.Logger
}

// Watcher turns artifact changes into site builds. Builds run one at a time
// on the Run goroutine.
type Watcher struct {
	sources  []Source
	builders []Builder
	opts     Options
	logger   *slog.Logger

	fsw       *fsnotify.Watcher
	scheduler *Scheduler
	full      chan struct{}

	pending sets.Set[identifier.ResourceIdentifier]
	order   []identifier.ResourceIdentifier

	closeOnce sync.Once
}

// New creates a watcher over sources driving builders.
func New(sources []Source, builders []Builder, opts Options) (*Watcher, error) {
	if len(builders) == 0 {
		return nil, errors.ValidationError("watch needs at least one site").Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &Watcher{
		sources:  sources,
		builders: builders,
		opts:     opts,
		logger:   logger,
		fsw:      fsw,
		full:     make(chan struct{}, 1),
		pending:  sets.New[identifier.ResourceIdentifier](),
	}
	for _, src := range sources {
		if err := w.addTree(src.Dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	if opts.Schedule != "" {
		w.scheduler, err = NewScheduler(opts.Schedule, w.TriggerFull, logger)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches dir and every directory below it. fsnotify does not
// recurse on its own.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "walk watched directory").
				WithContext("path", p).Build()
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "watch directory").
				WithContext("path", p).Build()
		}
		return nil
	})
}

// TriggerFull requests a full build of every site. Requests made while one is
// already pending collapse into it.
func (w *Watcher) TriggerFull() {
	select {
	case w.full <- struct{}{}:
	default:
	}
}

// Run watches until ctx is canceled. Build failures are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	if w.opts.InitialBuild {
		w.buildAll(ctx, nil)
	}
	if w.scheduler != nil {
		w.scheduler.Start()
		defer func() {
			if err := w.scheduler.Stop(); err != nil {
				w.logger.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}
	w.logger.Info("Watching artifact stores",
		logfields.Count(len(w.sources)), logfields.Duration(w.opts.Debounce))

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.opts.Debounce)
				timerC = timer.C
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case <-timerC:
			timerC = nil
			ids := w.drain()
			if len(ids) > 0 {
				w.buildAll(ctx, ids)
			}
		case <-w.full:
			w.buildAll(ctx, nil)
		}
	}
}

// Close stops watching the filesystem.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}

// handleEvent queues the identifiers affected by event and reports whether
// anything was queued.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	src, ok := w.sourceOf(event.Name)
	if !ok {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return w.enqueuePath(src, event.Name)
	}

	// A new directory: watch it and pick up files written before the watch
	// was in place.
	queued := false
	if err := w.addTree(event.Name); err != nil {
		w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
	}
	_ = filepath.WalkDir(event.Name, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && w.enqueuePath(src, p) {
			queued = true
		}
		return nil
	})
	return queued
}

func (w *Watcher) sourceOf(p string) (Source, bool) {
	for _, src := range w.sources {
		rel, err := filepath.Rel(src.Dir, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return src, true
	}
	return Source{}, false
}

func (w *Watcher) enqueuePath(src Source, p string) bool {
	id, ok := PathIdentifier(src, p)
	if !ok {
		return false
	}
	if !w.pending.Has(id) {
		w.pending.Add(id)
		w.order = append(w.order, id)
	}
	w.logger.Debug("Artifact changed", logfields.Store(src.Store), logfields.Identifier(id.Key()))
	return true
}

func (w *Watcher) drain() []identifier.ResourceIdentifier {
	ids := w.order
	w.order = nil
	w.pending = sets.New[identifier.ResourceIdentifier]()
	return ids
}

// PathIdentifier maps an artifact file inside src back to its identifier.
func PathIdentifier(src Source, p string) (identifier.ResourceIdentifier, bool) {
	if !strings.HasSuffix(p, artifactExt) || strings.HasPrefix(filepath.Base(p), ".") {
		return nil, false
	}
	rel, err := filepath.Rel(src.Dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, false
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), artifactExt)
	return identifier.FromRelativePath(src.Results, rel)
}

// buildAll builds every site, selectively when ids is non-empty.
func (w *Watcher) buildAll(ctx context.Context, ids []identifier.ResourceIdentifier) {
	for _, b := range w.builders {
		if ctx.Err() != nil {
			return
		}
		res, err := b.Build(ctx, ids)
		if err != nil {
			w.logger.Error("Watch build failed", logfields.Site(b.Name()), logfields.Error(err))
			continue
		}
		w.logger.Info("Watch build finished",
			logfields.Site(b.Name()), logfields.BuildID(res.BuildID),
			logfields.Selective(len(ids) > 0), logfields.Count(len(ids)))
	}
}
