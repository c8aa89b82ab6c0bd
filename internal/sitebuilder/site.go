// Package sitebuilder orchestrates documentation site builds: which artifacts
// are rendered by which section, where their pages live, and how the index is
// assembled from everything rendered so far.
package sitebuilder

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/datadocs/internal/config"
	"git.home.luguber.info/inful/datadocs/internal/eventstore"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
	"git.home.luguber.info/inful/datadocs/internal/metrics"
	"git.home.luguber.info/inful/datadocs/internal/render"
	"git.home.luguber.info/inful/datadocs/internal/retry"
	"git.home.luguber.info/inful/datadocs/internal/store"
	"git.home.luguber.info/inful/datadocs/internal/util/sets"
)

// BuildResult is the outcome of a successful build.
type BuildResult struct {
	BuildID   string
	IndexPath string
	Links     IndexLinks
}

// SiteBuilder builds one documentation site. It is constructed once from
// configuration and reused across builds; a single SiteBuilder must not run
// overlapping builds against the same site directory.
type SiteBuilder struct {
	name     string
	target   *store.SiteStore
	sections []*SectionBuilder
	index    *IndexBuilder

	registry     *render.Registry
	logger       *slog.Logger
	recorder     metrics.Recorder
	journal      eventstore.Store
	journalRetry retry.Policy
	concurrency  int
	newBuildID   func() string

	buildMu sync.Mutex
}

// New validates site against stores and the renderer registry and returns a
// ready builder. Every failure is a configuration error.
func New(site *config.SiteConfig, stores *Stores, opts ...Option) (*SiteBuilder, error) {
	if site == nil {
		return nil, errors.ConfigError("nil site configuration").Build()
	}
	if stores == nil {
		stores = NewStores()
	}
	b := &SiteBuilder{
		name:         site.Name,
		registry:     render.DefaultRegistry(),
		logger:       slog.Default(),
		recorder:     metrics.NoopRecorder{},
		journalRetry: retry.DefaultPolicy(),
		concurrency:  1,
		newBuildID:   defaultBuildID,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(logfields.Site(site.Name))

	if site.ClassName != "" && site.ClassName != config.SiteBuilderClass {
		return nil, errors.ConfigError("unsupported site class").
			WithContext("site", site.Name).WithContext("class_name", site.ClassName).Build()
	}
	if site.StoreBackend.BaseDirectory == "" {
		return nil, errors.ConfigError("site store_backend.base_directory is required").
			WithContext("site", site.Name).Build()
	}
	target, err := store.NewSiteStore(site.Name, site.StoreBackend.BaseDirectory)
	if err != nil {
		return nil, err
	}
	b.target = target

	ropts := render.Options{SiteName: site.Name, ShowHowToButtons: site.HowToButtons()}
	seen := make(map[SectionKind]bool)
	for _, ns := range site.Sections {
		sec, err := b.newSection(ns, stores, ropts)
		if err != nil {
			return nil, err
		}
		if seen[sec.Kind()] {
			return nil, errors.ConfigError("duplicate site section").
				WithContext("site", site.Name).WithContext("section", ns.Name).Build()
		}
		seen[sec.Kind()] = true
		b.sections = append(b.sections, sec)
	}

	ib := site.SiteIndexBuilder
	if ib.ClassName != "" && ib.ClassName != config.DefaultIndexBuilderClass {
		return nil, errors.ConfigError("unsupported site index builder class").
			WithContext("site", site.Name).WithContext("class_name", ib.ClassName).Build()
	}
	indexRenderer, err := b.registry.IndexRenderer(orDefault(ib.Renderer.ClassName, render.ClassSiteIndexPage))
	if err != nil {
		return nil, err
	}
	indexView, err := b.registry.View(orDefault(ib.View.ClassName, render.ClassDefaultPageView))
	if err != nil {
		return nil, err
	}
	b.index = NewIndexBuilder(site.Name, target, indexRenderer, indexView, ropts, b.logger)
	return b, nil
}

func (b *SiteBuilder) newSection(ns config.NamedSection, stores *Stores, ropts render.Options) (*SectionBuilder, error) {
	kind, err := ParseSectionKind(ns.Name)
	if err != nil {
		return nil, err
	}
	cfg := ns.Section
	source, ok := stores.Artifacts[cfg.SourceStoreName]
	if !ok {
		return nil, errors.ConfigError("section references unknown source store").
			WithContext("site", b.name).WithContext("section", ns.Name).
			WithContext("store", cfg.SourceStoreName).Build()
	}
	target := b.target
	if cfg.TargetStoreName != "" {
		if target, ok = stores.Sites[cfg.TargetStoreName]; !ok {
			return nil, errors.ConfigError("section references unknown target store").
				WithContext("site", b.name).WithContext("section", ns.Name).
				WithContext("store", cfg.TargetStoreName).Build()
		}
	}
	defaults, _ := config.DefaultSection(ns.Name)
	renderer, err := b.registry.Renderer(orDefault(cfg.Renderer.ClassName, defaults.Renderer.ClassName))
	if err != nil {
		return nil, err
	}
	view, err := b.registry.View(orDefault(cfg.View.ClassName, defaults.View.ClassName))
	if err != nil {
		return nil, err
	}
	return NewSection(kind, SectionSpec{
		Name:     ns.Name,
		Source:   source,
		Target:   target,
		Renderer: renderer,
		View:     view,
		Filter:   cfg.RunIDFilter,
		Options:  ropts,
		Logger:   b.logger,
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Name returns the site name.
func (b *SiteBuilder) Name() string { return b.name }

// Sections returns the configured sections in build order.
func (b *SiteBuilder) Sections() []*SectionBuilder {
	out := make([]*SectionBuilder, len(b.sections))
	copy(out, b.sections)
	return out
}

// Target returns the site's own store.
func (b *SiteBuilder) Target() *store.SiteStore { return b.target }

// Build renders the site. An empty ids slice renders every artifact; otherwise
// every section renders only the requested identifiers it owns. The index is
// always rebuilt from everything rendered so far.
func (b *SiteBuilder) Build(ctx context.Context, ids []identifier.ResourceIdentifier) (BuildResult, error) {
	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	buildID := b.newBuildID()
	start := time.Now()
	log := b.logger.With(logfields.BuildID(buildID))

	var requested sets.Set[identifier.ResourceIdentifier]
	var keys []string
	if len(ids) > 0 {
		requested = sets.New[identifier.ResourceIdentifier]()
		for _, id := range ids {
			if id == nil {
				continue
			}
			requested.Add(id)
			keys = append(keys, id.Key())
		}
	}
	log.Info("Site build started", logfields.Selective(requested != nil), logfields.Count(len(keys)))
	b.record(ctx, log, func() (eventstore.Event, error) {
		return eventstore.NewBuildStarted(buildID, b.name, keys)
	})

	failedSection, err := b.buildSections(ctx, buildID, requested, log)
	if err != nil {
		return BuildResult{}, b.fail(ctx, log, buildID, failedSection, start, err)
	}

	linksBySection := make(map[SectionKind]sectionLinks, len(b.sections))
	for _, sec := range b.sections {
		links, err := sec.RenderedLinks(ctx)
		if err != nil {
			return BuildResult{}, b.fail(ctx, log, buildID, sec.Name(), start, err)
		}
		linksBySection[sec.Kind()] = sectionLinks{Links: links, BaseDir: sec.Target().BaseDirectory()}
	}
	indexPath, links, err := b.index.build(ctx, linksBySection)
	if err != nil {
		return BuildResult{}, b.fail(ctx, log, buildID, "", start, err)
	}
	counts := links.Counts()
	for _, sec := range b.sections {
		b.recorder.SetIndexLinks(sec.Name(), counts[string(sec.Kind())])
	}
	b.record(ctx, log, func() (eventstore.Event, error) {
		return eventstore.NewIndexWritten(buildID, indexPath, counts)
	})

	elapsed := time.Since(start)
	b.recorder.ObserveBuildDuration(elapsed)
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	b.record(ctx, log, func() (eventstore.Event, error) {
		return eventstore.NewBuildCompleted(buildID, indexPath, elapsed)
	})
	log.Info("Site build completed", logfields.Path(indexPath), logfields.Duration(elapsed))

	return BuildResult{BuildID: buildID, IndexPath: indexPath, Links: links}, nil
}

// buildSections runs every section, sequentially or on the worker group. It
// returns the name of the failing section with the error.
func (b *SiteBuilder) buildSections(ctx context.Context, buildID string, requested sets.Set[identifier.ResourceIdentifier], log *slog.Logger) (string, error) {
	if b.concurrency <= 1 || len(b.sections) <= 1 {
		for _, sec := range b.sections {
			if err := b.buildSection(ctx, buildID, sec, requested, log); err != nil {
				return sec.Name(), err
			}
		}
		return "", nil
	}

	var (
		mu     sync.Mutex
		failed string
	)
	g := newWorkerGroup(ctx, b.concurrency)
	for _, sec := range b.sections {
		if !g.Go(func(ctx context.Context) error {
			err := b.buildSection(ctx, buildID, sec, requested, log)
			if err != nil && !errors.HasCategory(err, errors.CategoryRuntime) {
				mu.Lock()
				if failed == "" {
					failed = sec.Name()
				}
				mu.Unlock()
			}
			return err
		}) {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return failed, err
	}
	if err := ctx.Err(); err != nil {
		return "", errors.WrapError(err, errors.CategoryRuntime, "site build canceled").Build()
	}
	return "", nil
}

func (b *SiteBuilder) buildSection(ctx context.Context, buildID string, sec *SectionBuilder, requested sets.Set[identifier.ResourceIdentifier], log *slog.Logger) error {
	start := time.Now()
	observe := func(id identifier.ResourceIdentifier, path string, written bool) {
		b.record(ctx, log, func() (eventstore.Event, error) {
			return eventstore.NewPageRendered(buildID, sec.Name(), id.Key(), path, written)
		})
	}
	res, err := sec.build(ctx, requested, observe)
	elapsed := time.Since(start)
	b.recorder.ObserveSectionDuration(sec.Name(), elapsed)
	if err != nil {
		result := metrics.ResultFailed
		if isCanceled(err) {
			result = metrics.ResultCanceled
		}
		b.recorder.IncSectionResult(sec.Name(), result)
		return err
	}
	b.recorder.IncSectionResult(sec.Name(), metrics.ResultSuccess)
	b.recorder.AddPages(sec.Name(), metrics.PageWritten, res.Written)
	b.recorder.AddPages(sec.Name(), metrics.PageUnchanged, res.Unchanged)
	b.record(ctx, log, func() (eventstore.Event, error) {
		return eventstore.NewSectionBuilt(buildID, sec.Name(), len(res.Links), res.Written, elapsed)
	})
	log.Info("Section built",
		logfields.Section(sec.Name()), logfields.Count(len(res.Links)),
		slog.Int("written", res.Written), logfields.Duration(elapsed))
	return nil
}

func (b *SiteBuilder) fail(ctx context.Context, log *slog.Logger, buildID, section string, start time.Time, err error) error {
	outcome := metrics.BuildOutcomeFailed
	if isCanceled(err) {
		outcome = metrics.BuildOutcomeCanceled
	}
	b.recorder.ObserveBuildDuration(time.Since(start))
	b.recorder.IncBuildOutcome(outcome)
	// The build context may be canceled; the failure is still journaled.
	b.record(context.WithoutCancel(ctx), log, func() (eventstore.Event, error) {
		return eventstore.NewBuildFailed(buildID, section, err)
	})
	log.Error("Site build failed", logfields.Section(section), logfields.Error(err))
	return err
}

func isJournalErr(err error) bool { return errors.HasCategory(err, errors.CategoryJournal) }

func isCanceled(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// record appends an event to the journal, if configured. Journaling is
// best-effort: an append that still fails after the retry policy is logged
// and dropped, and the build carries on.
func (b *SiteBuilder) record(ctx context.Context, log *slog.Logger, mk func() (eventstore.Event, error)) {
	if b.journal == nil {
		return
	}
	e, err := mk()
	if err == nil {
		err = b.journalRetry.Do(ctx, isJournalErr, func() error {
			return eventstore.Record(ctx, b.journal, e)
		})
	}
	if err != nil {
		log.Warn("Failed to record build event", logfields.Error(err))
	}
}

// ResourceURL returns the file:// URL of the page rendering id, or of the
// index page when id is nil. Identifiers no section owns are not_found
// errors.
func (b *SiteBuilder) ResourceURL(id identifier.ResourceIdentifier) (string, error) {
	if id == nil {
		return b.target.IndexURL(), nil
	}
	if err := id.Validate(); err != nil {
		return "", err
	}
	for _, sec := range b.sections {
		if sec.Owns(id) {
			return sec.Target().URL(id)
		}
	}
	return "", errors.NotFoundError("no site section owns identifier").
		WithContext("site", b.name).WithContext("identifier", id.Key()).Build()
}
