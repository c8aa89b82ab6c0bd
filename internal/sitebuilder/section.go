package sitebuilder

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/datadocs/internal/artifact"
	"git.home.luguber.info/inful/datadocs/internal/config"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
	"git.home.luguber.info/inful/datadocs/internal/render"
	"git.home.luguber.info/inful/datadocs/internal/store"
	"git.home.luguber.info/inful/datadocs/internal/util/sets"
)

// Link records one rendered page. Filepath is the page path relative to the
// target store's base directory, slash separated.
type Link struct {
	Identifier identifier.ResourceIdentifier
	Filepath   string
}

// SectionSpec is the resolved configuration a section factory receives.
type SectionSpec struct {
	Name     string
	Source   store.ArtifactStore
	Target   *store.SiteStore
	Renderer render.Renderer
	View     render.View
	Filter   *config.RunIDFilter
	Options  render.Options
	Logger   *slog.Logger
}

// SectionBuilder renders the artifacts of one section into its target store.
// It holds only configuration and collaborator references, so one instance
// serves any number of builds.
type SectionBuilder struct {
	kind     SectionKind
	name     string
	source   store.ArtifactStore
	target   *store.SiteStore
	renderer render.Renderer
	view     render.View
	filter   *config.RunIDFilter
	opts     render.Options
	logger   *slog.Logger
}

// pageObserver is told about every page a build renders.
type pageObserver func(id identifier.ResourceIdentifier, path string, written bool)

// sectionResult summarizes one section build.
type sectionResult struct {
	Links     []Link
	Written   int
	Unchanged int
}

// Name returns the configured section name.
func (s *SectionBuilder) Name() string { return s.name }

// Kind returns the section kind.
func (s *SectionBuilder) Kind() SectionKind { return s.kind }

// Target returns the store pages are written to.
func (s *SectionBuilder) Target() *store.SiteStore { return s.target }

// Owns reports whether id would be rendered by this section if present in
// its source store.
func (s *SectionBuilder) Owns(id identifier.ResourceIdentifier) bool {
	if !s.kind.Accepts(id) {
		return false
	}
	if r, ok := id.(identifier.ValidationResultIdentifier); ok {
		return s.filter.Keep(r.RunID)
	}
	return true
}

// candidates enumerates the source store and keeps the identifiers this
// section owns, in source order.
func (s *SectionBuilder) candidates(ctx context.Context) ([]identifier.ResourceIdentifier, error) {
	ids, err := s.source.List(ctx)
	if err != nil {
		return nil, s.storeErr(err, "list source store", nil)
	}
	out := make([]identifier.ResourceIdentifier, 0, len(ids))
	for _, id := range ids {
		if s.Owns(id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Build renders the section. A nil requested set renders every candidate;
// otherwise only candidates in requested are rendered and other requested
// identifiers are ignored. The first failure stops the section; pages written
// before it stay in place.
func (s *SectionBuilder) Build(ctx context.Context, requested sets.Set[identifier.ResourceIdentifier]) ([]Link, error) {
	res, err := s.build(ctx, requested, nil)
	if err != nil {
		return nil, err
	}
	return res.Links, nil
}

func (s *SectionBuilder) build(ctx context.Context, requested sets.Set[identifier.ResourceIdentifier], observe pageObserver) (*sectionResult, error) {
	ids, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	if requested != nil {
		ids = requested.Keep(ids)
	}

	res := &sectionResult{Links: make([]Link, 0, len(ids))}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "section build canceled").
				WithContext("section", s.name).Build()
		}
		rel, written, err := s.renderOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if written {
			res.Written++
		} else {
			res.Unchanged++
		}
		s.logger.Debug("Rendered page",
			logfields.Section(s.name), logfields.Identifier(id.Key()), logfields.Path(rel),
			slog.Bool("written", written))
		if observe != nil {
			observe(id, rel, written)
		}
		res.Links = append(res.Links, Link{Identifier: id, Filepath: rel})
	}
	return res, nil
}

func (s *SectionBuilder) renderOne(ctx context.Context, id identifier.ResourceIdentifier) (string, bool, error) {
	data, err := s.source.Get(ctx, id)
	if err != nil {
		return "", false, s.storeErr(err, "read artifact", id)
	}
	doc, err := s.renderer.Render(ctx, artifact.Artifact{ID: id, Data: data}, s.opts)
	if err != nil {
		return "", false, s.renderErr(err, "render artifact", id)
	}
	page, err := s.view.Render(doc)
	if err != nil {
		return "", false, s.renderErr(err, "render view", id)
	}
	written, err := s.target.Put(ctx, id, page)
	if err != nil {
		return "", false, s.storeErr(err, "write page", id)
	}
	rel, err := identifier.PagePath(id)
	if err != nil {
		return "", false, err
	}
	return rel, written, nil
}

// RenderedLinks re-derives the section's links from the stores: every
// candidate whose page exists in the target store. The index is built from
// these so it reflects everything ever rendered, not just this build.
func (s *SectionBuilder) RenderedLinks(ctx context.Context) ([]Link, error) {
	ids, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	var links []Link
	for _, id := range ids {
		ok, err := s.target.Has(ctx, id)
		if err != nil {
			return nil, s.storeErr(err, "check rendered page", id)
		}
		if !ok {
			continue
		}
		rel, err := identifier.PagePath(id)
		if err != nil {
			return nil, err
		}
		links = append(links, Link{Identifier: id, Filepath: rel})
	}
	return links, nil
}

func (s *SectionBuilder) renderErr(err error, msg string, id identifier.ResourceIdentifier) error {
	return classify(err, errors.CategoryRender, msg, s.name, id)
}

func (s *SectionBuilder) storeErr(err error, msg string, id identifier.ResourceIdentifier) error {
	return classify(err, errors.CategoryStore, msg, s.name, id)
}

// classify wraps err into category with section context. Cancellation errors
// pass through unchanged.
func classify(err error, category errors.ErrorCategory, msg, section string, id identifier.ResourceIdentifier) error {
	if errors.HasCategory(err, errors.CategoryRuntime) {
		return err
	}
	b := errors.WrapError(err, category, msg).WithContext("section", section)
	if id != nil {
		b = b.WithContext("identifier", id.Key())
	}
	return b.Build()
}
