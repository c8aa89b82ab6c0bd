package sitebuilder

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
	"git.home.luguber.info/inful/datadocs/internal/render"
	"git.home.luguber.info/inful/datadocs/internal/store"
)

// IndexLink describes one page on the index. Filepath is relative to the
// index page's directory. Suite links have empty RunID and BatchID.
type IndexLink struct {
	Section   SectionKind `json:"section"`
	Filepath  string      `json:"filepath"`
	SuiteName string      `json:"expectation_suite_name"`
	RunID     string      `json:"run_id,omitempty"`
	BatchID   string      `json:"batch_id,omitempty"`
}

// IndexLinks groups the index entries by section.
type IndexLinks struct {
	SiteName          string      `json:"site_name"`
	ExpectationsLinks []IndexLink `json:"expectations_links"`
	ValidationsLinks  []IndexLink `json:"validations_links"`
	ProfilingLinks    []IndexLink `json:"profiling_links"`
}

// For returns the links of one section.
func (l IndexLinks) For(kind SectionKind) []IndexLink {
	switch kind {
	case KindExpectations:
		return l.ExpectationsLinks
	case KindValidations:
		return l.ValidationsLinks
	case KindProfiling:
		return l.ProfilingLinks
	}
	return nil
}

// Counts returns the number of links per section.
func (l IndexLinks) Counts() map[string]int {
	out := make(map[string]int, len(AllKinds))
	for _, k := range AllKinds {
		out[string(k)] = len(l.For(k))
	}
	return out
}

// IndexBuilder renders and writes the site index.
type IndexBuilder struct {
	siteName string
	target   *store.SiteStore
	renderer render.IndexRenderer
	view     render.View
	opts     render.Options
	logger   *slog.Logger
}

// NewIndexBuilder returns an index builder writing to target.
func NewIndexBuilder(siteName string, target *store.SiteStore, renderer render.IndexRenderer, view render.View, opts render.Options, logger *slog.Logger) *IndexBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexBuilder{siteName: siteName, target: target, renderer: renderer, view: view, opts: opts, logger: logger}
}

// sectionLinks are the links of one section together with the base
// directory their Filepath is relative to.
type sectionLinks struct {
	Links   []Link
	BaseDir string
}

// Build writes index.html and returns its absolute path and the ordered link
// descriptors. Sections missing from linksBySection are left off the page.
func (b *IndexBuilder) Build(ctx context.Context, linksBySection map[SectionKind][]Link) (string, IndexLinks, error) {
	withBase := make(map[SectionKind]sectionLinks, len(linksBySection))
	for k, links := range linksBySection {
		withBase[k] = sectionLinks{Links: links, BaseDir: b.target.BaseDirectory()}
	}
	return b.build(ctx, withBase)
}

func (b *IndexBuilder) build(ctx context.Context, linksBySection map[SectionKind]sectionLinks) (string, IndexLinks, error) {
	result := IndexLinks{SiteName: b.siteName}
	idx := render.Index{SiteName: b.siteName}

	for _, kind := range AllKinds {
		sl, ok := linksBySection[kind]
		if !ok {
			continue
		}
		links, err := b.describe(kind, sl)
		if err != nil {
			return "", IndexLinks{}, err
		}
		switch kind {
		case KindExpectations:
			result.ExpectationsLinks = links
		case KindValidations:
			result.ValidationsLinks = links
		case KindProfiling:
			result.ProfilingLinks = links
		}
		section := render.IndexSection{Name: string(kind)}
		for _, l := range links {
			section.Entries = append(section.Entries, render.IndexEntry{
				Href: l.Filepath, SuiteName: l.SuiteName, RunID: l.RunID, BatchID: l.BatchID,
			})
		}
		idx.Sections = append(idx.Sections, section)
	}

	doc, err := b.renderer.RenderIndex(ctx, idx, b.opts)
	if err != nil {
		return "", IndexLinks{}, errors.WrapError(err, errors.CategoryRender, "render index").
			WithContext("site", b.siteName).Build()
	}
	page, err := b.view.Render(doc)
	if err != nil {
		return "", IndexLinks{}, errors.WrapError(err, errors.CategoryRender, "render index view").
			WithContext("site", b.siteName).Build()
	}
	path, err := b.target.PutIndex(ctx, page)
	if err != nil {
		return "", IndexLinks{}, err
	}
	b.logger.Debug("Wrote index", logfields.Site(b.siteName), logfields.Path(path))
	return path, result, nil
}

// describe turns raw links into sorted descriptors with paths relative to the
// index directory.
func (b *IndexBuilder) describe(kind SectionKind, sl sectionLinks) ([]IndexLink, error) {
	out := make([]IndexLink, 0, len(sl.Links))
	for _, l := range sl.Links {
		abs := filepath.Join(sl.BaseDir, filepath.FromSlash(l.Filepath))
		rel, err := filepath.Rel(b.target.BaseDirectory(), abs)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "relativize index link").
				WithContext("path", abs).Build()
		}
		il := IndexLink{Section: kind, Filepath: filepath.ToSlash(rel)}
		switch id := l.Identifier.(type) {
		case identifier.ExpectationSuiteIdentifier:
			il.SuiteName = id.SuiteName
		case identifier.ValidationResultIdentifier:
			il.SuiteName = id.Suite.SuiteName
			il.RunID = id.RunID
			il.BatchID = id.BatchID
		}
		out = append(out, il)
	}
	sortIndexLinks(out)
	return out, nil
}

// sortIndexLinks orders by suite name, then newest run first, then batch.
func sortIndexLinks(links []IndexLink) {
	sort.SliceStable(links, func(i, j int) bool {
		a, b := links[i], links[j]
		if a.SuiteName != b.SuiteName {
			return a.SuiteName < b.SuiteName
		}
		if a.RunID != b.RunID {
			return a.RunID > b.RunID
		}
		return a.BatchID < b.BatchID
	})
}
