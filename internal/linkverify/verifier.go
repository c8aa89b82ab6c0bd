// Package linkverify checks that the pages of a rendered documentation site
// link only to files that exist.
package linkverify

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
)

const indexPage = "index.html"

// Verifier crawls a site from its index page.
type Verifier struct {
	logger   *slog.Logger
	maxPages int
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger broken links are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMaxPages bounds the number of pages crawled. Zero means unbounded.
func WithMaxPages(n int) Option {
	return func(v *Verifier) { v.maxPages = n }
}

// NewVerifier returns a verifier.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify starts at root/index.html and follows every local link to an HTML
// page, checking that each local link target exists. Links that leave root
// are checked but pages outside root are still crawled, since sections may
// write to a shared store next to the site.
func (v *Verifier) Verify(ctx context.Context, root string) (*Report, error) {
	index := filepath.Join(root, indexPage)
	if _, err := os.Stat(index); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("site index page not found").
				WithContext("path", index).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "stat site index page").
			WithContext("path", index).Build()
	}

	report := &Report{Root: root}
	visited := map[string]bool{index: true}
	queue := []string{index}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "link verification canceled").Build()
		}
		if v.maxPages > 0 && report.Pages >= v.maxPages {
			v.logger.Warn("Page limit reached, stopping crawl", logfields.Count(v.maxPages))
			break
		}
		page := queue[0]
		queue = queue[1:]

		next, err := v.verifyPage(root, page, report)
		if err != nil {
			return nil, err
		}
		for _, p := range next {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	v.logger.Info("Link verification finished",
		logfields.Path(root), slog.Int("pages", report.Pages),
		slog.Int("links", report.Links), slog.Int("broken", len(report.Broken)))
	return report, nil
}

// verifyPage checks the links of one page and returns the HTML pages it links
// to.
func (v *Verifier) verifyPage(root, page string, report *Report) ([]string, error) {
	links, err := ExtractLinks(page)
	if err != nil {
		return nil, err
	}
	report.Pages++
	rel := relTo(root, page)

	var next []string
	for _, link := range FilterLinks(links, true) {
		report.Links++
		target, err := resolveLocal(page, link)
		if err != nil {
			v.broken(report, rel, link, "", err.Error())
			continue
		}
		info, err := os.Stat(target)
		switch {
		case err != nil:
			v.broken(report, rel, link, target, "target does not exist")
		case info.IsDir():
			v.broken(report, rel, link, target, "target is a directory")
		case strings.HasSuffix(target, ".html"):
			next = append(next, target)
		}
	}
	return next, nil
}

func (v *Verifier) broken(report *Report, page string, link *Link, target, reason string) {
	report.Broken = append(report.Broken, BrokenLink{
		Page: page, URL: link.URL, Tag: link.Tag, Line: link.Line, Target: target, Reason: reason,
	})
	v.logger.Warn("Broken link",
		logfields.Path(page), slog.String("url", link.URL), slog.String("reason", reason))
}

// Err returns a validation error describing the broken links, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	first := r.Broken[0]
	return errors.ValidationError("site contains broken links").
		WithContext("root", r.Root).
		WithContext("broken", len(r.Broken)).
		WithContext("first_page", first.Page).
		WithContext("first_url", first.URL).Build()
}

func relTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
