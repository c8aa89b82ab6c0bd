// Package render turns artifacts into page documents and documents into HTML.
//
// Rendering is two-step: a Renderer builds a Document (structure and text) from
// one artifact, and a View serializes a Document to bytes. Both must be
// deterministic: the same input must always produce the same bytes, because the
// site store skips writes whose content is unchanged.
package render

import (
	"context"
	"html/template"

	"git.home.luguber.info/inful/datadocs/internal/artifact"
)

// PageKind identifies the page type a document is rendered for.
type PageKind string

const (
	PageIndex            PageKind = "index"
	PageExpectationSuite PageKind = "expectation_suite"
	PageValidationResult PageKind = "validation_result"
	PageProfilingResult  PageKind = "profiling_result"
)

// Options are passed to every renderer invocation.
type Options struct {
	SiteName string
	// ShowHowToButtons embeds walkthrough and help affordances. It never
	// changes which content is rendered.
	ShowHowToButtons bool
}

// Renderer renders one artifact into a Document.
type Renderer interface {
	Render(ctx context.Context, a artifact.Artifact, opts Options) (*Document, error)
}

// IndexRenderer renders the site index.
type IndexRenderer interface {
	RenderIndex(ctx context.Context, idx Index, opts Options) (*Document, error)
}

// View serializes a Document.
type View interface {
	Render(doc *Document) ([]byte, error)
}

// Document is the renderer output consumed by a View.
type Document struct {
	Kind     PageKind
	Title    string
	SiteName string
	// RootPath is the relative path from the page back to the site root,
	// e.g. "../../" for expectations/a/b.html.
	RootPath string
	Sections []Section
	HowTo    *HowTo
}

// Section is a titled group of content blocks.
type Section struct {
	Title  string
	Blocks []Block
}

// BlockKind selects how a Block is displayed.
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockHTML  BlockKind = "html"
	BlockTable BlockKind = "table"
	BlockLinks BlockKind = "links"
)

// Block is one unit of page content.
type Block struct {
	Kind   BlockKind
	Text   string
	HTML   template.HTML
	Header []string
	Rows   [][]Cell
	Links  []Link
}

// Cell is a table cell; Status, when set, styles the cell (success/failure).
type Cell struct {
	Text   string
	Href   string
	Status string
}

// Link is an anchor in a links block.
type Link struct {
	Text string
	Href string
	Meta string
}

// HowTo lists the help affordances embedded in a page.
type HowTo struct {
	Walkthrough bool
	EditSuite   bool
	ActionCard  bool
	CTAFooter   bool
	// SuiteName is referenced by the edit instructions.
	SuiteName string
}

// Affordance marker texts. Each appears in a page only when the matching
// HowTo flag is set.
const (
	MarkerShowWalkthrough = "Show Walkthrough"
	MarkerWalkthroughDlg  = "Data Docs Walkthrough"
	MarkerCTAFooter       = "To continue exploring data docs check out one of these tutorials..."
	MarkerEditSuiteButton = "How to Edit This Suite"
	MarkerEditSuiteDlg    = "How to Edit This Expectation Suite"

	// MarkerActionCard is the card's markup rather than its "Actions"
	// heading; escaped artifact text cannot reproduce the quoted attribute.
	MarkerActionCard = `class="card actions"`
)

// HowToMarkers returns the affordance markers every page of kind carries when
// how-to buttons are enabled.
func HowToMarkers(kind PageKind) []string {
	switch kind {
	case PageIndex:
		return []string{MarkerShowWalkthrough, MarkerWalkthroughDlg, MarkerCTAFooter}
	case PageExpectationSuite, PageValidationResult:
		return []string{MarkerEditSuiteButton, MarkerEditSuiteDlg, MarkerShowWalkthrough, MarkerWalkthroughDlg}
	case PageProfilingResult:
		return []string{MarkerActionCard, MarkerShowWalkthrough, MarkerWalkthroughDlg}
	}
	return nil
}

func howTo(kind PageKind, opts Options, suiteName string) *HowTo {
	if !opts.ShowHowToButtons {
		return nil
	}
	h := &HowTo{Walkthrough: true, SuiteName: suiteName}
	switch kind {
	case PageIndex:
		h.CTAFooter = true
	case PageExpectationSuite, PageValidationResult:
		h.EditSuite = true
	case PageProfilingResult:
		h.ActionCard = true
	}
	return h
}
