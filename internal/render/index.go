package render

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Index is the input of an IndexRenderer: the site's sections in display
// order, each with its ordered entries.
type Index struct {
	SiteName string
	Sections []IndexSection
}

// IndexSection lists the pages of one site section.
type IndexSection struct {
	Name    string
	Entries []IndexEntry
}

// IndexEntry is one page link. Href is relative to the site root.
type IndexEntry struct {
	Href      string
	SuiteName string
	RunID     string
	BatchID   string
}

// SiteIndexPageRenderer renders the site index.
type SiteIndexPageRenderer struct{}

var titleCaser = cases.Title(language.English)

// RenderIndex implements IndexRenderer.
func (SiteIndexPageRenderer) RenderIndex(ctx context.Context, idx Index, opts Options) (*Document, error) {
	doc := &Document{
		Kind:     PageIndex,
		Title:    idx.SiteName,
		SiteName: idx.SiteName,
		HowTo:    howTo(PageIndex, opts, ""),
	}
	for _, s := range idx.Sections {
		sec := Section{Title: titleCaser.String(s.Name)}
		if len(s.Entries) == 0 {
			sec.Blocks = append(sec.Blocks, Block{Kind: BlockText, Text: "No pages."})
			doc.Sections = append(doc.Sections, sec)
			continue
		}
		block := Block{Kind: BlockTable}
		if s.Entries[0].RunID == "" {
			block.Header = []string{"Expectation suite"}
		} else {
			block.Header = []string{"Expectation suite", "Run ID", "Batch ID"}
		}
		for _, e := range s.Entries {
			row := []Cell{{Text: e.SuiteName, Href: e.Href}}
			if e.RunID != "" {
				row = append(row, Cell{Text: e.RunID}, Cell{Text: e.BatchID})
			}
			block.Rows = append(block.Rows, row)
		}
		sec.Blocks = append(sec.Blocks, block)
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}
