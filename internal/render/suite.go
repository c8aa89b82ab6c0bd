package render

import (
	"context"
	"strconv"

	"git.home.luguber.info/inful/datadocs/internal/artifact"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// ExpectationSuitePageRenderer renders an expectation suite page.
type ExpectationSuitePageRenderer struct{}

// Render implements Renderer.
func (ExpectationSuitePageRenderer) Render(ctx context.Context, a artifact.Artifact, opts Options) (*Document, error) {
	if _, ok := a.ID.(identifier.ExpectationSuiteIdentifier); !ok {
		return nil, wrongIdentifier("ExpectationSuitePageRenderer", a.ID)
	}
	suite, err := a.Suite()
	if err != nil {
		return nil, err
	}

	overview := Section{Title: "Overview", Blocks: []Block{{
		Kind:   BlockTable,
		Header: []string{"Property", "Value"},
		Rows: [][]Cell{
			{{Text: "Expectation suite"}, {Text: suite.ExpectationSuiteName}},
			{{Text: "Expectations"}, {Text: strconv.Itoa(len(suite.Expectations))}},
		},
	}}}
	if suite.DataAssetType != "" {
		overview.Blocks[0].Rows = append(overview.Blocks[0].Rows,
			[]Cell{{Text: "Data asset type"}, {Text: suite.DataAssetType}})
	}
	notes, err := notesBlock(suite.Meta.Notes)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		overview.Blocks = append(overview.Blocks, *notes)
	}

	table := Block{Kind: BlockTable, Header: []string{"Expectation", "Arguments"}}
	for _, e := range suite.Expectations {
		table.Rows = append(table.Rows, []Cell{{Text: e.ExpectationType}, {Text: formatKwargs(e.Kwargs)}})
	}
	expectations := Section{Title: "Expectations", Blocks: []Block{table}}
	for _, e := range suite.Expectations {
		nb, err := notesBlock(e.Meta.Notes)
		if err != nil {
			return nil, err
		}
		if nb != nil {
			expectations.Blocks = append(expectations.Blocks, Block{Kind: BlockText, Text: e.ExpectationType}, *nb)
		}
	}

	return &Document{
		Kind:     PageExpectationSuite,
		Title:    suite.ExpectationSuiteName,
		SiteName: opts.SiteName,
		RootPath: pageRoot(a.ID),
		Sections: []Section{overview, expectations},
		HowTo:    howTo(PageExpectationSuite, opts, suite.ExpectationSuiteName),
	}, nil
}

func wrongIdentifier(renderer string, id identifier.ResourceIdentifier) error {
	key := "<nil>"
	if id != nil {
		key = id.Key()
	}
	return errors.RenderError("renderer does not accept identifier").
		WithContext("renderer", renderer).
		WithContext("identifier", key).
		Build()
}
