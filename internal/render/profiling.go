package render

import (
	"context"

	"git.home.luguber.info/inful/datadocs/internal/artifact"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// tableLevel groups expectations that do not target a column.
const tableLevel = "Table-level expectations"

// ProfilingResultsPageRenderer renders a profiling result, grouping observed
// values by column.
type ProfilingResultsPageRenderer struct{}

// Render implements Renderer.
func (ProfilingResultsPageRenderer) Render(ctx context.Context, a artifact.Artifact, opts Options) (*Document, error) {
	id, ok := a.ID.(identifier.ValidationResultIdentifier)
	if !ok {
		return nil, wrongIdentifier("ProfilingResultsPageRenderer", a.ID)
	}
	res, err := a.ValidationResult()
	if err != nil {
		return nil, err
	}

	sections := []Section{{Title: "Overview", Blocks: []Block{runTable(id, res)}}}

	// Columns keep their first-appearance order in the result list.
	var order []string
	byColumn := map[string]*Block{}
	for _, r := range res.Results {
		col := tableLevel
		if c, ok := r.ExpectationConfig.Kwargs["column"].(string); ok && c != "" {
			col = c
		}
		b, ok := byColumn[col]
		if !ok {
			b = &Block{Kind: BlockTable, Header: []string{"Expectation", "Observed value"}}
			byColumn[col] = b
			order = append(order, col)
		}
		b.Rows = append(b.Rows, []Cell{
			{Text: r.ExpectationConfig.ExpectationType},
			{Text: observedValue(r.Result)},
		})
	}
	for _, col := range order {
		sections = append(sections, Section{Title: col, Blocks: []Block{*byColumn[col]}})
	}

	return &Document{
		Kind:     PageProfilingResult,
		Title:    "Profiling Results: " + id.Suite.SuiteName,
		SiteName: opts.SiteName,
		RootPath: pageRoot(id),
		Sections: sections,
		HowTo:    howTo(PageProfilingResult, opts, id.Suite.SuiteName),
	}, nil
}
