package render

import (
	"context"
	"strconv"

	"git.home.luguber.info/inful/datadocs/internal/artifact"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// ValidationResultsPageRenderer renders the page of one validation result.
type ValidationResultsPageRenderer struct{}

// Render implements Renderer.
func (ValidationResultsPageRenderer) Render(ctx context.Context, a artifact.Artifact, opts Options) (*Document, error) {
	id, ok := a.ID.(identifier.ValidationResultIdentifier)
	if !ok {
		return nil, wrongIdentifier("ValidationResultsPageRenderer", a.ID)
	}
	res, err := a.ValidationResult()
	if err != nil {
		return nil, err
	}

	overview := Section{Title: "Overview", Blocks: []Block{
		runTable(id, res),
		statisticsTable(res.Statistics),
	}}
	notes, err := notesBlock(res.Meta.Notes)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		overview.Blocks = append(overview.Blocks, *notes)
	}

	table := Block{Kind: BlockTable, Header: []string{"Status", "Expectation", "Arguments", "Observed value"}}
	for _, r := range res.Results {
		observed := observedValue(r.Result)
		if r.ExceptionInfo != nil && r.ExceptionInfo.RaisedException {
			observed = r.ExceptionInfo.ExceptionMessage
		}
		status := statusText(r.Success)
		table.Rows = append(table.Rows, []Cell{
			{Text: status, Status: status},
			{Text: r.ExpectationConfig.ExpectationType},
			{Text: formatKwargs(r.ExpectationConfig.Kwargs)},
			{Text: observed},
		})
	}

	return &Document{
		Kind:     PageValidationResult,
		Title:    "Validation Results: " + id.Suite.SuiteName,
		SiteName: opts.SiteName,
		RootPath: pageRoot(id),
		Sections: []Section{overview, {Title: "Results", Blocks: []Block{table}}},
		HowTo:    howTo(PageValidationResult, opts, id.Suite.SuiteName),
	}, nil
}

func runTable(id identifier.ValidationResultIdentifier, res *artifact.ValidationResult) Block {
	status := statusText(res.Success)
	rows := [][]Cell{
		{{Text: "Status"}, {Text: status, Status: status}},
		{{Text: "Expectation suite"}, {Text: id.Suite.SuiteName, Href: suiteHref(id)}},
		{{Text: "Run ID"}, {Text: id.RunID}},
		{{Text: "Batch ID"}, {Text: id.BatchID}},
	}
	if len(res.Meta.BatchKwargs) > 0 {
		rows = append(rows, []Cell{{Text: "Batch kwargs"}, {Text: formatKwargs(res.Meta.BatchKwargs)}})
	}
	return Block{Kind: BlockTable, Header: []string{"Property", "Value"}, Rows: rows}
}

func statisticsTable(s artifact.Statistics) Block {
	return Block{Kind: BlockTable, Header: []string{"Statistic", "Value"}, Rows: [][]Cell{
		{{Text: "Evaluated expectations"}, {Text: strconv.Itoa(s.EvaluatedExpectations)}},
		{{Text: "Successful expectations"}, {Text: strconv.Itoa(s.SuccessfulExpectations)}},
		{{Text: "Unsuccessful expectations"}, {Text: strconv.Itoa(s.UnsuccessfulExpectations)}},
		{{Text: "Success percent"}, {Text: percent(s.SuccessPercent)}},
	}}
}

// suiteHref links a result page to its suite's page.
func suiteHref(id identifier.ValidationResultIdentifier) string {
	p, err := identifier.PagePath(id.Suite)
	if err != nil {
		return ""
	}
	return pageRoot(id) + p
}
