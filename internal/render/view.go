package render

import (
	"bytes"
	"html/template"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// DefaultPageView is the plain HTML view. It carries no timestamps or other
// volatile content, so equal documents serialize to equal bytes.
type DefaultPageView struct{}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Render implements View.
func (DefaultPageView) Render(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.RenderError("nil document").Build()
	}
	data := struct {
		*Document
		M markers
	}{doc, markers{}}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "execute page template").
			WithContext("title", doc.Title).Build()
	}
	return buf.Bytes(), nil
}

// markers exposes the affordance texts to the template.
type markers struct{}

func (markers) ShowWalkthrough() string { return MarkerShowWalkthrough }
func (markers) WalkthroughDlg() string  { return MarkerWalkthroughDlg }
func (markers) CTAFooter() string       { return MarkerCTAFooter }
func (markers) EditSuiteButton() string { return MarkerEditSuiteButton }
func (markers) EditSuiteDlg() string    { return MarkerEditSuiteDlg }

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}{{if and .SiteName (ne .SiteName .Title)}} | {{.SiteName}}{{end}}</title>
<style>
body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;margin-bottom:1em}
td,th{border:1px solid #ccc;padding:4px 8px;text-align:left}
.success{color:#1a7f37}.failure{color:#cf222e}
.modal{display:none}
</style>
</head>
<body class="page-{{.Kind}}">
<nav><a href="{{.RootPath}}index.html">{{if .SiteName}}{{.SiteName}}{{else}}Home{{end}}</a></nav>
<h1>{{.Title}}</h1>
{{- with .HowTo}}
<div class="how-to">
{{- if .EditSuite}}
<button type="button" data-target="edit-suite-modal">{{$.M.EditSuiteButton}}</button>
{{- end}}
{{- if .Walkthrough}}
<button type="button" data-target="walkthrough-modal">{{$.M.ShowWalkthrough}}</button>
{{- end}}
</div>
{{- if .ActionCard}}
<div class="card actions">
<h2>Actions</h2>
<p>Review the profiled columns, then create an expectation suite for {{.SuiteName}} from this profile.</p>
</div>
{{- end}}
{{- end}}
{{- range .Sections}}
<section>
<h2>{{.Title}}</h2>
{{- range .Blocks}}
{{- if eq .Kind "text"}}
<p>{{.Text}}</p>
{{- else if eq .Kind "html"}}
<div class="notes">{{.HTML}}</div>
{{- else if eq .Kind "links"}}
<ul>
{{- range .Links}}
<li><a href="{{.Href}}">{{.Text}}</a>{{if .Meta}} <span>{{.Meta}}</span>{{end}}</li>
{{- end}}
</ul>
{{- else if eq .Kind "table"}}
<table>
{{- if .Header}}
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
{{- end}}
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td{{if .Status}} class="{{.Status}}"{{end}}>{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}
{{- end}}
</section>
{{- end}}
{{- with .HowTo}}
{{- if .EditSuite}}
<div class="modal" id="edit-suite-modal">
<h2>{{$.M.EditSuiteDlg}}</h2>
<p>Expectation suites are edited outside this site. Load the suite {{.SuiteName}}, add or change expectations, save it back to the expectations store and rebuild the site.</p>
</div>
{{- end}}
{{- if .Walkthrough}}
<div class="modal" id="walkthrough-modal">
<h2>{{$.M.WalkthroughDlg}}</h2>
<p>The index lists every expectation suite, validation result and profiling result rendered into this site. Each page links back to the index.</p>
</div>
{{- end}}
{{- if .CTAFooter}}
<footer class="cta">
<p>{{$.M.CTAFooter}}</p>
</footer>
{{- end}}
{{- end}}
</body>
</html>
`
