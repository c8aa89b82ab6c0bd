package linkverify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinksFromReader(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><link rel="stylesheet" href="style.css"></head>
<body>
<a href="expectations/a/b.html">a.b</a>
<a href="#top">top</a>
<a href="https://example.com/docs">docs</a>
<a href="mailto:team@example.com">mail</a>
<img src="logo.png" alt="logo">
<script src="app.js"></script>
<a>no href</a>
</body></html>`

	links, err := ExtractLinksFromReader(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, links, 7)

	assert.Equal(t, "link", links[0].Tag)
	assert.Equal(t, "stylesheet", links[0].Text)
	assert.Equal(t, "a.b", links[1].Text)
	assert.Equal(t, "href", links[1].Attribute)
	assert.Equal(t, "img", links[5].Tag)
	assert.Equal(t, "src", links[5].Attribute)

	var local []string
	for _, l := range FilterLinks(links, true) {
		local = append(local, l.URL)
	}
	assert.Equal(t, []string{"style.css", "expectations/a/b.html", "logo.png", "app.js"}, local)
	assert.Len(t, FilterLinks(links, false), 3)
}

func TestIsLocalLink(t *testing.T) {
	tests := map[string]bool{
		"index.html":                 true,
		"../../index.html":           true,
		"/abs/page.html":             true,
		"page.html#section":          true,
		"#anchor":                    false,
		"https://example.com/a.html": false,
		"//cdn.example.com/x.js":     false,
		"mailto:x@example.com":       false,
		"javascript:void(0)":         false,
		"file:///tmp/index.html":     false,
	}
	for link, want := range tests {
		assert.Equal(t, want, isLocalLink(link), link)
	}
}
