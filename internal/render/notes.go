package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/datadocs/internal/artifact"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// notesMarkdown is shared; goldmark.Markdown is safe for concurrent use once built.
var notesMarkdown = goldmark.New()

// notesBlock renders notes into a content block. Markdown notes are converted
// with goldmark (raw HTML is escaped by the default renderer); anything else is
// shown as plain text.
func notesBlock(n *artifact.Notes) (*Block, error) {
	if n == nil || len(n.Content) == 0 {
		return nil, nil
	}
	if n.Format != "markdown" {
		return &Block{Kind: BlockText, Text: strings.Join(n.Content, "\n")}, nil
	}
	var buf bytes.Buffer
	for _, chunk := range n.Content {
		if err := notesMarkdown.Convert([]byte(chunk), &buf); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "convert markdown notes").Build()
		}
	}
	// #nosec G203 -- goldmark output with unsafe HTML disabled
	return &Block{Kind: BlockHTML, HTML: template.HTML(buf.String())}, nil
}
