package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path
	Text      string // Link text/title
	Tag       string // HTML tag (a, img, script, link)
	Attribute string // Attribute containing the link (href, src)
	IsLocal   bool   // True if the link refers to a file relative to the page
	Line      int    // Approximate element position in the page
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithContext("html_path", htmlPath).Build()
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []*Link
	var lineNum int

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			lineNum++
			if l := elementLink(n, lineNum); l != nil {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links, nil
}

// elementLink returns the link carried by a single element, if any.
func elementLink(n *html.Node, lineNum int) *Link {
	var attr, text string
	switch n.Data {
	case "a":
		attr, text = "href", extractText(n)
	case "link":
		attr, text = "href", getAttr(n, "rel")
	case "img":
		attr, text = "src", getAttr(n, "alt")
	case "script":
		attr = "src"
	default:
		return nil
	}
	val := getAttr(n, attr)
	if val == "" {
		return nil
	}
	return &Link{
		URL:       val,
		Text:      text,
		Tag:       n.Data,
		Attribute: attr,
		IsLocal:   isLocalLink(val),
		Line:      lineNum,
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}

// isLocalLink reports whether linkURL points at a file next to the page:
// no scheme, no host and a non-empty path.
func isLocalLink(linkURL string) bool {
	if strings.HasPrefix(linkURL, "#") {
		return false
	}
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && u.Path != ""
}

// FilterLinks returns the local links, or the non-local ones.
func FilterLinks(links []*Link, local bool) []*Link {
	var filtered []*Link
	for _, link := range links {
		if link.IsLocal == local {
			filtered = append(filtered, link)
		}
	}
	return filtered
}

// resolveLocal maps a local link on the page at pagePath onto a filesystem
// path. Query strings and fragments are ignored.
func resolveLocal(pagePath string, link *Link) (string, error) {
	u, err := url.Parse(link.URL)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "invalid link").
			WithContext("url", link.URL).Build()
	}
	if strings.HasPrefix(u.Path, "/") {
		return filepath.FromSlash(u.Path), nil
	}
	return filepath.Join(filepath.Dir(pagePath), filepath.FromSlash(u.Path)), nil
}
