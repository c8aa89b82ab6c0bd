package linkverify

// BrokenLink is a local link whose target does not exist.
type BrokenLink struct {
	Page   string `json:"page"`   // Page containing the link, relative to the site root
	URL    string `json:"url"`    // The link as written
	Tag    string `json:"tag"`    // Element carrying the link
	Line   int    `json:"line"`   // Approximate element position in the page
	Target string `json:"target"` // Resolved filesystem path
	Reason string `json:"reason"` // Why the link is broken
}

// Report summarizes a site verification.
type Report struct {
	Root   string       `json:"root"`
	Pages  int          `json:"pages"`
	Links  int          `json:"links"`
	Broken []BrokenLink `json:"broken,omitempty"`
}

// OK reports whether every checked link resolved.
func (r *Report) OK() bool { return len(r.Broken) == 0 }
