package identifier

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// Site-relative directories for rendered pages.
const (
	ExpectationsDir = "expectations"
	ValidationsDir  = "validations"
	IndexPage       = "index.html"
)

// SuitePath turns a dotted suite name into a slash separated relative path.
func SuitePath(suiteName string) string {
	return strings.ReplaceAll(suiteName, ".", "/")
}

// RelativePath returns the artifact-relative path of id without extension:
// "<suite>" for suites and "<suite>/<run_id>/<batch_id>" for results. Source
// stores append their own extension.
func RelativePath(id ResourceIdentifier) string {
	switch v := id.(type) {
	case ExpectationSuiteIdentifier:
		return SuitePath(v.SuiteName)
	case ValidationResultIdentifier:
		return path.Join(SuitePath(v.Suite.SuiteName), v.RunID, v.BatchID)
	}
	return ""
}

// PagePath returns the site-relative, slash separated path of the page that
// renders id. It is a pure function of the identifier.
//
//	expectations/<suite/as/dirs>.html
//	validations/<suite/as/dirs>/<run_id>/<batch_id>.html
func PagePath(id ResourceIdentifier) (string, error) {
	if id == nil {
		return "", errors.ValidationError("nil identifier").Build()
	}
	if err := id.Validate(); err != nil {
		return "", err
	}
	switch id.(type) {
	case ExpectationSuiteIdentifier:
		return path.Join(ExpectationsDir, RelativePath(id)) + ".html", nil
	case ValidationResultIdentifier:
		return path.Join(ValidationsDir, RelativePath(id)) + ".html", nil
	}
	return "", errors.InternalError("unsupported identifier type").Build()
}

// FromPagePath is the inverse of PagePath. It reports false for paths that
// do not belong to a rendered artifact page (including index.html).
func FromPagePath(rel string) (ResourceIdentifier, bool) {
	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	if !strings.HasSuffix(rel, ".html") {
		return nil, false
	}
	rel = strings.TrimSuffix(rel, ".html")
	first, rest, ok := strings.Cut(rel, "/")
	if !ok {
		return nil, false
	}
	return fromRelative(first, rest)
}

// FromRelativePath parses the extension-less path produced by RelativePath
// for the given artifact family.
func FromRelativePath(results bool, rel string) (ResourceIdentifier, bool) {
	family := ExpectationsDir
	if results {
		family = ValidationsDir
	}
	return fromRelative(family, path.Clean(rel))
}

func fromRelative(family, rel string) (ResourceIdentifier, bool) {
	parts := strings.Split(rel, "/")
	var id ResourceIdentifier
	switch family {
	case ExpectationsDir:
		id = NewSuite(strings.Join(parts, "."))
	case ValidationsDir:
		if len(parts) < 3 {
			return nil, false
		}
		n := len(parts)
		id = NewResult(strings.Join(parts[:n-2], "."), parts[n-2], parts[n-1])
	default:
		return nil, false
	}
	if id.Validate() != nil {
		return nil, false
	}
	return id, true
}
