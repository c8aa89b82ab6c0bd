package render

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// formatKwargs renders expectation kwargs as "key=value" pairs in key order.
func formatKwargs(kwargs map[string]any) string {
	if len(kwargs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(kwargs[k]))
	}
	return strings.Join(parts, ", ")
}

// formatValue renders a decoded JSON value. Maps are encoded with sorted keys
// by encoding/json, so the output is deterministic.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func statusText(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func percent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

// rootPath returns the relative prefix from a site-relative page path back to
// the site root.
func rootPath(pagePath string) string {
	dir := path.Dir(pagePath)
	if dir == "." {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

func pageRoot(id identifier.ResourceIdentifier) string {
	p, err := identifier.PagePath(id)
	if err != nil {
		return ""
	}
	return rootPath(p)
}

func observedValue(result map[string]any) string {
	if result == nil {
		return ""
	}
	if v, ok := result["observed_value"]; ok {
		return formatValue(v)
	}
	if v, ok := result["unexpected_count"]; ok {
		return "unexpected: " + formatValue(v)
	}
	return ""
}
