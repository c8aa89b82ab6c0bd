package config

import (
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// Class names accepted for sites and index builders.
const (
	SiteBuilderClass         = "SiteBuilder"
	DefaultIndexBuilderClass = "DefaultSiteIndexBuilder"
)

// Section names with built-in defaults.
const (
	SectionExpectations = "expectations"
	SectionValidations  = "validations"
	SectionProfiling    = "profiling"
)

// SectionNames lists the known section names in default build order.
var SectionNames = []string{SectionExpectations, SectionValidations, SectionProfiling}

// Default class names, mirroring the render package's built-ins.
const (
	defaultSuiteRenderer      = "ExpectationSuitePageRenderer"
	defaultValidationRenderer = "ValidationResultsPageRenderer"
	defaultProfilingRenderer  = "ProfilingResultsPageRenderer"
	defaultIndexRenderer      = "SiteIndexPageRenderer"
	defaultView               = "DefaultPageView"
)

// SiteConfig configures one documentation site.
type SiteConfig struct {
	ClassName        string             `yaml:"class_name"`
	ShowHowToButtons *bool              `yaml:"show_how_to_buttons"`
	StoreBackend     SiteBackendConfig  `yaml:"store_backend"`
	SiteIndexBuilder IndexBuilderConfig `yaml:"site_index_builder"`
	// SiteSectionBuilders is kept raw so that section order is preserved and
	// partial entries can be merged over per-section defaults.
	SiteSectionBuilders yaml.Node `yaml:"site_section_builders"`

	// Name and Sections are populated by Load.
	Name     string         `yaml:"-"`
	Sections []NamedSection `yaml:"-"`
}

// HowToButtons reports whether pages embed how-to affordances.
func (s *SiteConfig) HowToButtons() bool {
	return s.ShowHowToButtons == nil || *s.ShowHowToButtons
}

// SiteBackendConfig locates the site's rendered pages.
type SiteBackendConfig struct {
	BaseDirectory string `yaml:"base_directory"`
}

// IndexBuilderConfig configures the index page.
type IndexBuilderConfig struct {
	ClassName string      `yaml:"class_name"`
	Renderer  ClassConfig `yaml:"renderer"`
	View      ClassConfig `yaml:"view"`
}

// ClassConfig names a registered renderer or view.
type ClassConfig struct {
	ClassName string `yaml:"class_name"`
}

// NamedSection is a section configuration with its name, in declaration order.
type NamedSection struct {
	Name    string
	Section SectionConfig
}

// SectionConfig configures one site section.
type SectionConfig struct {
	SourceStoreName string       `yaml:"source_store_name"`
	TargetStoreName string       `yaml:"target_store_name"`
	Renderer        ClassConfig  `yaml:"renderer"`
	View            ClassConfig  `yaml:"view"`
	RunIDFilter     *RunIDFilter `yaml:"run_id_filter"`
}

// FilterOp is a run id comparison.
type FilterOp string

const (
	FilterEq FilterOp = "eq"
	FilterNe FilterOp = "ne"
)

// RunIDFilter keeps (eq) or drops (ne) results whose run id equals Value.
// In YAML it is written as {eq: value} or {ne: value}.
type RunIDFilter struct {
	Op    FilterOp
	Value string
}

// Keep reports whether a result with runID passes the filter. A nil filter
// keeps everything.
func (f *RunIDFilter) Keep(runID string) bool {
	if f == nil {
		return true
	}
	if f.Op == FilterEq {
		return runID == f.Value
	}
	return runID != f.Value
}

// UnmarshalYAML requires a mapping with exactly one of eq or ne.
func (f *RunIDFilter) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return errors.ConfigError("run_id_filter must have exactly one of eq or ne").
			WithContext("line", n.Line).Build()
	}
	key, val := n.Content[0], n.Content[1]
	op := FilterOp(key.Value)
	if op != FilterEq && op != FilterNe {
		return errors.ConfigError("unknown run_id_filter operator").
			WithContext("operator", key.Value).WithContext("line", key.Line).Build()
	}
	if val.Kind != yaml.ScalarNode {
		return errors.ConfigError("run_id_filter value must be a string").
			WithContext("line", val.Line).Build()
	}
	f.Op = op
	f.Value = val.Value
	return nil
}

// MarshalYAML writes the {op: value} form.
func (f RunIDFilter) MarshalYAML() (any, error) {
	return map[string]string{string(f.Op): f.Value}, nil
}

// DefaultSection returns a fresh default configuration for a known section
// name.
func DefaultSection(name string) (SectionConfig, bool) {
	view := ClassConfig{ClassName: defaultView}
	switch name {
	case SectionExpectations:
		return SectionConfig{
			SourceStoreName: DefaultExpectationsStore,
			Renderer:        ClassConfig{ClassName: defaultSuiteRenderer},
			View:            view,
		}, true
	case SectionValidations:
		return SectionConfig{
			SourceStoreName: DefaultValidationsStore,
			Renderer:        ClassConfig{ClassName: defaultValidationRenderer},
			View:            view,
			RunIDFilter:     &RunIDFilter{Op: FilterNe, Value: "profiling"},
		}, true
	case SectionProfiling:
		return SectionConfig{
			SourceStoreName: DefaultValidationsStore,
			Renderer:        ClassConfig{ClassName: defaultProfilingRenderer},
			View:            view,
			RunIDFilter:     &RunIDFilter{Op: FilterEq, Value: "profiling"},
		}, true
	}
	return SectionConfig{}, false
}

// resolveSections merges the raw site_section_builders node over the
// per-section defaults. A missing node yields every default section.
func (s *SiteConfig) resolveSections() error {
	n := &s.SiteSectionBuilders
	if n.Kind == 0 || n.Tag == "!!null" {
		s.Sections = nil
		for _, name := range SectionNames {
			sec, _ := DefaultSection(name)
			s.Sections = append(s.Sections, NamedSection{Name: name, Section: sec})
		}
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return errors.ConfigError("site_section_builders must be a mapping").
			WithContext("site", s.Name).WithContext("line", n.Line).Build()
	}
	s.Sections = nil
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		if seen[name] {
			return errors.ConfigError("duplicate site section").
				WithContext("site", s.Name).WithContext("section", name).Build()
		}
		seen[name] = true
		sec, ok := DefaultSection(name)
		if !ok {
			return errors.ConfigError("unknown site section").
				WithContext("site", s.Name).WithContext("section", name).
				WithContext("known", SectionNames).Build()
		}
		body := n.Content[i+1]
		if body.Kind != yaml.ScalarNode || body.Tag != "!!null" {
			if err := decodeNode(body, &sec); err != nil {
				return errors.WrapError(err, errors.CategoryConfig, "parse site section").
					WithContext("site", s.Name).WithContext("section", name).Build()
			}
		}
		s.Sections = append(s.Sections, NamedSection{Name: name, Section: sec})
	}
	return nil
}
