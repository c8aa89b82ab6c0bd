package render

import (
	"sort"
	"sync"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// Built-in class names accepted in site configuration.
const (
	ClassExpectationSuitePage = "ExpectationSuitePageRenderer"
	ClassValidationResultPage = "ValidationResultsPageRenderer"
	ClassProfilingResultPage  = "ProfilingResultsPageRenderer"
	ClassSiteIndexPage        = "SiteIndexPageRenderer"
	ClassDefaultPageView      = "DefaultPageView"
)

// Registry resolves configured class names to renderers and views.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	indexes   map[string]IndexRenderer
	views     map[string]View
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		indexes:   make(map[string]IndexRenderer),
		views:     make(map[string]View),
	}
}

// DefaultRegistry returns a registry holding the built-in renderers and view.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.renderers[ClassExpectationSuitePage] = ExpectationSuitePageRenderer{}
	r.renderers[ClassValidationResultPage] = ValidationResultsPageRenderer{}
	r.renderers[ClassProfilingResultPage] = ProfilingResultsPageRenderer{}
	r.indexes[ClassSiteIndexPage] = SiteIndexPageRenderer{}
	r.views[ClassDefaultPageView] = DefaultPageView{}
	return r
}

// RegisterRenderer adds a page renderer under name.
// Returns an error if the name is taken.
func (r *Registry) RegisterRenderer(name string, rd Renderer) error {
	if rd == nil {
		return errors.InternalError("cannot register nil renderer").Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return duplicate("renderer", name)
	}
	r.renderers[name] = rd
	return nil
}

// RegisterIndexRenderer adds an index renderer under name.
func (r *Registry) RegisterIndexRenderer(name string, rd IndexRenderer) error {
	if rd == nil {
		return errors.InternalError("cannot register nil index renderer").Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.indexes[name]; exists {
		return duplicate("index renderer", name)
	}
	r.indexes[name] = rd
	return nil
}

// RegisterView adds a view under name.
func (r *Registry) RegisterView(name string, v View) error {
	if v == nil {
		return errors.InternalError("cannot register nil view").Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.views[name]; exists {
		return duplicate("view", name)
	}
	r.views[name] = v
	return nil
}

// Renderer resolves a page renderer class name.
func (r *Registry) Renderer(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rd, ok := r.renderers[name]; ok {
		return rd, nil
	}
	return nil, unknown("renderer", name, keys(r.renderers))
}

// IndexRenderer resolves an index renderer class name.
func (r *Registry) IndexRenderer(name string) (IndexRenderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rd, ok := r.indexes[name]; ok {
		return rd, nil
	}
	return nil, unknown("index renderer", name, keys(r.indexes))
}

// View resolves a view class name.
func (r *Registry) View(name string) (View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.views[name]; ok {
		return v, nil
	}
	return nil, unknown("view", name, keys(r.views))
}

func duplicate(kind, name string) error {
	return errors.ConfigError(kind+" already registered").WithContext("class_name", name).Build()
}

func unknown(kind, name string, known []string) error {
	return errors.ConfigError("unknown "+kind+" class").
		WithContext("class_name", name).
		WithContext("known", known).
		Build()
}

func keys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
