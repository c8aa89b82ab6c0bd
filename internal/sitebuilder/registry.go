package sitebuilder

import (
	"log/slog"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// SectionFactory builds the section of one kind from a resolved spec.
type SectionFactory func(spec SectionSpec) (*SectionBuilder, error)

// sectionFactories maps every kind to its factory. The three kinds differ only
// in which identifiers they accept, so they share one constructor.
var sectionFactories = map[SectionKind]SectionFactory{
	KindExpectations: newSectionFactory(KindExpectations),
	KindValidations:  newSectionFactory(KindValidations),
	KindProfiling:    newSectionFactory(KindProfiling),
}

// NewSection builds the section of kind from spec.
func NewSection(kind SectionKind, spec SectionSpec) (*SectionBuilder, error) {
	factory, ok := sectionFactories[kind]
	if !ok {
		return nil, errors.ConfigError("unknown site section").WithContext("section", string(kind)).Build()
	}
	return factory(spec)
}

func newSectionFactory(kind SectionKind) SectionFactory {
	return func(spec SectionSpec) (*SectionBuilder, error) {
		switch {
		case spec.Source == nil:
			return nil, sectionConfigErr(spec, "section has no source store")
		case spec.Target == nil:
			return nil, sectionConfigErr(spec, "section has no target store")
		case spec.Renderer == nil:
			return nil, sectionConfigErr(spec, "section has no renderer")
		case spec.View == nil:
			return nil, sectionConfigErr(spec, "section has no view")
		}
		name := spec.Name
		if name == "" {
			name = string(kind)
		}
		logger := spec.Logger
		if logger == nil {
			logger = slog.Default()
		}
		return &SectionBuilder{
			kind:     kind,
			name:     name,
			source:   spec.Source,
			target:   spec.Target,
			renderer: spec.Renderer,
			view:     spec.View,
			filter:   spec.Filter,
			opts:     spec.Options,
			logger:   logger,
		}, nil
	}
}

func sectionConfigErr(spec SectionSpec, msg string) error {
	return errors.ConfigError(msg).WithContext("section", spec.Name).Build()
}
