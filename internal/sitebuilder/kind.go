package sitebuilder

import (
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/foundation/normalization"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// SectionKind is the closed set of site sections.
type SectionKind string

const (
	KindExpectations SectionKind = "expectations"
	KindValidations  SectionKind = "validations"
	KindProfiling    SectionKind = "profiling"
)

// AllKinds lists the section kinds in index display order.
var AllKinds = []SectionKind{KindExpectations, KindValidations, KindProfiling}

var kindNormalizer = normalization.NewNormalizer("section kind", map[string]SectionKind{
	"expectations": KindExpectations,
	"validations":  KindValidations,
	"profiling":    KindProfiling,
}, "")

// ParseSectionKind maps a configured section name onto its kind.
func ParseSectionKind(name string) (SectionKind, error) {
	k, err := kindNormalizer.NormalizeWithError(name)
	if err != nil || k == "" {
		return "", errors.ConfigError("unknown site section").
			WithContext("section", name).
			WithContext("known", kindNormalizer.ValidKeys()).Build()
	}
	return k, nil
}

func (k SectionKind) String() string { return string(k) }

// Accepts reports whether id is the identifier variant, and for results the
// classification, this kind renders.
func (k SectionKind) Accepts(id identifier.ResourceIdentifier) bool {
	switch v := id.(type) {
	case identifier.ExpectationSuiteIdentifier:
		return k == KindExpectations
	case identifier.ValidationResultIdentifier:
		switch v.Kind() {
		case identifier.KindProfiling:
			return k == KindProfiling
		case identifier.KindValidation:
			return k == KindValidations
		}
	}
	return false
}
