// Package identifier defines the keys that address artifacts in stores and
// pages in the rendered site.
//
// A ResourceIdentifier is either an ExpectationSuiteIdentifier or a
// ValidationResultIdentifier. Both are small comparable structs, so equality is
// structural and identifiers can be used directly as map keys.
package identifier

import (
	"strings"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// ProfilingRunID is the reserved run id that marks a validation result as a
// profiling result.
const ProfilingRunID = "profiling"

// ResourceIdentifier is the closed union of artifact identifiers.
type ResourceIdentifier interface {
	// Key returns a stable, parseable string form of the identifier.
	Key() string
	// Validate reports whether every component is usable as a path segment.
	Validate() error

	sealed()
}

// ExpectationSuiteIdentifier identifies an expectation suite by name.
// Suite names are dot separated, e.g. "titanic.subdir_reader.Titanic.warning".
type ExpectationSuiteIdentifier struct {
	SuiteName string
}

// ValidationResultIdentifier identifies the result of validating one batch
// against a suite during one run.
type ValidationResultIdentifier struct {
	Suite   ExpectationSuiteIdentifier
	RunID   string
	BatchID string
}

// ResultKind classifies a validation result.
type ResultKind int

const (
	KindValidation ResultKind = iota
	KindProfiling
)

func (k ResultKind) String() string {
	if k == KindProfiling {
		return "profiling"
	}
	return "validation"
}

// NewSuite returns the identifier for the named suite.
func NewSuite(name string) ExpectationSuiteIdentifier {
	return ExpectationSuiteIdentifier{SuiteName: name}
}

// NewResult returns the identifier for a validation result.
func NewResult(suiteName, runID, batchID string) ValidationResultIdentifier {
	return ValidationResultIdentifier{Suite: NewSuite(suiteName), RunID: runID, BatchID: batchID}
}

func (ExpectationSuiteIdentifier) sealed() {}
func (ValidationResultIdentifier) sealed() {}

// Key implements ResourceIdentifier.
func (id ExpectationSuiteIdentifier) Key() string {
	return suitePrefix + id.SuiteName
}

// Key implements ResourceIdentifier.
func (id ValidationResultIdentifier) Key() string {
	return resultPrefix + id.Suite.SuiteName + "/" + id.RunID + "/" + id.BatchID
}

// String returns the key.
func (id ExpectationSuiteIdentifier) String() string { return id.Key() }

// String returns the key.
func (id ValidationResultIdentifier) String() string { return id.Key() }

// Kind classifies the result. It is the only place the reserved profiling
// run id is interpreted.
func (id ValidationResultIdentifier) Kind() ResultKind {
	if id.RunID == ProfilingRunID {
		return KindProfiling
	}
	return KindValidation
}

// Validate implements ResourceIdentifier.
func (id ExpectationSuiteIdentifier) Validate() error {
	if id.SuiteName == "" {
		return errors.ValidationError("expectation suite name is empty").Build()
	}
	for _, part := range strings.Split(id.SuiteName, ".") {
		if err := validateSegment("suite name", id.SuiteName, part); err != nil {
			return err
		}
	}
	return nil
}

// Validate implements ResourceIdentifier.
func (id ValidationResultIdentifier) Validate() error {
	if err := id.Suite.Validate(); err != nil {
		return err
	}
	if err := validateSegment("run id", id.RunID, id.RunID); err != nil {
		return err
	}
	return validateSegment("batch id", id.BatchID, id.BatchID)
}

func validateSegment(field, whole, segment string) error {
	switch {
	case segment == "":
		return errors.ValidationError("empty "+field+" segment").WithContext("value", whole).Build()
	case segment == "." || segment == "..":
		return errors.ValidationError("relative "+field+" segment").WithContext("value", whole).Build()
	case strings.ContainsAny(segment, `/\`):
		return errors.ValidationError(field+" contains a path separator").WithContext("value", whole).Build()
	}
	return nil
}
