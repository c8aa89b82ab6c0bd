// Package store provides the artifact stores the site builder reads from and
// the site store it writes rendered pages to.
package store

import (
	"context"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// ArtifactStore persists artifact bytes keyed by ResourceIdentifier.
// Implementations must enumerate identifiers in a stable order.
type ArtifactStore interface {
	// Name is the configured store name, used in logs and errors.
	Name() string

	// Family reports which identifier variant the store holds.
	Family() Family

	// List returns every identifier held by the store.
	List(ctx context.Context) ([]identifier.ResourceIdentifier, error)

	// Get returns the artifact bytes for id.
	// Returns a not_found ClassifiedError if id is not in the store.
	Get(ctx context.Context, id identifier.ResourceIdentifier) ([]byte, error)

	// Put stores data under id, replacing any previous content.
	Put(ctx context.Context, id identifier.ResourceIdentifier, data []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// Family identifies the kind of artifact a store holds.
type Family string

const (
	FamilyExpectations Family = "expectations"
	FamilyValidations  Family = "validations"
)

// Accepts reports whether id belongs to the family.
func (f Family) Accepts(id identifier.ResourceIdentifier) bool {
	switch id.(type) {
	case identifier.ExpectationSuiteIdentifier:
		return f == FamilyExpectations
	case identifier.ValidationResultIdentifier:
		return f == FamilyValidations
	}
	return false
}

// IsNotFound reports whether err is a store miss.
func IsNotFound(err error) bool {
	return errors.HasCategory(err, errors.CategoryNotFound)
}

func notFound(store string, id identifier.ResourceIdentifier) error {
	return errors.NotFoundError("artifact not found").
		WithContext("store", store).
		WithContext("identifier", id.Key()).
		Build()
}

func checkFamily(store string, f Family, id identifier.ResourceIdentifier) error {
	if id == nil {
		return errors.ValidationError("nil identifier").WithContext("store", store).Build()
	}
	if !f.Accepts(id) {
		return errors.ValidationError("identifier does not belong to store family").
			WithContext("store", store).
			WithContext("family", string(f)).
			WithContext("identifier", id.Key()).
			Build()
	}
	return id.Validate()
}
