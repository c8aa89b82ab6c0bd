// Package errors provides the classified error primitives used across datadocs.
//
// Every failure leaving a package boundary is a *ClassifiedError carrying a
// category (config, render, store, ...), a severity and an advisory retry
// strategy. The site builder maps the three failure classes of a build onto
// categories:
//
//   - CategoryConfig: raised while constructing builders, never retried
//   - CategoryRender: renderer or view failed for one artifact
//   - CategoryStore: source or target store failed
//
// Example:
//
//	err := errors.RenderError("render page failed").
//		WithCause(cause).
//		WithContext("identifier", id.Key()).
//		Build()
package errors
