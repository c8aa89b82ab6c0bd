package eventstore

import (
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.JournalError("could not open build journal database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.JournalError("failed to initialize build journal schema").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = errors.JournalError("failed to append event to journal").Build()

	// ErrEventQueryFailed indicates querying events failed.
	ErrEventQueryFailed = errors.JournalError("failed to query events from journal").Build()
)

func wrap(sentinel error, err error) error {
	ce, _ := errors.AsClassified(sentinel)
	return errors.WrapError(err, errors.CategoryJournal, ce.Message()).Build()
}
