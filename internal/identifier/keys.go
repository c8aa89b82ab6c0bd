package identifier

import (
	"cmp"
	"strings"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

const (
	suitePrefix  = "suite:"
	resultPrefix = "validation:"
)

// Parse is the inverse of Key. The parsed identifier is validated.
//
//	suite:titanic.warning
//	validation:titanic.warning/20240101T000000/batch-1
func Parse(key string) (ResourceIdentifier, error) {
	var id ResourceIdentifier
	switch {
	case strings.HasPrefix(key, suitePrefix):
		id = NewSuite(strings.TrimPrefix(key, suitePrefix))
	case strings.HasPrefix(key, resultPrefix):
		parts := strings.Split(strings.TrimPrefix(key, resultPrefix), "/")
		if len(parts) != 3 {
			return nil, errors.ValidationError("validation identifier must be suite/run_id/batch_id").
				WithContext("key", key).Build()
		}
		id = NewResult(parts[0], parts[1], parts[2])
	default:
		return nil, errors.ValidationError("unknown identifier prefix").
			WithContext("key", key).Build()
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return id, nil
}

// Compare orders identifiers structurally: suites before results, then field
// by field. It returns -1, 0 or +1.
func Compare(a, b ResourceIdentifier) int {
	switch x := a.(type) {
	case ExpectationSuiteIdentifier:
		y, ok := b.(ExpectationSuiteIdentifier)
		if !ok {
			return -1
		}
		return cmp.Compare(x.SuiteName, y.SuiteName)
	case ValidationResultIdentifier:
		y, ok := b.(ValidationResultIdentifier)
		if !ok {
			return 1
		}
		if c := cmp.Compare(x.Suite.SuiteName, y.Suite.SuiteName); c != 0 {
			return c
		}
		if c := cmp.Compare(x.RunID, y.RunID); c != 0 {
			return c
		}
		return cmp.Compare(x.BatchID, y.BatchID)
	}
	return 0
}
