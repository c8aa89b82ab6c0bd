package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore("validations_store", FamilyValidations, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	first := identifier.NewResult("titanic.warning", "run-1", "b1")
	second := identifier.NewResult("titanic.warning", identifier.ProfilingRunID, "b1")

	require.NoError(t, s.Put(ctx, first, []byte(`{"success": true}`)))
	require.NoError(t, s.Put(ctx, second, []byte(`{"success": false}`)))
	require.NoError(t, s.Put(ctx, first, []byte(`{"success": false}`)))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []identifier.ResourceIdentifier{first, second}, ids)

	data, err := s.Get(ctx, first)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false}`, string(data))

	_, err = s.Get(ctx, identifier.NewResult("other", "r", "b"))
	assert.True(t, IsNotFound(err))
}

func TestSQLiteStoresSharingADatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "artifacts.db")
	suites, err := NewSQLiteStore("expectations_store", FamilyExpectations, dbPath)
	require.NoError(t, err)
	defer suites.Close()
	results, err := NewSQLiteStore("validations_store", FamilyValidations, dbPath)
	require.NoError(t, err)
	defer results.Close()

	ctx := context.Background()
	require.NoError(t, suites.Put(ctx, identifier.NewSuite("a.b"), []byte("{}")))
	require.NoError(t, results.Put(ctx, identifier.NewResult("a.b", "r", "x"), []byte("{}")))

	ids, err := suites.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []identifier.ResourceIdentifier{identifier.NewSuite("a.b")}, ids)

	ids, err = results.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []identifier.ResourceIdentifier{identifier.NewResult("a.b", "r", "x")}, ids)
}
