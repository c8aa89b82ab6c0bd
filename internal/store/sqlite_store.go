package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// SQLiteStore implements ArtifactStore on a single SQLite table. Several stores
// may share one database file; rows are partitioned by store name.
type SQLiteStore struct {
	name   string
	family Family
	db     *sql.DB
	mu     sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(name string, family Family, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "open sqlite database").
			WithContext("store", name).WithContext("path", dbPath).Build()
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{name: name, family: family, db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStore, "initialize sqlite schema").
			WithContext("store", name).Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store TEXT NOT NULL,
		key TEXT NOT NULL,
		suite_name TEXT NOT NULL,
		run_id TEXT NOT NULL DEFAULT '',
		batch_id TEXT NOT NULL DEFAULT '',
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(store, key)
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_store ON artifacts(store);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Name implements ArtifactStore.
func (s *SQLiteStore) Name() string { return s.name }

// Family implements ArtifactStore.
func (s *SQLiteStore) Family() Family { return s.family }

// List returns identifiers in first-insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]identifier.ResourceIdentifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT suite_name, run_id, batch_id FROM artifacts WHERE store = ? ORDER BY id", s.name)
	if err != nil {
		return nil, s.wrap(err, "query artifacts")
	}
	defer rows.Close()

	var ids []identifier.ResourceIdentifier
	for rows.Next() {
		var suite, runID, batchID string
		if err := rows.Scan(&suite, &runID, &batchID); err != nil {
			return nil, s.wrap(err, "scan artifact row")
		}
		if s.family == FamilyValidations {
			ids = append(ids, identifier.NewResult(suite, runID, batchID))
		} else {
			ids = append(ids, identifier.NewSuite(suite))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(err, "iterate artifact rows")
	}
	return ids, nil
}

// Get implements ArtifactStore.
func (s *SQLiteStore) Get(ctx context.Context, id identifier.ResourceIdentifier) ([]byte, error) {
	if err := checkFamily(s.name, s.family, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM artifacts WHERE store = ? AND key = ?", s.name, id.Key()).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, notFound(s.name, id)
	}
	if err != nil {
		return nil, s.wrap(err, "read artifact")
	}
	return data, nil
}

// Put upserts the artifact. Replacing content keeps the original enumeration position.
func (s *SQLiteStore) Put(ctx context.Context, id identifier.ResourceIdentifier, data []byte) error {
	if err := checkFamily(s.name, s.family, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var suite, runID, batchID string
	switch v := id.(type) {
	case identifier.ExpectationSuiteIdentifier:
		suite = v.SuiteName
	case identifier.ValidationResultIdentifier:
		suite, runID, batchID = v.Suite.SuiteName, v.RunID, v.BatchID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (store, key, suite_name, run_id, batch_id, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(store, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.name, id.Key(), suite, runID, batchID, data, time.Now().Unix())
	if err != nil {
		return s.wrap(err, "write artifact")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) wrap(err error, msg string) error {
	return errors.WrapError(err, errors.CategoryStore, msg).WithContext("store", s.name).Build()
}
