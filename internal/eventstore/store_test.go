package eventstore

import (
	"bytes"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"
)

const testBuildID = "build-123"

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	payload := []byte(`{"site": "local_site"}`)
	if err := store.Append(ctx, testBuildID, TypeBuildStarted, payload, map[string]string{"site": "local_site"}); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}
	if err := store.Append(ctx, "other", TypeBuildStarted, payload, nil); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByBuildID(ctx, testBuildID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.BuildID() != testBuildID || e.Type() != TypeBuildStarted {
		t.Errorf("unexpected event %s/%s", e.BuildID(), e.Type())
	}
	if !bytes.Equal(e.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, e.Payload())
	}
	if e.Metadata()["site"] != "local_site" {
		t.Errorf("expected metadata site=local_site, got %v", e.Metadata())
	}
}

func TestEventStoreGetRange(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	for _, typ := range []string{TypeBuildStarted, TypeSectionBuilt, TypeBuildCompleted} {
		if err := store.Append(ctx, testBuildID, typ, nil, nil); err != nil {
			t.Fatalf("append %s: %v", typ, err)
		}
	}

	events, err := store.GetRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("get range: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[2].Type() != TypeBuildCompleted {
		t.Errorf("events not in append order: last is %s", events[2].Type())
	}

	events, err = store.GetRange(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("get range: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no future events, got %d", len(events))
	}
}

func TestEventStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Append(t.Context(), testBuildID, TypeBuildStarted, nil, nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	events, err := reopened.GetByBuildID(t.Context(), testBuildID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(events))
	}
}

func TestEventStoreErrorsAreClassified(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	_ = store.Close()

	err = store.Append(t.Context(), testBuildID, TypeBuildStarted, nil, nil)
	if !stderrors.Is(err, ErrEventAppendFailed) {
		t.Fatalf("expected ErrEventAppendFailed, got %v", err)
	}
}
