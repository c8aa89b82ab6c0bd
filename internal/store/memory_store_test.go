package store

import (
	"context"
	"errors"
	"testing"

	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

func TestMemoryStoreInsertionOrder(t *testing.T) {
	m := NewMemoryStore("validations_store", FamilyValidations)
	ctx := context.Background()

	b := identifier.NewResult("b", "run", "1")
	a := identifier.NewResult("a", "run", "1")
	_ = m.Put(ctx, b, []byte("b"))
	_ = m.Put(ctx, a, []byte("a"))
	_ = m.Put(ctx, b, []byte("b2"))

	ids, _ := m.List(ctx)
	if len(ids) != 2 || ids[0] != b || ids[1] != a {
		t.Fatalf("List() = %v, want [b a]", ids)
	}
	data, err := m.Get(ctx, b)
	if err != nil || string(data) != "b2" {
		t.Fatalf("Get() = %q, %v", data, err)
	}
	if calls := m.Calls(); calls.Put != 3 || calls.Get != 1 || calls.List != 1 {
		t.Errorf("Calls() = %+v", calls)
	}
}

func TestMemoryStoreGetHook(t *testing.T) {
	m := NewMemoryStore("expectations_store", FamilyExpectations)
	id := identifier.NewSuite("s")
	_ = m.Put(context.Background(), id, []byte("{}"))

	boom := errors.New("boom")
	m.GetHook = func(identifier.ResourceIdentifier) error { return boom }
	if _, err := m.Get(context.Background(), id); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
}
