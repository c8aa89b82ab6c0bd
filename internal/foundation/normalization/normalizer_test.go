package normalization

import "testing"

type backend string

const (
	backendFS     backend = "filesystem"
	backendSQLite backend = "sqlite"
)

func newBackendNormalizer() *Normalizer[backend] {
	return NewNormalizer("store backend", map[string]backend{
		"filesystem": backendFS,
		"fs":         backendFS,
		"sqlite":     backendSQLite,
	}, backendFS)
}

func TestNormalize(t *testing.T) {
	n := newBackendNormalizer()
	tests := []struct {
		raw  string
		want backend
	}{
		{"sqlite", backendSQLite},
		{"  SQLite ", backendSQLite},
		{"FS", backendFS},
		{"unknown", backendFS},
		{"", backendFS},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeWithError(t *testing.T) {
	n := newBackendNormalizer()

	if got, err := n.NormalizeWithError(""); err != nil || got != backendFS {
		t.Errorf("empty input: got %q, %v", got, err)
	}
	if got, err := n.NormalizeWithError("Sqlite"); err != nil || got != backendSQLite {
		t.Errorf("mixed case: got %q, %v", got, err)
	}
	if _, err := n.NormalizeWithError("postgres"); err == nil {
		t.Error("expected error for unknown backend")
	}
	keys := n.ValidKeys()
	if len(keys) != 3 || keys[0] != "filesystem" {
		t.Errorf("ValidKeys() = %v", keys)
	}
}
