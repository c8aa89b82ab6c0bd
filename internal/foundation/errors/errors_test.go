package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "unknown section kind").
			WithSeverity(SeverityFatal).
			WithContext("section", "dashboards").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		section, ok := err.Context().GetString("section")
		if !ok || section != "dashboards" {
			t.Errorf("expected context section=dashboards, got %v", section)
		}
	})

	t.Run("Config errors are fatal and not retryable", func(t *testing.T) {
		err := ConfigError("unresolvable store").Build()
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
	})

	t.Run("Store errors are retryable", func(t *testing.T) {
		if !StoreError("read failed").Build().CanRetry() {
			t.Error("expected store error to be retryable")
		}
	})

	t.Run("Error message", func(t *testing.T) {
		err := RenderError("render page").WithCause(errors.New("template: missing")).Build()
		want := "[render:error] render page: template: missing"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestErrorChains(t *testing.T) {
	cause := errors.New("disk full")
	inner := StoreError("write page").WithCause(cause).Build()
	wrapped := fmt.Errorf("section validations: %w", inner)

	if !errors.Is(wrapped, cause) {
		t.Error("expected chain to reach the original cause")
	}
	if !HasCategory(wrapped, CategoryStore) {
		t.Error("expected wrapped error to report store category")
	}
	if GetCategory(errors.New("plain")) != CategoryInternal {
		t.Error("expected unclassified error to default to internal")
	}
	if !IsClassified(wrapped) {
		t.Error("expected wrapped error to be classified")
	}

	sentinel := NotFoundError("page not rendered").Build()
	other := NotFoundError("page not rendered").WithContext("path", "index.html").Build()
	if !errors.Is(other, sentinel) {
		t.Error("expected errors with same category and message to match")
	}
}

func TestErrorContextMerge(t *testing.T) {
	var empty ErrorContext
	merged := empty.Merge(ErrorContext{"a": 1})
	if v, _ := merged.Get("a"); v != 1 {
		t.Errorf("merge into nil context lost value: %v", v)
	}

	base := ErrorContext{"a": 1, "b": 2}
	out := base.Merge(ErrorContext{"b": 3})
	if v, _ := out.Get("b"); v != 3 {
		t.Errorf("expected other to take precedence, got %v", v)
	}
	if v, _ := base.Get("b"); v != 2 {
		t.Errorf("merge mutated receiver: %v", v)
	}
}
