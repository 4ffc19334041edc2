package errs

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	base := New("something failed")

	if got := base.Error(); got != "something failed" {
		t.Errorf("unexpected message: %q", got)
	}

	wrapped := base.Wrap(fmt.Errorf("cause"))

	if got := wrapped.Error(); got != "something failed: cause" {
		t.Errorf("unexpected wrapped message: %q", got)
	}
}

func TestErrorIs(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := ErrParseText.Wrap(cause).With(slog.String("source", "1 +"))

	if !errors.Is(err, ErrParseText) {
		t.Error("wrapped error does not match its sentinel")
	}

	if errors.Is(err, ErrUnresolvedName) {
		t.Error("wrapped error matches a foreign sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("wrapped error does not match its cause")
	}
}

func TestErrorWithDoesNotMutate(t *testing.T) {
	base := New("base")
	derived := base.With(slog.String("k", "v"))

	if len(base.attrs) != 0 {
		t.Error("With mutated the original error")
	}

	if len(derived.attrs) != 1 {
		t.Errorf("expected 1 attr, got %d", len(derived.attrs))
	}
}

func TestAtPathFirstWins(t *testing.T) {
	err := ErrUnresolvedName.AtPath("model.depth").AtPath("model")

	path, ok := err.Path()
	if !ok {
		t.Fatal("expected a path attribute")
	}

	if path != "model.depth" {
		t.Errorf("expected path 'model.depth', got %q", path)
	}
}

func TestPathAbsent(t *testing.T) {
	if _, ok := ErrConstruction.Path(); ok {
		t.Error("sentinel should carry no path")
	}
}

func TestLogValue(t *testing.T) {
	err := ErrSymbolResolution.
		Wrap(fmt.Errorf("no such lib")).
		With(slog.String("library", "np"))

	group := err.LogValue().Group()

	keys := make(map[string]bool, len(group))
	for _, attr := range group {
		keys[attr.Key] = true
	}

	for _, want := range []string{"error", "cause", "library"} {
		if !keys[want] {
			t.Errorf("missing %q in log value", want)
		}
	}
}
