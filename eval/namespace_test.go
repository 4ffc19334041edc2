package eval

import (
	"errors"
	"testing"
)

func TestNamespaceBindResolve(t *testing.T) {
	ns := NewNamespace(nil)

	if err := ns.Bind("a", 1); err != nil {
		t.Fatalf("bind error: %v", err)
	}

	v, ok := ns.Resolve("a")
	if !ok || v != 1 {
		t.Errorf("expected 1, got %v (found=%v)", v, ok)
	}

	if _, ok := ns.Resolve("missing"); ok {
		t.Error("resolved a name that was never bound")
	}
}

func TestNamespaceChainShadowing(t *testing.T) {
	root := NewNamespace(nil)

	if err := root.Bind("x", "outer"); err != nil {
		t.Fatal(err)
	}

	if err := root.Bind("y", "kept"); err != nil {
		t.Fatal(err)
	}

	child := root.Child()

	if err := child.Bind("x", "inner"); err != nil {
		t.Fatal(err)
	}

	v, _ := child.Resolve("x")
	if v != "inner" {
		t.Errorf("expected inner binding to shadow, got %v", v)
	}

	v, _ = child.Resolve("y")
	if v != "kept" {
		t.Errorf("expected outer binding visible, got %v", v)
	}

	// The parent never sees child bindings.
	v, _ = root.Resolve("x")
	if v != "outer" {
		t.Errorf("child binding leaked to parent: %v", v)
	}
}

func TestNamespaceBaseVisible(t *testing.T) {
	ns := NewNamespace(map[string]any{"pi": 3.14})

	v, ok := ns.Resolve("pi")
	if !ok || v != 3.14 {
		t.Errorf("base primitive not visible: %v", v)
	}

	child := ns.Child().Child()

	v, ok = child.Resolve("pi")
	if !ok || v != 3.14 {
		t.Errorf("base primitive not visible from nested scope: %v", v)
	}
}

func TestNamespaceRebindFails(t *testing.T) {
	ns := NewNamespace(nil)

	if err := ns.Bind("a", 1); err != nil {
		t.Fatal(err)
	}

	err := ns.Bind("a", 2)
	if !errors.Is(err, ErrRebound) {
		t.Errorf("expected ErrRebound, got %v", err)
	}

	// Rebinding the same value is a no-op.
	if err := ns.Bind("a", 1); err != nil {
		t.Errorf("same-value rebind should succeed: %v", err)
	}
}

func TestNamespaceRebindAllowedInChild(t *testing.T) {
	root := NewNamespace(nil)

	if err := root.Bind("a", 1); err != nil {
		t.Fatal(err)
	}

	// Shadowing in a child scope is not a rebind.
	if err := root.Child().Bind("a", 2); err != nil {
		t.Errorf("shadowing should succeed: %v", err)
	}
}

func TestNamespaceFlatten(t *testing.T) {
	root := NewNamespace(map[string]any{"base": 0, "x": "primitive"})

	if err := root.Bind("x", "outer"); err != nil {
		t.Fatal(err)
	}

	child := root.Child()

	if err := child.Bind("x", "inner"); err != nil {
		t.Fatal(err)
	}

	if err := child.Bind("y", 2); err != nil {
		t.Fatal(err)
	}

	flat := child.Flatten()

	if flat["x"] != "inner" {
		t.Errorf("expected innermost binding, got %v", flat["x"])
	}

	if flat["y"] != 2 {
		t.Errorf("expected child binding, got %v", flat["y"])
	}

	if flat["base"] != 0 {
		t.Errorf("expected base primitive, got %v", flat["base"])
	}

	// Flatten must not alias scope state.
	flat["x"] = "mutated"

	v, _ := child.Resolve("x")
	if v != "inner" {
		t.Error("mutating a flattened map affected the namespace")
	}
}
