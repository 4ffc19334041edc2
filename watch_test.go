package liberyacs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tronglh241/liberyacs/errs"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func nextUpdate(t *testing.T, updates <-chan Update) Update {
	t.Helper()

	select {
	case u, ok := <-updates:
		if !ok {
			t.Fatal("update channel closed unexpectedly")
		}

		return u

	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for an update")

		return Update{}
	}
}

func TestWatchDeliversUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "a: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}

	writeConfig(t, path, "a: 2\nb: a + 1\n")

	u := nextUpdate(t, updates)
	if u.Err != nil {
		t.Fatalf("update error: %v", u.Err)
	}

	b, ok := u.Config.Int("b")
	if !ok || b != 3 {
		t.Errorf("expected b = 3, got %v", b)
	}
}

func TestWatchForwardsLoadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "a: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}

	writeConfig(t, path, "a: [unclosed\n")

	u := nextUpdate(t, updates)
	if u.Err == nil {
		t.Fatal("expected an error update")
	}

	if !errors.Is(u.Err, errs.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", u.Err)
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	writeConfig(t, path, "a: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}

	writeConfig(t, filepath.Join(dir, "other.yml"), "noise: true\n")

	select {
	case u := <-updates:
		t.Errorf("unexpected update for a sibling file: %+v", u)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "a: 1\n")

	ctx, cancel := context.WithCancel(context.Background())

	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch error: %v", err)
	}

	cancel()

	select {
	case _, ok := <-updates:
		if ok {
			// Drain any in-flight update; the close follows.
			if _, ok := <-updates; ok {
				t.Error("channel still open after cancel")
			}
		}

	case <-time.After(10 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.yml")

	_, err := Watch(context.Background(), path)
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}

	if !errors.Is(err, errs.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}
