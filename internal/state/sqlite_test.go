package state

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSQLiteKVSetGetDelete(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	if _, found, err := store.Get(ctx, KeyUserProgress); err != nil || found {
		t.Fatalf("expected missing record, got found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, KeyUserProgress, []byte(`{"studyStreak":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Second write must overwrite, not duplicate.
	if err := store.Set(ctx, KeyUserProgress, []byte(`{"studyStreak":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, found, err := store.Get(ctx, KeyUserProgress)
	if err != nil || !found {
		t.Fatalf("expected record, got found=%v err=%v", found, err)
	}
	if string(got) != `{"studyStreak":2}` {
		t.Fatalf("expected overwritten value, got %s", got)
	}

	if err := store.Delete(ctx, KeyUserProgress); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := store.Get(ctx, KeyUserProgress); found {
		t.Fatalf("expected record to be deleted")
	}
	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, KeyUserProfile); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, KeyUserProfile, []byte(`{"username":"jo"}`)); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = second.Close() }()
	if err := second.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	got, found, err := second.Get(ctx, KeyUserProfile)
	if err != nil || !found {
		t.Fatalf("expected persisted record, got found=%v err=%v", found, err)
	}
	if string(got) != `{"username":"jo"}` {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestSQLiteKVRejectsBlankKey(t *testing.T) {
	store := newTestSQLite(t)
	if err := store.Set(context.Background(), "  ", []byte("x")); err == nil {
		t.Fatalf("expected blank key error")
	}
}

func TestMemoryKVCopiesValues(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	value := []byte("abc")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'z'
	got, found, err := store.Get(ctx, "k")
	if err != nil || !found {
		t.Fatalf("expected record, got found=%v err=%v", found, err)
	}
	if string(got) != "abc" {
		t.Fatalf("expected stored copy to be isolated, got %s", got)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := store.Get(cancelled, "k"); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
