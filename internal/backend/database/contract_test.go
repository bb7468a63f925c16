package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// runContract exercises the DatabaseService behaviour every backend shares.
func runContract(t *testing.T, ds DatabaseService) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := ds.Get(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		if err := ds.Put(ctx, "k", []byte("first")); err != nil {
			t.Fatalf("Put error: %v", err)
		}
		got, err := ds.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if !bytes.Equal(got, []byte("first")) {
			t.Errorf("expected %q, got %q", "first", got)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		if err := ds.Put(ctx, "k", []byte("second")); err != nil {
			t.Fatalf("Put error: %v", err)
		}
		got, err := ds.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if !bytes.Equal(got, []byte("second")) {
			t.Errorf("expected %q, got %q", "second", got)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		if err := ds.Put(ctx, "other", []byte("x")); err != nil {
			t.Fatalf("Put error: %v", err)
		}
		if err := ds.Delete(ctx, "other"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		got, err := ds.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if !bytes.Equal(got, []byte("second")) {
			t.Errorf("expected %q, got %q", "second", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := ds.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if _, err := ds.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("delete missing is not an error", func(t *testing.T) {
		if err := ds.Delete(ctx, "never-stored"); err != nil {
			t.Fatalf("Delete of missing key returned error: %v", err)
		}
	})
}
