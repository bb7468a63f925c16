package database

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisDatabase, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	ds, err := NewRedisDatabase(server.Addr())
	if err != nil {
		t.Fatalf("NewRedisDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds, server
}

func TestRedis_Contract(t *testing.T) {
	ds, _ := newTestRedis(t)
	runContract(t, ds)
}

func TestRedis_URLConnectionString(t *testing.T) {
	server := miniredis.RunT(t)
	ds, err := NewRedisDatabase("redis://" + server.Addr() + "/0")
	if err != nil {
		t.Fatalf("NewRedisDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	runContract(t, ds)
}

func TestRedis_StoresUnderKey(t *testing.T) {
	ds, server := newTestRedis(t)
	if err := ds.Put(t.Context(), "pixscribe_creations", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := server.Get("pixscribe_creations")
	if err != nil {
		t.Fatalf("miniredis Get error: %v", err)
	}
	if got != `{"version":1}` {
		t.Errorf("unexpected stored value %q", got)
	}
}

func TestRedis_InvalidURL(t *testing.T) {
	if _, err := NewRedisDatabase("redis://localhost:6379/notanumber"); err == nil {
		t.Fatalf("expected error for invalid redis URL")
	}
}
