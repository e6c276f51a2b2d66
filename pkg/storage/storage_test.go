package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-pagetree/pkg/storage"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := storage.Open(storage.Config{Driver: "mysql", DSN: "x"}); !errors.Is(err, storage.ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
	if _, err := storage.Open(storage.Config{Driver: "sqlite"}); !errors.Is(err, storage.ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
}

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"sqlite3":    storage.DriverSQLite,
		" SQLite ":   storage.DriverSQLite,
		"postgresql": storage.DriverPostgres,
		"pg":         storage.DriverPostgres,
		"mysql":      "",
	}
	for input, want := range cases {
		if got := storage.NormalizeDriver(input); got != want {
			t.Fatalf("NormalizeDriver(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(storage.Config{Driver: "sqlite3", DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		if err := storage.EnsureSchema(ctx, db); err != nil {
			t.Fatalf("ensure schema (run %d): %v", i+1, err)
		}
	}

	var count int
	if err := db.NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name LIKE 'pagetree_%'").Scan(ctx, &count); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 tables, got %d", count)
	}
}
