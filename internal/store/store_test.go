package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tastingclub/tastings/internal/config"
	"github.com/tastingclub/tastings/internal/database"
	"github.com/tastingclub/tastings/internal/filesystem"
)

func TestOpenDefaultsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")

	backend, err := Open(context.Background(), config.StoreConfig{CSV: config.CSVConfig{Path: path}}, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer backend.Close()

	csvStore, ok := backend.(*filesystem.CSVStore)
	if !ok {
		t.Fatalf("expected *filesystem.CSVStore, got %T", backend)
	}
	if csvStore.Path() != path {
		t.Fatalf("expected path %s, got %s", path, csvStore.Path())
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tastings.db")

	backend, err := Open(context.Background(), config.StoreConfig{
		Type:   config.StoreSQLite,
		SQLite: config.SQLiteConfig{Path: path},
	}, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*database.SQLiteStore); !ok {
		t.Fatalf("expected *database.SQLiteStore, got %T", backend)
	}

	table, err := backend.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}
}

func TestOpenUnknownType(t *testing.T) {
	if _, err := Open(context.Background(), config.StoreConfig{Type: "redis"}, nil); err == nil {
		t.Fatalf("expected error for unknown store type")
	}
}
