package database

import (
	"database/sql"
	"os"
	"testing"

	"github.com/tastingclub/tastings/internal/config"
)

func setupTestDB(t *testing.T) *Context {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("TASTINGS_DIR", tmp)

	ctx, err := CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestDatabaseCreationAndMigration(t *testing.T) {
	ctx := setupTestDB(t)

	dbPath := config.GetSQLitePath()
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist at %s: %v", dbPath, err)
	}

	var version int
	var dirty bool
	if err := ctx.DB.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty); err != nil {
		t.Fatalf("failed to read schema_migrations: %v", err)
	}
	if version != 1 || dirty {
		t.Fatalf("expected clean migration version 1, got %d (dirty=%v)", version, dirty)
	}

	if !tableExists(t, ctx.DB, "tastings") {
		t.Fatalf("expected table tastings to exist")
	}
}

func TestCreateDatabaseTwiceKeepsSchema(t *testing.T) {
	path := t.TempDir() + "/again.db"

	first, err := CreateDatabase(path)
	if err != nil {
		t.Fatalf("first CreateDatabase error: %v", err)
	}
	if err := CloseDatabase(first); err != nil {
		t.Fatalf("CloseDatabase error: %v", err)
	}

	second, err := CreateDatabase(path)
	if err != nil {
		t.Fatalf("second CreateDatabase error: %v", err)
	}
	defer CloseDatabase(second)

	if !tableExists(t, second.DB, "tastings") {
		t.Fatalf("expected table tastings after reopen")
	}
}

func TestScoreConstraint(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := ctx.DB.Exec(`INSERT INTO tastings (position, coffee_name, roast_level, brew_method, acidity, sweetness, body, overall_rating)
		VALUES (0, 'x', 'Light', 'V60', 11, 5, 5, 5)`)
	if err == nil {
		t.Fatalf("expected check constraint to reject acidity 11")
	}
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return count == 1
}
