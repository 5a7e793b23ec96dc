package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TASTINGS_STORE", "TASTINGS_CSV_PATH", "TASTINGS_SQLITE_PATH", "TASTINGS_SHEET_ID",
		"TASTINGS_SHEET_NAME", "TASTINGS_SHEET_CREDENTIALS", "TASTINGS_LISTEN",
		"TASTINGS_PUBLIC_URL", "TASTINGS_LOG_MODE", "TASTINGS_LOG_LEVEL", "TASTINGS_CONFIG",
	} {
		t.Setenv(name, "")
	}
}

func TestGetDataDirWithExplicitEnv(t *testing.T) {
	tmpDir := t.TempDir()
	customDir := filepath.Join(tmpDir, "custom")

	t.Setenv("TASTINGS_DIR", customDir)
	t.Setenv("XDG_DATA_HOME", "")

	got := GetDataDir()
	if got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetDataDirFallsBackToXDG(t *testing.T) {
	tmpDir := t.TempDir()
	xdgDir := filepath.Join(tmpDir, "xdg")

	t.Setenv("TASTINGS_DIR", "")
	t.Setenv("XDG_DATA_HOME", xdgDir)

	got := GetDataDir()
	want := filepath.Join(xdgDir, "tastings")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDefaultStorePaths(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("TASTINGS_DIR", tmpDir)

	if got, want := GetCSVPath(), filepath.Join(tmpDir, "coffee_tasting_data.csv"); got != want {
		t.Fatalf("GetCSVPath expected %q, got %q", want, got)
	}
	if got, want := GetSQLitePath(), filepath.Join(tmpDir, "tastings.db"); got != want {
		t.Fatalf("GetSQLitePath expected %q, got %q", want, got)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv("TASTINGS_DIR", tmpDir)

	cfg, err := Load(filepath.Join(tmpDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.Type != StoreCSV {
		t.Fatalf("expected csv store, got %q", cfg.Store.Type)
	}
	if cfg.Store.CSV.Path != filepath.Join(tmpDir, "coffee_tasting_data.csv") {
		t.Fatalf("unexpected csv path %q", cfg.Store.CSV.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected warn level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	content := `
[store]
type = "sheets"

[store.sheets]
spreadsheet_id = "abc123"
sheet = "Tastings"

[server]
listen = ":9000"
public_url = "https://coffee.example.com"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASTINGS_SHEET_NAME", "Club")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.Type != StoreSheets || cfg.Store.Sheets.SpreadsheetID != "abc123" {
		t.Fatalf("unexpected store config %#v", cfg.Store)
	}
	if cfg.Store.Sheets.Sheet != "Club" {
		t.Fatalf("expected env to override sheet name, got %q", cfg.Store.Sheets.Sheet)
	}
	if cfg.Server.Listen != ":9000" || cfg.Server.PublicURL != "https://coffee.example.com" {
		t.Fatalf("unexpected server config %#v", cfg.Server)
	}
}

func TestLoadRejectsInvalidStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASTINGS_DIR", t.TempDir())
	t.Setenv("TASTINGS_STORE", "excel")

	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatalf("expected error for unknown store type")
	}

	t.Setenv("TASTINGS_STORE", "sheets")
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatalf("expected error for sheets store without spreadsheet id")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store\ntype="), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
