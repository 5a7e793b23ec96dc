// Package config resolves where tastings keeps its data and which backing
// store it talks to. Values come from defaults, an optional TOML file and
// TASTINGS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Store backend types.
const (
	StoreCSV    = "csv"
	StoreSheets = "sheets"
	StoreSQLite = "sqlite"
)

// Config holds every setting the commands need.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// StoreConfig selects and locates the backing store.
type StoreConfig struct {
	Type   string       `toml:"type"`
	CSV    CSVConfig    `toml:"csv"`
	SQLite SQLiteConfig `toml:"sqlite"`
	Sheets SheetsConfig `toml:"sheets"`
}

type CSVConfig struct {
	Path string `toml:"path"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

// SheetsConfig names the remote spreadsheet. CredentialsFile may be empty, in
// which case GOOGLE_APPLICATION_CREDENTIALS(_JSON) is consulted.
type SheetsConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	Sheet           string `toml:"sheet"`
	CredentialsFile string `toml:"credentials_file"`
}

type ServerConfig struct {
	Listen    string `toml:"listen"`
	PublicURL string `toml:"public_url"`
}

type LoggingConfig struct {
	Mode  string `toml:"mode"`  // "dev" or "prod"
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// GetDataDir resolves the base directory for local stores. TASTINGS_DIR wins,
// then the XDG data home, then ~/.local/share.
func GetDataDir() string {
	if explicit := os.Getenv("TASTINGS_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "tastings")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "tastings")
}

// GetConfigPath returns the TOML config location: TASTINGS_CONFIG or
// $XDG_CONFIG_HOME/tastings/config.toml.
func GetConfigPath() string {
	if explicit := os.Getenv("TASTINGS_CONFIG"); explicit != "" {
		return explicit
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "tastings", "config.toml")
}

// GetCSVPath returns the default CSV store location.
func GetCSVPath() string {
	return filepath.Join(GetDataDir(), "coffee_tasting_data.csv")
}

// GetSQLitePath returns the default SQLite store location.
func GetSQLitePath() string {
	return filepath.Join(GetDataDir(), "tastings.db")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Type:   StoreCSV,
			CSV:    CSVConfig{Path: GetCSVPath()},
			SQLite: SQLiteConfig{Path: GetSQLitePath()},
			Sheets: SheetsConfig{Sheet: "Sheet1"},
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8501",
		},
		Logging: LoggingConfig{
			Mode:  "dev",
			Level: "warn",
		},
	}
}

// Load builds the configuration. path may be empty to use GetConfigPath; a
// missing file is not an error, a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = GetConfigPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the store selection is complete.
func (c *Config) Validate() error {
	c.Store.Type = strings.ToLower(strings.TrimSpace(c.Store.Type))
	switch c.Store.Type {
	case StoreCSV:
		if c.Store.CSV.Path == "" {
			return errors.New("store.csv.path must not be empty")
		}
	case StoreSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("store.sqlite.path must not be empty")
		}
	case StoreSheets:
		if c.Store.Sheets.SpreadsheetID == "" {
			return errors.New("store.sheets.spreadsheet_id is required for the sheets store")
		}
		if c.Store.Sheets.Sheet == "" {
			return errors.New("store.sheets.sheet must not be empty")
		}
	default:
		return fmt.Errorf("invalid store type: %s (valid values: csv, sheets, sqlite)", c.Store.Type)
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		name string
		dst  *string
	}{
		{"TASTINGS_STORE", &cfg.Store.Type},
		{"TASTINGS_CSV_PATH", &cfg.Store.CSV.Path},
		{"TASTINGS_SQLITE_PATH", &cfg.Store.SQLite.Path},
		{"TASTINGS_SHEET_ID", &cfg.Store.Sheets.SpreadsheetID},
		{"TASTINGS_SHEET_NAME", &cfg.Store.Sheets.Sheet},
		{"TASTINGS_SHEET_CREDENTIALS", &cfg.Store.Sheets.CredentialsFile},
		{"TASTINGS_LISTEN", &cfg.Server.Listen},
		{"TASTINGS_PUBLIC_URL", &cfg.Server.PublicURL},
		{"TASTINGS_LOG_MODE", &cfg.Logging.Mode},
		{"TASTINGS_LOG_LEVEL", &cfg.Logging.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.name)); v != "" {
			*o.dst = v
		}
	}
}
