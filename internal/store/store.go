// Package store selects the backend that holds the tasting table.
package store

import (
	"context"
	"fmt"

	"github.com/tastingclub/tastings/internal/config"
	"github.com/tastingclub/tastings/internal/database"
	"github.com/tastingclub/tastings/internal/filesystem"
	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/sheets"
	"github.com/tastingclub/tastings/internal/tasting"
)

// Backend loads and persists the whole table.
//
// Persist writes t in full and returns the revision of what it wrote. It
// fails with tasting.ErrConflict when the stored content no longer matches
// t.Revision.
type Backend interface {
	Load(ctx context.Context) (tasting.Table, error)
	Persist(ctx context.Context, t tasting.Table) (string, error)
	Close() error
}

var (
	_ Backend = (*filesystem.CSVStore)(nil)
	_ Backend = (*sheets.Store)(nil)
	_ Backend = (*database.SQLiteStore)(nil)
)

// Open builds the backend named by cfg.Type. An empty type means csv.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (Backend, error) {
	if log == nil {
		log = logger.NewNop()
	}

	switch cfg.Type {
	case "", config.StoreCSV:
		path := cfg.CSV.Path
		if path == "" {
			path = config.GetCSVPath()
		}
		return filesystem.NewCSVStore(path, log), nil
	case config.StoreSheets:
		s, err := sheets.NewStore(ctx, cfg.Sheets, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreSQLite:
		s, err := database.NewSQLiteStore(cfg.SQLite.Path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
