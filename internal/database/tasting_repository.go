package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sqldb "github.com/tastingclub/tastings/internal/database/sqlc"
	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/tasting"
)

// SQLiteStore keeps the tasting table in the tastings relation, one row per
// record keyed by its position.
type SQLiteStore struct {
	ctx *Context
	log *logger.Logger
	now func() time.Time
}

// NewSQLiteStore opens the database at path and applies migrations.
func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	dbCtx, err := CreateDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tasting.ErrStoreUnavailable, err)
	}
	return NewSQLiteStoreWithContext(dbCtx, log), nil
}

// NewSQLiteStoreWithContext wraps an already opened database.
func NewSQLiteStoreWithContext(dbCtx *Context, log *logger.Logger) *SQLiteStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &SQLiteStore{
		ctx: dbCtx,
		log: log.With("store", "sqlite"),
		now: time.Now,
	}
}

func (s *SQLiteStore) Load(ctx context.Context) (tasting.Table, error) {
	rows, err := s.ctx.Queries.ListTastings(ctx)
	if err != nil {
		return tasting.Table{}, fmt.Errorf("%w: %w", tasting.ErrStoreUnavailable, err)
	}
	if len(rows) == 0 {
		return tasting.Table{Records: []tasting.Record{}}, nil
	}

	cells := rowsToCells(rows)
	records, err := tasting.DecodeRows(tasting.Header(), cells, s.now)
	if err != nil {
		return tasting.Table{}, err
	}

	s.log.Debug("loaded table", "rows", len(records))
	return tasting.Table{Records: records, Revision: revisionOf(cells)}, nil
}

// Persist replaces every row inside one transaction. The revision check runs
// in the same transaction, so a concurrent writer cannot slip in between.
func (s *SQLiteStore) Persist(ctx context.Context, t tasting.Table) (string, error) {
	var revision string
	err := withTx(ctx, s.ctx, func(q *sqldb.Queries) error {
		current, err := q.ListTastings(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", tasting.ErrStoreUnavailable, err)
		}
		if revisionOf(rowsToCells(current)) != t.Revision {
			return tasting.ErrConflict
		}

		if err := q.DeleteAllTastings(ctx); err != nil {
			return fmt.Errorf("%w: %w", tasting.ErrStoreUnavailable, err)
		}
		written := make([][]string, 0, t.Len())
		for i, r := range t.Records {
			if err := q.InsertTasting(ctx, paramsFromRecord(i, r)); err != nil {
				return fmt.Errorf("%w: row %d: %w", tasting.ErrStoreUnavailable, i, err)
			}
			written = append(written, tasting.EncodeRecord(r))
		}
		revision = revisionOf(written)
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("persisted table", "rows", t.Len())
	return revision, nil
}

func (s *SQLiteStore) Close() error {
	return CloseDatabase(s.ctx)
}

// revisionOf is empty for an empty relation, matching a store that was never
// written.
func revisionOf(cells [][]string) string {
	if len(cells) == 0 {
		return ""
	}
	return tasting.Fingerprint(cells)
}

func rowsToCells(rows []sqldb.Tasting) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.SessionNumber,
			r.TastingDate,
			r.Taster,
			r.CoffeeName,
			r.RoastLevel,
			r.BrewMethod,
			r.ShopName,
			r.ShopAddress,
			r.RoasterLocation,
			r.BeanOrigin,
			strconv.FormatInt(r.Acidity, 10),
			strconv.FormatInt(r.Sweetness, 10),
			strconv.FormatInt(r.Body, 10),
			strconv.FormatInt(r.OverallRating, 10),
			r.FlavorNotes,
			r.TastingNotes,
		})
	}
	return out
}

func paramsFromRecord(position int, r tasting.Record) sqldb.InsertTastingParams {
	return sqldb.InsertTastingParams{
		Position:        int64(position),
		SessionNumber:   r.SessionNumber,
		TastingDate:     r.Date.String(),
		Taster:          r.Taster,
		CoffeeName:      r.CoffeeName,
		RoastLevel:      string(r.RoastLevel),
		BrewMethod:      string(r.BrewMethod),
		ShopName:        r.ShopName,
		ShopAddress:     r.ShopAddress,
		RoasterLocation: r.RoasterLocation,
		BeanOrigin:      tasting.JoinOrigins(r.BeanOrigins),
		Acidity:         int64(r.Acidity),
		Sweetness:       int64(r.Sweetness),
		Body:            int64(r.Body),
		OverallRating:   int64(r.OverallRating),
		FlavorNotes:     r.FlavorNotes,
		TastingNotes:    r.TastingNotes,
	}
}
