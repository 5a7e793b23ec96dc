// Package services runs each tasting action as one load, mutate and persist
// cycle against a backing store.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/store"
	"github.com/tastingclub/tastings/internal/summary"
	"github.com/tastingclub/tastings/internal/tasting"
)

// TastingService exposes the tasting operations shared by the CLI, the HTTP
// server and the MCP server.
type TastingService struct {
	backend store.Backend
	log     *logger.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewTastingService creates a TastingService over backend.
func NewTastingService(backend store.Backend, log *logger.Logger) *TastingService {
	if log == nil {
		log = logger.NewNop()
	}
	return &TastingService{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
}

// UpdateInput replaces the record at Index. A non-empty Revision must match
// the table the caller selected Index from.
type UpdateInput struct {
	Index    int
	Input    tasting.Input
	Revision string
}

// List loads the whole table.
func (s *TastingService) List(ctx context.Context) (tasting.Table, error) {
	return s.backend.Load(ctx)
}

// Get returns the record at index together with the table it was read from.
func (s *TastingService) Get(ctx context.Context, index int) (tasting.Record, tasting.Table, error) {
	table, err := s.backend.Load(ctx)
	if err != nil {
		return tasting.Record{}, tasting.Table{}, err
	}
	rec, err := table.At(index)
	if err != nil {
		return tasting.Record{}, table, err
	}
	return rec, table, nil
}

// Submit validates input and appends it as a new record. It returns the new
// record's position.
func (s *TastingService) Submit(ctx context.Context, input tasting.Input) (int, tasting.Record, error) {
	rec, err := tasting.Normalize(input, s.now)
	if err != nil {
		return 0, tasting.Record{}, err
	}

	var index int
	err = s.cycle(ctx, "", func(table tasting.Table) (tasting.Table, error) {
		index = table.Len()
		return table.Append(rec), nil
	})
	if err != nil {
		return 0, tasting.Record{}, err
	}

	s.log.Info("submitted tasting", "index", index, "coffee", rec.CoffeeName)
	return index, rec, nil
}

// Update validates in.Input and replaces the record at in.Index.
func (s *TastingService) Update(ctx context.Context, in UpdateInput) (tasting.Record, error) {
	rec, err := tasting.Normalize(in.Input, s.now)
	if err != nil {
		return tasting.Record{}, err
	}

	err = s.cycle(ctx, in.Revision, func(table tasting.Table) (tasting.Table, error) {
		return table.Update(in.Index, rec)
	})
	if err != nil {
		return tasting.Record{}, err
	}

	s.log.Info("updated tasting", "index", in.Index, "coffee", rec.CoffeeName)
	return rec, nil
}

// Delete removes the record at index and returns it. Later records move down
// by one position.
func (s *TastingService) Delete(ctx context.Context, index int, revision string) (tasting.Record, error) {
	var removed tasting.Record
	err := s.cycle(ctx, revision, func(table tasting.Table) (tasting.Table, error) {
		rec, err := table.At(index)
		if err != nil {
			return table, err
		}
		removed = rec
		return table.Delete(index)
	})
	if err != nil {
		return tasting.Record{}, err
	}

	s.log.Info("deleted tasting", "index", index, "coffee", removed.CoffeeName)
	return removed, nil
}

// Summary averages Overall Rating per coffee, optionally per taster.
func (s *TastingService) Summary(ctx context.Context, byTaster bool) ([]summary.Average, error) {
	table, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return summary.AverageRatingByCoffee(table, byTaster), nil
}

// cycle loads the table, applies mutate and persists the result while holding
// the service lock. A non-empty revision must match the loaded table.
func (s *TastingService) cycle(ctx context.Context, revision string, mutate func(tasting.Table) (tasting.Table, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	if revision != "" && revision != table.Revision {
		return fmt.Errorf("%w: table changed since it was read", tasting.ErrConflict)
	}

	next, err := mutate(table)
	if err != nil {
		return err
	}

	if _, err := s.backend.Persist(ctx, next); err != nil {
		s.log.Warn("persist failed", "error", err)
		return err
	}
	return nil
}
