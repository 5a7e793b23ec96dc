package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tastingclub/tastings/internal/filesystem"
	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/tasting"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	backend := filesystem.NewCSVStore(filepath.Join(t.TempDir(), "coffee_tasting_data.csv"), nil)
	return NewServer(services.NewTastingService(backend, nil), "test", nil)
}

func fields(name string, rating int) Fields {
	return Fields{
		SessionNumber: "2",
		Date:          "2024-07-01",
		Taster:        "Kim",
		CoffeeName:    name,
		RoastLevel:    "medium-dark",
		BeanOrigins:   []string{"guatemala"},
		Acidity:       4,
		Sweetness:     6,
		Body:          7,
		OverallRating: rating,
	}
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)

	_, out, err := s.handleAdd(ctx, nil, fields("Antigua", 8))
	if err != nil {
		t.Fatalf("handleAdd returned error: %v", err)
	}
	if out.Tasting.Index != 0 || out.Tasting.RoastLevel != "Medium-Dark" || out.Tasting.BrewMethod != "V60" {
		t.Fatalf("unexpected tasting: %#v", out.Tasting)
	}
	if len(out.Tasting.BeanOrigins) != 1 || out.Tasting.BeanOrigins[0] != "Guatemala" {
		t.Fatalf("expected canonical origin, got %v", out.Tasting.BeanOrigins)
	}

	_, list, err := s.handleList(ctx, nil, ListInput{})
	if err != nil {
		t.Fatalf("handleList returned error: %v", err)
	}
	if len(list.Tastings) != 1 || list.Revision == "" {
		t.Fatalf("unexpected list: %#v", list)
	}
}

func TestAddOmittedScoresUseDefaults(t *testing.T) {
	s := setupServer(t)

	in := fields("Antigua", 0)
	in.Acidity = 0
	_, out, err := s.handleAdd(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("handleAdd returned error: %v", err)
	}
	if out.Tasting.Acidity != tasting.DefaultAcidity || out.Tasting.OverallRating != tasting.DefaultOverallRating {
		t.Fatalf("unexpected default scores: %#v", out.Tasting)
	}
}

func TestAddScoreOutOfRangeIsValidationError(t *testing.T) {
	s := setupServer(t)

	_, _, err := s.handleAdd(context.Background(), nil, fields("Antigua", 11))
	if !errors.Is(err, tasting.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)

	if _, _, err := s.handleAdd(ctx, nil, fields("Antigua", 8)); err != nil {
		t.Fatalf("handleAdd returned error: %v", err)
	}

	_, got, err := s.handleGet(ctx, nil, GetInput{Index: 0})
	if err != nil {
		t.Fatalf("handleGet returned error: %v", err)
	}

	_, updated, err := s.handleUpdate(ctx, nil, UpdateInput{Index: 0, Revision: got.Revision, Tasting: fields("Huehuetenango", 9)})
	if err != nil {
		t.Fatalf("handleUpdate returned error: %v", err)
	}
	if updated.Tasting.CoffeeName != "Huehuetenango" {
		t.Fatalf("unexpected update result: %#v", updated.Tasting)
	}

	if _, _, err := s.handleUpdate(ctx, nil, UpdateInput{Index: 0, Revision: got.Revision, Tasting: fields("Stale", 1)}); !errors.Is(err, tasting.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	_, deleted, err := s.handleDelete(ctx, nil, DeleteInput{Index: 0})
	if err != nil {
		t.Fatalf("handleDelete returned error: %v", err)
	}
	if deleted.Tasting.CoffeeName != "Huehuetenango" {
		t.Fatalf("unexpected deleted tasting: %#v", deleted.Tasting)
	}

	if _, _, err := s.handleGet(ctx, nil, GetInput{Index: 0}); !errors.Is(err, tasting.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)

	for _, f := range []Fields{fields("A", 4), fields("B", 8), fields("A", 6)} {
		if _, _, err := s.handleAdd(ctx, nil, f); err != nil {
			t.Fatalf("handleAdd returned error: %v", err)
		}
	}

	_, out, err := s.handleSummary(ctx, nil, SummaryInput{})
	if err != nil {
		t.Fatalf("handleSummary returned error: %v", err)
	}
	if len(out.Averages) != 2 || out.Averages[0].Coffee != "B" || out.Averages[1].Mean != 5 {
		t.Fatalf("unexpected averages: %#v", out.Averages)
	}

	_, out, err = s.handleSummary(ctx, nil, SummaryInput{ByTaster: true})
	if err != nil {
		t.Fatalf("handleSummary returned error: %v", err)
	}
	if len(out.Averages) != 2 || out.Averages[0].Taster != "Kim" {
		t.Fatalf("unexpected averages by taster: %#v", out.Averages)
	}
}
