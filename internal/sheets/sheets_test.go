package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/tastingclub/tastings/internal/config"
	"github.com/tastingclub/tastings/internal/tasting"
)

// fakeValues keeps one sheet in memory and mimics the API dropping trailing
// empty cells on read.
type fakeValues struct {
	values    [][]interface{}
	calls     []string
	getErr    error
	updateErr error
}

func (f *fakeValues) Get(_ context.Context, _, rng string) ([][]interface{}, error) {
	f.calls = append(f.calls, "get "+rng)
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([][]interface{}, 0, len(f.values))
	for _, row := range f.values {
		n := len(row)
		for n > 0 && row[n-1] == "" {
			n--
		}
		out = append(out, append([]interface{}(nil), row[:n]...))
	}
	return out, nil
}

func (f *fakeValues) Clear(_ context.Context, _, rng string) error {
	f.calls = append(f.calls, "clear "+rng)
	f.values = nil
	return nil
}

func (f *fakeValues) Update(_ context.Context, _, rng string, values [][]interface{}) error {
	f.calls = append(f.calls, "update "+rng)
	if f.updateErr != nil {
		return f.updateErr
	}
	f.values = values
	return nil
}

func setupStore(t *testing.T, fake *fakeValues) *Store {
	t.Helper()
	s := newStore(fake, config.SheetsConfig{SpreadsheetID: "sheet-id", Sheet: "Club's Log"}, nil)
	s.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func record(name string, rating int) tasting.Record {
	return tasting.Record{
		SessionNumber: "7",
		Date:          tasting.Date{Year: 2024, Month: time.April, Day: 2},
		Taster:        "Lee",
		CoffeeName:    name,
		RoastLevel:    tasting.RoastDark,
		BrewMethod:    tasting.BrewEspresso,
		BeanOrigins:   []string{"Brazil"},
		Acidity:       3,
		Sweetness:     6,
		Body:          9,
		OverallRating: rating,
	}
}

func TestLoadEmptySheet(t *testing.T) {
	s := setupStore(t, &fakeValues{})

	table, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if table.Len() != 0 || table.Revision != "" {
		t.Fatalf("expected empty table, got %d rows revision %q", table.Len(), table.Revision)
	}
}

func TestPersistClearsThenWritesHeaderAndRows(t *testing.T) {
	ctx := context.Background()
	fake := &fakeValues{}
	s := setupStore(t, fake)

	table := tasting.Table{}.Append(record("Santos", 6)).Append(record("Cerrado", 7))
	if _, err := s.Persist(ctx, table); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	want := []string{"get 'Club''s Log'", "clear 'Club''s Log'", "update 'Club''s Log'!A1"}
	if len(fake.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, fake.calls)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Fatalf("call %d: expected %q, got %q", i, want[i], fake.calls[i])
		}
	}

	if len(fake.values) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(fake.values))
	}
	if fake.values[0][0] != tasting.ColSessionNumber {
		t.Fatalf("expected header row first, got %v", fake.values[0])
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Len() != 2 || !loaded.Records[1].Equal(record("Cerrado", 7)) {
		t.Fatalf("unexpected round trip %#v", loaded.Records)
	}
}

func TestPersistRevisionMatchesReload(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, &fakeValues{})

	rev, err := s.Persist(ctx, tasting.Table{}.Append(record("Santos", 6)))
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Revision != rev {
		t.Fatalf("expected reload revision %q, got %q", rev, loaded.Revision)
	}
}

func TestPersistConflict(t *testing.T) {
	ctx := context.Background()
	fake := &fakeValues{}
	s := setupStore(t, fake)

	if _, err := s.Persist(ctx, tasting.Table{}.Append(record("Santos", 6))); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	stale := tasting.Table{}.Append(record("Other", 2))
	fake.calls = nil
	if _, err := s.Persist(ctx, stale); !errors.Is(err, tasting.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	for _, c := range fake.calls {
		if c != "get 'Club''s Log'" {
			t.Fatalf("expected no writes on conflict, got %v", fake.calls)
		}
	}
}

func TestNonStringOriginIsEmpty(t *testing.T) {
	header := make([]interface{}, 0, len(tasting.Columns))
	for _, c := range tasting.Columns {
		header = append(header, c)
	}
	row := []interface{}{
		"1", "2024-01-01", "", "Kenyan", "Light", "V60", "", "", "",
		float64(42), float64(8), "7", "6", float64(9), "berry", "",
	}
	s := setupStore(t, &fakeValues{values: [][]interface{}{header, row}})

	table, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	rec := table.Records[0]
	if len(rec.BeanOrigins) != 0 {
		t.Fatalf("expected no origins, got %#v", rec.BeanOrigins)
	}
	if rec.Acidity != 8 || rec.OverallRating != 9 {
		t.Fatalf("expected numeric cells to decode, got %#v", rec)
	}
}

func TestAPIErrorsAreUnavailable(t *testing.T) {
	fake := &fakeValues{getErr: &googleapi.Error{Code: 403, Message: "permission denied"}}
	s := setupStore(t, fake)

	if _, err := s.Load(context.Background()); !errors.Is(err, tasting.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	fake.getErr = nil
	fake.updateErr = errors.New("quota exceeded")
	if _, err := s.Persist(context.Background(), tasting.Table{}.Append(record("Santos", 6))); !errors.Is(err, tasting.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if got := len(ClientOptions("")); got != 1 {
		t.Fatalf("expected only the scope option, got %d options", got)
	}
	if got := len(ClientOptions("/secrets/sa.json")); got != 2 {
		t.Fatalf("expected scope + credentials file, got %d options", got)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	if got := len(ClientOptions("")); got != 2 {
		t.Fatalf("expected scope + inline credentials, got %d options", got)
	}
}
