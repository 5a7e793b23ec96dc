// Package sheets stores the tasting table in a Google spreadsheet. The first
// row of the named sheet is the header; every save clears the sheet and writes
// header plus rows in one update.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/tastingclub/tastings/internal/config"
	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/tasting"
)

// valuesClient is the slice of the Sheets values API the store needs.
type valuesClient interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

// Store is a tasting table kept in one sheet of a spreadsheet.
//
// Persist clears the sheet before writing. A reader that looks between the
// two calls sees an empty sheet; this window is accepted.
type Store struct {
	client        valuesClient
	spreadsheetID string
	sheet         string
	log           *logger.Logger
	now           func() time.Time
}

// NewStore connects to the Sheets API with credentials resolved by
// ClientOptions.
func NewStore(ctx context.Context, cfg config.SheetsConfig, log *logger.Logger) (*Store, error) {
	svc, err := gsheets.NewService(ctx, ClientOptions(cfg.CredentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %w", tasting.ErrStoreUnavailable, err)
	}
	return newStore(&serviceClient{svc: svc}, cfg, log), nil
}

func newStore(client valuesClient, cfg config.SheetsConfig, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Store{
		client:        client,
		spreadsheetID: cfg.SpreadsheetID,
		sheet:         sheet,
		log:           log.With("store", "sheets", "spreadsheet", cfg.SpreadsheetID, "sheet", sheet),
		now:           time.Now,
	}
}

// Load reads the sheet in full. An empty sheet is an empty table.
func (s *Store) Load(ctx context.Context) (tasting.Table, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return tasting.Table{}, err
	}
	if len(rows) == 0 {
		s.log.Debug("sheet is empty, starting empty")
		return tasting.Table{Records: []tasting.Record{}}, nil
	}

	records, err := tasting.DecodeRows(rows[0], rows[1:], s.now)
	if err != nil {
		return tasting.Table{}, fmt.Errorf("sheet %q: %w", s.sheet, err)
	}

	s.log.Debug("loaded table", "rows", len(records))
	return tasting.Table{Records: records, Revision: tasting.Fingerprint(rows)}, nil
}

// Persist clears the sheet and writes the header and every record. The write
// is refused with tasting.ErrConflict when the sheet changed since t was
// loaded.
func (s *Store) Persist(ctx context.Context, t tasting.Table) (string, error) {
	current, err := s.readRows(ctx)
	if err != nil {
		return "", err
	}
	currentRevision := ""
	if len(current) > 0 {
		currentRevision = tasting.Fingerprint(current)
	}
	if currentRevision != t.Revision {
		return "", fmt.Errorf("%w: sheet %q", tasting.ErrConflict, s.sheet)
	}

	rows := tasting.EncodeTable(t)
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, c := range row {
			cells = append(cells, c)
		}
		values = append(values, cells)
	}

	if err := s.client.Clear(ctx, s.spreadsheetID, s.sheetRange()); err != nil {
		return "", s.unavailable("clear", err)
	}
	if err := s.client.Update(ctx, s.spreadsheetID, s.sheetRange()+"!A1", values); err != nil {
		s.log.Error("sheet cleared but rewrite failed", "rows", t.Len(), "error", err)
		return "", s.unavailable("update", err)
	}

	s.log.Debug("persisted table", "rows", t.Len())
	for i := range rows {
		rows[i] = trimTrailing(rows[i])
	}
	return tasting.Fingerprint(rows), nil
}

// Close releases nothing; the HTTP client is shared.
func (s *Store) Close() error {
	return nil
}

// readRows fetches the sheet and converts every cell to a string. The API
// drops trailing empty cells, so rows may be shorter than the header.
func (s *Store) readRows(ctx context.Context) ([][]string, error) {
	values, err := s.client.Get(ctx, s.spreadsheetID, s.sheetRange())
	if err != nil {
		return nil, s.unavailable("get", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	header := make([]string, 0, len(values[0]))
	for _, v := range values[0] {
		header = append(header, cellString(v))
	}
	originIdx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == tasting.ColBeanOrigin {
			originIdx = i
		}
	}

	rows := make([][]string, 0, len(values))
	rows = append(rows, header)
	for _, raw := range values[1:] {
		row := make([]string, 0, len(raw))
		for i, v := range raw {
			if i == originIdx {
				// A non-string origin cell is treated as no origins.
				if str, ok := v.(string); ok {
					row = append(row, str)
				} else {
					row = append(row, "")
				}
				continue
			}
			row = append(row, cellString(v))
		}
		rows = append(rows, trimTrailing(row))
	}
	return rows, nil
}

func (s *Store) sheetRange() string {
	return "'" + strings.ReplaceAll(s.sheet, "'", "''") + "'"
}

func (s *Store) unavailable(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("%w: sheets %s (HTTP %d): %w", tasting.ErrStoreUnavailable, op, gerr.Code, err)
	}
	return fmt.Errorf("%w: sheets %s: %w", tasting.ErrStoreUnavailable, op, err)
}

// trimTrailing drops trailing empty cells the way the API does on read, so
// fingerprints of written and re-read content agree.
func trimTrailing(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

type serviceClient struct {
	svc *gsheets.Service
}

func (c *serviceClient) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *serviceClient) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (c *serviceClient) Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
