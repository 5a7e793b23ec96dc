// Package filesystem stores the tasting table as a CSV file on local disk.
package filesystem

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/tasting"
)

// CSVStore keeps the whole table in one CSV file whose header row is
// tasting.Columns.
type CSVStore struct {
	path string
	log  *logger.Logger
	now  func() time.Time
}

// NewCSVStore returns a store backed by path. The file and its directory are
// created on the first Persist.
func NewCSVStore(path string, log *logger.Logger) *CSVStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &CSVStore{
		path: path,
		log:  log.With("store", "csv", "path", path),
		now:  time.Now,
	}
}

// Path returns the backing file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the file in full. A missing file is an empty table.
func (s *CSVStore) Load(ctx context.Context) (tasting.Table, error) {
	if err := ctx.Err(); err != nil {
		return tasting.Table{}, err
	}

	rows, exists, err := s.readRows()
	if err != nil {
		return tasting.Table{}, err
	}
	if !exists {
		s.log.Debug("store file not found, starting empty")
		return tasting.Table{Records: []tasting.Record{}}, nil
	}
	if len(rows) == 0 {
		return tasting.Table{Records: []tasting.Record{}, Revision: tasting.Fingerprint(rows)}, nil
	}

	records, err := tasting.DecodeRows(rows[0], rows[1:], s.now)
	if err != nil {
		return tasting.Table{}, fmt.Errorf("%s: %w", s.path, err)
	}

	s.log.Debug("loaded table", "rows", len(records))
	return tasting.Table{Records: records, Revision: tasting.Fingerprint(rows)}, nil
}

// Persist rewrites the whole file. The new content goes to a temporary file
// in the same directory which is then renamed over the target, so readers see
// either the previous or the new file. The write is refused with
// tasting.ErrConflict when the file changed since t was loaded.
func (s *CSVStore) Persist(ctx context.Context, t tasting.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	current, exists, err := s.readRows()
	if err != nil {
		return "", err
	}
	currentRevision := ""
	if exists {
		currentRevision = tasting.Fingerprint(current)
	}
	if currentRevision != t.Revision {
		return "", fmt.Errorf("%w: %s", tasting.ErrConflict, s.path)
	}

	rows := tasting.EncodeTable(t)
	if err := writeFileAtomic(s.path, rows); err != nil {
		return "", fmt.Errorf("%w: %w", tasting.ErrStoreUnavailable, err)
	}

	s.log.Debug("persisted table", "rows", t.Len())
	return tasting.Fingerprint(rows), nil
}

// Close is a no-op; the file is not held open between calls.
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) readRows() ([][]string, bool, error) {
	//nolint:gosec // G304: path comes from configuration
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %w", tasting.ErrStoreUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, true, fmt.Errorf("%w: %s: %w", tasting.ErrStoreMalformed, s.path, err)
		}
		rows = append(rows, row)
	}
	return rows, true, nil
}

func writeFileAtomic(path string, rows [][]string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
