// Package datafile persists year tables as <dir>/<year>.dat text files.
package datafile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/lunartable/pkg/lunar"
)

// Writer builds year tables and writes them under a data directory.
type Writer struct {
	dir     string
	builder *lunar.Builder
	header  lunar.HeaderInfo
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string, builder *lunar.Builder, header lunar.HeaderInfo) *Writer {
	return &Writer{dir: dir, builder: builder, header: header}
}

// Path returns the data file location for year.
func (w *Writer) Path(year int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%d.dat", year))
}

// WriteYear builds the table for year and replaces its data file. The file
// is written to a temporary name and renamed into place, so a failure leaves
// any previous file untouched and never a partial one.
func (w *Writer) WriteYear(year int) (*lunar.YearTable, error) {
	table, err := w.builder.BuildYear(year)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, fmt.Sprintf(".%d.dat.*", year))
	if err != nil {
		return nil, fmt.Errorf("error creating temp file for %d: %w", year, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := lunar.Encode(tmp, table, w.header); err != nil {
		return nil, fmt.Errorf("error writing %d: %w", year, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return nil, fmt.Errorf("error setting mode on %d: %w", year, err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("error syncing %d: %w", year, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("error closing %d: %w", year, err)
	}
	if err := os.Rename(tmpName, w.Path(year)); err != nil {
		return nil, fmt.Errorf("error renaming %d into place: %w", year, err)
	}
	committed = true

	return table, nil
}

// ReadYear loads a previously written data file.
func (w *Writer) ReadYear(year int) (*lunar.YearTable, error) {
	f, err := os.Open(w.Path(year))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := lunar.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", w.Path(year), err)
	}
	if table.Year != year {
		return nil, fmt.Errorf("error reading %s: %w: holds year %d", w.Path(year), lunar.ErrMalformedRow, table.Year)
	}
	return table, nil
}
