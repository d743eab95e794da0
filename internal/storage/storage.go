package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/racecard-horses/internal/race"
)

// DefaultPath is the CSV file written when no path is configured
const DefaultPath = "horses_data.csv"

// Header is the first row of every CSV file
var Header = []string{"Race", "Horse"}

// ErrInvalidHeader indicates the CSV does not start with the expected header
var ErrInvalidHeader = errors.New("invalid CSV header")

// IOError represents a failure reading or writing the CSV file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Storage handles persistence of entries as CSV
type Storage struct {
	path string
}

// New creates a new Storage instance writing to path. The parent directory is
// created if needed; the file itself is not touched until SaveEntries.
func New(path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, &IOError{Op: "resolve", Path: path, Err: fmt.Errorf("getting home directory: %w", err)}
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	return &Storage{
		path: path,
	}, nil
}

// Path returns the resolved CSV path
func (s *Storage) Path() string {
	return s.path
}

// SaveEntries creates or overwrites the CSV file with a header row followed by
// one row per entry.
func (s *Storage) SaveEntries(entries []race.Entry) error {
	f, err := os.Create(s.path)
	if err != nil {
		return &IOError{Op: "create", Path: s.path, Err: err}
	}

	if err := WriteCSV(f, entries); err != nil {
		f.Close() // nolint:errcheck
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}

	return nil
}

// LoadEntries reads the CSV file back into entries
func (s *Storage) LoadEntries() ([]race.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	entries, err := ReadCSV(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return entries, nil
}

// WriteCSV writes the header and entries to w
func WriteCSV(w io.Writer, entries []race.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Race, e.Horse}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV produced by WriteCSV
func ReadCSV(r io.Reader) ([]race.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidHeader
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header[0] != Header[0] || header[1] != Header[1] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, strings.Join(header, ","))
	}

	entries := make([]race.Entry, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		entries = append(entries, race.Entry{Race: record[0], Horse: record[1]})
	}

	return entries, nil
}
