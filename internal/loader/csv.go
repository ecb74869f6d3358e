package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVSource reads a header-first CSV file or stream.
type CSVSource struct {
	Path   string
	Reader io.Reader // takes precedence over Path
	Label  string
}

func (s *CSVSource) Name() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.Path != "":
		return "csv:" + filepath.Base(s.Path)
	default:
		return "csv"
	}
}

func (s *CSVSource) Load(_ context.Context) (*RawTable, error) {
	r := s.Reader
	if r == nil {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return ReadCSV(r)
}

// ReadCSV parses a CSV stream whose first record is the header.
func ReadCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	raw := &RawTable{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv record: %w", err)
		}
		raw.Rows = append(raw.Rows, rec)
	}
	return raw, nil
}

// WriteCSV writes raw as CSV with a header row.
func WriteCSV(w io.Writer, raw *RawTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(raw.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(raw.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile replaces path with raw. The file is written to a temporary
// sibling and renamed so readers never observe a partial file.
func WriteCSVFile(path string, raw *RawTable) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
