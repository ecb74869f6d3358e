package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options tune file sources that hold more than one table.
type Options struct {
	Sheet string // xlsx worksheet
	Query string // sqlite query
}

// Open returns a file source chosen by the file extension.
func Open(path string, opts Options) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", "":
		return &CSVSource{Path: path}, nil
	case ".xlsx", ".xlsm":
		return &XLSXSource{Path: path, Sheet: opts.Sheet}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteSource{Path: path, Query: opts.Query}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// Upload wraps an uploaded stream. Only CSV and XLSX uploads are accepted.
func Upload(filename string, r io.Reader, opts Options) (Source, error) {
	label := "upload:" + filepath.Base(filename)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt", "":
		return &CSVSource{Reader: r, Label: label}, nil
	case ".xlsx", ".xlsm":
		return &XLSXSource{Reader: r, Sheet: opts.Sheet, Label: label}, nil
	default:
		return nil, fmt.Errorf("unsupported upload type %q", ext)
	}
}

// Resolve picks the input for a run: the upload when present, otherwise the
// fallback file, looked up relative to the working directory and then to
// the executable. ErrNoSource is returned when neither exists.
func Resolve(upload Source, fallback string, opts Options) (Source, error) {
	if upload != nil {
		return upload, nil
	}
	if fallback == "" {
		return nil, ErrNoSource
	}
	for _, p := range fallbackCandidates(fallback) {
		src, err := Open(p, opts)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, ErrNoSource
}

func fallbackCandidates(path string) []string {
	candidates := []string{path}
	if filepath.IsAbs(path) {
		return candidates
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), path))
	}
	return candidates
}
