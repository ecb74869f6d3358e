package loader

import (
	"context"
	"fmt"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// RawTable is tabular input before normalization: a header plus string cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Cell returns row[i], or "" when the row is shorter than the header.
func (t *RawTable) Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Source defines the interface for reading raw price tables.
type Source interface {
	Load(ctx context.Context) (*RawTable, error)
	Name() string
}

// StaticSource returns a fixed table, for tests and embedded samples.
type StaticSource struct {
	Label string
	Table RawTable
}

func (s *StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s *StaticSource) Load(_ context.Context) (*RawTable, error) {
	t := s.Table
	return &t, nil
}

// Load reads src and normalizes it into a Table.
func Load(ctx context.Context, src Source) (*model.Table, error) {
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return Normalize(raw)
}
