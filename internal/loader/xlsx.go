package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one worksheet of an Excel workbook. The first row is
// the header.
type XLSXSource struct {
	Path   string
	Reader io.Reader // takes precedence over Path
	Sheet  string    // defaults to the first sheet
	Label  string
}

func (s *XLSXSource) Name() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.Path != "":
		return "xlsx:" + filepath.Base(s.Path)
	default:
		return "xlsx"
	}
}

func (s *XLSXSource) Load(_ context.Context) (*RawTable, error) {
	var (
		f   *excelize.File
		err error
	)
	if s.Reader != nil {
		f, err = excelize.OpenReader(s.Reader)
	} else {
		f, err = excelize.OpenFile(s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx: sheet %q is empty", sheet)
	}
	return &RawTable{Columns: rows[0], Rows: rows[1:]}, nil
}
