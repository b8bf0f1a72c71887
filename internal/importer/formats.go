package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Format identifies a supported file type.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// DetectFormat picks a format from the file extension, falling back to the
// file's leading bytes when the extension is missing or unknown.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS, nil
	}
	return "", &types.UnsupportedFormatError{Name: filename}
}

// workbook is a read-only view over one opened file.
type workbook interface {
	Format() Format
	Sheets() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

func openWorkbook(filename string, data []byte) (workbook, error) {
	format, err := DetectFormat(filename, data)
	if err != nil {
		return nil, err
	}
	var wb workbook
	switch format {
	case FormatCSV:
		wb, err = openCSV(filename, data)
	case FormatXLSX:
		wb, err = openXLSX(data)
	case FormatXLS:
		wb, err = openXLS(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", &types.UnsupportedFormatError{Name: filename}, err)
	}
	return wb, nil
}

// selectSheet returns the sheet to read. Exact names win over
// case-insensitive matches.
func selectSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", types.ErrSheetNotFound)
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(s, want) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", types.ErrSheetNotFound, want)
}

// csvBook is a single-sheet workbook named after the file stem.
type csvBook struct {
	name string
	rows [][]string
}

func openCSV(filename string, data []byte) (*csvBook, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" || name == "." {
		name = "Sheet1"
	}
	return &csvBook{name: name, rows: rows}, nil
}

func (b *csvBook) Format() Format   { return FormatCSV }
func (b *csvBook) Sheets() []string { return []string{b.name} }
func (b *csvBook) Close() error     { return nil }

func (b *csvBook) Rows(sheet string) ([][]string, error) {
	if sheet != b.name {
		return nil, types.ErrSheetNotFound
	}
	return b.rows, nil
}

type xlsxBook struct {
	f *excelize.File
}

func openXLSX(data []byte) (*xlsxBook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &xlsxBook{f: f}, nil
}

func (b *xlsxBook) Format() Format   { return FormatXLSX }
func (b *xlsxBook) Sheets() []string { return b.f.GetSheetList() }
func (b *xlsxBook) Close() error     { return b.f.Close() }

func (b *xlsxBook) Rows(sheet string) ([][]string, error) {
	return b.f.GetRows(sheet)
}

type xlsBook struct {
	wb *xls.WorkBook
}

func openXLS(data []byte) (*xlsBook, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	return &xlsBook{wb: wb}, nil
}

func (b *xlsBook) Format() Format { return FormatXLS }
func (b *xlsBook) Close() error   { return nil }

func (b *xlsBook) Sheets() []string {
	names := make([]string, 0, b.wb.NumSheets())
	for i := 0; i < b.wb.NumSheets(); i++ {
		if s := b.wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

func (b *xlsBook) Rows(sheet string) ([][]string, error) {
	for i := 0; i < b.wb.NumSheets(); i++ {
		s := b.wb.GetSheet(i)
		if s == nil || s.Name != sheet {
			continue
		}
		var rows [][]string
		// MaxRow is the index of the last row, so an empty sheet still
		// reports 0 with no row behind it.
		for r := 0; r <= int(s.MaxRow); r++ {
			row := s.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		return trimTrailingEmpty(rows), nil
	}
	return nil, types.ErrSheetNotFound
}

// trimTrailingEmpty drops blank rows at the end of a grid.
func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}
