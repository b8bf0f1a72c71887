// Package importer parses spreadsheet files into a header list and a batch
// of raw records. It never touches a notebook: committing the batch is the
// job of store.Notebook.Import.
//
// Full imports, previews and header-less parses share one parse path, so a
// preview always maps columns exactly as the import will.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// PreviewRows is the number of data rows a preview returns.
const PreviewRows = 5

// Options selects what to read from a workbook.
type Options struct {
	// Sheet names the sheet to read. Empty selects the first sheet.
	// Matching falls back to a case-insensitive comparison.
	Sheet string
}

// Result is a parsed sheet.
type Result struct {
	Format  Format            `json:"format"`
	Sheet   string            `json:"sheet"`
	Sheets  []string          `json:"sheets"`
	Headers []types.FieldID   `json:"headers"`
	Labels  []string          `json:"labels"` // header text as written in the sheet
	Rows    []types.RawRecord `json:"rows"`
	Total   int               `json:"total"` // data rows before any preview truncation
}

// Parse reads the selected sheet of a workbook. The first row supplies the
// column labels; every later non-blank row becomes one raw record.
// Returns a *types.UnsupportedFormatError for unrecognised files, a
// *types.EmptySheetError when the sheet has no rows and
// types.ErrSheetNotFound for an unknown sheet name.
func Parse(filename string, data []byte, opts Options) (*Result, error) {
	res, grid, err := open(filename, data, opts)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, &types.EmptySheetError{Sheet: res.Sheet}
	}
	res.Labels, res.Headers = inferHeaders(grid[0])
	res.Rows = toRecords(res.Headers, grid[1:])
	res.Total = len(res.Rows)
	return res, nil
}

// ParseWithSchema reads the selected sheet using headers as the column
// mapping, by position. Every row is data, so an empty sheet yields an
// empty batch rather than an error.
func ParseWithSchema(filename string, data []byte, headers []types.FieldID, opts Options) (*Result, error) {
	schema, err := types.NewSchema(headers...)
	if err != nil {
		return nil, fmt.Errorf("import headers: %w", err)
	}
	res, grid, err := open(filename, data, opts)
	if err != nil {
		return nil, err
	}
	res.Headers = schema.Fields
	res.Labels = make([]string, len(headers))
	for i, h := range headers {
		res.Labels[i] = types.FieldLabel(h)
	}
	res.Rows = toRecords(res.Headers, grid)
	res.Total = len(res.Rows)
	return res, nil
}

// Preview parses like Parse and keeps only the first PreviewRows rows.
// Result.Total still reports the full row count.
func Preview(filename string, data []byte, opts Options) (*Result, error) {
	res, err := Parse(filename, data, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Rows) > PreviewRows {
		res.Rows = res.Rows[:PreviewRows]
	}
	return res, nil
}

// Sheets lists the sheet names of a workbook in file order.
func Sheets(filename string, data []byte) ([]string, error) {
	wb, err := openWorkbook(filename, data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Sheets(), nil
}

// ParseReader reads the whole file from r and then parses it. Reading is
// the only step that can block; ctx is checked before and after it.
func ParseReader(ctx context.Context, filename string, r io.Reader, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(filename, data, opts)
}

// open resolves the format and sheet and returns the raw cell grid.
func open(filename string, data []byte, opts Options) (*Result, [][]string, error) {
	wb, err := openWorkbook(filename, data)
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close()

	sheets := wb.Sheets()
	sheet, err := selectSheet(sheets, opts.Sheet)
	if err != nil {
		return nil, nil, err
	}
	grid, err := wb.Rows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return &Result{Format: wb.Format(), Sheet: sheet, Sheets: sheets}, grid, nil
}
