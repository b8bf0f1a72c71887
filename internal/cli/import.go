package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/importer"
	"github.com/mesh-intelligence/notebook/internal/present"
	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

type importFlags struct {
	sheet    string
	category string
	preview  bool
	sheets   bool
	noHeader bool
}

func newImportCmd(a *app) *cobra.Command {
	var f importFlags
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a spreadsheet (.csv, .xlsx, .xls) into a category",
		Long: `Import reads one sheet of a spreadsheet. The first row names the columns;
each later row becomes a record. The records go into the category named by
--category, or by the sheet when no category is given. A missing category is
created with the sheet's columns. An existing category must already have
every imported column; otherwise nothing is imported.

With --no-header every row is data and columns map by position onto the
fields of the existing --category.`,
		Example: `  notebook import contacts.csv
  notebook import budget.xlsx --sheets
  notebook import budget.xlsx --sheet "2024" --category Budget --preview`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			name := filepath.Base(path)
			opts := importer.Options{Sheet: f.sheet}

			switch {
			case f.sheets:
				data, err := readFile(path)
				if err != nil {
					return err
				}
				sheets, err := importer.Sheets(name, data)
				if err != nil {
					return err
				}
				return a.printSheets(cmd.OutOrStdout(), sheets)
			case f.preview:
				data, err := readFile(path)
				if err != nil {
					return err
				}
				res, err := importer.Preview(name, data, opts)
				if err != nil {
					return err
				}
				return a.printPreview(cmd.OutOrStdout(), res)
			case f.noHeader:
				if f.category == "" {
					return fmt.Errorf("--no-header requires --category")
				}
				return a.importWithSchema(cmd, path, opts, f.category)
			}

			file, err := os.Open(path)
			if err != nil {
				return sysErr(fmt.Errorf("open %s: %w", path, err))
			}
			defer file.Close()
			res, err := importer.ParseReader(cmd.Context(), name, file, opts)
			if err != nil {
				return err
			}
			target := f.category
			if target == "" {
				target = res.Sheet
			}

			var result store.ImportResult
			err = a.withNotebook(true, func(nb *store.Notebook) error {
				var err error
				result, err = nb.Import(store.ImportRequest{Name: target, Headers: res.Headers, Rows: res.Rows})
				return err
			})
			if err != nil {
				return err
			}
			return a.printImport(cmd.OutOrStdout(), res, result)
		},
	}
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "sheet to import (default: first sheet)")
	cmd.Flags().StringVar(&f.category, "category", "", "target category (default: sheet name)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "show the first rows without importing")
	cmd.Flags().BoolVar(&f.sheets, "sheets", false, "list the sheets of the file")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "treat the first row as data")
	cmd.MarkFlagsMutuallyExclusive("preview", "sheets")
	return cmd
}

func (a *app) importWithSchema(cmd *cobra.Command, path string, opts importer.Options, category string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	var (
		res    *importer.Result
		result store.ImportResult
	)
	err = a.withNotebook(true, func(nb *store.Notebook) error {
		cat, err := categoryArg(nb, category)
		if err != nil {
			return err
		}
		res, err = importer.ParseWithSchema(filepath.Base(path), data, cat.Schema.Fields, opts)
		if err != nil {
			return err
		}
		result, err = nb.Import(store.ImportRequest{Name: cat.Name, Headers: res.Headers, Rows: res.Rows})
		return err
	})
	if err != nil {
		return err
	}
	return a.printImport(cmd.OutOrStdout(), res, result)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sysErr(fmt.Errorf("read %s: %w", path, err))
	}
	return data, nil
}

func (a *app) printSheets(w io.Writer, sheets []string) error {
	if a.flags.jsonMode {
		return writeJSON(w, sheets)
	}
	for _, s := range sheets {
		fmt.Fprintln(w, s)
	}
	return nil
}

func (a *app) printPreview(w io.Writer, res *importer.Result) error {
	if a.flags.jsonMode {
		return writeJSON(w, res)
	}
	schema := types.Schema{Fields: res.Headers}
	records := make([]types.Record, len(res.Rows))
	for i, row := range res.Rows {
		records[i] = types.Record{ID: strconv.Itoa(i + 1), Values: row}
	}
	table := present.Render(schema, records)
	for i := range table.Columns {
		if i < len(res.Labels) {
			table.Columns[i].Label = res.Labels[i]
		}
	}
	fmt.Fprintf(w, "Sheet %q (%s): %d of %d rows\n", res.Sheet, res.Format, len(res.Rows), res.Total)
	return present.WriteText(w, table)
}

// importSummary is the JSON form of a committed import.
type importSummary struct {
	Sheet    string         `json:"sheet"`
	Category types.Category `json:"category"`
	Created  bool           `json:"created"`
	Records  int            `json:"records"`
}

func (a *app) printImport(w io.Writer, res *importer.Result, result store.ImportResult) error {
	a.logger.Info("import finished", "sheet", res.Sheet, "category", result.Category.Name, "records", len(result.Records))
	if a.flags.jsonMode {
		return writeJSON(w, importSummary{
			Sheet:    res.Sheet,
			Category: result.Category,
			Created:  result.Created,
			Records:  len(result.Records),
		})
	}
	verb := "into existing category"
	if result.Created {
		verb = "into new category"
	}
	fmt.Fprintf(w, "Imported %d record(s) from sheet %q %s %s\n", len(result.Records), res.Sheet, verb, result.Category.Name)
	return nil
}
