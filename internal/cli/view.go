package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/present"
	"github.com/mesh-intelligence/notebook/internal/query"
	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		search  string
		filters []string
		sortBy  string
		desc    bool
	)
	cmd := &cobra.Command{
		Use:   "view <category>",
		Short: "Show the records of a category as a table",
		Long: `View prints the visible columns of a category. --search matches any visible
field; each --filter field=text narrows one column. Both are substring
matches that ignore case. --sort orders by one field, numerically when every
value in it is a number; records without a value come last.`,
		Example: `  notebook view Tasks --search report --sort "Due Date"
  notebook view Contacts --filter company=acme --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var table present.Table
			err := a.withNotebook(false, func(nb *store.Notebook) error {
				cat, err := categoryArg(nb, args[0])
				if err != nil {
					return err
				}
				filter := types.FilterState{}.WithSearch(search)
				for _, f := range filters {
					key, text, ok := strings.Cut(f, "=")
					if !ok {
						return fmt.Errorf("expected --filter field=text, got %q", f)
					}
					field, err := fieldArg(cat.Schema, strings.TrimSpace(key))
					if err != nil {
						return err
					}
					filter = filter.WithColumn(field, text)
				}
				var sorting types.SortState
				if sortBy != "" {
					field, err := fieldArg(cat.Schema, sortBy)
					if err != nil {
						return err
					}
					sorting = sorting.Toggle(field)
					if desc {
						sorting = sorting.Toggle(field)
					}
				}
				records, err := nb.List(cat.ID)
				if err != nil {
					return err
				}
				a.logger.Debug("view", "category", cat.Name, "records", len(records),
					"search", filter.Search, "filters", len(filter.Active()), "sort", sorting.Key)
				table = present.Render(cat.Schema, query.View(records, cat.Schema, filter, sorting))
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return present.WriteJSON(cmd.OutOrStdout(), table)
			}
			return present.WriteText(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "text to find in any visible field")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "field=text column filter (repeatable)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "field to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")
	return cmd
}
