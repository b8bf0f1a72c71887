package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		newCategoryCreateCmd(a),
		newCategoryListCmd(a),
		newCategoryRenameCmd(a),
		newCategoryDeleteCmd(a),
	)
	return cmd
}

func newCategoryCreateCmd(a *app) *cobra.Command {
	var icon, template, fields string
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a category",
		Long: `Create a category from a template or from a list of field labels.
The name may be omitted when --template is given.`,
		Example: `  notebook category create Books --icon Lightbulb --fields "Title,Author,Read On"
  notebook category create --template Tasks
  notebook category create Chores --template Tasks`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec store.CategorySpec
			if template != "" {
				set, err := a.templates()
				if err != nil {
					return err
				}
				t, err := set.Get(template)
				if err != nil {
					return err
				}
				spec = t.Spec()
			}
			if len(args) == 1 {
				spec.Name = args[0]
			}
			if icon != "" {
				spec.Icon = icon
			}
			if f := parseFieldList(fields); f != nil {
				spec.Fields = f
			}
			if spec.Name == "" {
				return fmt.Errorf("a name or --template is required")
			}

			var cat types.Category
			err := a.withNotebook(true, func(nb *store.Notebook) error {
				var err error
				cat, err = nb.CreateCategory(spec)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), cat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s) with fields: %s\n",
				cat.Name, cat.Icon, joinFieldIDs(cat.Schema.Fields))
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "icon token ("+strings.Join(types.Icons, ", ")+")")
	cmd.Flags().StringVar(&template, "template", "", "start from the named template")
	cmd.Flags().StringVar(&fields, "fields", "", "comma-separated field labels")
	return cmd
}

// categorySummary is a category with its record count.
type categorySummary struct {
	types.Category
	Records int `json:"records"`
}

func newCategoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories in creation order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries := []categorySummary{}
			err := a.withNotebook(false, func(nb *store.Notebook) error {
				for _, c := range nb.Categories() {
					records, err := nb.List(c.ID)
					if err != nil {
						return err
					}
					summaries = append(summaries, categorySummary{Category: c, Records: len(records)})
				}
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tICON\tRECORDS\tFIELDS")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Name, s.Icon, s.Records, joinFieldIDs(s.Schema.Fields))
			}
			return tw.Flush()
		},
	}
}

func newCategoryRenameCmd(a *app) *cobra.Command {
	var icon string
	cmd := &cobra.Command{
		Use:   "rename <category> [new-name]",
		Short: "Rename a category or change its icon",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 2 {
				name = args[1]
			}
			var cat types.Category
			err := a.withNotebook(true, func(nb *store.Notebook) error {
				c, err := categoryArg(nb, args[0])
				if err != nil {
					return err
				}
				cat, err = nb.RenameCategory(c.ID, name, icon)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), cat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed category to %s (%s)\n", cat.Name, cat.Icon)
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "new icon token (default: keep the current icon)")
	return cmd
}

func newCategoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <category>",
		Aliases: []string{"rm"},
		Short:   "Delete a category and all of its records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat types.Category
			err := a.withNotebook(true, func(nb *store.Notebook) error {
				var err error
				if cat, err = categoryArg(nb, args[0]); err != nil {
					return err
				}
				return nb.DeleteCategory(cat.ID)
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"deleted": cat.ID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", cat.Name)
			return nil
		},
	}
}

func joinFieldIDs(fields []types.FieldID) string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = string(f)
	}
	return strings.Join(labels, ", ")
}
